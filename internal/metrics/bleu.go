package metrics

import (
	"math"
	"strings"

	"github.com/adverant/nexus/ocrbench-worker/internal/align"
)

// bleuMaxOrder is the highest n-gram order used for sentence BLEU.
const bleuMaxOrder = 4

// bleuEpsilon replaces zero n-gram match counts so that a single missing
// higher-order match does not zero out the whole score.
const bleuEpsilon = 0.1

// SentenceBLEU computes a smoothed sentence-level BLEU score with uniform
// 1..4-gram weights, treating the whitespace-tokenized reference as the
// single reference sentence and the hypothesis as the candidate. The result
// is in [0, 1].
func SentenceBLEU(reference, hypothesis string) float64 {
	ref := align.Tokens(reference)
	hyp := align.Tokens(hypothesis)

	if len(hyp) == 0 {
		return 0.0
	}

	logSum := 0.0
	weight := 1.0 / float64(bleuMaxOrder)

	for n := 1; n <= bleuMaxOrder; n++ {
		matched, total := modifiedPrecision(ref, hyp, n)

		p := float64(matched)
		if matched == 0 {
			p = bleuEpsilon
		}
		logSum += weight * math.Log(p/float64(max(1, total)))
	}

	// Brevity penalty
	bp := 1.0
	if len(hyp) < len(ref) {
		bp = math.Exp(1.0 - float64(len(ref))/float64(len(hyp)))
	}

	return bp * math.Exp(logSum)
}

// modifiedPrecision returns the clipped n-gram match count and the total
// number of hypothesis n-grams of the given order.
func modifiedPrecision(ref, hyp []string, n int) (matched, total int) {
	hypCounts := ngramCounts(hyp, n)
	refCounts := ngramCounts(ref, n)

	for gram, count := range hypCounts {
		total += count
		if rc := refCounts[gram]; rc < count {
			matched += rc
		} else {
			matched += count
		}
	}

	return matched, total
}

func ngramCounts(tokens []string, n int) map[string]int {
	counts := make(map[string]int)
	for i := 0; i+n <= len(tokens); i++ {
		counts[strings.Join(tokens[i:i+n], "\x1f")]++
	}
	return counts
}
