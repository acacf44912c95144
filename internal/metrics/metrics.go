/**
 * Metrics engine for OCR benchmarking
 *
 * Turns one (reference, hypothesis) pair into the full metrics vector:
 * edit-distance error rates, derived accuracy, fuzzy similarity, BLEU and
 * ROUGE-L, plus the raw alignment counts kept for diagnostics.
 *
 * Degenerate-input policy: a reference that is empty or whitespace-only
 * yields a vector with Applicable=false and no computed fields. Partial
 * computation never happens; serializers render such vectors as a uniform
 * "not applicable" sentinel.
 */

package metrics

import (
	"strings"

	"github.com/adverant/nexus/ocrbench-worker/internal/align"
)

// Vector is the derived comparison result for one (reference, hypothesis)
// pair. When Applicable is false every other field is zero-valued and must
// not be read.
type Vector struct {
	Applicable bool

	CER          float64 // character error rate, unclamped
	WER          float64 // word error rate, unclamped
	CharAccuracy float64 // 1 - CER, may be negative
	WordAccuracy float64 // 1 - WER, may be negative

	FuzzRatio float64 // normalized fuzzy similarity in [0, 1]
	BLEU      float64 // smoothed sentence BLEU in [0, 1]
	RougeLF1  float64 // LCS-based F1 over stemmed tokens in [0, 1]

	// Raw alignment diagnostics
	LevenshteinDist int
	Substitutions   int
	Deletions       int
	Insertions      int
}

// NotApplicable is the sentinel vector reported for degenerate references.
func NotApplicable() Vector {
	return Vector{}
}

// Compute calculates the full metrics vector for a reference/hypothesis
// pair. Running it twice on the same pair yields identical results.
func Compute(reference, hypothesis string) Vector {
	if strings.TrimSpace(reference) == "" {
		return NotApplicable()
	}

	dist := align.CharacterDistance(reference, hypothesis)
	cer := float64(dist) / float64(len([]rune(reference)))

	words := align.Words(reference, hypothesis)
	refTokens := len(align.Tokens(reference))
	wer := float64(words.Distance()) / float64(max(1, refTokens))

	return Vector{
		Applicable: true,

		CER:          cer,
		WER:          wer,
		CharAccuracy: 1.0 - cer,
		WordAccuracy: 1.0 - wer,

		FuzzRatio: FuzzRatio(reference, hypothesis),
		BLEU:      SentenceBLEU(reference, hypothesis),
		RougeLF1:  RougeL(reference, hypothesis),

		LevenshteinDist: dist,
		Substitutions:   words.Substitutions,
		Deletions:       words.Deletions,
		Insertions:      words.Insertions,
	}
}
