package metrics

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

// RougeL computes the ROUGE-L F1 score between reference and hypothesis:
// the longest-common-subsequence overlap of their token sequences, with
// lowercasing, punctuation stripping and stemming applied before matching.
// The result is in [0, 1].
func RougeL(reference, hypothesis string) float64 {
	ref := rougeTokens(reference)
	hyp := rougeTokens(hypothesis)

	if len(ref) == 0 || len(hyp) == 0 {
		return 0.0
	}

	lcs := lcsLength(ref, hyp)

	precision := float64(lcs) / float64(len(hyp))
	recall := float64(lcs) / float64(len(ref))

	if precision+recall == 0 {
		return 0.0
	}
	return 2.0 * precision * recall / (precision + recall)
}

// rougeTokens lowercases, strips non-alphanumeric runes and stems tokens.
// Tokens of up to three characters are kept unstemmed, matching the common
// ROUGE normalization.
func rougeTokens(s string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)

	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 3 {
			f = english.Stem(f, false)
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func lcsLength(a, b []string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}

	return prev[len(b)]
}
