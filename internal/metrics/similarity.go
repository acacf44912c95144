package metrics

import (
	"strings"

	"github.com/adrg/strutil"
	smetrics "github.com/adrg/strutil/metrics"
)

// FuzzRatio returns a normalized fuzzy similarity between reference and
// hypothesis in [0, 1]. It uses a bigram Sørensen–Dice coefficient, which
// tolerates token reordering better than edit distance and complements the
// CER/WER signals.
func FuzzRatio(reference, hypothesis string) float64 {
	a := strings.TrimSpace(reference)
	b := strings.TrimSpace(hypothesis)

	if a == b {
		return 1.0
	}
	// Bigram similarity is undefined below two code points.
	if len([]rune(a)) < 2 || len([]rune(b)) < 2 {
		return 0.0
	}

	dice := smetrics.NewSorensenDice()
	dice.CaseSensitive = true
	dice.NgramSize = 2

	return strutil.Similarity(a, b, dice)
}
