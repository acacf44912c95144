package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDegenerateReference(t *testing.T) {
	for _, ref := range []string{"", " ", "\n\t  \n"} {
		v := Compute(ref, "some recognized text")
		assert.False(t, v.Applicable, "ref=%q must yield the sentinel vector", ref)
		assert.Equal(t, NotApplicable(), v, "sentinel vector must be uniform, never partially computed")
	}
}

func TestComputePerfectMatch(t *testing.T) {
	v := Compute("the quick fox", "the quick fox")

	require.True(t, v.Applicable)
	assert.Equal(t, 0.0, v.CER)
	assert.Equal(t, 0.0, v.WER)
	assert.Equal(t, 1.0, v.CharAccuracy)
	assert.Equal(t, 1.0, v.WordAccuracy)
	assert.Equal(t, 0, v.LevenshteinDist)
	assert.Equal(t, 0, v.Substitutions)
	assert.Equal(t, 0, v.Deletions)
	assert.Equal(t, 0, v.Insertions)
	assert.Equal(t, 1.0, v.FuzzRatio)
	assert.Equal(t, 1.0, v.RougeLF1)
}

func TestComputeEmptyHypothesis(t *testing.T) {
	v := Compute("hello world", "")

	require.True(t, v.Applicable)
	assert.Equal(t, 11, v.LevenshteinDist)
	assert.Equal(t, 1.0, v.CER)
	assert.Equal(t, 1.0, v.WER)
	assert.Equal(t, 0.0, v.CharAccuracy)
	assert.Equal(t, 0.0, v.WordAccuracy)
	assert.Equal(t, 0, v.Insertions)
	assert.Equal(t, 2, v.Deletions)
	assert.Equal(t, 0, v.Substitutions)
	assert.Equal(t, 0.0, v.BLEU)
	assert.Equal(t, 0.0, v.RougeLF1)
	assert.Equal(t, 0.0, v.FuzzRatio)
}

func TestComputeUnclampedRates(t *testing.T) {
	// A hypothesis much longer than the reference pushes CER beyond 1 and
	// character accuracy below 0. This is intentional reporting behavior.
	v := Compute("ab", "completely unrelated and much longer text")

	require.True(t, v.Applicable)
	assert.Greater(t, v.CER, 1.0)
	assert.Less(t, v.CharAccuracy, 0.0)
	assert.Greater(t, v.WER, 1.0)
	assert.Less(t, v.WordAccuracy, 0.0)
}

func TestComputeBoundedScores(t *testing.T) {
	cases := []struct {
		ref string
		hyp string
	}{
		{"the quick brown fox jumps over the lazy dog", "the quick brown fox jumps over the lazy dog"},
		{"the quick brown fox", "the quack fox jumps"},
		{"invoice number 1042", "lnvoice numbcr 1O42"},
		{"a", "b"},
		{"short reference", "a hypothesis that shares nothing with it at all"},
	}

	for _, tc := range cases {
		v := Compute(tc.ref, tc.hyp)
		require.True(t, v.Applicable)

		assert.GreaterOrEqual(t, v.BLEU, 0.0, "bleu lower bound for %q/%q", tc.ref, tc.hyp)
		assert.LessOrEqual(t, v.BLEU, 1.0, "bleu upper bound for %q/%q", tc.ref, tc.hyp)
		assert.GreaterOrEqual(t, v.RougeLF1, 0.0)
		assert.LessOrEqual(t, v.RougeLF1, 1.0)
		assert.GreaterOrEqual(t, v.FuzzRatio, 0.0)
		assert.LessOrEqual(t, v.FuzzRatio, 1.0)
	}
}

func TestComputeIdempotent(t *testing.T) {
	ref := "the quick brown fox jumps over the lazy dog"
	hyp := "the quick brown fax jumps ovr the lazy dog today"

	first := Compute(ref, hyp)
	second := Compute(ref, hyp)

	assert.Equal(t, first, second)
}

func TestComputeAlignmentInvariant(t *testing.T) {
	ref := "one two three four"
	hyp := "one too three extra tokens"

	v := Compute(ref, hyp)
	require.True(t, v.Applicable)

	correct := 4 - v.Substitutions - v.Deletions
	assert.GreaterOrEqual(t, correct, 0)
	assert.Equal(t, v.WER, float64(v.Substitutions+v.Deletions+v.Insertions)/4.0)
}
