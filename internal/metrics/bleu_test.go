package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentenceBLEUIdentical(t *testing.T) {
	// Long enough that all four n-gram orders have matches.
	s := "the quick brown fox jumps over the lazy dog"
	assert.InDelta(t, 1.0, SentenceBLEU(s, s), 1e-9)
}

func TestSentenceBLEUEmptyHypothesis(t *testing.T) {
	assert.Equal(t, 0.0, SentenceBLEU("some reference text", ""))
}

func TestSentenceBLEUSmoothingAvoidsZero(t *testing.T) {
	// A short identical pair has no 4-grams at all; smoothing keeps the
	// score positive instead of collapsing it to zero.
	score := SentenceBLEU("the quick fox", "the quick fox")
	assert.Greater(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestSentenceBLEUOrdering(t *testing.T) {
	ref := "the quick brown fox jumps over the lazy dog"
	nearMiss := SentenceBLEU(ref, "the quick brown fox jumps over a lazy dog")
	offTopic := SentenceBLEU(ref, "completely different words without any overlap here at all")

	assert.Greater(t, nearMiss, offTopic)
}

func TestSentenceBLEUBrevityPenalty(t *testing.T) {
	ref := "one two three four five six seven eight"
	full := SentenceBLEU(ref, ref)
	truncated := SentenceBLEU(ref, "one two three four five")

	assert.Less(t, truncated, full)
}

func TestModifiedPrecisionClipping(t *testing.T) {
	// "the" appears twice in the reference; a hypothesis repeating it four
	// times only gets credit for two.
	matched, total := modifiedPrecision(
		[]string{"the", "cat", "the", "mat"},
		[]string{"the", "the", "the", "the"},
		1,
	)

	assert.Equal(t, 2, matched)
	assert.Equal(t, 4, total)
}
