package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharacterDistanceIdentity(t *testing.T) {
	for _, s := range []string{"", "a", "hello world", "the quick fox", "üñïçødé"} {
		assert.Equal(t, 0, CharacterDistance(s, s), "distance of %q to itself", s)
	}
}

func TestCharacterDistanceAgainstEmpty(t *testing.T) {
	cases := []struct {
		s    string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"hello world", 11},
		{"üñï", 3}, // code points, not bytes
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CharacterDistance(tc.s, ""), "d(%q, \"\")", tc.s)
		assert.Equal(t, tc.want, CharacterDistance("", tc.s), "d(\"\", %q)", tc.s)
	}
}

func TestCharacterDistance(t *testing.T) {
	cases := []struct {
		ref  string
		hyp  string
		want int
	}{
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"abc", "abc", 0},
		{"abc", "axc", 1},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CharacterDistance(tc.ref, tc.hyp))
	}
}

func TestWordsIdentical(t *testing.T) {
	a := Words("the quick fox", "the quick fox")

	assert.Equal(t, 0, a.Substitutions)
	assert.Equal(t, 0, a.Deletions)
	assert.Equal(t, 0, a.Insertions)
	assert.Equal(t, 3, a.Correct)
}

func TestWordsEmptyHypothesis(t *testing.T) {
	a := Words("hello world", "")

	assert.Equal(t, 2, a.Deletions)
	assert.Equal(t, 0, a.Insertions)
	assert.Equal(t, 0, a.Substitutions)
	assert.Equal(t, 0, a.Correct)
}

func TestWordsEmptyReference(t *testing.T) {
	a := Words("", "three extra tokens")

	assert.Equal(t, 0, a.Substitutions)
	assert.Equal(t, 0, a.Deletions)
	assert.Equal(t, 0, a.Correct)
	assert.Equal(t, 3, a.Insertions)
}

func TestWordsCountInvariant(t *testing.T) {
	cases := []struct {
		ref string
		hyp string
	}{
		{"the quick brown fox", "the quick brown fox"},
		{"the quick brown fox", "the quack fox jumps high"},
		{"a b c d e", "e d c b a"},
		{"one two three", ""},
		{"", "a b"},
		{"repeated repeated repeated", "repeated"},
	}

	for _, tc := range cases {
		a := Words(tc.ref, tc.hyp)
		refTokens := len(Tokens(tc.ref))
		assert.Equal(t, refTokens, a.Correct+a.Substitutions+a.Deletions,
			"invariant for ref=%q hyp=%q", tc.ref, tc.hyp)
	}
}

func TestWordsClassification(t *testing.T) {
	// "the" and "fox" survive; one of quick/brown is substituted by
	// "quack" and the other deleted; "jumps" is inserted.
	a := Words("the quick brown fox", "the quack fox jumps")

	assert.Equal(t, 2, a.Correct)
	assert.Equal(t, 1, a.Substitutions)
	assert.Equal(t, 1, a.Deletions)
	assert.Equal(t, 1, a.Insertions)
}

func TestAlignmentDistance(t *testing.T) {
	a := Alignment{Substitutions: 2, Deletions: 1, Insertions: 3, Correct: 7}
	assert.Equal(t, 6, a.Distance())
}
