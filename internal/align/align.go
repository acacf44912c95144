/**
 * Text alignment for OCR accuracy scoring
 *
 * Computes the minimum-edit-distance alignments that the metrics engine is
 * built on: Levenshtein distance over code points and a token-level
 * alignment classified into substitutions, deletions, insertions and
 * correct matches.
 *
 * No normalization (trimming, casing) is applied here; callers decide the
 * normalization boundary.
 */

package align

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Alignment holds the token-level edit-operation counts between a reference
// and a hypothesis. Invariant: Correct + Substitutions + Deletions equals
// the reference token count; Insertions is counted separately.
type Alignment struct {
	Substitutions int
	Deletions     int
	Insertions    int
	Correct       int
}

// CharacterDistance returns the Levenshtein distance between reference and
// hypothesis over code points, with unit cost for insert, delete and
// substitute.
func CharacterDistance(reference, hypothesis string) int {
	return levenshtein.ComputeDistance(reference, hypothesis)
}

// Tokens splits a string on whitespace. Empty and blank strings yield no
// tokens.
func Tokens(s string) []string {
	return strings.Fields(s)
}

// Words computes the minimum-cost edit alignment between the
// whitespace-tokenized reference and hypothesis.
func Words(reference, hypothesis string) Alignment {
	return AlignTokens(Tokens(reference), Tokens(hypothesis))
}

type editOp uint8

const (
	opNone editOp = iota
	opMatch
	opSubstitute
	opDelete
	opInsert
)

// AlignTokens computes the minimum-cost edit alignment between two token
// sequences and classifies every edit operation. Among equal-cost
// alignments the one with the most correct matches is chosen, so equal
// tokens are never reported as a substitution when a cheaper-to-read
// delete/insert alignment exists at the same cost.
func AlignTokens(ref, hyp []string) Alignment {
	n := len(ref)
	m := len(hyp)

	// d[i][j] = edit distance between ref[:i] and hyp[:j]
	// c[i][j] = max correct matches over min-cost paths to (i, j)
	d := make([][]int, n+1)
	c := make([][]int, n+1)
	ops := make([][]editOp, n+1)
	for i := range d {
		d[i] = make([]int, m+1)
		c[i] = make([]int, m+1)
		ops[i] = make([]editOp, m+1)
		d[i][0] = i
		ops[i][0] = opDelete
	}
	for j := 1; j <= m; j++ {
		d[0][j] = j
		ops[0][j] = opInsert
	}
	ops[0][0] = opNone

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			diagCost := 1
			diagMatch := 0
			diagOp := opSubstitute
			if ref[i-1] == hyp[j-1] {
				diagCost = 0
				diagMatch = 1
				diagOp = opMatch
			}

			d[i][j] = min3(
				d[i-1][j-1]+diagCost,
				d[i-1][j]+1, // deletion
				d[i][j-1]+1, // insertion
			)

			bestCorrect := -1
			if d[i-1][j-1]+diagCost == d[i][j] {
				bestCorrect = c[i-1][j-1] + diagMatch
				ops[i][j] = diagOp
			}
			if d[i-1][j]+1 == d[i][j] && c[i-1][j] > bestCorrect {
				bestCorrect = c[i-1][j]
				ops[i][j] = opDelete
			}
			if d[i][j-1]+1 == d[i][j] && c[i][j-1] > bestCorrect {
				bestCorrect = c[i][j-1]
				ops[i][j] = opInsert
			}
			c[i][j] = bestCorrect
		}
	}

	var out Alignment
	for i, j := n, m; i > 0 || j > 0; {
		switch ops[i][j] {
		case opMatch:
			out.Correct++
			i--
			j--
		case opSubstitute:
			out.Substitutions++
			i--
			j--
		case opDelete:
			out.Deletions++
			i--
		case opInsert:
			out.Insertions++
			j--
		}
	}

	return out
}

// Distance returns the total number of edit operations in the alignment.
func (a Alignment) Distance() int {
	return a.Substitutions + a.Deletions + a.Insertions
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
