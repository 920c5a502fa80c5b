// Package diff computes word-level diffs between original and edited text.
package diff

import "strings"

// OpKind classifies one aligned token.
type OpKind int

// Alignment op kinds.
const (
	OpEqual OpKind = iota
	OpDelete
	OpInsert
)

// Op is a single tagged token in an alignment.
type Op struct {
	Kind  OpKind
	Token string
}

// Tokenize splits text into words by whitespace. No normalization is
// applied; punctuation and case are part of the token.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// Align computes a word-level LCS alignment between the original and edited
// text. The returned ops cover every token of both sides exactly once:
// equal tokens appear once, tokens only in the original are tagged delete,
// tokens only in the edited text are tagged insert. Within a divergent
// region deletions are emitted before insertions. Output is deterministic
// for a given input pair.
func Align(original, edited string) []Op {
	a := Tokenize(original)
	b := Tokenize(edited)

	// lcs[i][j] = LCS length of a[i:] and b[j:].
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	ops := make([]Op, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			ops = append(ops, Op{Kind: OpEqual, Token: a[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			ops = append(ops, Op{Kind: OpDelete, Token: a[i]})
			i++
		default:
			ops = append(ops, Op{Kind: OpInsert, Token: b[j]})
			j++
		}
	}
	for ; i < len(a); i++ {
		ops = append(ops, Op{Kind: OpDelete, Token: a[i]})
	}
	for ; j < len(b); j++ {
		ops = append(ops, Op{Kind: OpInsert, Token: b[j]})
	}
	return ops
}

// CountOps tallies insertions and deletions over an alignment.
func CountOps(ops []Op) (insertions, deletions int) {
	for _, op := range ops {
		switch op.Kind {
		case OpInsert:
			insertions++
		case OpDelete:
			deletions++
		}
	}
	return insertions, deletions
}

// CountEdits computes insertion and deletion counts for an edit pair. A
// token moved without change counts as one deletion plus one insertion;
// there is no move detection. The counts are an effort proxy, not a
// minimal edit script.
func CountEdits(original, edited string) (insertions, deletions int) {
	return CountOps(Align(original, edited))
}
