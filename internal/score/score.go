// Package score computes translation quality metrics against references.
package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/acastaldi/pedit/internal/model"
)

const (
	bleuMaxOrder = 4
	chrfMaxOrder = 6
	chrfBeta     = 2.0
)

// MismatchedLengthError reports unequal reference and hypothesis counts.
// Scoring requires aligned sequences; partial scoring is never attempted.
type MismatchedLengthError struct {
	References int
	Hypotheses int
}

func (e *MismatchedLengthError) Error() string {
	return fmt.Sprintf("reference count (%d) does not match hypothesis count (%d)", e.References, e.Hypotheses)
}

// Score computes corpus-level BLEU, chrF, and TER for aligned reference
// and hypothesis sequences. All scores are on a 0-100 scale; lower is
// better only for TER.
func Score(references, hypotheses []string) (model.Scores, error) {
	if len(references) != len(hypotheses) {
		return model.Scores{}, &MismatchedLengthError{References: len(references), Hypotheses: len(hypotheses)}
	}
	if len(references) == 0 {
		return model.Scores{}, fmt.Errorf("nothing to score")
	}
	return model.Scores{
		BLEU: BLEU(references, hypotheses),
		ChrF: ChrF(references, hypotheses),
		TER:  TER(references, hypotheses),
	}, nil
}

// BLEU computes corpus-level BLEU with n-grams up to order 4, exponential
// smoothing for zero match counts, and a brevity penalty.
func BLEU(references, hypotheses []string) float64 {
	matches := make([]int, bleuMaxOrder)
	totals := make([]int, bleuMaxOrder)
	refLen, hypLen := 0, 0

	for i := range hypotheses {
		ref := strings.Fields(references[i])
		hyp := strings.Fields(hypotheses[i])
		refLen += len(ref)
		hypLen += len(hyp)
		for n := 1; n <= bleuMaxOrder; n++ {
			refCounts := ngramCounts(ref, n)
			hypCounts := ngramCounts(hyp, n)
			for gram, count := range hypCounts {
				totals[n-1] += count
				if rc, ok := refCounts[gram]; ok {
					if count < rc {
						matches[n-1] += count
					} else {
						matches[n-1] += rc
					}
				}
			}
		}
	}

	if totals[0] == 0 {
		return 0
	}

	logSum := 0.0
	smooth := 1.0
	for n := 0; n < bleuMaxOrder; n++ {
		if totals[n] == 0 {
			// Hypotheses shorter than the order contribute nothing.
			continue
		}
		var precision float64
		if matches[n] > 0 {
			precision = float64(matches[n]) / float64(totals[n])
		} else {
			smooth *= 2
			precision = 1.0 / (smooth * float64(totals[n]))
		}
		logSum += math.Log(precision)
	}
	geoMean := math.Exp(logSum / float64(bleuMaxOrder))

	brevity := 1.0
	if hypLen < refLen {
		brevity = math.Exp(1.0 - float64(refLen)/float64(hypLen))
	}
	return 100 * brevity * geoMean
}

// ChrF computes the corpus-level character n-gram F-score (orders 1-6,
// beta 2). Whitespace is excluded from the n-grams.
func ChrF(references, hypotheses []string) float64 {
	var fSum float64
	orders := 0
	for n := 1; n <= chrfMaxOrder; n++ {
		var matched, hypTotal, refTotal int
		for i := range hypotheses {
			refCounts := charNgramCounts(references[i], n)
			hypCounts := charNgramCounts(hypotheses[i], n)
			for gram, count := range hypCounts {
				hypTotal += count
				if rc, ok := refCounts[gram]; ok {
					if count < rc {
						matched += count
					} else {
						matched += rc
					}
				}
			}
			for _, count := range refCounts {
				refTotal += count
			}
		}
		if hypTotal == 0 && refTotal == 0 {
			continue
		}
		orders++
		if matched == 0 {
			continue
		}
		precision := float64(matched) / float64(hypTotal)
		recall := float64(matched) / float64(refTotal)
		beta2 := chrfBeta * chrfBeta
		fSum += (1 + beta2) * precision * recall / (beta2*precision + recall)
	}
	if orders == 0 {
		return 0
	}
	return 100 * fSum / float64(orders)
}

// TER computes the translation edit rate: word-level edit operations
// (substitutions, insertions, deletions) over total reference length.
// Shifts are not modeled, so the score is an upper bound on shift-aware
// TER.
func TER(references, hypotheses []string) float64 {
	var edits, refLen int
	for i := range hypotheses {
		ref := strings.Fields(references[i])
		hyp := strings.Fields(hypotheses[i])
		edits += editDistance(ref, hyp)
		refLen += len(ref)
	}
	if refLen == 0 {
		return 0
	}
	return 100 * float64(edits) / float64(refLen)
}

func ngramCounts(tokens []string, n int) map[string]int {
	if len(tokens) < n {
		return nil
	}
	counts := make(map[string]int, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		counts[strings.Join(tokens[i:i+n], "\x1f")]++
	}
	return counts
}

func charNgramCounts(text string, n int) map[string]int {
	runes := make([]rune, 0, len(text))
	for _, r := range text {
		if r == ' ' || r == '\t' {
			continue
		}
		runes = append(runes, r)
	}
	if len(runes) < n {
		return nil
	}
	counts := make(map[string]int, len(runes)-n+1)
	for i := 0; i+n <= len(runes); i++ {
		counts[string(runes[i:i+n])]++
	}
	return counts
}

func editDistance(a, b []string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func minInt(values ...int) int {
	out := values[0]
	for _, v := range values[1:] {
		if v < out {
			out = v
		}
	}
	return out
}
