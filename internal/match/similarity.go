// Package match aligns predicted annotations with gold annotations.
package match

import (
	"strings"

	"golang.org/x/text/cases"
)

// Similarity returns the Jaccard index of the case-folded whitespace token
// sets of a and b. Two spans with no tokens are a perfect match.
func Similarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}

// tokenSet folds case and splits on whitespace. A Caser is stateful, so one
// is built per call.
func tokenSet(s string) map[string]struct{} {
	folded := cases.Fold().String(s)
	fields := strings.Fields(folded)

	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
