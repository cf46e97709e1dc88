package match

import (
	"sort"

	"github.com/ppiankov/annoteval/internal/model"
)

// Result is the alignment of one document's predictions against its gold set
type Result struct {
	Pairs          []model.MatchedPair
	FalsePositives []model.Annotation // unmatched predictions, in input order
	FalseNegatives []model.Annotation // unmatched gold, in input order
}

// candidate is a same-domain (gold, predicted) pair above the threshold
type candidate struct {
	weight float64
	gold   int
	pred   int
}

// Match aligns predicted to gold annotations greedily by evidence similarity.
//
// Candidates are same-domain pairs whose similarity is at least threshold.
// They are sorted by similarity descending, ties kept in generation order
// (gold outer, predicted inner), and committed while neither side is taken.
// This is not an optimal bipartite matching and must stay that way: scores
// depend on the exact commit order.
func Match(gold, predicted []model.Annotation, threshold float64) Result {
	var candidates []candidate
	for i, g := range gold {
		for j, p := range predicted {
			if g.Domain != p.Domain {
				continue
			}
			sim := Similarity(g.EvidenceSpan, p.EvidenceSpan)
			if sim >= threshold {
				candidates = append(candidates, candidate{weight: sim, gold: i, pred: j})
			}
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].weight > candidates[b].weight
	})

	goldUsed := make([]bool, len(gold))
	predUsed := make([]bool, len(predicted))

	var res Result
	for _, c := range candidates {
		if goldUsed[c.gold] || predUsed[c.pred] {
			continue
		}
		goldUsed[c.gold] = true
		predUsed[c.pred] = true
		res.Pairs = append(res.Pairs, model.MatchedPair{
			Gold:       gold[c.gold],
			Predicted:  predicted[c.pred],
			Similarity: c.weight,
		})
	}

	for j, p := range predicted {
		if !predUsed[j] {
			res.FalsePositives = append(res.FalsePositives, p)
		}
	}
	for i, g := range gold {
		if !goldUsed[i] {
			res.FalseNegatives = append(res.FalseNegatives, g)
		}
	}

	return res
}
