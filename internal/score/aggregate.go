package score

import "github.com/ppiankov/annoteval/internal/model"

// Aggregate combines per-document scores into corpus-level metrics.
//
// Counts are summed and ratios are re-weighted by the count they were
// computed over: attribute accuracies by TP, evidence coverage by TP+FP.
// Averaging per-document ratios would over-weight small documents.
func Aggregate(scores []model.DocumentScore) model.CorpusSummary {
	var (
		totals           model.Counts
		polarityCorrect  float64
		bucketCorrect    float64
		groundedEvidence float64
	)
	byDomain := make(map[model.Domain]model.Counts)

	for _, s := range scores {
		c := s.Counts()
		totals = totals.Add(c)

		polarityCorrect += s.PolarityAccuracy * float64(c.TP)
		bucketCorrect += s.BucketAccuracy * float64(c.TP)
		groundedEvidence += s.EvidenceCoverageRate * float64(c.Predicted())

		for d, dc := range s.ByDomain {
			byDomain[d] = byDomain[d].Add(dc)
		}
	}

	return model.CorpusSummary{
		OverallPrecision:            totals.Precision(),
		OverallRecall:               totals.Recall(),
		OverallF1:                   totals.F1(),
		OverallPolarityAccuracy:     weighted(polarityCorrect, totals.TP),
		OverallBucketAccuracy:       weighted(bucketCorrect, totals.TP),
		OverallEvidenceCoverageRate: weighted(groundedEvidence, totals.Predicted()),

		Documents: len(scores),
		Totals:    totals,
		ByDomain:  byDomain,
	}
}

func weighted(sum float64, weight int) float64 {
	if weight <= 0 {
		return 0.0
	}
	return sum / float64(weight)
}
