package score

import (
	"strings"

	"github.com/ppiankov/annoteval/internal/match"
	"github.com/ppiankov/annoteval/internal/model"
)

// Scorer derives per-document metrics from a gold/prediction alignment
type Scorer struct {
	threshold float64
}

// NewScorer creates a scorer that matches at the given similarity threshold
func NewScorer(threshold float64) *Scorer {
	return &Scorer{threshold: threshold}
}

// Threshold returns the similarity threshold used for matching
func (s *Scorer) Threshold() float64 {
	return s.threshold
}

// Score aligns predicted to gold for one journal entry and computes its metrics.
// Zero denominators resolve to 0.0; Score never fails.
func (s *Scorer) Score(journalID, text string, gold, predicted []model.Annotation) model.DocumentScore {
	res := match.Match(gold, predicted, s.threshold)

	counts := model.Counts{
		TP: len(res.Pairs),
		FP: len(res.FalsePositives),
		FN: len(res.FalseNegatives),
	}

	polarityCorrect, bucketCorrect := attributeAgreement(res.Pairs)

	return model.DocumentScore{
		JournalID: journalID,

		TP: counts.TP,
		FP: counts.FP,
		FN: counts.FN,

		Precision:            counts.Precision(),
		Recall:               counts.Recall(),
		F1:                   counts.F1(),
		PolarityAccuracy:     model.Ratio(polarityCorrect, counts.TP),
		BucketAccuracy:       model.Ratio(bucketCorrect, counts.TP),
		EvidenceCoverageRate: model.Ratio(groundedSpans(text, predicted), len(predicted)),

		Matches:        res.Pairs,
		FalsePositives: res.FalsePositives,
		FalseNegatives: res.FalseNegatives,

		ByDomain: domainCounts(res),
	}
}

// attributeAgreement counts matched pairs that agree on polarity and on the
// domain-appropriate bucket. Pairs always share a domain.
func attributeAgreement(pairs []model.MatchedPair) (polarity, bucket int) {
	for _, p := range pairs {
		if p.Gold.Polarity == p.Predicted.Polarity {
			polarity++
		}
		if p.Gold.UsesArousal() {
			if p.Gold.Arousal == p.Predicted.Arousal {
				bucket++
			}
		} else if p.Gold.Intensity == p.Predicted.Intensity {
			bucket++
		}
	}
	return polarity, bucket
}

// groundedSpans counts predictions whose evidence span occurs verbatim in
// the text, independent of whether they matched
func groundedSpans(text string, predicted []model.Annotation) int {
	n := 0
	for _, p := range predicted {
		if strings.Contains(text, p.EvidenceSpan) {
			n++
		}
	}
	return n
}

func domainCounts(res match.Result) map[model.Domain]model.Counts {
	by := make(map[model.Domain]model.Counts)
	for _, p := range res.Pairs {
		c := by[p.Gold.Domain]
		c.TP++
		by[p.Gold.Domain] = c
	}
	for _, a := range res.FalsePositives {
		c := by[a.Domain]
		c.FP++
		by[a.Domain] = c
	}
	for _, a := range res.FalseNegatives {
		c := by[a.Domain]
		c.FN++
		by[a.Domain] = c
	}
	return by
}
