package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/annoteval/internal/model"
)

func TestAggregate_CountWeightedPolarity(t *testing.T) {
	scores := []model.DocumentScore{
		{TP: 1, PolarityAccuracy: 1.0},
		{TP: 3, PolarityAccuracy: 0.0},
	}

	summary := Aggregate(scores)

	// a plain mean of the two ratios would be 0.5
	assert.InDelta(t, 0.25, summary.OverallPolarityAccuracy, 1e-12)
	assert.NotEqual(t, 0.5, summary.OverallPolarityAccuracy)
}

func TestAggregate_CountWeightedBucket(t *testing.T) {
	scores := []model.DocumentScore{
		{TP: 2, FN: 1, BucketAccuracy: 0.5},
		{TP: 8, FP: 2, BucketAccuracy: 1.0},
	}

	summary := Aggregate(scores)

	assert.InDelta(t, 9.0/10.0, summary.OverallBucketAccuracy, 1e-12)
}

func TestAggregate_CoverageWeightedByPredictions(t *testing.T) {
	scores := []model.DocumentScore{
		{TP: 1, FP: 0, EvidenceCoverageRate: 0.0}, // 1 prediction, 0 grounded
		{TP: 2, FP: 7, EvidenceCoverageRate: 1.0}, // 9 predictions, 9 grounded
		{FN: 4}, // no predictions
	}

	summary := Aggregate(scores)

	assert.InDelta(t, 0.9, summary.OverallEvidenceCoverageRate, 1e-12)
}

func TestAggregate_OverallPRF(t *testing.T) {
	scores := []model.DocumentScore{
		{TP: 3, FP: 1, FN: 0},
		{TP: 1, FP: 0, FN: 4},
	}

	summary := Aggregate(scores)

	assert.Equal(t, model.Counts{TP: 4, FP: 1, FN: 4}, summary.Totals)
	assert.InDelta(t, 4.0/5.0, summary.OverallPrecision, 1e-12)
	assert.InDelta(t, 4.0/8.0, summary.OverallRecall, 1e-12)
	p, r := 0.8, 0.5
	assert.InDelta(t, 2*p*r/(p+r), summary.OverallF1, 1e-12)
	assert.Equal(t, 2, summary.Documents)
}

func TestAggregate_Empty(t *testing.T) {
	for _, scores := range [][]model.DocumentScore{nil, {}, {{}, {}}} {
		summary := Aggregate(scores)
		assert.Equal(t, 0.0, summary.OverallPrecision)
		assert.Equal(t, 0.0, summary.OverallRecall)
		assert.Equal(t, 0.0, summary.OverallF1)
		assert.Equal(t, 0.0, summary.OverallPolarityAccuracy)
		assert.Equal(t, 0.0, summary.OverallBucketAccuracy)
		assert.Equal(t, 0.0, summary.OverallEvidenceCoverageRate)
	}
}

func TestAggregate_MatchesPooledScoring(t *testing.T) {
	// Aggregating two scored documents must give the same attribute
	// accuracies as counting over all their matched pairs at once.
	scorer := NewScorer(0.5)

	docA := scorer.Score("a", "ate soup, felt sad",
		[]model.Annotation{
			ann(model.DomainFood, "ate soup", model.PolarityPresent, model.BucketLow),
		},
		[]model.Annotation{
			ann(model.DomainFood, "ate soup", model.PolarityPresent, model.BucketLow),
			ann(model.DomainEmotion, "felt glad", model.PolarityPresent, model.BucketLow),
		},
	)
	docB := scorer.Score("b", "knee pain, back pain, neck pain",
		[]model.Annotation{
			ann(model.DomainSymptom, "knee pain", model.PolarityPresent, model.BucketHigh),
			ann(model.DomainSymptom, "back pain", model.PolarityPresent, model.BucketHigh),
			ann(model.DomainSymptom, "neck pain", model.PolarityPresent, model.BucketHigh),
		},
		[]model.Annotation{
			ann(model.DomainSymptom, "knee pain", model.PolarityAbsent, model.BucketLow),
			ann(model.DomainSymptom, "back pain", model.PolarityAbsent, model.BucketLow),
			ann(model.DomainSymptom, "neck pain", model.PolarityAbsent, model.BucketHigh),
		},
	)

	summary := Aggregate([]model.DocumentScore{docA, docB})

	assert.Equal(t, 4, summary.Totals.TP)
	assert.InDelta(t, 1.0/4.0, summary.OverallPolarityAccuracy, 1e-12)
	assert.InDelta(t, 2.0/4.0, summary.OverallBucketAccuracy, 1e-12)
	// docA: 1 of 2 grounded ("felt glad" is not in the text); docB: 3 of 3
	assert.InDelta(t, 4.0/5.0, summary.OverallEvidenceCoverageRate, 1e-12)

	assert.Equal(t, model.Counts{TP: 1}, summary.ByDomain[model.DomainFood])
	assert.Equal(t, model.Counts{FP: 1}, summary.ByDomain[model.DomainEmotion])
	assert.Equal(t, model.Counts{TP: 3}, summary.ByDomain[model.DomainSymptom])
}
