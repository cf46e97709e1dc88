package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/annoteval/internal/model"
)

func ann(d model.Domain, span string, pol model.Polarity, bucket model.Bucket) model.Annotation {
	if d == model.DomainEmotion {
		return model.NewAnnotation(d, span, pol, "", bucket, model.TimeToday)
	}
	return model.NewAnnotation(d, span, pol, bucket, "", model.TimeToday)
}

func assertRatiosInRange(t *testing.T, s model.DocumentScore) {
	t.Helper()
	for name, v := range map[string]float64{
		"precision":              s.Precision,
		"recall":                 s.Recall,
		"f1":                     s.F1,
		"polarity_accuracy":      s.PolarityAccuracy,
		"bucket_accuracy":        s.BucketAccuracy,
		"evidence_coverage_rate": s.EvidenceCoverageRate,
	} {
		assert.GreaterOrEqual(t, v, 0.0, name)
		assert.LessOrEqual(t, v, 1.0, name)
	}
}

func TestScorer_Score_PartialSpanMatch(t *testing.T) {
	scorer := NewScorer(model.DefaultThreshold)
	text := "Woke up with sharp stomach pain today."

	gold := []model.Annotation{ann(model.DomainSymptom, "sharp stomach pain", model.PolarityPresent, model.BucketHigh)}
	pred := []model.Annotation{ann(model.DomainSymptom, "stomach pain", model.PolarityPresent, model.BucketHigh)}

	s := scorer.Score("j1", text, gold, pred)

	assert.Equal(t, "j1", s.JournalID)
	assert.Equal(t, 1, s.TP)
	assert.Equal(t, 0, s.FP)
	assert.Equal(t, 0, s.FN)
	assert.Equal(t, 1.0, s.Precision)
	assert.Equal(t, 1.0, s.Recall)
	assert.Equal(t, 1.0, s.F1)
	assert.Equal(t, 1.0, s.PolarityAccuracy)
	assert.Equal(t, 1.0, s.BucketAccuracy)
	assert.Equal(t, 1.0, s.EvidenceCoverageRate)
	require.Len(t, s.Matches, 1)
}

func TestScorer_Score_EmptyDocument(t *testing.T) {
	s := NewScorer(model.DefaultThreshold).Score("empty", "nothing happened", nil, nil)

	assert.Equal(t, model.Counts{}, s.Counts())
	assert.Equal(t, 0.0, s.Precision)
	assert.Equal(t, 0.0, s.Recall)
	assert.Equal(t, 0.0, s.F1)
	assert.Equal(t, 0.0, s.PolarityAccuracy)
	assert.Equal(t, 0.0, s.BucketAccuracy)
	assert.Equal(t, 0.0, s.EvidenceCoverageRate)
}

func TestScorer_Score_NoPredictions(t *testing.T) {
	gold := []model.Annotation{
		ann(model.DomainFood, "ate oatmeal", model.PolarityPresent, model.BucketUnknown),
		ann(model.DomainMind, "felt foggy", model.PolarityPresent, model.BucketMedium),
	}

	s := NewScorer(0.5).Score("j", "ate oatmeal and felt foggy", gold, nil)

	assert.Equal(t, model.Counts{FN: 2}, s.Counts())
	assert.Equal(t, 0.0, s.Precision)
	assert.Equal(t, 0.0, s.Recall)
	assert.Equal(t, 0.0, s.EvidenceCoverageRate)
	assert.Equal(t, gold, s.FalseNegatives)
}

func TestScorer_Score_EvidenceCoverageIgnoresMatching(t *testing.T) {
	text := "Had a headache and drank too much coffee."

	gold := []model.Annotation{ann(model.DomainSymptom, "headache", model.PolarityPresent, model.BucketMedium)}
	pred := []model.Annotation{
		// matches gold but the span is not verbatim in the text
		ann(model.DomainSymptom, "Headache", model.PolarityPresent, model.BucketMedium),
		// unmatched but grounded
		ann(model.DomainFood, "too much coffee", model.PolarityPresent, model.BucketHigh),
	}

	s := NewScorer(0.5).Score("j", text, gold, pred)

	assert.Equal(t, 1, s.TP)
	assert.Equal(t, 1, s.FP)
	assert.InDelta(t, 0.5, s.EvidenceCoverageRate, 1e-12)
}

func TestScorer_Score_AttributeAccuracy(t *testing.T) {
	text := "Stomach ache, ate toast, felt anxious, mind racing."

	gold := []model.Annotation{
		ann(model.DomainSymptom, "stomach ache", model.PolarityPresent, model.BucketHigh),
		ann(model.DomainFood, "ate toast", model.PolarityPresent, model.BucketLow),
		ann(model.DomainEmotion, "felt anxious", model.PolarityPresent, model.BucketHigh),
		ann(model.DomainMind, "mind racing", model.PolarityPresent, model.BucketMedium),
	}
	pred := []model.Annotation{
		ann(model.DomainSymptom, "stomach ache", model.PolarityAbsent, model.BucketHigh),  // polarity wrong
		ann(model.DomainFood, "ate toast", model.PolarityPresent, model.BucketMedium),     // bucket wrong
		ann(model.DomainEmotion, "felt anxious", model.PolarityPresent, model.BucketHigh), // both right
		ann(model.DomainMind, "mind racing", model.PolarityUncertain, model.BucketLow),    // both wrong
	}

	s := NewScorer(0.5).Score("j", text, gold, pred)

	assert.Equal(t, 4, s.TP)
	assert.InDelta(t, 0.5, s.PolarityAccuracy, 1e-12)
	assert.InDelta(t, 0.5, s.BucketAccuracy, 1e-12)
	assertRatiosInRange(t, s)
}

func TestScorer_Score_EmotionComparesArousal(t *testing.T) {
	// Intensity on an emotion object is not the active bucket and is dropped
	// at construction, so only arousal takes part in the comparison.
	gold := []model.Annotation{model.NewAnnotation(model.DomainEmotion, "so angry", model.PolarityPresent, model.BucketLow, model.BucketHigh, model.TimeToday)}
	pred := []model.Annotation{model.NewAnnotation(model.DomainEmotion, "so angry", model.PolarityPresent, model.BucketHigh, model.BucketHigh, model.TimeToday)}

	s := NewScorer(0.5).Score("j", "so angry", gold, pred)
	assert.Equal(t, 1.0, s.BucketAccuracy)

	// An emotion prediction carrying only intensity scores as unknown arousal.
	pred = []model.Annotation{model.NewAnnotation(model.DomainEmotion, "so angry", model.PolarityPresent, model.BucketHigh, "", model.TimeToday)}
	s = NewScorer(0.5).Score("j", "so angry", gold, pred)
	assert.Equal(t, 0.0, s.BucketAccuracy)
}

func TestScorer_Score_ByDomain(t *testing.T) {
	gold := []model.Annotation{
		ann(model.DomainSymptom, "back pain", model.PolarityPresent, model.BucketHigh),
		ann(model.DomainFood, "salad", model.PolarityPresent, model.BucketLow),
	}
	pred := []model.Annotation{
		ann(model.DomainSymptom, "back pain", model.PolarityPresent, model.BucketHigh),
		ann(model.DomainEmotion, "grumpy", model.PolarityPresent, model.BucketLow),
	}

	s := NewScorer(0.5).Score("j", "back pain, salad, grumpy", gold, pred)

	assert.Equal(t, model.Counts{TP: 1}, s.ByDomain[model.DomainSymptom])
	assert.Equal(t, model.Counts{FN: 1}, s.ByDomain[model.DomainFood])
	assert.Equal(t, model.Counts{FP: 1}, s.ByDomain[model.DomainEmotion])
	_, ok := s.ByDomain[model.DomainMind]
	assert.False(t, ok)
}

func TestScorer_Score_CountsConserved(t *testing.T) {
	gold := []model.Annotation{
		ann(model.DomainSymptom, "tired", model.PolarityPresent, model.BucketLow),
		ann(model.DomainSymptom, "tired and sore", model.PolarityPresent, model.BucketLow),
		ann(model.DomainFood, "pizza", model.PolarityPresent, model.BucketUnknown),
	}
	pred := []model.Annotation{
		ann(model.DomainSymptom, "tired", model.PolarityPresent, model.BucketLow),
		ann(model.DomainFood, "pizza slice", model.PolarityPresent, model.BucketUnknown),
		ann(model.DomainFood, "pizza", model.PolarityAbsent, model.BucketUnknown),
		ann(model.DomainMind, "stressed", model.PolarityPresent, model.BucketMedium),
	}

	for _, th := range []float64{0, 0.3, 0.5, 0.9} {
		s := NewScorer(th).Score("j", "tired and sore after pizza", gold, pred)
		assert.Equal(t, len(gold), s.TP+s.FN)
		assert.Equal(t, len(pred), s.TP+s.FP)
		assertRatiosInRange(t, s)
	}
}

func TestScorer_Compact(t *testing.T) {
	s := NewScorer(0.5).Score("j9", "ate rice",
		[]model.Annotation{ann(model.DomainFood, "ate rice", model.PolarityPresent, model.BucketLow)},
		[]model.Annotation{ann(model.DomainFood, "ate rice", model.PolarityPresent, model.BucketLow)},
	)

	r := s.Compact()
	assert.Equal(t, "j9", r.JournalID)
	assert.Equal(t, 1, r.TP)
	assert.Equal(t, 1.0, r.F1)

	d := s.Detail()
	require.Len(t, d.MatchedPairs, 1)
	assert.Empty(t, d.FalsePositives)
}
