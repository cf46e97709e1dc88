package model

// MatchedPair associates one gold annotation with one predicted annotation
type MatchedPair struct {
	Gold       Annotation `json:"gold"`
	Predicted  Annotation `json:"predicted"`
	Similarity float64    `json:"similarity"`
}

// Counts holds object-level match outcomes
type Counts struct {
	TP int `json:"tp"`
	FP int `json:"fp"`
	FN int `json:"fn"`
}

// Add returns the element-wise sum of two counts
func (c Counts) Add(o Counts) Counts {
	return Counts{TP: c.TP + o.TP, FP: c.FP + o.FP, FN: c.FN + o.FN}
}

// Predicted is the number of predicted objects behind the counts (TP+FP)
func (c Counts) Predicted() int { return c.TP + c.FP }

// Gold is the number of gold objects behind the counts (TP+FN)
func (c Counts) Gold() int { return c.TP + c.FN }

// Precision is TP/(TP+FP), 0 when nothing was predicted
func (c Counts) Precision() float64 {
	return Ratio(c.TP, c.TP+c.FP)
}

// Recall is TP/(TP+FN), 0 when there is no gold
func (c Counts) Recall() float64 {
	return Ratio(c.TP, c.TP+c.FN)
}

// F1 is the harmonic mean of precision and recall, 0 when both are 0
func (c Counts) F1() float64 {
	return F1(c.Precision(), c.Recall())
}

// Ratio returns num/den, or 0 when den is 0
func Ratio(num, den int) float64 {
	if den <= 0 {
		return 0.0
	}
	return float64(num) / float64(den)
}

// F1 combines precision and recall, 0 when both are 0
func F1(precision, recall float64) float64 {
	if precision+recall <= 0 {
		return 0.0
	}
	return 2 * precision * recall / (precision + recall)
}

// DocumentScore is the derived result for one journal entry
type DocumentScore struct {
	JournalID string

	TP int
	FP int
	FN int

	Precision            float64
	Recall               float64
	F1                   float64
	PolarityAccuracy     float64
	BucketAccuracy       float64
	EvidenceCoverageRate float64

	// Detail view, excluded from the compact report
	Matches        []MatchedPair
	FalsePositives []Annotation
	FalseNegatives []Annotation

	ByDomain map[Domain]Counts
}

// Counts returns the document's TP/FP/FN
func (s DocumentScore) Counts() Counts {
	return Counts{TP: s.TP, FP: s.FP, FN: s.FN}
}

// DocumentReport is the compact per-journal output record
type DocumentReport struct {
	JournalID            string  `json:"journal_id"`
	TP                   int     `json:"tp"`
	FP                   int     `json:"fp"`
	FN                   int     `json:"fn"`
	Precision            float64 `json:"precision"`
	Recall               float64 `json:"recall"`
	F1                   float64 `json:"f1"`
	PolarityAccuracy     float64 `json:"polarity_accuracy"`
	BucketAccuracy       float64 `json:"bucket_accuracy"`
	EvidenceCoverageRate float64 `json:"evidence_coverage_rate"`
}

// Compact returns the per-journal report record
func (s DocumentScore) Compact() DocumentReport {
	return DocumentReport{
		JournalID:            s.JournalID,
		TP:                   s.TP,
		FP:                   s.FP,
		FN:                   s.FN,
		Precision:            s.Precision,
		Recall:               s.Recall,
		F1:                   s.F1,
		PolarityAccuracy:     s.PolarityAccuracy,
		BucketAccuracy:       s.BucketAccuracy,
		EvidenceCoverageRate: s.EvidenceCoverageRate,
	}
}

// DocumentDetail is the debug view of a document score
type DocumentDetail struct {
	DocumentReport
	MatchedPairs   []MatchedPair `json:"matched_pairs"`
	FalsePositives []Annotation  `json:"false_positives"`
	FalseNegatives []Annotation  `json:"false_negatives"`
}

// Detail returns the full debug view including matched pairs
func (s DocumentScore) Detail() DocumentDetail {
	d := DocumentDetail{
		DocumentReport: s.Compact(),
		MatchedPairs:   s.Matches,
		FalsePositives: s.FalsePositives,
		FalseNegatives: s.FalseNegatives,
	}
	if d.MatchedPairs == nil {
		d.MatchedPairs = []MatchedPair{}
	}
	if d.FalsePositives == nil {
		d.FalsePositives = []Annotation{}
	}
	if d.FalseNegatives == nil {
		d.FalseNegatives = []Annotation{}
	}
	return d
}

// CorpusSummary aggregates document scores across the whole corpus.
// Only the overall ratios are part of the summary record.
type CorpusSummary struct {
	OverallPrecision            float64 `json:"overall_precision"`
	OverallRecall               float64 `json:"overall_recall"`
	OverallF1                   float64 `json:"overall_f1"`
	OverallPolarityAccuracy     float64 `json:"overall_polarity_accuracy"`
	OverallBucketAccuracy       float64 `json:"overall_bucket_accuracy"`
	OverallEvidenceCoverageRate float64 `json:"overall_evidence_coverage_rate"`

	Documents int               `json:"-"`
	Totals    Counts            `json:"-"`
	ByDomain  map[Domain]Counts `json:"-"`
}
