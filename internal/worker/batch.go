package worker

import (
	"context"
	"fmt"
	"sort"

	"github.com/ppiankov/annoteval/internal/corpus"
	"github.com/ppiankov/annoteval/internal/model"
)

// DocumentScorer scores one document
type DocumentScorer interface {
	Score(journalID, text string, gold, predicted []model.Annotation) model.DocumentScore
}

// Extractor produces predicted annotations for one journal entry
type Extractor interface {
	Extract(ctx context.Context, journal corpus.Journal) ([]model.Annotation, error)
}

// ScoreJob scores a single document
type ScoreJob struct {
	Index  int
	Doc    corpus.Document
	Scorer DocumentScorer
}

// Execute executes the score job
func (j *ScoreJob) Execute(ctx context.Context) Result {
	s := j.Scorer.Score(j.Doc.JournalID, j.Doc.Text, j.Doc.Gold, j.Doc.Predicted)
	return &ScoreResult{Index: j.Index, Score: s}
}

// ScoreResult is the outcome of a ScoreJob
type ScoreResult struct {
	Index int
	Score model.DocumentScore
}

// GetError always returns nil; scoring cannot fail
func (r *ScoreResult) GetError() error {
	return nil
}

// ExtractJob runs extraction for a single journal entry
type ExtractJob struct {
	Index     int
	Journal   corpus.Journal
	Extractor Extractor
	Limiter   *Limiter
	LimitKey  string
}

// Execute waits for rate limit clearance, then extracts
func (j *ExtractJob) Execute(ctx context.Context) Result {
	res := &ExtractResult{Index: j.Index, JournalID: j.Journal.ID}

	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.LimitKey); err != nil {
			res.Error = fmt.Errorf("rate limit: %w", err)
			return res
		}
	}

	items, err := j.Extractor.Extract(ctx, j.Journal)
	if err != nil {
		res.Error = err
		return res
	}
	res.Items = items
	return res
}

// ExtractResult is the outcome of an ExtractJob
type ExtractResult struct {
	Index     int
	JournalID string
	Items     []model.Annotation
	Error     error
}

// GetError returns the extraction error, if any
func (r *ExtractResult) GetError() error {
	return r.Error
}

// BatchProcessor maps scoring and extraction over a corpus concurrently.
// Output order always follows input order.
type BatchProcessor struct {
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a new batch processor. limiter may be nil.
func NewBatchProcessor(concurrency int, limiter *Limiter) *BatchProcessor {
	return &BatchProcessor{
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// ScoreDocuments scores every document and returns the scores in input order.
// With a single worker it scores sequentially without starting goroutines.
func (b *BatchProcessor) ScoreDocuments(ctx context.Context, docs []corpus.Document, scorer DocumentScorer) []model.DocumentScore {
	scores := make([]model.DocumentScore, len(docs))
	if len(docs) == 0 {
		return scores
	}

	if b.concurrency <= 1 {
		for i, d := range docs {
			scores[i] = scorer.Score(d.JournalID, d.Text, d.Gold, d.Predicted)
		}
		return scores
	}

	jobs := make([]Job, len(docs))
	for i, d := range docs {
		jobs[i] = &ScoreJob{Index: i, Doc: d, Scorer: scorer}
	}

	for _, r := range Run(ctx, b.concurrency, jobs) {
		sr := r.(*ScoreResult)
		scores[sr.Index] = sr.Score
	}
	return scores
}

// ExtractJournals runs the extractor over every journal. Results are sorted
// by input order; journals that were never attempted because ctx ended are
// reported with ctx's error.
func (b *BatchProcessor) ExtractJournals(ctx context.Context, journals []corpus.Journal, extractor Extractor, limitKey string) []*ExtractResult {
	if len(journals) == 0 {
		return []*ExtractResult{}
	}

	jobs := make([]Job, len(journals))
	for i, j := range journals {
		jobs[i] = &ExtractJob{
			Index:     i,
			Journal:   j,
			Extractor: extractor,
			Limiter:   b.limiter,
			LimitKey:  limitKey,
		}
	}

	results := Run(ctx, b.concurrency, jobs)

	out := make([]*ExtractResult, 0, len(journals))
	seen := make([]bool, len(journals))
	for _, r := range results {
		er := r.(*ExtractResult)
		seen[er.Index] = true
		out = append(out, er)
	}
	for i, ok := range seen {
		if !ok {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			out = append(out, &ExtractResult{Index: i, JournalID: journals[i].ID, Error: err})
		}
	}

	sort.Slice(out, func(a, c int) bool { return out[a].Index < out[c].Index })
	return out
}
