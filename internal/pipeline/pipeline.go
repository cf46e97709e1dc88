// Package pipeline wires loading, scoring, extraction and rendering together
// for the CLI.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/annoteval/internal/corpus"
	"github.com/ppiankov/annoteval/internal/logger"
	"github.com/ppiankov/annoteval/internal/model"
	"github.com/ppiankov/annoteval/internal/score"
	"github.com/ppiankov/annoteval/internal/worker"
)

// Output file names
const (
	ScoresFile   = "per_journal_scores.jsonl"
	SummaryFile  = "score_summary.json"
	DetailsFile  = "per_journal_details.jsonl"
	MarkdownFile = "report.md"
	SweepFile    = "threshold_sweep.json"
)

// Pipeline orchestrates an evaluation run
type Pipeline struct {
	config   *model.Config
	log      logger.Logger
	batch    *worker.BatchProcessor
	renderer *Renderer
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, log logger.Logger) *Pipeline {
	if log == nil {
		log = logger.NewNop()
	}
	limiter := worker.NewLimiter(cfg.LLM.RequestsPerSecond, cfg.LLM.Burst)
	return &Pipeline{
		config:   cfg,
		log:      log,
		batch:    worker.NewBatchProcessor(cfg.Concurrency.Workers, limiter),
		renderer: NewRenderer(os.Stdout),
	}
}

// SetRenderer replaces the stdout renderer
func (p *Pipeline) SetRenderer(r *Renderer) {
	p.renderer = r
}

// EvalResult contains the outcome of scoring a corpus at one threshold
type EvalResult struct {
	Threshold float64
	Scores    []model.DocumentScore
	Summary   model.CorpusSummary
	Duration  time.Duration
}

// Load reads the configured corpus
func (p *Pipeline) Load() ([]corpus.Document, error) {
	return corpus.Load(p.config.Data, p.log)
}

// Evaluate scores every document at the configured threshold and aggregates
func (p *Pipeline) Evaluate(ctx context.Context, docs []corpus.Document) *EvalResult {
	return p.evaluateAt(ctx, docs, p.config.Match.Threshold)
}

func (p *Pipeline) evaluateAt(ctx context.Context, docs []corpus.Document, threshold float64) *EvalResult {
	start := time.Now()
	scores := p.batch.ScoreDocuments(ctx, docs, score.NewScorer(threshold))
	summary := score.Aggregate(scores)

	res := &EvalResult{
		Threshold: threshold,
		Scores:    scores,
		Summary:   summary,
		Duration:  time.Since(start),
	}
	p.log.Debug("corpus scored",
		logger.Float64("threshold", threshold),
		logger.Int("documents", len(scores)),
		logger.Int("tp", summary.Totals.TP),
		logger.Int("fp", summary.Totals.FP),
		logger.Int("fn", summary.Totals.FN),
		logger.Duration("elapsed", res.Duration),
	)
	return res
}

// Run loads the corpus, scores it, writes every configured output and prints
// the summary banner. It returns the paths written.
func (p *Pipeline) Run(ctx context.Context) (*EvalResult, []string, error) {
	docs, err := p.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load corpus: %w", err)
	}

	res := p.Evaluate(ctx, docs)
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("evaluate: %w", err)
	}

	paths, err := p.WriteOutputs(res)
	if err != nil {
		return nil, nil, err
	}

	p.renderer.RenderSummary(res, paths)
	return res, paths, nil
}

// WriteOutputs writes the score files for res into the output directory
func (p *Pipeline) WriteOutputs(res *EvalResult) ([]string, error) {
	dir := p.config.Output.Dir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var paths []string

	rows := make([]model.DocumentReport, len(res.Scores))
	for i, s := range res.Scores {
		rows[i] = s.Compact()
	}
	scoresPath := filepath.Join(dir, ScoresFile)
	if err := corpus.WriteJSONL(scoresPath, rows); err != nil {
		return nil, fmt.Errorf("write scores: %w", err)
	}
	paths = append(paths, scoresPath)

	summaryPath := filepath.Join(dir, SummaryFile)
	if err := corpus.WriteJSON(summaryPath, res.Summary); err != nil {
		return nil, fmt.Errorf("write summary: %w", err)
	}
	paths = append(paths, summaryPath)

	if p.config.Output.Detail {
		details := make([]model.DocumentDetail, len(res.Scores))
		for i, s := range res.Scores {
			details[i] = s.Detail()
		}
		detailsPath := filepath.Join(dir, DetailsFile)
		if err := corpus.WriteJSONL(detailsPath, details); err != nil {
			return nil, fmt.Errorf("write details: %w", err)
		}
		paths = append(paths, detailsPath)
	}

	if p.config.Output.Markdown {
		mdPath := filepath.Join(dir, MarkdownFile)
		if err := os.WriteFile(mdPath, []byte(RenderMarkdown(res)), 0644); err != nil {
			return nil, fmt.Errorf("write markdown: %w", err)
		}
		paths = append(paths, mdPath)
	}

	for _, path := range paths {
		p.log.Info("wrote output", logger.String("path", path))
	}
	return paths, nil
}
