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
	"github.com/ppiankov/annoteval/internal/worker"
)

// ExtractFailure records a journal whose extraction failed
type ExtractFailure struct {
	JournalID string
	Err       error
}

// ExtractSummary describes an extraction run
type ExtractSummary struct {
	Journals  int
	Succeeded int
	Items     int
	Failures  []ExtractFailure
	Path      string
	Duration  time.Duration
}

// Extract runs extractor over every journal in the configured journals file
// and writes the successful results to outPath as a predictions file. Failed
// journals are left out of the file and reported in the summary.
func (p *Pipeline) Extract(ctx context.Context, extractor worker.Extractor, limitKey, outPath string) (*ExtractSummary, error) {
	start := time.Now()

	journals, err := corpus.ReadJournals(filepath.Join(p.config.Data.Dir, p.config.Data.JournalsFile))
	if err != nil {
		return nil, fmt.Errorf("read journals: %w", err)
	}

	results := p.batch.ExtractJournals(ctx, journals, extractor, limitKey)

	summary := &ExtractSummary{Journals: len(journals), Path: outPath}
	sets := make([]corpus.AnnotationSet, 0, len(results))
	for _, r := range results {
		if r.Error != nil {
			summary.Failures = append(summary.Failures, ExtractFailure{JournalID: r.JournalID, Err: r.Error})
			p.log.Warn("extraction failed",
				logger.String("journal_id", r.JournalID),
				logger.Error(r.Error))
			continue
		}
		summary.Succeeded++
		summary.Items += len(r.Items)
		sets = append(sets, corpus.AnnotationSet{JournalID: r.JournalID, Items: model.Records(r.Items)})
	}

	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := corpus.WriteJSONL(outPath, sets); err != nil {
		return nil, fmt.Errorf("write predictions: %w", err)
	}

	summary.Duration = time.Since(start)
	p.log.Info("extraction complete",
		logger.Int("journals", summary.Journals),
		logger.Int("succeeded", summary.Succeeded),
		logger.Int("failed", len(summary.Failures)),
		logger.Int("items", summary.Items),
		logger.Duration("elapsed", summary.Duration))

	p.renderer.RenderExtractSummary(summary)
	return summary, nil
}
