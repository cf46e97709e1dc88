package pipeline

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/ppiankov/annoteval/internal/corpus"
	"github.com/ppiankov/annoteval/internal/model"
)

// SweepResult holds corpus metrics for one threshold value
type SweepResult struct {
	Threshold float64             `json:"threshold"`
	Summary   model.CorpusSummary `json:"summary"`
	TP        int                 `json:"tp"`
	FP        int                 `json:"fp"`
	FN        int                 `json:"fn"`
}

// SweepThresholds generates threshold values from min to max inclusive with
// the given step. Values are rounded to 6 decimals so the grid prints cleanly.
func SweepThresholds(min, max, step float64) ([]float64, error) {
	if step <= 0 {
		return nil, fmt.Errorf("step must be positive, got %v", step)
	}
	if min < 0 || max > 1 || min > max {
		return nil, fmt.Errorf("invalid range [%v, %v]: thresholds lie in [0, 1]", min, max)
	}

	n := int(math.Floor((max-min)/step+1e-9)) + 1
	thresholds := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		t := min + float64(i)*step
		thresholds = append(thresholds, math.Round(t*1e6)/1e6)
	}
	return thresholds, nil
}

// Sweep rescores the corpus at each threshold and returns results in
// threshold order
func (p *Pipeline) Sweep(ctx context.Context, docs []corpus.Document, thresholds []float64) ([]SweepResult, error) {
	results := make([]SweepResult, 0, len(thresholds))
	for _, t := range thresholds {
		res := p.evaluateAt(ctx, docs, t)
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("sweep at %v: %w", t, err)
		}
		results = append(results, SweepResult{
			Threshold: t,
			Summary:   res.Summary,
			TP:        res.Summary.Totals.TP,
			FP:        res.Summary.Totals.FP,
			FN:        res.Summary.Totals.FN,
		})
	}
	return results, nil
}

// Best returns the result with the highest overall F1; ties go to the lower
// threshold. ok is false for an empty sweep.
func Best(results []SweepResult) (best SweepResult, ok bool) {
	for i, r := range results {
		if i == 0 || r.Summary.OverallF1 > best.Summary.OverallF1 {
			best = r
		}
	}
	return best, len(results) > 0
}

// WriteSweep writes the sweep table as indented JSON into the output directory
func (p *Pipeline) WriteSweep(results []SweepResult) (string, error) {
	dir := p.config.Output.Dir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, SweepFile)
	if err := corpus.WriteJSON(path, results); err != nil {
		return "", fmt.Errorf("write sweep: %w", err)
	}
	return path, nil
}
