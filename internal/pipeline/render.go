package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/annoteval/internal/model"
)

const rule = "═══════════════════════════════════════════════════════════"

// Renderer prints human-readable summaries
type Renderer struct {
	w io.Writer
}

// NewRenderer creates a renderer writing to w
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

func (r *Renderer) banner(title string) {
	fmt.Fprintf(r.w, "\n%s\n  %s\n%s\n\n", rule, title, rule)
}

// RenderSummary prints the corpus summary and the files written
func (r *Renderer) RenderSummary(res *EvalResult, paths []string) {
	s := res.Summary

	r.banner("Annotation Evaluation")
	fmt.Fprintf(r.w, "  Journals:    %d\n", s.Documents)
	fmt.Fprintf(r.w, "  Threshold:   %.2f\n", res.Threshold)
	fmt.Fprintf(r.w, "  TP/FP/FN:    %d / %d / %d\n", s.Totals.TP, s.Totals.FP, s.Totals.FN)
	fmt.Fprintf(r.w, "\n")
	fmt.Fprintf(r.w, "  Precision:          %.4f\n", s.OverallPrecision)
	fmt.Fprintf(r.w, "  Recall:             %.4f\n", s.OverallRecall)
	fmt.Fprintf(r.w, "  F1:                 %.4f\n", s.OverallF1)
	fmt.Fprintf(r.w, "  Polarity accuracy:  %.4f\n", s.OverallPolarityAccuracy)
	fmt.Fprintf(r.w, "  Bucket accuracy:    %.4f\n", s.OverallBucketAccuracy)
	fmt.Fprintf(r.w, "  Evidence coverage:  %.4f\n", s.OverallEvidenceCoverageRate)

	if len(paths) > 0 {
		fmt.Fprintf(r.w, "\n")
		for _, p := range paths {
			fmt.Fprintf(r.w, "✓ Wrote %s\n", p)
		}
	}
	fmt.Fprintf(r.w, "\n")
}

// RenderSweep prints one row per threshold and marks the best F1
func (r *Renderer) RenderSweep(results []SweepResult, path string) {
	best, ok := Best(results)

	r.banner("Threshold Sweep")
	fmt.Fprintf(r.w, "  %-9s  %5s  %5s  %5s  %9s  %7s  %7s\n", "threshold", "tp", "fp", "fn", "precision", "recall", "f1")
	for _, res := range results {
		marker := ""
		if ok && res.Threshold == best.Threshold {
			marker = "  ← best"
		}
		fmt.Fprintf(r.w, "  %-9.3f  %5d  %5d  %5d  %9.4f  %7.4f  %7.4f%s\n",
			res.Threshold, res.TP, res.FP, res.FN,
			res.Summary.OverallPrecision, res.Summary.OverallRecall, res.Summary.OverallF1, marker)
	}
	if path != "" {
		fmt.Fprintf(r.w, "\n✓ Wrote %s\n", path)
	}
	fmt.Fprintf(r.w, "\n")
}

// RenderExtractSummary prints extraction totals and failed journals
func (r *Renderer) RenderExtractSummary(s *ExtractSummary) {
	r.banner("Extraction Complete")
	fmt.Fprintf(r.w, "  Journals:  %d\n", s.Journals)
	fmt.Fprintf(r.w, "  Success:   %d\n", s.Succeeded)
	fmt.Fprintf(r.w, "  Failures:  %d\n", len(s.Failures))
	fmt.Fprintf(r.w, "  Items:     %d\n", s.Items)
	fmt.Fprintf(r.w, "  Output:    %s\n", s.Path)
	if len(s.Failures) > 0 {
		fmt.Fprintf(r.w, "\n")
		for _, f := range s.Failures {
			fmt.Fprintf(r.w, "✗ %s: %v\n", f.JournalID, f.Err)
		}
	}
	fmt.Fprintf(r.w, "\n")
}

// RenderMarkdown builds the markdown report: overall metrics, per-domain
// breakdown and one row per journal
func RenderMarkdown(res *EvalResult) string {
	var b strings.Builder
	s := res.Summary

	b.WriteString("# Annotation Evaluation Report\n\n")
	fmt.Fprintf(&b, "- Journals: %d\n", s.Documents)
	fmt.Fprintf(&b, "- Match threshold: %.2f\n", res.Threshold)
	fmt.Fprintf(&b, "- TP / FP / FN: %d / %d / %d\n\n", s.Totals.TP, s.Totals.FP, s.Totals.FN)

	b.WriteString("## Overall\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	for _, row := range []struct {
		name string
		v    float64
	}{
		{"Precision", s.OverallPrecision},
		{"Recall", s.OverallRecall},
		{"F1", s.OverallF1},
		{"Polarity accuracy", s.OverallPolarityAccuracy},
		{"Bucket accuracy", s.OverallBucketAccuracy},
		{"Evidence coverage", s.OverallEvidenceCoverageRate},
	} {
		fmt.Fprintf(&b, "| %s | %.4f |\n", row.name, row.v)
	}

	b.WriteString("\n## By domain\n\n")
	b.WriteString("| Domain | TP | FP | FN | Precision | Recall | F1 |\n|---|---|---|---|---|---|---|\n")
	for _, d := range model.Domains {
		c := s.ByDomain[d]
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %.4f | %.4f | %.4f |\n",
			d, c.TP, c.FP, c.FN, c.Precision(), c.Recall(), c.F1())
	}

	b.WriteString("\n## Journals\n\n")
	if len(res.Scores) == 0 {
		b.WriteString("_No journals scored._\n")
		return b.String()
	}
	b.WriteString("| Journal | TP | FP | FN | F1 | Polarity | Bucket | Coverage |\n|---|---|---|---|---|---|---|---|\n")
	for _, d := range res.Scores {
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %.4f | %.4f | %.4f | %.4f |\n",
			d.JournalID, d.TP, d.FP, d.FN, d.F1, d.PolarityAccuracy, d.BucketAccuracy, d.EvidenceCoverageRate)
	}

	return b.String()
}
