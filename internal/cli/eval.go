package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/annoteval/internal/logger"
	"github.com/ppiankov/annoteval/internal/pipeline"
)

// corpusFlags maps the shared input/output flags to config keys
var corpusFlags = map[string]string{
	"data":        "data.dir",
	"journals":    "data.journals_file",
	"gold":        "data.gold_file",
	"predictions": "data.predictions_file",
	"out":         "output.dir",
	"workers":     "concurrency.workers",
}

func addCorpusFlags(cmd *cobra.Command) {
	cmd.Flags().String("data", "./data", "input directory with journals, gold and predictions")
	cmd.Flags().String("journals", "journals.jsonl", "journals file name inside --data")
	cmd.Flags().String("gold", "gold.jsonl", "gold annotations file name inside --data")
	cmd.Flags().String("predictions", "sample_predictions.jsonl", "predicted annotations file name inside --data")
	cmd.Flags().String("out", "./out", "output directory")
	cmd.Flags().Int("workers", 0, "scoring workers (default: number of CPUs)")
}

// evalCmd represents the eval command
var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Score predictions against gold annotations",
	Long: `Eval loads journals, gold and predicted annotations, aligns predictions to
gold per journal and writes:
  per_journal_scores.jsonl   one score record per journal
  score_summary.json         corpus-level metrics
  per_journal_details.jsonl  matched pairs and misses (with --detail)
  report.md                  markdown report (with --md)

Example:
  annoteval eval --data ./data --out ./out
  annoteval eval --threshold 0.6 --detail --md`,
	Args: cobra.NoArgs,
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	addCorpusFlags(evalCmd)
	evalCmd.Flags().Float64("threshold", 0.5, "minimum evidence similarity for a match, in [0, 1]")
	evalCmd.Flags().Bool("detail", false, "also write per_journal_details.jsonl")
	evalCmd.Flags().Bool("md", false, "also write report.md")
}

func evalFlags() map[string]string {
	keys := map[string]string{
		"threshold": "match.threshold",
		"detail":    "output.detail",
		"md":        "output.markdown",
	}
	for k, v := range corpusFlags {
		keys[k] = v
	}
	return keys
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, evalFlags())
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Debug("starting evaluation",
		logger.String("data", cfg.Data.Dir),
		logger.String("out", cfg.Output.Dir),
		logger.Float64("threshold", cfg.Match.Threshold),
		logger.Int("workers", cfg.Concurrency.Workers))

	p := pipeline.NewPipeline(cfg, log)
	p.SetRenderer(pipeline.NewRenderer(cmd.OutOrStdout()))

	if _, _, err := p.Run(ctx); err != nil {
		return err
	}
	return nil
}
