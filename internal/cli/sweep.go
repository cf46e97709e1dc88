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

var (
	sweepMin  float64
	sweepMax  float64
	sweepStep float64
)

// sweepCmd represents the sweep command
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Score the corpus across a range of match thresholds",
	Long: `Sweep rescores the corpus at each threshold in [--min, --max] and prints
TP/FP/FN with precision, recall and F1 per threshold. The threshold with the
best F1 is marked. The table is also written to threshold_sweep.json.

Example:
  annoteval sweep --min 0.2 --max 0.9 --step 0.05`,
	Args: cobra.NoArgs,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	addCorpusFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.1, "lowest threshold")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.9, "highest threshold")
	sweepCmd.Flags().Float64Var(&sweepStep, "step", 0.1, "threshold step")
}

func runSweep(cmd *cobra.Command, args []string) error {
	thresholds, err := pipeline.SweepThresholds(sweepMin, sweepMax, sweepStep)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, corpusFlags)
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

	p := pipeline.NewPipeline(cfg, log)
	renderer := pipeline.NewRenderer(cmd.OutOrStdout())

	docs, err := p.Load()
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	log.Debug("starting sweep", logger.Int("thresholds", len(thresholds)), logger.Int("journals", len(docs)))

	results, err := p.Sweep(ctx, docs, thresholds)
	if err != nil {
		return err
	}

	path, err := p.WriteSweep(results)
	if err != nil {
		return err
	}

	renderer.RenderSweep(results, path)
	return nil
}
