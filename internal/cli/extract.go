package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/annoteval/internal/cache"
	"github.com/ppiankov/annoteval/internal/llm"
	"github.com/ppiankov/annoteval/internal/logger"
	"github.com/ppiankov/annoteval/internal/pipeline"
)

var (
	extractOutput  string
	extractNoCache bool
	extractNoPing  bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Produce a predictions file by running an LLM over the journals",
	Long: `Extract sends every journal entry to the configured LLM provider and writes
the returned annotations as a predictions file that eval can score.

Journals whose extraction fails are reported and left out of the file.
Malformed items in a model reply are dropped with a warning.

API keys are read from OPENAI_API_KEY / ANTHROPIC_API_KEY; the Ollama
endpoint from OLLAMA_BASE_URL or --base-url.

Example:
  annoteval extract --provider openai --model gpt-4o-mini --output ./data/llm_predictions.jsonl
  annoteval extract --provider ollama --model llama3.1:8b --rps 0`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().String("data", "./data", "input directory with the journals file")
	extractCmd.Flags().String("journals", "journals.jsonl", "journals file name inside --data")
	extractCmd.Flags().Int("workers", 0, "concurrent requests (default: number of CPUs)")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "predictions file to write (default: <out>/predictions.<provider>.jsonl)")
	extractCmd.Flags().String("out", "./out", "output directory for the default predictions path")

	extractCmd.Flags().String("provider", "", "LLM provider (openai, anthropic, ollama)")
	extractCmd.Flags().String("model", "", "model name (provider default when empty)")
	extractCmd.Flags().String("base-url", "", "custom API endpoint")
	extractCmd.Flags().Int("timeout", 60, "per-request timeout in seconds")
	extractCmd.Flags().Float64("rps", 1, "requests per second per provider (0 = unlimited)")
	extractCmd.Flags().Int("burst", 2, "rate limiter burst")

	extractCmd.Flags().BoolVar(&extractNoCache, "no-cache", false, "disable the response cache (force fresh calls)")
	extractCmd.Flags().BoolVar(&extractNoPing, "no-ping", false, "skip the provider availability check")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{
		"data":     "data.dir",
		"journals": "data.journals_file",
		"workers":  "concurrency.workers",
		"out":      "output.dir",
		"provider": "llm.provider",
		"model":    "llm.model",
		"base-url": "llm.base_url",
		"timeout":  "llm.timeout",
		"rps":      "llm.requests_per_second",
		"burst":    "llm.burst",
	})
	if err != nil {
		return err
	}
	if extractNoCache {
		cfg.Cache.Enabled = false
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	llmConfig := llm.ApplyEnv(llm.ConfigFromModel(cfg.LLM))
	provider, err := llm.NewProvider(llmConfig)
	if err != nil {
		return fmt.Errorf("init LLM provider: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !extractNoPing {
		if err := provider.Ping(ctx); err != nil {
			return fmt.Errorf("provider %s unavailable: %w", provider.Name(), err)
		}
	}

	output := extractOutput
	if output == "" {
		output = filepath.Join(cfg.Output.Dir, fmt.Sprintf("predictions.%s.jsonl", provider.Name()))
	}

	log.Info("starting extraction",
		logger.String("provider", provider.Name()),
		logger.String("model", provider.Model()),
		logger.Bool("cache", cfg.Cache.Enabled),
		logger.String("output", output))

	extractor := llm.NewExtractor(provider, cache.New(cfg.Cache), log)

	p := pipeline.NewPipeline(cfg, log)
	p.SetRenderer(pipeline.NewRenderer(cmd.OutOrStdout()))

	summary, err := p.Extract(ctx, extractor, provider.Name(), output)
	if err != nil {
		return err
	}
	if summary.Succeeded == 0 && summary.Journals > 0 {
		return fmt.Errorf("extraction failed for all %d journals", summary.Journals)
	}
	return nil
}
