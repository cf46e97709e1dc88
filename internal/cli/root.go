package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ppiankov/annoteval/internal/logger"
	"github.com/ppiankov/annoteval/internal/model"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "v0.1.0"

var (
	cfgFile  string
	verbose  bool
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "annoteval",
	Short: "annoteval - score predicted journal annotations against a gold standard",
	Long: `annoteval is an offline scoring harness for structured annotations
extracted from free-text journal entries.

Predicted items are aligned to gold items by a greedy match over evidence
span overlap, then scored for precision, recall and F1 together with
polarity accuracy, bucket accuracy and evidence grounding, per journal and
across the corpus.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "annoteval %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.annoteval/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(viper.GetViper(), model.DefaultConfig())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".annoteval"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// ANNOTEVAL_MATCH_THRESHOLD overrides match.threshold
	viper.SetEnvPrefix("ANNOTEVAL")
	viper.SetEnvKeyReplacer(newKeyReplacer())
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// newKeyReplacer maps config keys to environment variable suffixes
func newKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// setDefaults registers every config key so environment overrides resolve
func setDefaults(v *viper.Viper, d *model.Config) {
	v.SetDefault("match.threshold", d.Match.Threshold)

	v.SetDefault("data.dir", d.Data.Dir)
	v.SetDefault("data.journals_file", d.Data.JournalsFile)
	v.SetDefault("data.gold_file", d.Data.GoldFile)
	v.SetDefault("data.predictions_file", d.Data.PredictionsFile)

	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.detail", d.Output.Detail)
	v.SetDefault("output.markdown", d.Output.Markdown)
	v.SetDefault("output.verbose", d.Output.Verbose)

	v.SetDefault("concurrency.workers", d.Concurrency.Workers)

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("llm.requests_per_second", d.LLM.RequestsPerSecond)
	v.SetDefault("llm.burst", d.LLM.Burst)
	v.SetDefault("llm.http_proxy", d.LLM.HTTPProxy)
	v.SetDefault("llm.https_proxy", d.LLM.HTTPSProxy)
	v.SetDefault("llm.no_proxy", d.LLM.NoProxy)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.memory_ttl", d.Cache.MemoryTTL)
	v.SetDefault("cache.disk_ttl", d.Cache.DiskTTL)

	v.SetDefault("logging.level", d.Logging.Level)
}

// configFromViper resolves the effective configuration
func configFromViper(v *viper.Viper) (*model.Config, error) {
	cfg := &model.Config{
		Match: model.MatchConfig{
			Threshold: v.GetFloat64("match.threshold"),
		},
		Data: model.DataConfig{
			Dir:             v.GetString("data.dir"),
			JournalsFile:    v.GetString("data.journals_file"),
			GoldFile:        v.GetString("data.gold_file"),
			PredictionsFile: v.GetString("data.predictions_file"),
		},
		Output: model.OutputConfig{
			Dir:      v.GetString("output.dir"),
			Detail:   v.GetBool("output.detail"),
			Markdown: v.GetBool("output.markdown"),
			Verbose:  v.GetBool("output.verbose"),
		},
		Concurrency: model.ConcurrencyConfig{
			Workers: v.GetInt("concurrency.workers"),
		},
		LLM: model.LLMConfig{
			Provider:          v.GetString("llm.provider"),
			Model:             v.GetString("llm.model"),
			BaseURL:           v.GetString("llm.base_url"),
			Timeout:           v.GetInt("llm.timeout"),
			MaxTokens:         v.GetInt("llm.max_tokens"),
			RequestsPerSecond: v.GetFloat64("llm.requests_per_second"),
			Burst:             v.GetInt("llm.burst"),
			HTTPProxy:         v.GetString("llm.http_proxy"),
			HTTPSProxy:        v.GetString("llm.https_proxy"),
			NoProxy:           v.GetString("llm.no_proxy"),
		},
		Cache: model.CacheConfig{
			Enabled:   v.GetBool("cache.enabled"),
			Dir:       v.GetString("cache.dir"),
			MemoryTTL: v.GetDuration("cache.memory_ttl"),
			DiskTTL:   v.GetDuration("cache.disk_ttl"),
		},
		Logging: model.LoggingConfig{
			Level: v.GetString("logging.level"),
		},
	}

	if t := cfg.Match.Threshold; t < 0 || t > 1 {
		return nil, fmt.Errorf("match.threshold must be in [0, 1], got %v", t)
	}
	if cfg.Concurrency.Workers < 1 {
		cfg.Concurrency.Workers = 1
	}
	return cfg, nil
}

// bindFlags binds command flags to config keys. Binding happens when the
// command runs because several commands share key names.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		f := flags.Lookup(flag)
		if f == nil {
			return fmt.Errorf("unknown flag %q", flag)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind %s: %w", flag, err)
		}
	}
	return nil
}

// loadConfig binds the command's flags and resolves the configuration
func loadConfig(cmd *cobra.Command, keys map[string]string) (*model.Config, error) {
	if err := bindFlags(viper.GetViper(), cmd.Flags(), keys); err != nil {
		return nil, err
	}
	return configFromViper(viper.GetViper())
}

// newLogger builds the structured logger; --verbose forces debug level
func newLogger(cfg *model.Config) (logger.Logger, error) {
	level := cfg.Logging.Level
	if cfg.Output.Verbose {
		level = "debug"
	}
	return logger.New(logger.Config{Level: level})
}
