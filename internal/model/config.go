package model

import (
	"runtime"
	"time"
)

// Config is the complete annoteval configuration
type Config struct {
	Match       MatchConfig       `yaml:"match"`
	Data        DataConfig        `yaml:"data"`
	Output      OutputConfig      `yaml:"output"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	LLM         LLMConfig         `yaml:"llm"`
	Cache       CacheConfig       `yaml:"cache"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// MatchConfig controls gold/prediction alignment
type MatchConfig struct {
	Threshold float64 `yaml:"threshold"` // minimum Jaccard similarity for a candidate pair
}

// DataConfig locates the input JSONL files
type DataConfig struct {
	Dir             string `yaml:"dir"`
	JournalsFile    string `yaml:"journals_file"`
	GoldFile        string `yaml:"gold_file"`
	PredictionsFile string `yaml:"predictions_file"`
}

// OutputConfig controls what gets written
type OutputConfig struct {
	Dir      string `yaml:"dir"`
	Detail   bool   `yaml:"detail"`   // also write per_journal_details.jsonl
	Markdown bool   `yaml:"markdown"` // also write report.md
	Verbose  bool   `yaml:"verbose"`
}

// ConcurrencyConfig sizes the worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// LLMConfig configures the optional extraction provider
type LLMConfig struct {
	Provider          string  `yaml:"provider"` // openai, anthropic, ollama
	Model             string  `yaml:"model"`
	APIKey            string  `yaml:"-"`
	BaseURL           string  `yaml:"base_url,omitempty"`
	Timeout           int     `yaml:"timeout"` // seconds
	MaxTokens         int     `yaml:"max_tokens"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	HTTPProxy         string  `yaml:"http_proxy,omitempty"`
	HTTPSProxy        string  `yaml:"https_proxy,omitempty"`
	NoProxy           string  `yaml:"no_proxy,omitempty"`
}

// CacheConfig controls caching of extraction responses
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// LoggingConfig controls the structured logger
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultThreshold is the default minimum evidence similarity for a match
const DefaultThreshold = 0.5

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Match: MatchConfig{
			Threshold: DefaultThreshold,
		},
		Data: DataConfig{
			Dir:             "./data",
			JournalsFile:    "journals.jsonl",
			GoldFile:        "gold.jsonl",
			PredictionsFile: "sample_predictions.jsonl",
		},
		Output: OutputConfig{
			Dir: "./out",
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		LLM: LLMConfig{
			Provider:          "",
			Model:             "",
			Timeout:           60,
			MaxTokens:         2000,
			RequestsPerSecond: 1,
			Burst:             2,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".annoteval-cache",
			MemoryTTL: time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
