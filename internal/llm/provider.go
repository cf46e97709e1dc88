// Package llm turns journal text into predicted annotations using a hosted or
// local language model.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Model returns the model used when a request does not name one
	Model() string

	// Complete sends the extraction prompt and returns the raw model output
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Ping checks that the provider is configured and reachable
	Ping(ctx context.Context) error
}

// CompletionRequest contains the input for one extraction call
type CompletionRequest struct {
	// System is the system instruction; empty uses SystemPrompt
	System string

	// Prompt is the user message, usually built by BuildPrompt
	Prompt string

	// Model overrides the provider default
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// CompletionResponse is the raw model output
type CompletionResponse struct {
	Content    string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   60,
		MaxTokens: 2000,
	}
}

// temperature is kept low so repeated runs over a journal mostly agree
const temperature = 0.1

// SystemPrompt frames every extraction call
const SystemPrompt = "You annotate personal journal entries. You reply with JSON only, never prose."

// BuildPrompt constructs the extraction prompt for one journal entry
func BuildPrompt(text string) string {
	var b strings.Builder
	b.WriteString(`Extract every symptom, food, emotion and mind-state mention from the journal entry below.

Return a JSON array. Each element is an object with these fields:
- "domain": one of "symptom", "food", "emotion", "mind"
- "evidence_span": the exact words from the entry, copied verbatim
- "polarity": "present", "absent" or "uncertain"
- "time_bucket": "today", "last_night", "past_week" or "unknown"
- "arousal_bucket": for emotion only, "low", "medium", "high" or "unknown"
- "intensity_bucket": for every other domain, "low", "medium", "high" or "unknown"

Rules:
1. evidence_span MUST be a substring of the entry. Do not paraphrase or correct spelling.
2. Negated mentions ("no headache") are polarity "absent", hedged ones ("maybe tired") are "uncertain".
3. Use "unknown" when the entry gives no clue about intensity, arousal or time.
4. Return [] when nothing qualifies.

Journal entry:
"""
`)
	b.WriteString(text)
	b.WriteString("\n\"\"\"\n")
	return b.String()
}

// extractJSON strips markdown code fences and any text around the outermost
// JSON array or object in a model reply
func extractJSON(content string) (string, error) {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return "", fmt.Errorf("no JSON in model output")
	}
	closer := byte(']')
	if s[start] == '{' {
		closer = '}'
	}
	end := strings.LastIndexByte(s, closer)
	if end < start {
		return "", fmt.Errorf("unterminated JSON in model output")
	}
	return s[start : end+1], nil
}

func pick[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
