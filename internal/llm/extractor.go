package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ppiankov/annoteval/internal/cache"
	"github.com/ppiankov/annoteval/internal/corpus"
	"github.com/ppiankov/annoteval/internal/logger"
	"github.com/ppiankov/annoteval/internal/model"
)

// Extractor produces predicted annotations for journal entries through a
// Provider. Raw replies are cached by provider, model and text.
type Extractor struct {
	provider Provider
	cache    cache.Cache
	log      logger.Logger
}

// NewExtractor creates an extractor. A nil cache disables caching and a nil
// logger discards warnings.
func NewExtractor(provider Provider, c cache.Cache, log logger.Logger) *Extractor {
	if c == nil {
		c = cache.Nop{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Extractor{provider: provider, cache: c, log: log}
}

// Extract returns the valid annotations in the model reply for one journal.
// Individually malformed items are dropped with a warning; an unusable reply
// fails the journal.
func (e *Extractor) Extract(ctx context.Context, journal corpus.Journal) ([]model.Annotation, error) {
	key := cache.Key(e.provider.Name(), e.provider.Model(), journal.Text)

	content, hit := e.cache.Get(key)
	if hit {
		e.log.Debug("extraction cache hit", logger.String("journal_id", journal.ID))
	} else {
		resp, err := e.provider.Complete(ctx, CompletionRequest{Prompt: BuildPrompt(journal.Text)})
		if err != nil {
			return nil, fmt.Errorf("journal %s: %w", journal.ID, err)
		}
		content = []byte(resp.Content)
		e.log.Debug("extraction complete",
			logger.String("journal_id", journal.ID),
			logger.String("model", resp.Model),
			logger.Int("tokens", resp.TokensUsed),
		)
	}

	items, dropped, err := parseReply(string(content))
	if err != nil {
		return nil, fmt.Errorf("journal %s: %w", journal.ID, err)
	}

	if !hit {
		if err := e.cache.Set(key, content, 0); err != nil {
			e.log.Warn("cache write failed", logger.String("journal_id", journal.ID), logger.Error(err))
		}
	}

	for _, d := range dropped {
		e.log.Warn("dropped extracted item",
			logger.String("journal_id", journal.ID),
			logger.Error(d),
		)
	}
	return items, nil
}

// parseReply accepts a bare JSON array of items or an object wrapping one in
// "items" or "annotations"
func parseReply(content string) ([]model.Annotation, []error, error) {
	payload, err := extractJSON(content)
	if err != nil {
		return nil, nil, err
	}

	if payload[0] == '{' {
		var wrapped struct {
			Items       json.RawMessage `json:"items"`
			Annotations json.RawMessage `json:"annotations"`
		}
		if err := json.Unmarshal([]byte(payload), &wrapped); err != nil {
			return nil, nil, fmt.Errorf("decode model output: %w", err)
		}
		switch {
		case len(wrapped.Items) > 0:
			payload = string(wrapped.Items)
		case len(wrapped.Annotations) > 0:
			payload = string(wrapped.Annotations)
		default:
			// a single item object
			payload = "[" + payload + "]"
		}
	}

	items, dropped, err := corpus.ParseItemsLenient([]byte(payload))
	if err != nil {
		return nil, nil, err
	}
	if items == nil {
		items = []model.Annotation{}
	}
	return items, dropped, nil
}
