package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/annoteval/internal/logger"
	"github.com/ppiankov/annoteval/internal/model"
)

// maxLineBytes bounds a single JSONL line; journal entries can be long
const maxLineBytes = 16 << 20

// Journal is one free-text journal entry
type Journal struct {
	ID   string `json:"journal_id"`
	Text string `json:"text"`
}

// Document is a journal entry with its gold and predicted annotations
type Document struct {
	JournalID string
	Text      string
	Gold      []model.Annotation
	Predicted []model.Annotation
}

// AnnotationSet is an annotation file entry for one journal, in wire form
type AnnotationSet struct {
	JournalID string         `json:"journal_id"`
	Items     []model.Record `json:"items"`
}

type rawJournal struct {
	ID   *string `json:"journal_id"`
	Text *string `json:"text"`
}

type rawAnnotationSet struct {
	ID          *string     `json:"journal_id"`
	Items       []rawRecord `json:"items"`
	Annotations []rawRecord `json:"annotations"`
}

// eachLine calls fn for every non-blank line of a JSONL file with its 1-based
// line number
func eachLine(path string, fn func(line int, data []byte) error) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return scanLines(f, func(line int, data []byte) error {
		if err := fn(line, data); err != nil {
			return fmt.Errorf("%s:%d: %w", filepath.Base(path), line, err)
		}
		return nil
	})
}

func scanLines(r io.Reader, fn func(line int, data []byte) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		data := []byte(strings.TrimSpace(scanner.Text()))
		if len(data) == 0 {
			continue
		}
		if err := fn(line, data); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	return nil
}

// ReadJournals reads journal entries in file order. Duplicate ids and
// missing fields are malformed input.
func ReadJournals(path string) ([]Journal, error) {
	var journals []Journal
	seen := make(map[string]bool)

	err := eachLine(path, func(_ int, data []byte) error {
		var raw rawJournal
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
		if raw.ID == nil {
			return fmt.Errorf("%w: missing journal_id", ErrMalformedRecord)
		}
		if raw.Text == nil {
			return fmt.Errorf("%w: missing text", ErrMalformedRecord)
		}
		if seen[*raw.ID] {
			return fmt.Errorf("%w: duplicate journal_id %q", ErrMalformedRecord, *raw.ID)
		}
		seen[*raw.ID] = true
		journals = append(journals, Journal{ID: *raw.ID, Text: *raw.Text})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return journals, nil
}

// ReadAnnotations reads an annotation file (gold or predictions) keyed by
// journal id. Items are read from "items", falling back to "annotations".
func ReadAnnotations(path string) (map[string][]model.Annotation, error) {
	out := make(map[string][]model.Annotation)

	err := eachLine(path, func(_ int, data []byte) error {
		var raw rawAnnotationSet
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
		if raw.ID == nil {
			return fmt.Errorf("%w: missing journal_id", ErrMalformedRecord)
		}
		if _, dup := out[*raw.ID]; dup {
			return fmt.Errorf("%w: duplicate journal_id %q", ErrMalformedRecord, *raw.ID)
		}

		records := raw.Items
		if records == nil {
			records = raw.Annotations
		}
		items, err := parseRecords(records)
		if err != nil {
			return fmt.Errorf("journal %q: %w", *raw.ID, err)
		}
		out[*raw.ID] = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Join pairs every journal with its gold and predicted annotations, keeping
// journal order. Journals without an entry get empty sets; entries for
// unknown journals are logged and ignored.
func Join(journals []Journal, gold, predicted map[string][]model.Annotation, log logger.Logger) []Document {
	known := make(map[string]bool, len(journals))
	docs := make([]Document, 0, len(journals))
	for _, j := range journals {
		known[j.ID] = true
		docs = append(docs, Document{
			JournalID: j.ID,
			Text:      j.Text,
			Gold:      gold[j.ID],
			Predicted: predicted[j.ID],
		})
	}

	for _, set := range []struct {
		name string
		m    map[string][]model.Annotation
	}{{"gold", gold}, {"predictions", predicted}} {
		for id := range set.m {
			if !known[id] {
				log.Warn("annotations for unknown journal ignored",
					logger.String("file", set.name),
					logger.String("journal_id", id))
			}
		}
	}

	return docs
}

// Load reads journals, gold and predictions from the configured data
// directory and joins them into documents
func Load(cfg model.DataConfig, log logger.Logger) ([]Document, error) {
	journals, err := ReadJournals(filepath.Join(cfg.Dir, cfg.JournalsFile))
	if err != nil {
		return nil, fmt.Errorf("read journals: %w", err)
	}
	gold, err := ReadAnnotations(filepath.Join(cfg.Dir, cfg.GoldFile))
	if err != nil {
		return nil, fmt.Errorf("read gold: %w", err)
	}
	predicted, err := ReadAnnotations(filepath.Join(cfg.Dir, cfg.PredictionsFile))
	if err != nil {
		return nil, fmt.Errorf("read predictions: %w", err)
	}

	log.Info("corpus loaded",
		logger.Int("journals", len(journals)),
		logger.Int("gold_entries", len(gold)),
		logger.Int("prediction_entries", len(predicted)))

	return Join(journals, gold, predicted, log), nil
}
