// Package corpus reads and writes the JSON Lines files annoteval works on.
package corpus

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ppiankov/annoteval/internal/model"
)

// ErrMalformedRecord is wrapped by every validation failure at load time
var ErrMalformedRecord = errors.New("malformed record")

// rawRecord is an annotation record as it appears on disk. Pointers tell a
// missing field apart from an empty one.
type rawRecord struct {
	Domain          *string `json:"domain"`
	EvidenceSpan    *string `json:"evidence_span"`
	Polarity        *string `json:"polarity"`
	TimeBucket      *string `json:"time_bucket"`
	IntensityBucket *string `json:"intensity_bucket"`
	ArousalBucket   *string `json:"arousal_bucket"`
}

// Annotation validates the record and builds a typed annotation.
// Missing bucket fields default to unknown; everything else is required.
func (r rawRecord) Annotation() (model.Annotation, error) {
	for _, f := range []struct {
		name string
		v    *string
	}{
		{"domain", r.Domain},
		{"evidence_span", r.EvidenceSpan},
		{"polarity", r.Polarity},
		{"time_bucket", r.TimeBucket},
	} {
		if f.v == nil {
			return model.Annotation{}, fmt.Errorf("%w: missing %s", ErrMalformedRecord, f.name)
		}
	}

	domain := model.Domain(*r.Domain)
	if !domain.Valid() {
		return model.Annotation{}, fmt.Errorf("%w: unknown domain %q", ErrMalformedRecord, *r.Domain)
	}
	polarity := model.Polarity(*r.Polarity)
	if !polarity.Valid() {
		return model.Annotation{}, fmt.Errorf("%w: unknown polarity %q", ErrMalformedRecord, *r.Polarity)
	}
	tb := model.TimeBucket(*r.TimeBucket)
	if !tb.Valid() {
		return model.Annotation{}, fmt.Errorf("%w: unknown time_bucket %q", ErrMalformedRecord, *r.TimeBucket)
	}

	intensity, err := bucketOrUnknown("intensity_bucket", r.IntensityBucket)
	if err != nil {
		return model.Annotation{}, err
	}
	arousal, err := bucketOrUnknown("arousal_bucket", r.ArousalBucket)
	if err != nil {
		return model.Annotation{}, err
	}

	return model.NewAnnotation(domain, *r.EvidenceSpan, polarity, intensity, arousal, tb), nil
}

func bucketOrUnknown(name string, v *string) (model.Bucket, error) {
	if v == nil {
		return model.BucketUnknown, nil
	}
	b := model.Bucket(*v)
	if !b.Valid() {
		return "", fmt.Errorf("%w: unknown %s %q", ErrMalformedRecord, name, *v)
	}
	return b, nil
}

// parseRecords validates a list of raw records in order, failing on the first bad one
func parseRecords(raw []rawRecord) ([]model.Annotation, error) {
	out := make([]model.Annotation, 0, len(raw))
	for i, r := range raw {
		a, err := r.Annotation()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// ParseItemsLenient decodes a JSON array of annotation records, keeping the
// valid ones and reporting each rejected item. Only a payload that is not a
// JSON array of objects is an error.
func ParseItemsLenient(data []byte) ([]model.Annotation, []error, error) {
	var raw []rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("%w: decode items: %v", ErrMalformedRecord, err)
	}

	var (
		items   []model.Annotation
		dropped []error
	)
	for i, r := range raw {
		a, err := r.Annotation()
		if err != nil {
			dropped = append(dropped, fmt.Errorf("item %d: %w", i, err))
			continue
		}
		items = append(items, a)
	}
	return items, dropped, nil
}
