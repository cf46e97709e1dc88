package model

import (
	"encoding/json"
	"fmt"
)

// Domain is the category an annotation belongs to
type Domain string

const (
	DomainSymptom Domain = "symptom"
	DomainFood    Domain = "food"
	DomainEmotion Domain = "emotion"
	DomainMind    Domain = "mind"
)

// Domains lists every supported domain in report order
var Domains = []Domain{DomainSymptom, DomainFood, DomainEmotion, DomainMind}

// Valid reports whether d is one of the supported domains
func (d Domain) Valid() bool {
	switch d {
	case DomainSymptom, DomainFood, DomainEmotion, DomainMind:
		return true
	}
	return false
}

// Polarity states whether the annotated thing was present
type Polarity string

const (
	PolarityPresent   Polarity = "present"
	PolarityAbsent    Polarity = "absent"
	PolarityUncertain Polarity = "uncertain"
)

func (p Polarity) Valid() bool {
	switch p {
	case PolarityPresent, PolarityAbsent, PolarityUncertain:
		return true
	}
	return false
}

// Bucket is a coarse intensity or arousal level
type Bucket string

const (
	BucketLow     Bucket = "low"
	BucketMedium  Bucket = "medium"
	BucketHigh    Bucket = "high"
	BucketUnknown Bucket = "unknown"
)

func (b Bucket) Valid() bool {
	switch b {
	case BucketLow, BucketMedium, BucketHigh, BucketUnknown:
		return true
	}
	return false
}

// TimeBucket is the coarse time reference of an annotation
type TimeBucket string

const (
	TimeToday     TimeBucket = "today"
	TimeLastNight TimeBucket = "last_night"
	TimePastWeek  TimeBucket = "past_week"
	TimeUnknown   TimeBucket = "unknown"
)

func (t TimeBucket) Valid() bool {
	switch t {
	case TimeToday, TimeLastNight, TimePastWeek, TimeUnknown:
		return true
	}
	return false
}

// Annotation is one semantic unit extracted from a journal entry.
//
// Only the bucket selected by Domain is meaningful: Arousal for emotion,
// Intensity for everything else. NewAnnotation keeps the other one at
// BucketUnknown. Values are never mutated after construction.
type Annotation struct {
	Domain       Domain
	EvidenceSpan string
	Polarity     Polarity
	Intensity    Bucket
	Arousal      Bucket
	Time         TimeBucket
}

// NewAnnotation builds an annotation, keeping only the bucket that is active
// for the domain. An empty active bucket defaults to BucketUnknown.
func NewAnnotation(domain Domain, span string, polarity Polarity, intensity, arousal Bucket, tb TimeBucket) Annotation {
	a := Annotation{
		Domain:       domain,
		EvidenceSpan: span,
		Polarity:     polarity,
		Intensity:    BucketUnknown,
		Arousal:      BucketUnknown,
		Time:         tb,
	}
	if domain == DomainEmotion {
		if arousal != "" {
			a.Arousal = arousal
		}
	} else if intensity != "" {
		a.Intensity = intensity
	}
	if a.Time == "" {
		a.Time = TimeUnknown
	}
	return a
}

// UsesArousal reports whether the arousal bucket is the active one
func (a Annotation) UsesArousal() bool {
	return a.Domain == DomainEmotion
}

// ActiveBucket returns the bucket selected by the annotation's domain
func (a Annotation) ActiveBucket() Bucket {
	if a.UsesArousal() {
		return a.Arousal
	}
	return a.Intensity
}

func (a Annotation) String() string {
	return fmt.Sprintf("%s(%q, %s, %s)", a.Domain, a.EvidenceSpan, a.Polarity, a.ActiveBucket())
}

// Record is the wire form of an annotation. Exactly one of the bucket fields
// is emitted on output.
type Record struct {
	Domain          string `json:"domain"`
	EvidenceSpan    string `json:"evidence_span"`
	Polarity        string `json:"polarity"`
	TimeBucket      string `json:"time_bucket"`
	IntensityBucket string `json:"intensity_bucket,omitempty"`
	ArousalBucket   string `json:"arousal_bucket,omitempty"`
}

// Record converts the annotation to its wire form, emitting only the active
// bucket field.
func (a Annotation) Record() Record {
	r := Record{
		Domain:       string(a.Domain),
		EvidenceSpan: a.EvidenceSpan,
		Polarity:     string(a.Polarity),
		TimeBucket:   string(a.Time),
	}
	if a.UsesArousal() {
		r.ArousalBucket = string(a.Arousal)
	} else {
		r.IntensityBucket = string(a.Intensity)
	}
	return r
}

// MarshalJSON serializes the shared fields plus the active bucket only
func (a Annotation) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Record())
}

// Records converts a slice of annotations to wire records
func Records(items []Annotation) []Record {
	out := make([]Record, 0, len(items))
	for _, a := range items {
		out = append(out, a.Record())
	}
	return out
}
