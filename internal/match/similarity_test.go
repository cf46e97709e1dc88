package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "stomach pain", "stomach pain", 1.0},
		{"subset", "sharp stomach pain", "stomach pain", 2.0 / 3.0},
		{"disjoint", "headache", "ate rice", 0.0},
		{"case folded", "Stomach PAIN", "stomach pain", 1.0},
		{"duplicate tokens collapse", "pain pain pain", "pain", 1.0},
		{"extra whitespace", "  stomach\tpain\n", "stomach pain", 1.0},
		{"both empty", "", "", 1.0},
		{"both whitespace", "   ", "\t", 1.0},
		{"one empty", "", "stomach pain", 0.0},
		{"punctuation is part of token", "pain.", "pain", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-12)
		})
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	spans := []string{
		"",
		"felt tired",
		"felt very tired today",
		"Tired",
		"skipped lunch and felt dizzy",
		"dizzy dizzy",
	}

	for _, a := range spans {
		for _, b := range spans {
			assert.Equal(t, Similarity(a, b), Similarity(b, a), "similarity(%q, %q)", a, b)
		}
		if a != "" {
			assert.Equal(t, 1.0, Similarity(a, a), "self similarity of %q", a)
		}
	}
}

func TestSimilarity_InRange(t *testing.T) {
	spans := []string{"a b c", "b c d", "x", "", "A B"}
	for _, a := range spans {
		for _, b := range spans {
			s := Similarity(a, b)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
		}
	}
}
