package match

import (
	"math"
	"testing"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"port", "port", 0},
		{"", "host", 4},
		{"host", "", 4},
		{"port", "prot", 2},
		{"port", "ports", 1},
		{"timeout", "timout", 1},
		{"kitten", "sitting", 3},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			if got := Levenshtein(tt.a, tt.b); got != tt.expected {
				t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestLevenshteinNormalized(t *testing.T) {
	tests := []struct {
		a, b     string
		expected float64
	}{
		{"", "", 1.0},
		{"port", "port", 1.0},
		{"abcd", "wxyz", 0.0},
		{"port", "ports", 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			got := LevenshteinNormalized(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("LevenshteinNormalized(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestNormalizedLevenshteinScore(t *testing.T) {
	if got := NormalizedLevenshteinScore("max_conns", "maxConns"); got != 1.0 {
		t.Errorf("separator and case differences should be ignored, got %f", got)
	}
}

func TestSuggest(t *testing.T) {
	candidates := []string{"port", "host", "readTimeout", "ports"}

	got := Suggest("prot", candidates, 0.5, 2)
	if len(got) != 1 || got[0] != "port" {
		t.Errorf("Suggest(prot) = %v, want [port]", got)
	}

	got = Suggest("read_timout", candidates, 0.6, 0)
	if len(got) != 1 || got[0] != "readTimeout" {
		t.Errorf("Suggest(read_timout) = %v, want [readTimeout]", got)
	}

	got = Suggest("port", candidates, 0.7, 1)
	if len(got) != 1 || got[0] != "port" {
		t.Errorf("Suggest(port) limited = %v, want [port]", got)
	}

	if got := Suggest("zzz", candidates, 0.5, 3); len(got) != 0 {
		t.Errorf("Suggest(zzz) = %v, want none", got)
	}
}
