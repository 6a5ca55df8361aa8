package summary

import (
	"errors"
	"math"
	"testing"

	"github.com/carbocation/prs313/score"
)

func TestDescribe(t *testing.T) {
	s, err := Describe([]float64{4, 1, 3, 2})
	if err != nil {
		t.Fatal(err)
	}

	for _, v := range []struct {
		name     string
		got      float64
		expected float64
	}{
		{"mean", s.Mean, 2.5},
		{"median", s.Median, 2.5},
		{"sd", s.StandardDeviation, math.Sqrt(1.25)},
		{"min", s.Min, 1},
		{"max", s.Max, 4},
	} {
		if math.Abs(v.got-v.expected) > 1e-12 {
			t.Errorf("%s: expected %v, got %v", v.name, v.expected, v.got)
		}
	}
	if s.N != 4 {
		t.Errorf("Expected N=4, got %d", s.N)
	}
}

func TestDescribeOdd(t *testing.T) {
	s, err := Describe([]float64{5, 1, 3})
	if err != nil {
		t.Fatal(err)
	}
	if s.Median != 3 {
		t.Errorf("Expected median 3, got %v", s.Median)
	}
}

func TestEmpty(t *testing.T) {
	if _, err := Describe(nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("Expected ErrEmpty, got %v", err)
	}
	if _, err := Histogram(nil, 10); !errors.Is(err, ErrEmpty) {
		t.Errorf("Expected ErrEmpty, got %v", err)
	}
	if _, err := Vectors(nil, 10); !errors.Is(err, ErrEmpty) {
		t.Errorf("Expected ErrEmpty, got %v", err)
	}
}

func TestHistogram(t *testing.T) {
	h, err := Histogram([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(h) != DefaultBins {
		t.Fatalf("Expected %d bins, got %d", DefaultBins, len(h))
	}

	total := 0
	for _, b := range h {
		total += b.Count
	}
	if total != 11 {
		t.Errorf("Expected 11 values counted, got %d", total)
	}

	// The maximum lands in the last bin alongside 9
	if h[9].Count != 2 {
		t.Errorf("Expected the last bin to hold 2 values, got %d", h[9].Count)
	}
	if h[0].Lower != 0 || h[9].Upper != 10 {
		t.Errorf("Unexpected range [%v, %v]", h[0].Lower, h[9].Upper)
	}
}

func TestHistogramZeroWidth(t *testing.T) {
	h, err := Histogram([]float64{3, 3, 3}, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(h) != 4 || h[0].Count != 3 {
		t.Errorf("Expected all values in the first of 4 bins, got %+v", h)
	}
	for _, b := range h[1:] {
		if b.Count != 0 {
			t.Errorf("Expected empty trailing bins, got %+v", h)
		}
	}
}

func TestVectors(t *testing.T) {
	vectors := []score.Vector{
		{1, 0, 0, 0, 0},
		{2, 0, 0, 0, 0},
		{3, 0, 0, 0, 0},
		{4, 0, 0, 0, 0},
	}

	out, err := Vectors(vectors, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 5 {
		t.Fatalf("Expected 5 summaries, got %d", len(out))
	}
	if out[0].Phenotype != "overall" || out[0].Mean != 2.5 {
		t.Errorf("Unexpected overall summary %+v", out[0])
	}
	if out[0].Histogram[0].Count != 2 || out[0].Histogram[1].Count != 2 {
		t.Errorf("Unexpected histogram %+v", out[0].Histogram)
	}
	if out[1].StandardDeviation != 0 {
		t.Errorf("Expected a constant phenotype to have no spread, got %v", out[1].StandardDeviation)
	}
}
