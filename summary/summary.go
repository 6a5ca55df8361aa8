// Package summary describes the distribution of trial scores for each
// phenotype.
package summary

import (
	"errors"
	"math"
	"sort"

	"github.com/carbocation/pfx"
	"github.com/carbocation/prs313/prsparser"
	"github.com/carbocation/prs313/score"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultBins is the histogram resolution when none is given.
const DefaultBins = 10

var ErrEmpty = errors.New("no values to summarize")

// Statistics are computed over the values as an unordered set. The standard
// deviation is the population one (divided by N).
type Statistics struct {
	N                 int     `json:"n"`
	Mean              float64 `json:"mean"`
	Median            float64 `json:"median"`
	StandardDeviation float64 `json:"sd"`
	Min               float64 `json:"min"`
	Max               float64 `json:"max"`
}

// Bin covers [Lower, Upper). The last bin also includes its upper edge.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

type Summary struct {
	Phenotype  string `json:"phenotype"`
	Statistics `json:"statistics"`
	Histogram  []Bin `json:"histogram"`
}

func Describe(values []float64) (Statistics, error) {
	if len(values) == 0 {
		return Statistics{}, ErrEmpty
	}

	data := stats.Float64Data(values)
	out := Statistics{N: len(values)}

	var err error
	if out.Mean, err = stats.Mean(data); err != nil {
		return out, pfx.Err(err)
	}
	if out.Median, err = stats.Median(data); err != nil {
		return out, pfx.Err(err)
	}
	if out.StandardDeviation, err = stats.StandardDeviationPopulation(data); err != nil {
		return out, pfx.Err(err)
	}
	if out.Min, err = stats.Min(data); err != nil {
		return out, pfx.Err(err)
	}
	if out.Max, err = stats.Max(data); err != nil {
		return out, pfx.Err(err)
	}

	return out, nil
}

// Histogram counts values into equal-width bins spanning [min, max]. If all
// values are equal, they all land in the first bin.
func Histogram(values []float64, bins int) ([]Bin, error) {
	if len(values) == 0 {
		return nil, ErrEmpty
	}
	if bins < 1 {
		bins = DefaultBins
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	min, max := sorted[0], sorted[len(sorted)-1]

	out := make([]Bin, bins)
	width := (max - min) / float64(bins)
	for i := range out {
		out[i].Lower = min + float64(i)*width
		out[i].Upper = min + float64(i+1)*width
	}
	out[bins-1].Upper = max

	if max == min {
		out[0].Count = len(sorted)
		return out, nil
	}

	dividers := make([]float64, bins+1)
	floats.Span(dividers, min, max)

	// stat.Histogram excludes the upper edge
	dividers[bins] = math.Nextafter(max, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	for i, c := range counts {
		out[i].Count = int(c)
	}

	return out, nil
}

func Summarize(phenotype string, values []float64, bins int) (Summary, error) {
	s, err := Describe(values)
	if err != nil {
		return Summary{}, err
	}

	h, err := Histogram(values, bins)
	if err != nil {
		return Summary{}, err
	}

	return Summary{Phenotype: phenotype, Statistics: s, Histogram: h}, nil
}

// Vectors summarizes each phenotype across trials, in phenotype order.
func Vectors(vectors []score.Vector, bins int) ([]Summary, error) {
	if len(vectors) == 0 {
		return nil, ErrEmpty
	}

	out := make([]Summary, 0, prsparser.NumPhenotypes)
	for _, p := range prsparser.Phenotypes() {
		values := make([]float64, len(vectors))
		for i, v := range vectors {
			values[i] = v.Get(p)
		}

		s, err := Summarize(p.String(), values, bins)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, nil
}
