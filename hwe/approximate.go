package hwe

import (
	"math"

	"github.com/tokenme/probab/dst"
)

func approximate(homA, het, homB float64) (p float64) {
	// The chi square CDF panics on some degenerate inputs
	defer func() {
		if recover() != nil {
			p = math.NaN()
		}
	}()

	return 1.0 - dst.ChiSquareCDF(1)(chiSquare(homA, het, homB))
}

// chiSquare compares observed genotype counts with those expected from the
// observed allele frequencies.
func chiSquare(homA, het, homB float64) float64 {
	nA := 2*homA + het
	nB := 2*homB + het

	// A monomorphic site matches expectation exactly
	if nA == 0 || nB == 0 {
		return 0
	}

	n := homA + het + homB
	fA := nA / (nA + nB)
	fB := nB / (nA + nB)

	expected := [3]float64{fA * fA * n, 2 * fA * fB * n, fB * fB * n}
	observed := [3]float64{homA, het, homB}

	var out float64
	for i := range expected {
		out += math.Pow(observed[i]-expected[i], 2) / expected[i]
	}
	return out
}
