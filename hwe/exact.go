package hwe

import (
	"math"
	"math/big"

	"github.com/BenLubar/memoize"
)

var (
	memoizedExact       = memoize.Memoize(exact)
	memoizedProbability = memoize.Memoize(probability)
	memoizedRange       = memoize.Memoize(productRange)
)

// exact sums the probabilities of every heterozygote count at least as
// unlikely as the observed one, holding the allele counts fixed (Fisher's
// method as described by Wigginton, Cutler and Abecasis 2005). Safe for
// concurrent use.
func exact(homA, het, homB int64) float64 {
	// Let homA be the common homozygote
	if homB > homA {
		homA, homB = homB, homA
	}

	observed := memoizedProbability.(func(int64, int64, int64) float64)(homA, het, homB)
	total := observed

	// Each step trades two homozygotes for two heterozygotes or back again
	for _, step := range []int64{1, -1} {
		a, h, b := homA-step, het+2*step, homB-step
		for a >= 0 && h >= 0 && b >= 0 {
			p := memoizedProbability.(func(int64, int64, int64) float64)(a, h, b)
			if p <= math.SmallestNonzeroFloat64 {
				break
			}
			if p <= observed {
				total += p
			}
			a, h, b = a-step, h+2*step, b-step
		}
	}

	return math.Min(total, 1)
}

// probability of exactly het heterozygotes among homA+het+homB samples given
// the allele counts.
func probability(homA, het, homB int64) float64 {
	nA := 2*homA + het
	nB := 2*homB + het
	n := homA + het + homB

	rangeOf := memoizedRange.(func(int64, int64) *big.Int)

	var num, denom big.Int
	num.Exp(big.NewInt(2), big.NewInt(het), nil)
	num.Mul(&num, rangeOf(1, nA))
	num.Mul(&num, rangeOf(1, nB))

	denom.Set(rangeOf(n+1, 2*n))
	denom.Mul(&denom, rangeOf(1, homA))
	denom.Mul(&denom, rangeOf(1, het))
	denom.Mul(&denom, rangeOf(1, homB))

	out, _ := new(big.Rat).SetFrac(&num, &denom).Float64()
	return out
}

// productRange is a*(a+1)*...*b, or 1 when b < a. The result is shared
// through the memoizer and must not be modified.
func productRange(a, b int64) *big.Int {
	return big.NewInt(1).MulRange(a, b)
}
