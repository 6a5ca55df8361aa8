// Package hwe tests genotype counts for Hardy-Weinberg equilibrium. The
// simulator draws both alleles of a missing SNP independently, which is
// equilibrium by construction; these tests make departures visible.
package hwe

import (
	"fmt"

	"github.com/BenLubar/memoize"
)

// Counts are genotype counts at one biallelic site, indexed by alternate
// allele dosage.
type Counts struct {
	HomRef int64
	Het    int64
	HomAlt int64
}

// Add tallies one genotype by its alternate allele dosage (0, 1 or 2).
func (c *Counts) Add(dosage int) error {
	switch dosage {
	case 0:
		c.HomRef++
	case 1:
		c.Het++
	case 2:
		c.HomAlt++
	default:
		return fmt.Errorf("dosage %d is not 0, 1 or 2", dosage)
	}
	return nil
}

func (c Counts) N() int64 {
	return c.HomRef + c.Het + c.HomAlt
}

// AlternateFrequency is the observed alternate allele frequency.
func (c Counts) AlternateFrequency() float64 {
	if c.N() == 0 {
		return 0
	}
	return float64(2*c.HomAlt+c.Het) / float64(2*c.N())
}

var memoizedApproximate = memoize.Memoize(approximate)

// Fast computes the chi square approximation and, only if that P value falls
// below cutoff, replaces it with the exact P value.
func (c Counts) Fast(cutoff float64) float64 {
	p := memoizedApproximate.(func(float64, float64, float64) float64)(float64(c.HomRef), float64(c.Het), float64(c.HomAlt))
	if p < cutoff {
		return c.Exact()
	}
	return p
}

// Approximate is the 1 degree of freedom chi square P value.
func (c Counts) Approximate() float64 {
	return approximate(float64(c.HomRef), float64(c.Het), float64(c.HomAlt))
}

// Exact is the exact test P value.
func (c Counts) Exact() float64 {
	return memoizedExact.(func(int64, int64, int64) float64)(c.HomRef, c.Het, c.HomAlt)
}
