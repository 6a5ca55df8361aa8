// Package dosage joins reference SNPs to a person's genotype calls and turns
// the calls into alternate allele dosages, keeping track of which dosages are
// unknown.
package dosage

import (
	"strconv"

	"gopkg.in/guregu/null.v3"
)

// Dosage is a count of alternate alleles that may be undefined. Undefined is
// not zero: an undefined dosage is what triggers simulation downstream, and
// any sum involving an undefined dosage is itself undefined.
type Dosage struct {
	null.Int
}

// Missing is the undefined dosage.
var Missing = Dosage{}

func Known(n int) Dosage {
	return Dosage{null.IntFrom(int64(n))}
}

func (d Dosage) IsMissing() bool {
	return !d.Valid
}

// Get returns the dosage and whether it is defined.
func (d Dosage) Get() (int, bool) {
	return int(d.Int64), d.Valid
}

// Add sums two dosages. If either is undefined, so is the result.
func (d Dosage) Add(other Dosage) Dosage {
	if !d.Valid || !other.Valid {
		return Missing
	}

	return Known(int(d.Int64 + other.Int64))
}

// Float64 returns the dosage as a model input, substituting fill when the
// dosage is undefined.
func (d Dosage) Float64(fill float64) float64 {
	if !d.Valid {
		return fill
	}

	return float64(d.Int64)
}

func (d Dosage) String() string {
	if !d.Valid {
		return "NA"
	}

	return strconv.FormatInt(d.Int64, 10)
}
