// Package genotype reads consumer genotype exports in the 23andMe layout:
// tab-delimited rsid, chromosome, position and genotype columns with
// #-prefixed comment lines.
package genotype

import (
	"github.com/carbocation/prs313/chrpos"
	"gopkg.in/guregu/null.v3"
)

// Map columns in the genotype file to their positions
const (
	RSID int = iota
	Chromosome
	Position
	Genotype
)

// NoCall is how 23andMe reports a genotype that could not be determined.
const NoCall = "--"

type Record struct {
	RSID       string
	Chromosome string // As given, e.g. "1", "X" or "MT"
	Position   int
	Genotype   null.String // Invalid when missing or a no-call
}

// Key is the coordinate join key, chr{chromosome}:{position}.
func (r Record) Key() string {
	return chrpos.Key(r.Chromosome, r.Position)
}

// normalizeGenotype yields a valid two-character genotype or an invalid
// null.String for anything that is not a usable diploid call.
func normalizeGenotype(raw string) null.String {
	if len(raw) != 2 || raw == NoCall {
		return null.String{}
	}

	return null.StringFrom(raw)
}
