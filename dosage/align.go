package dosage

import (
	"github.com/carbocation/prs313/genotype"
	"github.com/carbocation/prs313/reference"
)

// Aligned is a reference SNP together with the matching genotype call, if
// any. Reference fields are authoritative; the genotype only contributes the
// call itself.
type Aligned struct {
	Reference reference.Record
	Genotype  *genotype.Record
}

// Merge builds an Aligned record. g may be nil when the person has no call at
// this position. The genotype record is copied.
func Merge(ref reference.Record, g *genotype.Record) Aligned {
	out := Aligned{Reference: ref}
	if g != nil {
		gCopy := *g
		out.Genotype = &gCopy
	}

	return out
}

func (a Aligned) Matched() bool {
	return a.Genotype != nil
}

// Align performs a left outer join of the reference panel onto the genotype
// calls by coordinate key. Every reference record appears in the output, in
// reference order; genotype records at positions the reference does not know
// are discarded. When the genotype file repeats a position, the last record
// wins.
func Align(refs []reference.Record, genotypes []genotype.Record) []Aligned {
	index := make(map[string]int, len(genotypes))
	for i, g := range genotypes {
		index[g.Key()] = i
	}

	out := make([]Aligned, 0, len(refs))
	for _, ref := range refs {
		if i, exists := index[ref.Key()]; exists {
			out = append(out, Merge(ref, &genotypes[i]))
			continue
		}
		out = append(out, Merge(ref, nil))
	}

	return out
}
