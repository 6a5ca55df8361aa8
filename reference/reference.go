// Package reference parses the reference panel table: one row per SNP that
// the imputation models know about, identified by a composite
// chr{n}_{pos}_{ref}_{alt}[_{panel}] string.
package reference

import (
	"strconv"

	"github.com/carbocation/prs313/chrpos"
)

// Record is one reference SNP. Records are immutable once parsed.
type Record struct {
	ID         string
	Chromosome int
	Position   int
	Ref        string
	Alt        string
	Panel      bool
	PanelTag   string
}

// Key is the coordinate join key, chr{chromosome}:{position}.
func (r Record) Key() string {
	return chrpos.Key(strconv.Itoa(r.Chromosome), r.Position)
}

// FeatureKey names this SNP as a model feature for the given phase.
func (r Record) FeatureKey(phase string) chrpos.FeatureKey {
	fk := chrpos.FeatureKey{
		Locus: chrpos.Locus{Chromosome: r.Chromosome, Position: r.Position},
		Ref:   r.Ref,
		Alt:   r.Alt,
		Phase: phase,
	}
	if r.Panel {
		fk.PanelTag = r.PanelTag
	}
	return fk
}
