package dosage

import (
	"strings"

	"github.com/carbocation/prs313/chrpos"
	"gopkg.in/guregu/null.v3"
)

// Record is an aligned SNP with its per-parent alleles and dosages. Unphased
// calls are split by position only: "maternal" is the first character of the
// genotype and "paternal" the second.
type Record struct {
	Aligned

	MaternalAllele null.String
	PaternalAllele null.String
	MaternalDosage Dosage
	PaternalDosage Dosage
	Unphased       Dosage
}

// AlleleDosage is 1 if allele is the alternate allele and 0 otherwise. It is
// undefined if either the allele or the alternate allele is unknown.
func AlleleDosage(allele null.String, alt string) Dosage {
	if !allele.Valid || allele.String == "" || alt == "" {
		return Missing
	}

	if strings.EqualFold(allele.String, alt) {
		return Known(1)
	}

	return Known(0)
}

// Derive computes the dosages for one aligned record. It has no side effects.
func Derive(a Aligned) Record {
	out := Record{Aligned: a}

	if a.Genotype != nil && a.Genotype.Genotype.Valid && len(a.Genotype.Genotype.String) == 2 {
		call := a.Genotype.Genotype.String
		out.MaternalAllele = null.StringFrom(call[0:1])
		out.PaternalAllele = null.StringFrom(call[1:2])
	}

	out.MaternalDosage = AlleleDosage(out.MaternalAllele, a.Reference.Alt)
	out.PaternalDosage = AlleleDosage(out.PaternalAllele, a.Reference.Alt)
	out.Unphased = out.MaternalDosage.Add(out.PaternalDosage)

	return out
}

func DeriveAll(aligned []Aligned) []Record {
	out := make([]Record, 0, len(aligned))
	for _, a := range aligned {
		out = append(out, Derive(a))
	}

	return out
}

// FeatureKey is the unphased model feature name for this SNP.
func (r Record) FeatureKey() string {
	return r.Reference.FeatureKey(chrpos.Combined).String()
}

// PhasedKeys are the per-parent feature names. The models consume unphased
// dosages only, but the phased names are kept for auditing.
func (r Record) PhasedKeys() (maternal, paternal string) {
	return r.Reference.FeatureKey(chrpos.Maternal).String(), r.Reference.FeatureKey(chrpos.Paternal).String()
}
