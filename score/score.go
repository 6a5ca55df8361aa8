// Package score sums weighted dosages into the five PRS313 phenotype scores.
package score

import (
	"github.com/carbocation/prs313"
	"github.com/carbocation/prs313/chrpos"
	"github.com/carbocation/prs313/dosage"
	"github.com/carbocation/prs313/prsparser"
)

// Vector holds one trial's score for each phenotype.
type Vector [prsparser.NumPhenotypes]float64

func (v Vector) Get(p prsparser.Phenotype) float64 {
	return v[p]
}

// Map keys the scores by phenotype name.
func (v Vector) Map() map[string]float64 {
	out := make(map[string]float64, len(v))
	for _, p := range prsparser.Phenotypes() {
		out[p.String()] = v[p]
	}
	return out
}

// Entry is one SNP offered for scoring.
type Entry struct {
	Key    string
	Dosage dosage.Dosage
}

// Entries flattens feature maps into scoring entries, map by map, each in key
// order.
func Entries(maps ...*dosage.FeatureMap) []Entry {
	var out []Entry
	for _, m := range maps {
		if m == nil {
			continue
		}
		values := m.Values()
		for i, key := range m.Keys() {
			out = append(out, Entry{Key: key, Dosage: values[i]})
		}
	}
	return out
}

// Audit accounts for every entry that did not contribute to the score.
// Skipping an entry is numerically the same as giving it zero weight, so the
// reasons are kept apart for review.
type Audit struct {
	Scored int

	// No weight row at the entry's chromosome and position
	MissingWeights []prs313.MissingWeightError

	// Dosage still undefined after imputation and simulation
	MissingDosages []string

	// Keys from which no chromosome and position could be read
	Unparseable []string
}

// Aggregate scores one trial. Each entry's chromosome and position are read
// from its feature key and matched exactly against the weight table.
func Aggregate(entries []Entry, table *prsparser.Table) (Vector, Audit) {
	var out Vector
	var audit Audit

	for _, e := range entries {
		fk, err := chrpos.ParseFeatureKey(e.Key)
		if err != nil {
			audit.Unparseable = append(audit.Unparseable, e.Key)
			continue
		}

		w, exists := table.Lookup(fk.Chromosome, fk.Position)
		if !exists {
			audit.MissingWeights = append(audit.MissingWeights, prs313.MissingWeightError{SNP: e.Key, Chromosome: fk.Chromosome, Position: fk.Position})
			continue
		}

		d, known := e.Dosage.Get()
		if !known {
			audit.MissingDosages = append(audit.MissingDosages, e.Key)
			continue
		}

		for p, weight := range w.Weights {
			out[p] += float64(d) * weight
		}
		audit.Scored++
	}

	return out, audit
}
