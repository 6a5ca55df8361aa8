// Package montecarlo replaces undefined dosages with draws from the allele
// frequency priors. Every call draws afresh, so each trial is independent of
// every other trial and every SNP is independent of every other SNP.
package montecarlo

import (
	"github.com/carbocation/prs313"
	"github.com/carbocation/prs313/dosage"
	"github.com/carbocation/prs313/freq"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Simulator draws dosages. It is not safe for concurrent use; give each run
// its own.
type Simulator struct {
	src rand.Source
}

func NewSimulator(seed uint64) *Simulator {
	return &Simulator{src: rand.NewSource(seed)}
}

// SimulateDosage draws the maternal and paternal alleles independently, each
// being the alternate allele with probability f, and returns their sum.
func (s *Simulator) SimulateDosage(f float64) int {
	allele := distuv.Bernoulli{P: f, Src: s.src}
	return int(allele.Rand() + allele.Rand())
}

// Draw is one simulated dosage.
type Draw struct {
	Key    string
	Dosage int
}

// Fill returns a copy of features in which every undefined dosage with a
// frequency prior has been simulated. Entries without a prior stay undefined
// and are reported with a MissingPriorError. features itself is not modified.
func (s *Simulator) Fill(features *dosage.FeatureMap, table *freq.Table) (*dosage.FeatureMap, []Draw, []error) {
	out := features.Clone()

	var draws []Draw
	var missing []error
	for _, key := range features.Missing() {
		maf, exists := table.Lookup(key)
		if !exists {
			missing = append(missing, prs313.MissingPriorError{SNP: key})
			continue
		}

		d := s.SimulateDosage(maf)
		out.Set(key, dosage.Known(d))
		draws = append(draws, Draw{Key: key, Dosage: d})
	}

	return out, draws, missing
}
