package montecarlo

import (
	"fmt"
	"sort"

	"github.com/carbocation/prs313/hwe"
)

// Tally counts the simulated genotypes of each SNP across trials.
type Tally struct {
	counts map[string]*hwe.Counts
}

func NewTally() *Tally {
	return &Tally{counts: make(map[string]*hwe.Counts)}
}

// Add tallies draws. A dosage outside 0-2 stops the tally at that draw.
func (t *Tally) Add(draws []Draw) error {
	for _, d := range draws {
		c, exists := t.counts[d.Key]
		if !exists {
			c = &hwe.Counts{}
			t.counts[d.Key] = c
		}
		if err := c.Add(d.Dosage); err != nil {
			return fmt.Errorf("%s: %w", d.Key, err)
		}
	}

	return nil
}

func (t *Tally) Len() int {
	return len(t.counts)
}

// Counts returns the genotype counts for key.
func (t *Tally) Counts(key string) (hwe.Counts, bool) {
	c, exists := t.counts[key]
	if !exists {
		return hwe.Counts{}, false
	}
	return *c, true
}

// Departure is a simulated SNP whose genotype counts are unlikely under
// Hardy-Weinberg equilibrium.
type Departure struct {
	Key    string
	Counts hwe.Counts
	P      float64
}

// Check runs the equilibrium test for every tallied SNP and returns those
// with P below cutoff, sorted by key. SNPs with fewer than minSamples draws
// are not tested.
func (t *Tally) Check(cutoff float64, minSamples int64) []Departure {
	var out []Departure
	for key, c := range t.counts {
		if c.N() < minSamples {
			continue
		}
		if p := c.Fast(cutoff); p < cutoff {
			out = append(out, Departure{Key: key, Counts: *c, P: p})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out
}
