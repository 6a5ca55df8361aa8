package dosage

import (
	"fmt"

	"github.com/carbocation/prs313/chrpos"
)

// FeatureMap is a feature key to dosage mapping that remembers insertion
// order. The order is the contract with the imputation models: it must match
// the column order the models were fit with, which is the order of the
// reference table.
type FeatureMap struct {
	keys   []string
	values map[string]Dosage
}

func NewFeatureMap() *FeatureMap {
	return &FeatureMap{values: make(map[string]Dosage)}
}

// Set stores d under key. A key that is already present keeps its original
// position.
func (f *FeatureMap) Set(key string, d Dosage) {
	if _, exists := f.values[key]; !exists {
		f.keys = append(f.keys, key)
	}
	f.values[key] = d
}

func (f *FeatureMap) Get(key string) (Dosage, bool) {
	d, exists := f.values[key]
	return d, exists
}

func (f *FeatureMap) Len() int {
	return len(f.keys)
}

// Keys returns the keys in insertion order. The slice must not be modified.
func (f *FeatureMap) Keys() []string {
	return f.keys
}

// Values returns the dosages in key order.
func (f *FeatureMap) Values() []Dosage {
	out := make([]Dosage, len(f.keys))
	for i, k := range f.keys {
		out[i] = f.values[k]
	}
	return out
}

// Missing lists the keys whose dosage is undefined, in key order.
func (f *FeatureMap) Missing() []string {
	var out []string
	for _, k := range f.keys {
		if f.values[k].IsMissing() {
			out = append(out, k)
		}
	}
	return out
}

// Clone returns an independent copy.
func (f *FeatureMap) Clone() *FeatureMap {
	out := &FeatureMap{
		keys:   make([]string, len(f.keys)),
		values: make(map[string]Dosage, len(f.values)),
	}
	copy(out.keys, f.keys)
	for k, v := range f.values {
		out.values[k] = v
	}
	return out
}

// Bucket holds one chromosome's dosages split by panel membership.
type Bucket struct {
	Chromosome int
	Panel      *FeatureMap
	NonPanel   *FeatureMap
}

func NewBucket(chromosome int) *Bucket {
	return &Bucket{
		Chromosome: chromosome,
		Panel:      NewFeatureMap(),
		NonPanel:   NewFeatureMap(),
	}
}

// Buckets has one entry for every autosome, even those without records.
type Buckets map[int]*Bucket

// Partition buckets dosage records by chromosome and panel membership.
// Undefined dosages are kept so that missingness can be detected later.
// Records on chromosomes outside 1-22 are dropped and reported.
func Partition(records []Record) (Buckets, []error) {
	out := make(Buckets, chrpos.MaxAutosome)
	for _, chr := range chrpos.Autosomes() {
		out[chr] = NewBucket(chr)
	}

	var warnings []error
	for _, r := range records {
		chr := r.Reference.Chromosome
		if !chrpos.IsAutosome(chr) {
			warnings = append(warnings, fmt.Errorf("%s: chromosome %d is outside %d-%d, dropping", r.Reference.ID, chr, chrpos.MinAutosome, chrpos.MaxAutosome))
			continue
		}

		target := out[chr].NonPanel
		if r.Reference.Panel {
			target = out[chr].Panel
		}
		target.Set(r.FeatureKey(), r.Unphased)
	}

	return out, warnings
}
