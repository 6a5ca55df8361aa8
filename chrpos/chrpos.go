// Package chrpos builds and parses the coordinate keys that join reference
// panel rows, genotype rows, model features and effect weights.
package chrpos

import (
	"fmt"
	"strconv"
	"strings"
)

// Only autosomes are modeled.
const (
	MinAutosome = 1
	MaxAutosome = 22
)

// Phase suffixes used in feature keys
const (
	Combined = "combined"
	Maternal = "maternal"
	Paternal = "paternal"
)

type Locus struct {
	Chromosome int
	Position   int
}

func (l Locus) Key() string {
	return Key(strconv.Itoa(l.Chromosome), l.Position)
}

// Key yields the canonical coordinate join key, chr{chromosome}:{position}.
// Numeric chromosomes lose any leading zeroes; others (X, Y, MT) are kept as
// given.
func Key(chromosome string, position int) string {
	return fmt.Sprintf("chr%s:%d", NormalizeChromosome(chromosome), position)
}

// NormalizeChromosome removes chr/chrom_ prefixes and leading zeroes from
// numeric chromosome names.
func NormalizeChromosome(chromosome string) string {
	c := strings.TrimPrefix(chromosome, "chrom_")
	c = strings.TrimPrefix(c, "chr")

	if chrInt, err := strconv.Atoi(c); err == nil {
		return strconv.Itoa(chrInt)
	}

	return c
}

// ParseChromosome parses "1", "01", "chr1" or "chrom_1" as 1.
func ParseChromosome(chromosome string) (int, error) {
	c := NormalizeChromosome(chromosome)
	chrInt, err := strconv.Atoi(c)
	if err != nil {
		return 0, fmt.Errorf("chromosome %q is not numeric", chromosome)
	}

	return chrInt, nil
}

func IsAutosome(chromosome int) bool {
	return chromosome >= MinAutosome && chromosome <= MaxAutosome
}

// Autosomes lists 1 through 22 in order.
func Autosomes() []int {
	out := make([]int, 0, MaxAutosome-MinAutosome+1)
	for i := MinAutosome; i <= MaxAutosome; i++ {
		out = append(out, i)
	}
	return out
}

// ParsePosition parses a base-pair position. Thousands separators (commas,
// spaces, underscores) are permitted and stripped.
func ParsePosition(position string) (int, error) {
	p := strings.TrimSpace(position)
	p = strings.NewReplacer(",", "", " ", "", "_", "").Replace(p)

	pos, err := strconv.Atoi(p)
	if err != nil {
		return 0, fmt.Errorf("position %q is not an integer", position)
	}
	if pos < 0 {
		return 0, fmt.Errorf("position %q is negative", position)
	}

	return pos, nil
}
