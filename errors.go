package prs313

import (
	"errors"
	"fmt"
)

var (
	// ErrNoReference is returned when the reference table is absent or yields
	// no usable records. Nothing can be aligned without it.
	ErrNoReference = errors.New("no reference records were loaded")

	// ErrNoGenotypes is returned when the genotype file is absent or yields no
	// usable records.
	ErrNoGenotypes = errors.New("no genotype records were loaded")
)

// ParseError describes a malformed row in one of the input tables. Rows that
// fail to parse are dropped and processing continues.
type ParseError struct {
	Source  string
	Line    int
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("Source: %s, Line: %d, Message: %s", e.Source, e.Line, e.Message)
}

// MissingModelError is recorded when no predictor could be loaded for a
// chromosome. That chromosome is skipped for every trial.
type MissingModelError struct {
	Chromosome int
	Err        error
}

func (e MissingModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("Chromosome: %d, Message: no model is loaded", e.Chromosome)
	}
	return fmt.Sprintf("Chromosome: %d, Message: no model is loaded: %s", e.Chromosome, e.Err)
}

func (e MissingModelError) Unwrap() error {
	return e.Err
}

// MissingPriorError is reported when a SNP with an undefined dosage has no
// entry in the allele frequency table, so nothing could be simulated for it.
type MissingPriorError struct {
	SNP string
}

func (e MissingPriorError) Error() string {
	return fmt.Sprintf("SNP: %s, Message: no allele frequency prior", e.SNP)
}

// MissingWeightError is reported when a scored SNP has no row in the effect
// weight table.
type MissingWeightError struct {
	SNP        string
	Chromosome int
	Position   int
}

func (e MissingWeightError) Error() string {
	return fmt.Sprintf("Chromosome: %d, Position: %d, SNP: %s, Message: no effect weight", e.Chromosome, e.Position, e.SNP)
}
