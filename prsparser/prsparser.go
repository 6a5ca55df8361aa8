// Package prsparser reads PRS313 effect weight tables: one row per SNP with
// its chromosome, position and a weight for each phenotype.
package prsparser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/carbocation/prs313"
	"github.com/carbocation/prs313/chrpos"
)

// Weight is one row of the weight table.
type Weight struct {
	Chromosome int
	Position   int
	Weights    [NumPhenotypes]float64
}

type PRSParser struct {
	CSVReaderSettings *csv.Reader
	Layout            Layout
}

func New(layout string) (*PRSParser, error) {
	l, exists := Layouts[layout]
	if !exists {
		return nil, fmt.Errorf("Layout %s is not found. Valid layout names include: %s", layout, LayoutNames())
	}

	return NewWithLayout(l)
}

func NewWithLayout(layout Layout) (*PRSParser, error) {
	n := &PRSParser{}
	n.Layout = layout
	n.CSVReaderSettings = &csv.Reader{}
	n.CSVReaderSettings.Comma = layout.Delimiter
	n.CSVReaderSettings.Comment = layout.Comment
	n.CSVReaderSettings.TrimLeadingSpace = true

	return n, nil
}

func (prsp *PRSParser) ParseRow(row []string) (Weight, error) {
	p := Weight{}

	if len(row) < prsp.Layout.width() {
		return p, fmt.Errorf("row has %d fields, expected at least %d", len(row), prsp.Layout.width())
	}

	chr, err := chrpos.ParseChromosome(strings.TrimSpace(row[prsp.Layout.ColChromosome]))
	if err != nil {
		return p, err
	}
	p.Chromosome = chr

	if pos, err := chrpos.ParsePosition(row[prsp.Layout.ColPosition]); err != nil {
		return p, err
	} else {
		p.Position = pos
	}

	for phenotype, col := range prsp.Layout.ColWeights {
		score, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
		if err != nil {
			return p, fmt.Errorf("%s weight: %w", Phenotype(phenotype), err)
		}
		p.Weights[phenotype] = score
	}

	return p, nil
}

// Table is a loaded weight table, read-only once built.
type Table struct {
	byLocus map[chrpos.Locus]Weight
}

func NewTable(weights ...Weight) *Table {
	t := &Table{byLocus: make(map[chrpos.Locus]Weight, len(weights))}
	for _, w := range weights {
		t.byLocus[chrpos.Locus{Chromosome: w.Chromosome, Position: w.Position}] = w
	}
	return t
}

// Lookup finds the weight row by exact chromosome and position.
func (t *Table) Lookup(chromosome, position int) (Weight, bool) {
	w, exists := t.byLocus[chrpos.Locus{Chromosome: chromosome, Position: position}]
	return w, exists
}

func (t *Table) Len() int {
	return len(t.byLocus)
}

// Load reads a weight table. A first row that does not parse is taken to be
// a header. Later rows that do not parse are dropped and returned as
// warnings.
func (prsp *PRSParser) Load(r io.Reader, source string) (*Table, []error, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, pfx.Err(err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = prsp.CSVReaderSettings.Comma
	if reader.Comma == 0 {
		reader.Comma = prs313.DetermineDelimiterBytes(data)
	}
	reader.Comment = prsp.CSVReaderSettings.Comment
	reader.TrimLeadingSpace = prsp.CSVReaderSettings.TrimLeadingSpace
	reader.FieldsPerRecord = -1

	out := NewTable()
	var warnings []error
	for i := 0; ; i++ {
		row, err := reader.Read()
		var pe *csv.ParseError
		if errors.Is(err, io.EOF) {
			break
		} else if errors.As(err, &pe) {
			warnings = append(warnings, prs313.ParseError{Source: source, Line: pe.StartLine, Message: pe.Err.Error()})
			continue
		} else if err != nil {
			return nil, warnings, pfx.Err(fmt.Errorf("%s: %w", source, err))
		}

		line, _ := reader.FieldPos(0)

		val, err := prsp.ParseRow(row)
		if err != nil && i == 0 {
			// Permit a header and skip it
			continue
		} else if err != nil {
			warnings = append(warnings, prs313.ParseError{Source: source, Line: line, Message: err.Error()})
			continue
		}

		out.byLocus[chrpos.Locus{Chromosome: val.Chromosome, Position: val.Position}] = val
	}

	return out, warnings, nil
}
