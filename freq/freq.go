// Package freq loads the per-chromosome alternate allele frequency tables
// that serve as priors when a dosage has to be simulated.
package freq

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/carbocation/prs313"
	"github.com/carbocation/prs313/chrpos"
	"github.com/gocarina/gocsv"
)

// Row is one line of a frequency table. MAF is parsed after unmarshaling so
// that a single bad value drops one row rather than the whole table.
type Row struct {
	SNP string `csv:"SNP"`
	MAF string `csv:"MAF"`
}

// Table maps SNP ids (chr{n}_{pos}_{ref}_{alt}) to alternate allele
// frequencies. A Table is read-only once loaded.
type Table struct {
	Chromosome int
	bySNP      map[string]float64
}

func New(chromosome int) *Table {
	return &Table{Chromosome: chromosome, bySNP: make(map[string]float64)}
}

// Set records a frequency. Feature keys are accepted and reduced to SNP ids.
func (t *Table) Set(snp string, maf float64) {
	t.bySNP[chrpos.SNPIDFromKey(strings.TrimSpace(snp))] = maf
}

// Lookup accepts either a SNP id or a full feature key.
func (t *Table) Lookup(snp string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	maf, exists := t.bySNP[chrpos.SNPIDFromKey(snp)]
	return maf, exists
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.bySNP)
}

// LoadBytes parses a frequency table with SNP and MAF header columns. The
// delimiter is detected. Rows with a frequency that is not a number in [0, 1]
// are returned as warnings.
func LoadBytes(data []byte, chromosome int, source string) (*Table, []error, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = prs313.DetermineDelimiterBytes(data)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	rows := []*Row{}
	if err := gocsv.UnmarshalCSV(cr, &rows); err != nil {
		return nil, nil, pfx.Err(fmt.Errorf("%s: %w", source, err))
	}

	out := New(chromosome)
	var warnings []error
	for i, row := range rows {
		// Header is line 1
		line := i + 2

		if strings.TrimSpace(row.SNP) == "" {
			warnings = append(warnings, prs313.ParseError{Source: source, Line: line, Message: "empty SNP identifier"})
			continue
		}

		maf, err := strconv.ParseFloat(strings.TrimSpace(row.MAF), 64)
		if err != nil || maf < 0 || maf > 1 {
			warnings = append(warnings, prs313.ParseError{Source: source, Line: line, Message: fmt.Sprintf("MAF %q is not a frequency", row.MAF)})
			continue
		}

		out.Set(row.SNP, maf)
	}

	return out, warnings, nil
}

// Tables holds the frequency table for each chromosome that could be loaded.
type Tables map[int]*Table

// Get returns nil for chromosomes without a table; a nil *Table finds
// nothing.
func (t Tables) Get(chromosome int) *Table {
	return t[chromosome]
}

// LoadAll fetches one table per chromosome from a path template (see
// prs313.ChromosomePath). A chromosome whose table cannot be fetched or
// parsed is left out and reported; its missing dosages then stay undefined.
func LoadAll(ctx context.Context, template string, chromosomes []int, client *storage.Client, logger prs313.Logger) (Tables, []error) {
	out := make(Tables, len(chromosomes))
	var failures []error

	for _, chr := range chromosomes {
		path := prs313.ChromosomePath(template, chr)

		data, err := prs313.ReadAll(ctx, path, client)
		if err != nil {
			failures = append(failures, fmt.Errorf("chromosome %d: %w", chr, err))
			logger.Printf("Could not fetch allele frequencies for chromosome %d from %s: %v\n", chr, path, err)
			continue
		}

		table, warnings, err := LoadBytes(data, chr, path)
		if err != nil {
			failures = append(failures, fmt.Errorf("chromosome %d: %w", chr, err))
			logger.Printf("Could not parse allele frequencies for chromosome %d: %v\n", chr, err)
			continue
		}
		for _, w := range warnings {
			logger.Println(w)
		}

		out[chr] = table
	}

	return out, failures
}
