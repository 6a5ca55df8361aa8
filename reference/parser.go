package reference

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/carbocation/prs313"
	"github.com/carbocation/prs313/chrpos"
)

const (
	DefaultColumn   = "matching_columns"
	DefaultPanelTag = "PRS313"
)

type Parser struct {
	// Column is the header name holding the composite SNP identifier.
	Column string

	// PanelTag is the optional fifth identifier part marking panel SNPs.
	PanelTag string

	// Delimiter is detected from the data when zero.
	Delimiter rune

	// Source names the input in warnings.
	Source string
}

func DefaultParser() Parser {
	return Parser{
		Column:   DefaultColumn,
		PanelTag: DefaultPanelTag,
		Source:   "reference",
	}
}

// Load parses the whole reference table. Rows that cannot be parsed are
// dropped and returned as warnings (prs313.ParseError); the error return is
// reserved for input that cannot be read at all.
func (p Parser) Load(r io.Reader) ([]Record, []error, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, pfx.Err(err)
	}

	return p.LoadBytes(data)
}

func (p Parser) LoadBytes(data []byte) ([]Record, []error, error) {
	delim := p.Delimiter
	if delim == 0 {
		delim = prs313.DetermineDelimiterBytes(data)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, nil
	} else if err != nil {
		return nil, nil, pfx.Err(err)
	}

	col := -1
	for i, name := range header {
		if strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) == p.Column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, nil, pfx.Err(fmt.Errorf("%s: column %q not found in header %v", p.Source, p.Column, header))
	}

	var (
		out      []Record
		warnings []error
	)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			// The reader resumes at the next record
			warnings = append(warnings, prs313.ParseError{Source: p.Source, Line: pe.StartLine, Message: pe.Err.Error()})
			continue
		} else if err != nil {
			return out, warnings, pfx.Err(fmt.Errorf("%s: %w", p.Source, err))
		}
		line, _ := reader.FieldPos(0)

		if col >= len(row) {
			warnings = append(warnings, prs313.ParseError{Source: p.Source, Line: line, Message: fmt.Sprintf("row has %d fields, no %s column", len(row), p.Column)})
			continue
		}

		rec, err := ParseID(row[col], p.PanelTag)
		if err != nil {
			warnings = append(warnings, prs313.ParseError{Source: p.Source, Line: line, Message: err.Error()})
			continue
		}

		out = append(out, rec)
	}

	return out, warnings, nil
}

// ParseID splits a composite identifier such as chr1_1000_A_G_PRS313 into a
// Record. A fifth part equal to panelTag marks a panel SNP; any other fifth
// part is ignored.
func ParseID(id, panelTag string) (Record, error) {
	id = strings.TrimSpace(id)
	parts := strings.Split(id, "_")
	if len(parts) != 4 && len(parts) != 5 {
		return Record{}, fmt.Errorf("identifier %q has %d underscore-delimited parts, expected 4 or 5", id, len(parts))
	}

	chr, err := chrpos.ParseChromosome(parts[0])
	if err != nil {
		return Record{}, fmt.Errorf("identifier %q: %w", id, err)
	}

	pos, err := chrpos.ParsePosition(parts[1])
	if err != nil {
		return Record{}, fmt.Errorf("identifier %q: %w", id, err)
	}

	rec := Record{
		ID:         id,
		Chromosome: chr,
		Position:   pos,
		Ref:        parts[2],
		Alt:        parts[3],
	}

	if len(parts) == 5 && panelTag != "" && parts[4] == panelTag {
		rec.Panel = true
		rec.PanelTag = panelTag
	}

	return rec, nil
}
