package genotype

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/carbocation/prs313"
	"github.com/carbocation/prs313/chrpos"
)

const maxLineLength = 1024 * 1024

// Reader yields one Record per data line. Malformed lines are skipped and
// collected as warnings rather than ending the read.
type Reader struct {
	source   string
	closer   io.Closer
	scanner  *bufio.Scanner
	line     int
	warnings []error
	err      error
}

func NewReader(r io.Reader, source string) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	return &Reader{
		source:  source,
		scanner: scanner,
	}
}

// Open opens a local, http(s) or gs:// genotype file, decompressing it if
// needed.
func Open(ctx context.Context, path string, client *storage.Client) (*Reader, error) {
	rc, err := prs313.Open(ctx, path, client)
	if err != nil {
		return nil, err
	}

	g := NewReader(rc, path)
	g.closer = rc

	return g, nil
}

func (g *Reader) Close() error {
	if g.closer == nil {
		return nil
	}
	return g.closer.Close()
}

func (g *Reader) Err() error {
	if g.err != nil {
		return g.err
	}

	return g.scanner.Err()
}

// Warnings returns every row-level problem seen so far.
func (g *Reader) Warnings() []error {
	return g.warnings
}

// Read returns the next record, or nil once the input is exhausted or a read
// error occurred (see Err).
func (g *Reader) Read() *Record {
	for g.scanner.Scan() {
		g.line++
		row, err := parseLine(g.scanner.Text())
		if err != nil {
			g.warnings = append(g.warnings, prs313.ParseError{Source: g.source, Line: g.line, Message: err.Error()})
			continue
		}
		if row == nil {
			continue
		}

		return row
	}

	return nil
}

// parseLine returns nil, nil for lines that are meant to be skipped: comments
// and lines without an id.
func parseLine(line string) (*Record, error) {
	if strings.HasPrefix(line, "#") {
		return nil, nil
	}

	cols := strings.Split(line, "\t")
	if strings.TrimSpace(cols[RSID]) == "" {
		return nil, nil
	}

	if len(cols) < Position+1 || len(cols) > Genotype+1 {
		return nil, fmt.Errorf("expected 4 tab-delimited fields, found %d", len(cols))
	}

	pos, err := chrpos.ParsePosition(cols[Position])
	if err != nil {
		return nil, err
	}

	row := &Record{
		RSID:       cols[RSID],
		Chromosome: strings.TrimSpace(cols[Chromosome]),
		Position:   pos,
	}

	if len(cols) > Genotype {
		row.Genotype = normalizeGenotype(strings.TrimRight(cols[Genotype], " \t\r\n"))
	}

	return row, nil
}

// Load reads every record from r. Row-level problems are returned as
// warnings; the error is reserved for failed reads.
func Load(r io.Reader, source string) ([]Record, []error, error) {
	g := NewReader(r, source)

	out := make([]Record, 0)
	for v := g.Read(); v != nil; v = g.Read() {
		out = append(out, *v)
	}
	if err := g.Err(); err != nil {
		return nil, g.Warnings(), pfx.Err(err)
	}

	return out, g.Warnings(), nil
}
