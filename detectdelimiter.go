package prs313

import (
	"bytes"
	"io"
	"strings"

	"github.com/csimplestring/go-csv/detector"
)

// Delimiters that tabular inputs are known to use, in order of preference.
const knownDelimiters = ",;\t|"

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in the reader, assuming a CSV-like file. Reference tables have been
// distributed both comma- and semicolon-separated.
func DetermineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	// Underscores appear inside SNP identifiers and can look like a
	// delimiter to the detector, so known delimiters win.
	for _, candidate := range delimiters {
		if len(candidate) > 0 && strings.ContainsRune(knownDelimiters, rune(candidate[0])) {
			return rune(candidate[0])
		}
	}

	return ','
}

// DetermineDelimiterBytes is DetermineDelimiter for data that has already been
// read into memory. Only the first lines are inspected. If the detector has no
// opinion, the known delimiter that occurs most often on the first line wins.
func DetermineDelimiterBytes(data []byte) rune {
	sample := data
	for i, lines := 0, 0; i < len(data); i++ {
		if data[i] == '\n' {
			lines++
			if lines == 20 {
				sample = data[:i+1]
				break
			}
		}
	}

	if delim := DetermineDelimiter(bytes.NewReader(sample)); delim != ',' {
		return delim
	}

	firstLine := sample
	if idx := bytes.IndexByte(sample, '\n'); idx >= 0 {
		firstLine = sample[:idx]
	}

	best, bestCount := ',', bytes.Count(firstLine, []byte{','})
	for _, c := range knownDelimiters {
		if n := bytes.Count(firstLine, []byte(string(c))); n > bestCount {
			best, bestCount = c, n
		}
	}

	return best
}
