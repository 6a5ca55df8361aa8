package imputation

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/carbocation/prs313"
	"github.com/sbinet/npyio/npz"
	"gonum.org/v1/gonum/mat"
)

// Array names expected inside a .npz linear model
const (
	CoefficientArray = "coef"
	InterceptArray   = "intercept"
)

// Loader fetches the model for one chromosome.
type Loader func(ctx context.Context, chromosome int) (Predictor, error)

// FileLoader loads linear models from a per-chromosome path template (see
// prs313.ChromosomePath). Files ending in .npz are read as NumPy archives and
// anything else as CSV. Paths may be local, http(s) or gs://.
func FileLoader(template string, client *storage.Client) Loader {
	return func(ctx context.Context, chromosome int) (Predictor, error) {
		path := prs313.ChromosomePath(template, chromosome)

		data, err := prs313.ReadAll(ctx, path, client)
		if err != nil {
			return nil, err
		}

		if strings.EqualFold(filepath.Ext(path), ".npz") {
			return LoadNPZ(data, path)
		}

		return LoadCSV(data, path)
	}
}

// LoadNPZ reads a linear model from a NumPy .npz archive holding a coef array
// (outputs x inputs, row-major) and a 1-D intercept array.
func LoadNPZ(data []byte, source string) (*LinearModel, error) {
	r, err := npz.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", source, err))
	}

	var coef []float64
	if err := readArray(r, CoefficientArray, &coef); err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", source, err))
	}

	var b []float64
	if err := readArray(r, InterceptArray, &b); err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", source, err))
	}

	// coef is stored row-major, one row per intercept
	if len(b) == 0 || len(coef) == 0 || len(coef)%len(b) != 0 {
		return nil, pfx.Err(fmt.Errorf("%s: %d coefficients do not divide into %d rows", source, len(coef), len(b)))
	}
	w := mat.NewDense(len(b), len(coef)/len(b), coef)

	m, err := NewLinearModel(w, b)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", source, err))
	}

	return m, nil
}

// readArray accepts names with or without the .npy suffix that numpy adds
// inside the archive.
func readArray(r *npz.Reader, name string, ptr interface{}) error {
	err := r.Read(name, ptr)
	if err == nil {
		return nil
	}

	if err2 := r.Read(name+".npy", ptr); err2 == nil {
		return nil
	}

	return fmt.Errorf("array %s: %w", name, err)
}

// LoadCSV reads a linear model with one row per output: the intercept
// followed by one coefficient per input. Lines starting with # are ignored.
func LoadCSV(data []byte, source string) (*LinearModel, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = prs313.DetermineDelimiterBytes(data)
	cr.Comment = '#'

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", source, err))
	}
	if len(rows) == 0 {
		return nil, pfx.Err(fmt.Errorf("%s: no model rows", source))
	}

	width := len(rows[0]) - 1
	if width < 1 {
		return nil, pfx.Err(fmt.Errorf("%s: model rows need an intercept and at least one coefficient", source))
	}

	b := make([]float64, len(rows))
	w := mat.NewDense(len(rows), width, nil)
	for i, row := range rows {
		for j, cell := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, pfx.Err(prs313.ParseError{Source: source, Line: i + 1, Message: err.Error()})
			}
			if j == 0 {
				b[i] = v
				continue
			}
			w.Set(i, j-1, v)
		}
	}

	return NewLinearModel(w, b)
}
