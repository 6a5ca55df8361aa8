// Package imputation predicts the dosages of panel SNPs for one chromosome
// from the dosages of that chromosome's non-panel SNPs.
package imputation

import (
	"context"
	"fmt"
	"math"

	"github.com/carbocation/prs313/dosage"
	"gonum.org/v1/gonum/mat"
)

// Predictor is a per-chromosome model. Inputs are ordered exactly as the
// non-panel features were ordered when the model was fit; outputs are one
// predicted dosage per panel SNP, in panel order.
type Predictor interface {
	Predict(ctx context.Context, input []float64) ([]float64, error)
	InputSize() int
	OutputSize() int
}

// LinearModel is y = Wx + b, with one row of W per panel SNP.
type LinearModel struct {
	W *mat.Dense
	B []float64
}

func NewLinearModel(w *mat.Dense, b []float64) (*LinearModel, error) {
	if w == nil {
		return nil, fmt.Errorf("linear model has no coefficients")
	}
	rows, _ := w.Dims()
	if rows != len(b) {
		return nil, fmt.Errorf("linear model has %d coefficient rows but %d intercepts", rows, len(b))
	}

	return &LinearModel{W: w, B: b}, nil
}

func (m *LinearModel) InputSize() int {
	_, cols := m.W.Dims()
	return cols
}

func (m *LinearModel) OutputSize() int {
	rows, _ := m.W.Dims()
	return rows
}

func (m *LinearModel) Predict(ctx context.Context, input []float64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(input) != m.InputSize() {
		return nil, fmt.Errorf("model expects %d inputs, got %d", m.InputSize(), len(input))
	}

	x := mat.NewVecDense(len(input), append([]float64(nil), input...))
	y := mat.NewVecDense(m.OutputSize(), nil)
	y.MulVec(m.W, x)

	out := make([]float64, m.OutputSize())
	for i := range out {
		out[i] = y.AtVec(i) + m.B[i]
	}

	return out, nil
}

// Round converts a predicted dosage to the nearest integer, with halves
// rounded up (2.5 becomes 3, -0.5 becomes 0).
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Vector lays out a feature map as model input, in key order. Undefined
// dosages take the fill value.
func Vector(features *dosage.FeatureMap, fill float64) []float64 {
	values := features.Values()
	out := make([]float64, len(values))
	for i, d := range values {
		out[i] = d.Float64(fill)
	}
	return out
}
