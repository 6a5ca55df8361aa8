package imputation

import (
	"context"
	"fmt"

	"github.com/carbocation/pfx"
)

// Driver runs chromosome models out of a Registry.
type Driver struct {
	Registry *Registry
}

func NewDriver(registry *Registry) *Driver {
	return &Driver{Registry: registry}
}

// Impute predicts the panel dosages for one chromosome and rounds them. An
// error only concerns this chromosome; callers skip it and move on.
func (d *Driver) Impute(ctx context.Context, chromosome int, input []float64) ([]int, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("chromosome %d: no input features", chromosome)
	}

	model, err := d.Registry.Get(chromosome)
	if err != nil {
		return nil, err
	}

	if model.InputSize() != len(input) {
		return nil, fmt.Errorf("chromosome %d: model expects %d inputs, got %d", chromosome, model.InputSize(), len(input))
	}

	predicted, err := model.Predict(ctx, input)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("chromosome %d: %w", chromosome, err))
	}

	out := make([]int, len(predicted))
	for i, v := range predicted {
		out[i] = Round(v)
	}

	return out, nil
}
