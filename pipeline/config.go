package pipeline

import (
	"fmt"

	"github.com/carbocation/prs313/prsparser"
	"github.com/carbocation/prs313/reference"
	"github.com/carbocation/prs313/summary"
)

type Config struct {
	// Monte Carlo trials per run
	Trials int

	// Histogram bins per phenotype
	Bins int

	// Seeds the simulator; runs with the same seed and inputs are identical
	Seed uint64

	// When true, SNPs that are still undefined after simulation enter the
	// model as 0. When false, a chromosome with any such SNP is not imputed
	// in that trial.
	ZeroFillModelInput bool

	// Simulated SNPs with an equilibrium P value below this are reported.
	// Zero disables the check.
	HWECutoff float64

	// Name of the prsparser layout for the weight table
	Layout string

	// Fifth identifier part that marks a panel SNP in the reference table
	PanelTag string

	// Column of the reference table holding the composite SNP identifier
	ReferenceColumn string

	ReferencePath string
	WeightsPath   string

	// Per-chromosome paths with {chr} standing in for the chromosome number
	FrequencyTemplate string
	ModelTemplate     string
}

func DefaultConfig() Config {
	return Config{
		Trials:             10,
		Bins:               summary.DefaultBins,
		Seed:               1,
		ZeroFillModelInput: true,
		HWECutoff:          0,
		Layout:             prsparser.DefaultLayout,
		PanelTag:           reference.DefaultPanelTag,
		ReferenceColumn:    reference.DefaultColumn,
	}
}

func (c Config) Validate() error {
	if c.Trials < 1 {
		return fmt.Errorf("trials must be at least 1, got %d", c.Trials)
	}
	if c.Bins < 1 {
		return fmt.Errorf("bins must be at least 1, got %d", c.Bins)
	}
	if c.HWECutoff < 0 || c.HWECutoff > 1 {
		return fmt.Errorf("HWE cutoff must be in [0, 1], got %v", c.HWECutoff)
	}
	if _, exists := prsparser.Layouts[c.Layout]; !exists {
		return fmt.Errorf("layout %s is not found. Valid layout names include: %s", c.Layout, prsparser.LayoutNames())
	}
	return nil
}
