package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/carbocation/prs313"
	"github.com/carbocation/prs313/chrpos"
	"github.com/carbocation/prs313/freq"
	"github.com/carbocation/prs313/imputation"
	"github.com/carbocation/prs313/prsparser"
	"github.com/carbocation/prs313/reference"
)

// Resources are everything a run needs besides the person's genotypes. They
// are loaded once and only read afterwards, so one set can serve many runs
// at the same time.
type Resources struct {
	Reference   []reference.Record
	Models      *imputation.Registry
	Frequencies freq.Tables
	Weights     *prsparser.Table
}

// LoadResources fetches the reference table, models, frequency tables and
// weights named in cfg. Only a missing or empty reference table is an error;
// anything else that fails to load is logged and the run degrades.
func LoadResources(ctx context.Context, cfg Config, client *storage.Client, logger prs313.Logger) (*Resources, error) {
	out := &Resources{
		Models:      imputation.NewRegistry(),
		Frequencies: freq.Tables{},
		Weights:     prsparser.NewTable(),
	}

	refs, err := LoadReference(ctx, cfg, client, logger)
	if err != nil {
		return nil, err
	}
	out.Reference = refs

	chromosomes := chrpos.Autosomes()

	if cfg.ModelTemplate != "" {
		out.Models.Load(ctx, imputation.FileLoader(cfg.ModelTemplate, client), chromosomes, logger)
	} else {
		logger.Println("No model template was given; panel SNPs will not be imputed")
	}

	if cfg.FrequencyTemplate != "" {
		tables, failures := freq.LoadAll(ctx, cfg.FrequencyTemplate, chromosomes, client, logger)
		out.Frequencies = tables
		logger.Printf("Loaded allele frequencies for %d of %d chromosomes\n", len(chromosomes)-len(failures), len(chromosomes))
	} else {
		logger.Println("No allele frequency template was given; missing dosages will not be simulated")
	}

	if cfg.WeightsPath != "" {
		weights, err := LoadWeights(ctx, cfg, client, logger)
		if err != nil {
			logger.Printf("Could not load weights from %s: %v\n", cfg.WeightsPath, err)
		} else {
			out.Weights = weights
		}
	} else {
		logger.Println("No weights were given; every SNP will be skipped during scoring")
	}

	return out, nil
}

func LoadReference(ctx context.Context, cfg Config, client *storage.Client, logger prs313.Logger) ([]reference.Record, error) {
	if cfg.ReferencePath == "" {
		return nil, prs313.ErrNoReference
	}

	data, err := prs313.ReadAll(ctx, cfg.ReferencePath, client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", prs313.ErrNoReference, err)
	}

	parser := reference.DefaultParser()
	parser.Source = cfg.ReferencePath
	if cfg.ReferenceColumn != "" {
		parser.Column = cfg.ReferenceColumn
	}
	parser.PanelTag = cfg.PanelTag

	refs, warnings, err := parser.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", prs313.ErrNoReference, err)
	}
	for _, w := range warnings {
		logger.Println(w)
	}
	if len(refs) == 0 {
		return nil, prs313.ErrNoReference
	}

	logger.Printf("Loaded %d reference SNPs from %s\n", len(refs), cfg.ReferencePath)

	return refs, nil
}

func LoadWeights(ctx context.Context, cfg Config, client *storage.Client, logger prs313.Logger) (*prsparser.Table, error) {
	parser, err := prsparser.New(cfg.Layout)
	if err != nil {
		return nil, pfx.Err(err)
	}

	data, err := prs313.ReadAll(ctx, cfg.WeightsPath, client)
	if err != nil {
		return nil, err
	}

	table, warnings, err := parser.Load(bytes.NewReader(data), cfg.WeightsPath)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		logger.Println(w)
	}

	logger.Printf("Loaded %d weight rows from %s using layout %s\n", table.Len(), cfg.WeightsPath, cfg.Layout)

	return table, nil
}
