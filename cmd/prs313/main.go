// prs313 scores a 23andMe-style genotype file on the five PRS313 breast cancer
// phenotypes. Panel SNPs missing from the file are imputed from nearby SNPs,
// and SNPs still missing after that are simulated from allele frequencies
// over repeated Monte Carlo trials.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/carbocation/prs313"
	"github.com/carbocation/prs313/compileinfo"
	"github.com/carbocation/prs313/genotype"
	"github.com/carbocation/prs313/pipeline"
	"github.com/carbocation/prs313/prsparser"
	"github.com/carbocation/prs313/resultstore"
)

var (
	BufferSize = 4096
	STDOUT     = bufio.NewWriterSize(os.Stdout, BufferSize)
)

func main() {
	defer STDOUT.Flush()

	cfg := pipeline.DefaultConfig()

	var (
		genotypePath string
		customLayout string
		storePath    string
		noZeroFill   bool
		asJSON       bool
		histWidth    int
		version      bool
	)
	flag.StringVar(&cfg.ReferencePath, "reference", "", "Path to the reference panel table (local, http(s) or gs://)")
	flag.StringVar(&cfg.ReferenceColumn, "reference-column", cfg.ReferenceColumn, "Header of the reference column holding chr_pos_ref_alt[_tag] identifiers")
	flag.StringVar(&cfg.PanelTag, "panel-tag", cfg.PanelTag, "Identifier suffix that marks a panel SNP")
	flag.StringVar(&genotypePath, "genotypes", "", "Path to the 23andMe-style genotype file. May be gzip, zip, bzip2 or xz compressed")
	flag.StringVar(&cfg.WeightsPath, "weights", "", "Path to the effect weight table")
	flag.StringVar(&cfg.Layout, "layout", cfg.Layout, fmt.Sprint("Layout of the effect weight table. Currently, options include: ", prsparser.LayoutNames()))
	flag.StringVar(&customLayout, "custom-layout", "", "Optional: a weight table layout with 0-based columns as follows: Chromosome,Position,Overall,ERPositive,ERNegative,HybridERPositive,HybridERNegative")
	flag.StringVar(&cfg.FrequencyTemplate, "frequency-template", "", "Templated path to the allele frequency tables with "+prs313.ChromosomeToken+" in place of the chromosome number")
	flag.StringVar(&cfg.ModelTemplate, "model-template", "", "Templated path to the imputation models (.npz or .csv) with "+prs313.ChromosomeToken+" in place of the chromosome number")
	flag.IntVar(&cfg.Trials, "trials", cfg.Trials, "Number of Monte Carlo trials")
	flag.IntVar(&cfg.Bins, "bins", cfg.Bins, "Number of histogram bins per phenotype")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed for the Monte Carlo simulation")
	flag.Float64Var(&cfg.HWECutoff, "hwe-cutoff", cfg.HWECutoff, "Optional: report simulated SNPs whose genotype counts have a Hardy-Weinberg P value below this")
	flag.BoolVar(&noZeroFill, "no-zero-fill", false, "Do not impute a chromosome in a trial if any of its model inputs are still missing, rather than treating them as 0")
	flag.StringVar(&storePath, "store", "", "Optional: path to a SQLite database in which to save the run")
	flag.BoolVar(&asJSON, "json", false, "Print the summaries as JSON instead of a table")
	flag.IntVar(&histWidth, "histogram-width", 40, "Width of the terminal histograms. 0 disables them")
	flag.BoolVar(&version, "version", false, "Print the build information and exit")
	flag.Parse()

	if version {
		compileinfo.Fprint(STDOUT)
		return
	}

	if cfg.ReferencePath == "" {
		flag.PrintDefaults()
		log.Fatalln("Please provide --reference")
	}

	if genotypePath == "" {
		flag.PrintDefaults()
		log.Fatalln("Please provide --genotypes")
	}

	if customLayout != "" {
		layout, err := parseCustomLayout(customLayout)
		if err != nil {
			log.Fatalln(err)
		}
		log.Println("Using custom layout:")
		fmt.Fprintf(os.Stderr, "%+v\n", layout)

		prsparser.Layouts["CUSTOM"] = layout
		cfg.Layout = "CUSTOM"
	}

	cfg.ZeroFillModelInput = !noZeroFill

	if err := cfg.Validate(); err != nil {
		log.Fatalln(err)
	}

	ctx := context.Background()
	logger := log.New(os.Stderr, "", log.LstdFlags)

	var client *storage.Client
	if anyGoogleStorage(cfg.ReferencePath, genotypePath, cfg.WeightsPath, cfg.FrequencyTemplate, cfg.ModelTemplate) {
		var err error
		client, err = storage.NewClient(ctx)
		if err != nil {
			log.Fatalln(err)
		}
		defer client.Close()
	}

	resources, err := pipeline.LoadResources(ctx, cfg, client, logger)
	if err != nil {
		log.Fatalln(err)
	}

	genotypes, err := loadGenotypes(ctx, genotypePath, client, logger)
	if err != nil {
		log.Fatalln(err)
	}

	runner, err := pipeline.New(cfg, resources, logger)
	if err != nil {
		log.Fatalln(err)
	}

	result, err := runner.Run(ctx, genotypes)
	if err != nil {
		log.Fatalln(err)
	}

	if asJSON {
		if err := printJSON(STDOUT, result); err != nil {
			log.Fatalln(err)
		}
	} else {
		printSummaries(STDOUT, result)
		if histWidth > 0 {
			if err := printHistograms(STDOUT, result, histWidth); err != nil {
				log.Fatalln(err)
			}
		}
	}

	if storePath != "" {
		store, err := resultstore.Open(storePath)
		if err != nil {
			log.Fatalln(err)
		}
		defer store.Close()

		run := &resultstore.Run{
			InputName: genotypePath,
			Layout:    cfg.Layout,
			Trials:    cfg.Trials,
			Seed:      int64(cfg.Seed),
			Matched:   result.Matched,
			Reference: len(result.Records),
			Summaries: result.Summaries,
		}
		if err := store.Put(ctx, run); err != nil {
			log.Fatalln(err)
		}
		log.Printf("Saved run %s to %s\n", run.ID, storePath)
	}
}

func loadGenotypes(ctx context.Context, path string, client *storage.Client, logger prs313.Logger) ([]genotype.Record, error) {
	g, err := genotype.Open(ctx, path, client)
	if err != nil {
		return nil, err
	}
	defer g.Close()

	genotypes := make([]genotype.Record, 0)
	for v := g.Read(); v != nil; v = g.Read() {
		genotypes = append(genotypes, *v)
	}
	if err := g.Err(); err != nil {
		return nil, pfx.Err(err)
	}
	for _, w := range g.Warnings() {
		logger.Println(w)
	}
	logger.Printf("Loaded %d genotypes from %s\n", len(genotypes), path)

	return genotypes, nil
}

func anyGoogleStorage(paths ...string) bool {
	for _, p := range paths {
		if prs313.IsGoogleStoragePath(p) {
			return true
		}
	}
	return false
}

func parseCustomLayout(customLayout string) (prsparser.Layout, error) {
	cols := strings.Split(customLayout, ",")
	if x := len(cols); x != 2+prsparser.NumPhenotypes {
		return prsparser.Layout{}, fmt.Errorf("--custom-layout was toggled; %d column numbers were expected, but %d were given", 2+prsparser.NumPhenotypes, x)
	}

	intCols := make([]int, 0, len(cols))
	for i, col := range cols {
		j, err := strconv.ParseInt(strings.TrimSpace(col), 10, 32)
		if err != nil || j < 0 {
			return prsparser.Layout{}, fmt.Errorf("The identifier for column %d (value %s) is not a non-negative integer", i, col)
		}
		intCols = append(intCols, int(j))
	}

	out := prsparser.Layout{
		Comment:       '#',
		ColChromosome: intCols[0],
		ColPosition:   intCols[1],
	}
	copy(out.ColWeights[:], intCols[2:])

	return out, nil
}
