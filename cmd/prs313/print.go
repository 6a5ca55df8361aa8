package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/carbocation/prs313/pipeline"
	"github.com/carbocation/prs313/summary"
)

func printSummaries(w io.Writer, result *pipeline.Result) {
	fmt.Fprintf(w, "Matched %d of %d reference SNPs\n", result.Matched, len(result.Records))

	fmt.Fprintln(w, "phenotype\tn\tmean\tmedian\tsd\tmin\tmax")
	for _, s := range result.Summaries {
		fmt.Fprintf(w, "%s\t%d\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\n", s.Phenotype, s.N, s.Mean, s.Median, s.StandardDeviation, s.Min, s.Max)
	}

	if len(result.Audits) > 0 {
		last := result.Audits[len(result.Audits)-1].Counts()
		fmt.Fprintf(w, "Last trial: %d SNPs scored, %d imputed, %d without weights, %d without dosage, %d without frequency prior, chromosomes skipped: %v\n",
			last.Scored, last.Imputed, last.MissingWeights, last.MissingDosages, last.MissingPriors, last.SkippedChromosomes)
	}
}

func printHistograms(w io.Writer, result *pipeline.Result, width int) error {
	for _, s := range result.Summaries {
		fmt.Fprintf(w, "\n%s\n", s.Phenotype)

		if err := histogram.Fprint(w, bars(s), histogram.Linear(width)); err != nil {
			return err
		}
	}

	return nil
}

// bars draws the summary's own bins so the terminal output matches the
// stored and JSON histograms.
func bars(s summary.Summary) histogram.Histogram {
	h := histogram.Histogram{Buckets: make([]histogram.Bucket, 0, len(s.Histogram))}
	for i, b := range s.Histogram {
		h.Buckets = append(h.Buckets, histogram.Bucket{Count: b.Count, Min: b.Lower, Max: b.Upper})
		h.Count += b.Count
		if i == 0 || b.Count < h.Min {
			h.Min = b.Count
		}
		if b.Count > h.Max {
			h.Max = b.Count
		}
	}

	return h
}

func printJSON(w io.Writer, result *pipeline.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result.Report())
}
