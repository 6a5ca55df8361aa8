package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carbocation/prs313/pipeline"
	"github.com/carbocation/prs313/prsparser"
	"github.com/carbocation/prs313/summary"
)

func TestParseCustomLayout(t *testing.T) {
	l, err := parseCustomLayout("3,4,5,6,7,9,8")
	if err != nil {
		t.Fatal(err)
	}
	if l.ColChromosome != 3 || l.ColPosition != 4 || l.ColWeights[prsparser.Overall] != 5 || l.ColWeights[prsparser.HybridERPositive] != 9 || l.ColWeights[prsparser.HybridERNegative] != 8 {
		t.Errorf("Unexpected layout %+v", l)
	}

	for _, bad := range []string{"1,2,3", "0,1,2,3,4,5,x", "0,1,2,3,4,5,-1"} {
		if _, err := parseCustomLayout(bad); err == nil {
			t.Errorf("Expected %q to be rejected", bad)
		}
	}
}

func TestAnyGoogleStorage(t *testing.T) {
	if anyGoogleStorage("a.csv", "", "https://x/y") {
		t.Errorf("No gs:// path was given")
	}
	if !anyGoogleStorage("a.csv", "gs://bucket/b.csv") {
		t.Errorf("Expected a gs:// path to be detected")
	}
}

func TestLoadGenotypes(t *testing.T) {
	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	zw.Write([]byte("# rsid\tchromosome\tposition\tgenotype\nrs1\t1\t100\tAG\nrs2\t1\tabc\tCC\nrs3\tX\t5\t--\n"))
	zw.Close()

	path := filepath.Join(t.TempDir(), "genome.txt.gz")
	if err := os.WriteFile(path, gz.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	genotypes, err := loadGenotypes(context.Background(), path, nil, log.New(&buf, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(genotypes) != 2 || genotypes[0].RSID != "rs1" || genotypes[1].Chromosome != "X" {
		t.Errorf("Unexpected genotypes %+v", genotypes)
	}
	if !strings.Contains(buf.String(), "Line: 3,") {
		t.Errorf("Expected the bad position to be logged, got %q", buf.String())
	}

	if _, err := loadGenotypes(context.Background(), filepath.Join(t.TempDir(), "missing.txt"), nil, log.New(&buf, "", 0)); err == nil {
		t.Errorf("Expected an error for a missing file")
	}
}

func TestBarsUseSummaryBins(t *testing.T) {
	// The max lands in the last, inclusive bin
	s, err := summary.Summarize("overall", []float64{1, 2, 3, 4, 4}, 3)
	if err != nil {
		t.Fatal(err)
	}

	h := bars(s)
	if len(h.Buckets) != 3 || h.Count != 5 {
		t.Fatalf("Expected 3 buckets holding 5 scores, got %+v", h)
	}
	for i, b := range s.Histogram {
		got := h.Buckets[i]
		if got.Count != b.Count || got.Min != b.Lower || got.Max != b.Upper {
			t.Errorf("Bucket %d: expected %+v, got %+v", i, b, got)
		}
	}
	if h.Buckets[2].Count != 3 || h.Buckets[2].Max != 4 {
		t.Errorf("Expected the last bucket to hold 3, 4 and 4, got %+v", h.Buckets[2])
	}
	if h.Min != 1 || h.Max != 3 {
		t.Errorf("Expected bucket sizes between 1 and 3, got %d and %d", h.Min, h.Max)
	}

	var buf bytes.Buffer
	if err := printHistograms(&buf, &pipeline.Result{Summaries: []summary.Summary{s}}, 20); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "overall") {
		t.Errorf("Expected the phenotype name in %q", buf.String())
	}
}
