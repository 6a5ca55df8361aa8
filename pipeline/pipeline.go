// Package pipeline runs a genotype file through alignment, imputation, Monte
// Carlo simulation and scoring, and summarizes the result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/carbocation/pfx"
	"github.com/carbocation/prs313"
	"github.com/carbocation/prs313/chrpos"
	"github.com/carbocation/prs313/dosage"
	"github.com/carbocation/prs313/genotype"
	"github.com/carbocation/prs313/imputation"
	"github.com/carbocation/prs313/montecarlo"
	"github.com/carbocation/prs313/prsparser"
	"github.com/carbocation/prs313/reference"
	"github.com/carbocation/prs313/score"
	"github.com/carbocation/prs313/summary"
	"github.com/carbocation/runningvariance"
)

// Prepared is a person's genotypes aligned to the reference panel.
type Prepared struct {
	Records  []dosage.Record
	Buckets  dosage.Buckets
	Matched  int
	Warnings []error
}

// Prepare aligns genotypes to the reference panel and buckets the dosages.
func Prepare(refs []reference.Record, genotypes []genotype.Record) (*Prepared, error) {
	if len(refs) == 0 {
		return nil, prs313.ErrNoReference
	}
	if len(genotypes) == 0 {
		return nil, prs313.ErrNoGenotypes
	}

	aligned := dosage.Align(refs, genotypes)

	out := &Prepared{Records: dosage.DeriveAll(aligned)}
	for _, a := range aligned {
		if a.Matched() {
			out.Matched++
		}
	}
	out.Buckets, out.Warnings = dosage.Partition(out.Records)

	return out, nil
}

// TrialAudit accounts for what each trial had to skip.
type TrialAudit struct {
	Trial int `json:"trial"`
	score.Audit

	// SNPs left undefined because no frequency prior exists
	MissingPriors []string `json:"missing_priors"`

	// Panel SNPs whose dosage came from a model
	Imputed int `json:"imputed"`

	// Chromosomes whose panel could not be imputed in this trial
	SkippedChromosomes []int `json:"skipped_chromosomes"`
}

type Result struct {
	*Prepared
	Scores     []score.Vector
	Summaries  []summary.Summary
	Audits     []TrialAudit
	Departures []montecarlo.Departure
}

// Runner scores genotypes against a shared set of Resources.
type Runner struct {
	Config    Config
	Resources *Resources
	Logger    prs313.Logger
}

func New(cfg Config, resources *Resources, logger prs313.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if resources == nil || len(resources.Reference) == 0 {
		return nil, prs313.ErrNoReference
	}
	if logger == nil {
		logger = prs313.DiscardLogger
	}

	return &Runner{Config: cfg, Resources: resources, Logger: logger}, nil
}

// Run scores one person. Trials run one after another; the scores are kept
// in trial order.
func (r *Runner) Run(ctx context.Context, genotypes []genotype.Record) (*Result, error) {
	prepared, err := Prepare(r.Resources.Reference, genotypes)
	if err != nil {
		return nil, err
	}
	for _, w := range prepared.Warnings {
		r.Logger.Println(w)
	}
	r.Logger.Printf("Matched %d of %d reference SNPs\n", prepared.Matched, len(prepared.Records))

	out := &Result{Prepared: prepared}

	sim := montecarlo.NewSimulator(r.Config.Seed)
	tally := montecarlo.NewTally()
	driver := imputation.NewDriver(r.Resources.Models)
	rv := runningvariance.NewRunningStat()

	reported := make(logOnce)

	for trial := 0; trial < r.Config.Trials; trial++ {
		v, audit, err := r.trial(ctx, trial, prepared.Buckets, sim, tally, driver, reported)
		if err != nil {
			return nil, err
		}

		out.Scores = append(out.Scores, v)
		out.Audits = append(out.Audits, audit)

		rv.Push(v.Get(prsparser.Overall))
		r.Logger.Printf("Trial %d/%d: overall score %.4f, running mean %.4f, SD %.4f, %d SNPs scored\n", trial+1, r.Config.Trials, v.Get(prsparser.Overall), rv.Mean(), rv.StandardDeviation(), audit.Scored)
	}

	if out.Summaries, err = summary.Vectors(out.Scores, r.Config.Bins); err != nil {
		return nil, pfx.Err(err)
	}

	if r.Config.HWECutoff > 0 {
		out.Departures = tally.Check(r.Config.HWECutoff, int64(r.Config.Trials))
		for _, d := range out.Departures {
			r.Logger.Printf("Simulated genotypes for %s depart from equilibrium: %+v, P=%g\n", d.Key, d.Counts, d.P)
		}
	}

	return out, nil
}

func (r *Runner) trial(ctx context.Context, trial int, buckets dosage.Buckets, sim *montecarlo.Simulator, tally *montecarlo.Tally, driver *imputation.Driver, reported logOnce) (score.Vector, TrialAudit, error) {
	audit := TrialAudit{Trial: trial}

	var entries []score.Entry
	for _, chr := range chrpos.Autosomes() {
		if err := ctx.Err(); err != nil {
			return score.Vector{}, audit, err
		}

		bucket := buckets[chr]
		if bucket == nil {
			continue
		}

		features, draws, missing := sim.Fill(bucket.NonPanel, r.Resources.Frequencies.Get(chr))
		if err := tally.Add(draws); err != nil {
			return score.Vector{}, audit, pfx.Err(err)
		}
		for _, err := range missing {
			var mp prs313.MissingPriorError
			if errors.As(err, &mp) {
				audit.MissingPriors = append(audit.MissingPriors, mp.SNP)
			}
			reported.Println(r.Logger, err.Error(), err)
		}

		panel, imputed, err := r.imputePanel(ctx, chr, bucket.Panel, features, driver)
		if err != nil && bucket.Panel.Len() > 0 {
			audit.SkippedChromosomes = append(audit.SkippedChromosomes, chr)
			reported.Println(r.Logger, fmt.Sprintf("chr%d", chr), fmt.Sprintf("Chromosome %d: panel SNPs not imputed: %v", chr, err))
		}
		audit.Imputed += imputed

		entries = append(entries, score.Entries(panel, features)...)
	}

	v, scoreAudit := score.Aggregate(entries, r.Resources.Weights)
	audit.Audit = scoreAudit
	for _, mw := range scoreAudit.MissingWeights {
		reported.Println(r.Logger, mw.Error(), mw)
	}
	for _, key := range scoreAudit.Unparseable {
		reported.Println(r.Logger, "unparseable "+key, fmt.Sprintf("SNP: %s, Message: feature key cannot be scored", key))
	}
	sort.Ints(audit.SkippedChromosomes)

	return v, audit, nil
}

// imputePanel returns the panel with every undefined dosage replaced by the
// model's rounded prediction. Known panel dosages are kept as genotyped. On
// error the panel is returned as genotyped.
func (r *Runner) imputePanel(ctx context.Context, chr int, panel, features *dosage.FeatureMap, driver *imputation.Driver) (*dosage.FeatureMap, int, error) {
	if panel.Len() == 0 {
		return panel, 0, nil
	}

	if !r.Config.ZeroFillModelInput {
		if missing := features.Missing(); len(missing) > 0 {
			return panel, 0, fmt.Errorf("%d model inputs are undefined", len(missing))
		}
	}

	predicted, err := driver.Impute(ctx, chr, imputation.Vector(features, 0))
	if err != nil {
		return panel, 0, err
	}

	if len(predicted) != panel.Len() {
		return panel, 0, fmt.Errorf("model returned %d dosages for %d panel SNPs", len(predicted), panel.Len())
	}

	out := panel.Clone()
	imputed := 0
	for i, key := range panel.Keys() {
		if d, _ := panel.Get(key); d.IsMissing() {
			out.Set(key, dosage.Known(predicted[i]))
			imputed++
		}
	}

	return out, imputed, nil
}

// AuditCounts is TrialAudit with the lists reduced to their lengths.
type AuditCounts struct {
	Trial              int   `json:"trial"`
	Scored             int   `json:"scored"`
	Imputed            int   `json:"imputed"`
	MissingWeights     int   `json:"missing_weights"`
	MissingDosages     int   `json:"missing_dosages"`
	Unparseable        int   `json:"unparseable"`
	MissingPriors      int   `json:"missing_priors"`
	SkippedChromosomes []int `json:"skipped_chromosomes"`
}

func (a TrialAudit) Counts() AuditCounts {
	return AuditCounts{
		Trial:              a.Trial,
		Scored:             a.Scored,
		Imputed:            a.Imputed,
		MissingWeights:     len(a.MissingWeights),
		MissingDosages:     len(a.MissingDosages),
		Unparseable:        len(a.Unparseable),
		MissingPriors:      len(a.MissingPriors),
		SkippedChromosomes: a.SkippedChromosomes,
	}
}

// Report is a compact, serializable view of a Result.
type Report struct {
	Matched   int                  `json:"matched"`
	Reference int                  `json:"reference"`
	Scores    []map[string]float64 `json:"scores"`
	Summaries []summary.Summary    `json:"summaries"`
	Audits    []AuditCounts        `json:"audits"`
}

func (r *Result) Report() Report {
	out := Report{
		Matched:   r.Matched,
		Reference: len(r.Records),
		Summaries: r.Summaries,
		Scores:    make([]map[string]float64, 0, len(r.Scores)),
		Audits:    make([]AuditCounts, 0, len(r.Audits)),
	}
	for _, v := range r.Scores {
		out.Scores = append(out.Scores, v.Map())
	}
	for _, a := range r.Audits {
		out.Audits = append(out.Audits, a.Counts())
	}
	return out
}

// logOnce logs each distinct problem the first time it is seen in a run, so
// a SNP skipped in every trial is named once.
type logOnce map[string]struct{}

func (l logOnce) Println(logger prs313.Logger, key string, v ...interface{}) {
	if _, seen := l[key]; seen {
		return
	}
	l[key] = struct{}{}
	logger.Println(v...)
}
