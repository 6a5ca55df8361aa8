package imputation

import (
	"context"
	"sort"
	"sync"

	"github.com/carbocation/prs313"
	"golang.org/x/sync/errgroup"
)

// Registry holds the loaded model for each chromosome. It is filled once,
// typically at startup, and read many times afterwards. A chromosome whose
// model failed to load keeps its MissingModelError.
type Registry struct {
	mu       sync.RWMutex
	models   map[int]Predictor
	failures map[int]error
}

func NewRegistry() *Registry {
	return &Registry{
		models:   make(map[int]Predictor),
		failures: make(map[int]error),
	}
}

// Set registers a model directly.
func (r *Registry) Set(chromosome int, p Predictor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[chromosome] = p
	delete(r.failures, chromosome)
}

// Load fetches every chromosome's model concurrently. Failures are recorded
// and logged once; they never prevent other chromosomes from loading.
func (r *Registry) Load(ctx context.Context, loader Loader, chromosomes []int, logger prs313.Logger) {
	var g errgroup.Group

	for _, chr := range chromosomes {
		chr := chr
		g.Go(func() error {
			p, err := loader(ctx, chr)

			r.mu.Lock()
			defer r.mu.Unlock()

			if err == nil && p == nil {
				err = prs313.MissingModelError{Chromosome: chr}
			}
			if err != nil {
				r.failures[chr] = prs313.MissingModelError{Chromosome: chr, Err: err}
				delete(r.models, chr)
				logger.Printf("Could not load the model for chromosome %d: %v\n", chr, err)
				return nil
			}

			r.models[chr] = p
			delete(r.failures, chr)
			return nil
		})
	}

	g.Wait()

	logger.Printf("Loaded %d of %d models\n", r.Len(), len(chromosomes))
}

// Get returns the chromosome's model, or a MissingModelError.
func (r *Registry) Get(chromosome int) (Predictor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, exists := r.models[chromosome]; exists {
		return p, nil
	}
	if err, exists := r.failures[chromosome]; exists {
		return nil, err
	}

	return nil, prs313.MissingModelError{Chromosome: chromosome}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}

// Loaded lists the chromosomes with a model, in ascending order.
func (r *Registry) Loaded() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int, 0, len(r.models))
	for chr := range r.models {
		out = append(out, chr)
	}
	sort.Ints(out)
	return out
}

// Failures returns the recorded load errors by chromosome.
func (r *Registry) Failures() map[int]error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[int]error, len(r.failures))
	for chr, err := range r.failures {
		out[chr] = err
	}
	return out
}
