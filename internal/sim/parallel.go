package sim

import (
	"context"
	"math/rand"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Ensemble runs independent copies of a scene, each with velocities
// perturbed by a seeded jitter.
type Ensemble struct {
	base      *Simulator
	numRuns   int
	seedStart int64
	jitter    float64
	metrics   func() []Metric
}

func NewEnsemble(s *Simulator, numRuns int, seedStart int64, jitter float64) *Ensemble {
	return &Ensemble{base: s, numRuns: numRuns, seedStart: seedStart, jitter: jitter}
}

// WithMetrics sets a factory called once per run; metrics carry per-run
// state and are never shared between runs.
func (e *Ensemble) WithMetrics(factory func() []Metric) *Ensemble {
	e.metrics = factory
	return e
}

func (e *Ensemble) Run(ctx context.Context, scene *Scene, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			sc := scene.Clone()
			perturb(sc, cfgCopy.Seed, e.jitter)

			s := New(e.base.log)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, sc, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

func perturb(s *Scene, seed int64, jitter float64) {
	if jitter == 0 {
		return
	}
	rng := rand.New(rand.NewSource(seed))
	for _, e := range s.Entities {
		if e.Static {
			continue
		}
		v := e.Velocity()
		*v = v.Add(mgl64.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}.Mul(jitter))
	}
}

// ParallelFor executes fn over [0, n) split into at most workers chunks of
// at least minChunk items.
func ParallelFor(n, minChunk, workers int, fn func(start, end int)) {
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
