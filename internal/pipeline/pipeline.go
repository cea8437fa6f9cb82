// Package pipeline implements the observation cleaning and aggregation
// pipeline as an explicit, ordered chain of pure stages:
//
//  1. parse      — date parsing, year/month/day derivation, type coercion
//  2. convert    — tenths-of-unit rescaling (prcp, tmax, tmin)
//  3. consistent — drop rows where both temperatures are present and tmax <= tmin
//  4. complete   — drop rows with any missing field
//  5. dedupe     — keep the first occurrence of each fully identical row
//  6. sample     — draw exactly SampleSize rows without replacement
//  7. aggregate  — per-year mean precipitation with decade buckets
//
// The consistency stage must run before the missing-value drop: a row missing
// one temperature passes the consistency rule and is only removed by the
// completeness stage. Every stage returns a fresh slice; no intermediate set
// is mutated after it is produced.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/weather-obs-pipeline/internal/domain"
	"github.com/couchcryptid/weather-obs-pipeline/internal/observability"
)

var errNotReady = errors.New("pipeline has not completed a run yet")

// Stage names used in logs and metric labels, in execution order.
const (
	StageParse      = "parse"
	StageConvert    = "convert"
	StageConsistent = "consistent"
	StageComplete   = "complete"
	StageDedupe     = "dedupe"
	StageSample     = "sample"
	StageAggregate  = "aggregate"
)

// Result holds the two output sets of one pipeline run.
type Result struct {
	Sample     []domain.CleanObservation `json:"sample"`
	Aggregates []domain.YearlyAggregate  `json:"aggregates"`
	ProducedAt time.Time                 `json:"produced_at"`
}

// Pipeline runs the cleaning and aggregation stages over a raw observation
// set. Each call to Run is independent; the pipeline holds no mutable state
// between runs beyond the last completed result.
type Pipeline struct {
	logger     *slog.Logger
	metrics    *observability.Metrics
	sampleSize int
	rng        *rand.Rand

	last  atomic.Pointer[Result]
	ready atomic.Bool
}

// New creates a Pipeline. The random source is explicit so callers control
// sampling reproducibility; tests pass a fixed seed.
func New(logger *slog.Logger, metrics *observability.Metrics, sampleSize int, rng *rand.Rand) *Pipeline {
	return &Pipeline{
		logger:     logger,
		metrics:    metrics,
		sampleSize: sampleSize,
		rng:        rng,
	}
}

// Run executes all stages over raw and returns the sampled clean set plus the
// yearly aggregates. It fails with *domain.MalformedDateError on an
// unparseable date and *InsufficientDataError when fewer than SampleSize rows
// survive cleaning. There is no partial success: on error both outputs are
// discarded.
func (p *Pipeline) Run(raw []domain.RawObservation) (*Result, error) {
	start := time.Now()
	p.logger.Info("pipeline run started", "rows", len(raw), "sample_size", p.sampleSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	parsed, err := runStage(p, StageParse, len(raw), func() ([]domain.Observation, error) {
		return ParseAll(raw)
	})
	if err != nil {
		p.metrics.RunFailures.Inc()
		return nil, err
	}

	converted, _ := runStage(p, StageConvert, len(parsed), func() ([]domain.Observation, error) {
		return ConvertAll(parsed), nil
	})
	consistent, _ := runStage(p, StageConsistent, len(converted), func() ([]domain.Observation, error) {
		return FilterConsistent(converted), nil
	})
	complete, _ := runStage(p, StageComplete, len(consistent), func() ([]domain.CleanObservation, error) {
		return DropMissing(consistent), nil
	})
	deduped, _ := runStage(p, StageDedupe, len(complete), func() ([]domain.CleanObservation, error) {
		return Deduplicate(complete), nil
	})

	sample, err := runStage(p, StageSample, len(deduped), func() ([]domain.CleanObservation, error) {
		return Sample(deduped, p.sampleSize, p.rng)
	})
	if err != nil {
		p.metrics.RunFailures.Inc()
		return nil, err
	}

	aggregates, _ := runStage(p, StageAggregate, len(sample), func() ([]domain.YearlyAggregate, error) {
		return AggregateByYear(sample), nil
	})

	result := &Result{
		Sample:     sample,
		Aggregates: aggregates,
		ProducedAt: domain.Now(),
	}
	p.last.Store(result)
	p.ready.Store(true)

	p.metrics.Runs.Inc()
	p.metrics.SampleSize.Set(float64(len(sample)))
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("pipeline run complete",
		"sample_rows", len(sample),
		"aggregate_years", len(aggregates),
		"duration", time.Since(start),
	)
	return result, nil
}

// Last returns the most recent completed result, or nil before the first run.
func (p *Pipeline) Last() *Result {
	return p.last.Load()
}

// CheckReadiness returns nil once a pipeline run has completed, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errNotReady
	}
	return nil
}

// runStage runs one stage, recording its duration, output size, and drop count.
func runStage[T any](p *Pipeline, stage string, in int, fn func() ([]T, error)) ([]T, error) {
	start := time.Now()
	out, err := fn()
	p.metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	if err != nil {
		p.logger.Error("stage failed", "stage", stage, "rows_in", in, "error", err)
		return nil, err
	}

	dropped := in - len(out)
	if dropped < 0 {
		dropped = 0
	}
	p.metrics.RowsOut.WithLabelValues(stage).Add(float64(len(out)))
	p.metrics.RowsDropped.WithLabelValues(stage).Add(float64(dropped))
	p.logger.Debug("stage complete", "stage", stage, "rows_in", in, "rows_out", len(out), "dropped", dropped)
	return out, nil
}
