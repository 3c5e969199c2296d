// Package estimator puts an asynchronous boundary in front of the pure lca
// engine so callers can swap the local engine for a remote backend.
package estimator

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Simplici0/metal-lca/internal/lca"
)

// Estimator produces results for an assessment.
type Estimator interface {
	Estimate(ctx context.Context, in lca.Inputs, sc lca.Scenario) (lca.Results, error)
}

// Engine estimates locally against a reference table.
type Engine struct {
	table   lca.Table
	latency time.Duration
	log     zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLatency delays every estimate by d, emulating a remote call.
func WithLatency(d time.Duration) Option {
	return func(e *Engine) { e.latency = d }
}

// WithLogger sets the logger used for debug traces.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine returns an Engine over table.
func NewEngine(table lca.Table, opts ...Option) *Engine {
	e := &Engine{table: table, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Table returns the reference table the engine computes against.
func (e *Engine) Table() lca.Table {
	return e.table
}

func (e *Engine) Estimate(ctx context.Context, in lca.Inputs, sc lca.Scenario) (lca.Results, error) {
	if e.latency > 0 {
		timer := time.NewTimer(e.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return lca.Results{}, ctx.Err()
		case <-timer.C:
		}
	}

	res, err := e.table.Compute(in, sc)
	if err != nil {
		e.log.Debug().Err(err).Str("metal", string(in.Metal)).Str("scenario", string(sc)).Msg("estimate rejected")
		return lca.Results{}, err
	}

	e.log.Debug().
		Str("metal", string(in.Metal)).
		Str("scenario", string(sc)).
		Float64("co2_footprint", res.CO2Footprint).
		Msg("estimate computed")
	return res, nil
}

// Future is a pending estimate.
type Future struct {
	done chan struct{}
	res  lca.Results
	err  error
}

// Start runs est in its own goroutine and returns immediately.
func Start(ctx context.Context, est Estimator, in lca.Inputs, sc lca.Scenario) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.res, f.err = est.Estimate(ctx, in, sc)
	}()
	return f
}

// Done is closed once the estimate has finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the estimate finishes or ctx is done.
func (f *Future) Wait(ctx context.Context) (lca.Results, error) {
	select {
	case <-ctx.Done():
		return lca.Results{}, ctx.Err()
	case <-f.done:
		return f.res, f.err
	}
}
