package estimator

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/Simplici0/metal-lca/internal/lca"
)

// Request is one item of a batch.
type Request struct {
	Inputs   lca.Inputs   `json:"inputs"`
	Scenario lca.Scenario `json:"scenario"`
}

// Outcome is the result of one batch item. Exactly one of Results and Err is
// meaningful.
type Outcome struct {
	Index   int
	Results lca.Results
	Err     error
}

// EstimateBatch estimates every request with at most limit in flight and
// returns outcomes in request order. Validation failures stay on their item;
// any other error cancels the batch and is returned.
func EstimateBatch(ctx context.Context, est Estimator, reqs []Request, limit int) ([]Outcome, error) {
	out := make([]Outcome, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, req := range reqs {
		g.Go(func() error {
			res, err := est.Estimate(gctx, req.Inputs, req.Scenario)
			out[i] = Outcome{Index: i, Results: res, Err: err}

			var verr *lca.ValidationError
			if err != nil && !errors.As(err, &verr) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
