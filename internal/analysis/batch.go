package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/codewithboateng/jreview/internal/ir"
	"github.com/codewithboateng/jreview/internal/source"
)

// AnalyzeAll analyzes units with at most workers concurrent runs. Results
// keep the order of units. The first failure cancels the rest.
func (e *Engine) AnalyzeAll(ctx context.Context, units []source.Unit, workers int) ([]*ir.Review, error) {
	if workers <= 0 {
		workers = 1
	}
	out := make([]*ir.Review, len(units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, u := range units {
		g.Go(func() error {
			r, err := e.Analyze(gctx, u.Text, u.Name)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
