package sheet

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/statforge/internal/game/condition"
)

// EachParallel runs fn over every sheet using at most workers goroutines
// (workers <= 0 means GOMAXPROCS). Sheets are independent; fn must touch
// only the sheet it is handed.
//
// Postcondition: Returns the first non-nil error from fn; remaining sheets
// may be skipped once an error occurs.
func EachParallel(ctx context.Context, sheets []*Sheet, workers int, fn func(ctx context.Context, i int, s *Sheet) error) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, s := range sheets {
		if ctx.Err() != nil {
			break
		}
		i, s := i, s
		g.Go(func() error {
			return fn(ctx, i, s)
		})
	}
	return g.Wait()
}

// EvaluateParallel evaluates a condition list (AND aggregation) against one
// named stat of every sheet, fanning out across workers goroutines.
//
// Postcondition: results[i] corresponds to sheets[i]. A sheet missing the
// named stat evaluates to false (fail-closed, same as an invalid field).
func EvaluateParallel(ctx context.Context, sheets []*Sheet, statName string, cs []condition.Condition, workers int) ([]bool, error) {
	results := make([]bool, len(sheets))
	err := EachParallel(ctx, sheets, workers, func(_ context.Context, i int, s *Sheet) error {
		id, ok := s.Lookup(statName)
		if !ok {
			return nil
		}
		sv, ok := s.Stat(id)
		if !ok {
			return nil
		}
		results[i] = condition.EvaluateAll(cs, sv)
		return nil
	})
	return results, err
}
