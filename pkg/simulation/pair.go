package simulation

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunPair runs both runners concurrently and returns once both are complete.
// The runners share no state, so they may finish at different times.
func RunPair(ctx context.Context, runners ...*Runner) error {
	var g errgroup.Group
	for _, r := range runners {
		g.Go(func() error {
			return r.Run(ctx)
		})
	}
	return g.Wait()
}
