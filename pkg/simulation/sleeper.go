package simulation

import (
	"context"
	"time"
)

// Sleeper suspends a run for a fixed duration
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// RealTime sleeps on the wall clock
type RealTime struct{}

func (RealTime) Sleep(ctx context.Context, d time.Duration) error {
	return Scaled{Factor: 1}.Sleep(ctx, d)
}

// Scaled sleeps d divided by Factor, so Factor 2 runs twice as fast
type Scaled struct {
	Factor float64
}

func (s Scaled) Sleep(ctx context.Context, d time.Duration) error {
	factor := s.Factor
	if factor <= 0 {
		factor = 1
	}
	wait := time.Duration(float64(d) / factor)
	if wait <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Instant returns immediately. Elapsed times reported by the runner are
// unaffected since they are accumulated from the requested durations.
type Instant struct{}

func (Instant) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
