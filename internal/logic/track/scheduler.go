package track

import (
	"context"
	"fmt"
	"time"

	"github.com/cjeanneret/heliogo/internal/debug"
	"github.com/cjeanneret/heliogo/internal/telemetry"
)

// SchedulerParams configures the control loop cadence.
type SchedulerParams struct {
	Cycle  *Cycle
	Uplink telemetry.Uplink

	Period time.Duration // time between cycle starts
	Settle time.Duration // startup delay before the first cycle

	// FailFast aborts the loop on the first sensor/actuator error, matching
	// strict fail-stop behavior. The default logs the error and retries on
	// the next tick, so a transient fault never disables tracking.
	FailFast bool
}

// Scheduler invokes the control cycle at a fixed cadence on a single logical
// thread: each cycle fully completes before the next one starts.
type Scheduler struct {
	p SchedulerParams
}

func NewScheduler(p SchedulerParams) *Scheduler {
	return &Scheduler{p: p}
}

// Run blocks until ctx is cancelled (returns nil) or, in fail-fast mode, a
// cycle fails. The first cycle starts after the settle delay and a
// successful uplink readiness check.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.p.Settle > 0 {
		debug.Info("Settling for %s before the first cycle", s.p.Settle)
		if err := sleepCtx(ctx, s.p.Settle); err != nil {
			return nil
		}
	}

	if s.p.Uplink != nil {
		if err := s.p.Uplink.Ready(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("uplink %s not ready: %w", s.p.Uplink.Name(), err)
		}
		debug.Info("Uplink %s ready", s.p.Uplink.Name())
	}

	debug.Info("Control loop starting, period %s", s.p.Period)
	ticker := time.NewTicker(s.p.Period)
	defer ticker.Stop()

	for {
		if _, err := s.p.Cycle.Run(ctx); err != nil {
			if s.p.FailFast {
				return fmt.Errorf("control cycle: %w", err)
			}
			debug.Error(fmt.Errorf("control cycle skipped: %w", err))
		}

		select {
		case <-ctx.Done():
			debug.Info("Control loop stopping")
			return nil
		case <-ticker.C:
		}
	}
}

// sleepCtx sleeps for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
