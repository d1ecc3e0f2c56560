package track

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cjeanneret/heliogo/internal/hw/ldr"
)

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	src := &fakeSource{sample: ldr.Sample{East: 1800, West: 1850}}
	sink := &fakeSink{}
	up := &fakeUplink{}
	cycle := newTestCycle(src, sink, up)

	sched := NewScheduler(SchedulerParams{
		Cycle:  cycle,
		Uplink: up,
		Period: 5 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	if err := sched.Run(ctx); err != nil {
		t.Fatalf("Run returned error on cancellation: %v", err)
	}
	if src.reads < 2 {
		t.Errorf("expected at least 2 cycles, got %d", src.reads)
	}
}

func TestScheduler_SkipsFailedCyclesByDefault(t *testing.T) {
	src := &fakeSource{err: errors.New("transient fault")}
	sink := &fakeSink{}
	cycle := newTestCycle(src, sink, &fakeUplink{})

	sched := NewScheduler(SchedulerParams{
		Cycle:  cycle,
		Period: 5 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	if err := sched.Run(ctx); err != nil {
		t.Fatalf("Run aborted on a cycle error without fail-fast: %v", err)
	}
	if src.reads < 2 {
		t.Errorf("expected the loop to keep retrying, got %d reads", src.reads)
	}
}

func TestScheduler_FailFastAborts(t *testing.T) {
	src := &fakeSource{err: errors.New("hardware fault")}
	cycle := newTestCycle(src, &fakeSink{}, &fakeUplink{})

	sched := NewScheduler(SchedulerParams{
		Cycle:    cycle,
		Period:   5 * time.Millisecond,
		FailFast: true,
	})

	err := sched.Run(context.Background())
	if err == nil {
		t.Fatal("Run did not abort in fail-fast mode")
	}
	if !strings.Contains(err.Error(), "hardware fault") {
		t.Errorf("error does not wrap the cycle failure: %v", err)
	}
	if src.reads != 1 {
		t.Errorf("expected exactly 1 cycle before aborting, got %d", src.reads)
	}
}

func TestScheduler_UplinkNotReadyAborts(t *testing.T) {
	src := &fakeSource{sample: ldr.Sample{East: 100, West: 100}}
	up := &fakeUplink{ready: errors.New("broker unreachable")}
	cycle := newTestCycle(src, &fakeSink{}, up)

	sched := NewScheduler(SchedulerParams{
		Cycle:  cycle,
		Uplink: up,
		Period: 5 * time.Millisecond,
	})

	if err := sched.Run(context.Background()); err == nil {
		t.Fatal("Run did not fail when the uplink never became ready")
	}
	if src.reads != 0 {
		t.Errorf("cycles ran before uplink readiness, reads=%d", src.reads)
	}
}

func TestScheduler_SettleDelaysFirstCycle(t *testing.T) {
	src := &fakeSource{sample: ldr.Sample{East: 100, West: 100}}
	cycle := newTestCycle(src, &fakeSink{}, &fakeUplink{})

	sched := NewScheduler(SchedulerParams{
		Cycle:  cycle,
		Period: 5 * time.Millisecond,
		Settle: time.Hour,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := sched.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if src.reads != 0 {
		t.Errorf("a cycle ran during the settle delay, reads=%d", src.reads)
	}
}
