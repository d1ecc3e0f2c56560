package track

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cjeanneret/heliogo/internal/config"
	"github.com/cjeanneret/heliogo/internal/hw/ldr"
	"github.com/cjeanneret/heliogo/internal/logic/pulse"
	"github.com/cjeanneret/heliogo/internal/logic/sun"
	"github.com/cjeanneret/heliogo/internal/telemetry"
)

type fakeSource struct {
	sample ldr.Sample
	err    error
	reads  int
}

func (f *fakeSource) Read() (ldr.Sample, error) {
	f.reads++
	if f.err != nil {
		return ldr.Sample{}, f.err
	}
	return f.sample, nil
}

type fakeSink struct {
	duties []int
	err    error
}

func (f *fakeSink) Drive(duty int) error {
	if f.err != nil {
		return f.err
	}
	f.duties = append(f.duties, duty)
	return nil
}

type fakeUplink struct {
	mu    sync.Mutex
	recs  []telemetry.Record
	err   error
	ready error
}

func (f *fakeUplink) Name() string { return "fake" }

func (f *fakeUplink) Ready(ctx context.Context) error { return f.ready }

func (f *fakeUplink) Send(ctx context.Context, rec telemetry.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.recs = append(f.recs, rec)
	return nil
}

func (f *fakeUplink) records() []telemetry.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]telemetry.Record, len(f.recs))
	copy(out, f.recs)
	return out
}

func newTestMapper() *pulse.Mapper {
	return pulse.NewMapper(&config.Config{
		Servo: config.ServoConfig{
			MinPulseUs: 500,
			MaxPulseUs: 2400,
			PeriodUs:   20000,
			MaxDuty:    8191,
		},
	})
}

func newTestCycle(src *fakeSource, sink *fakeSink, up *fakeUplink) *Cycle {
	return NewCycle(CycleParams{
		Source:         src,
		Sink:           sink,
		Uplink:         up,
		Mapper:         newTestMapper(),
		Threshold:      150,
		BlockingUplink: true, // deterministic in tests
	})
}

func TestCycle_EndToEnd(t *testing.T) {
	cases := []struct {
		name     string
		east     int
		west     int
		wantDir  sun.Direction
		wantTilt int
		wantDuty int
	}{
		{"sun_east", 2000, 1500, sun.East, 30, 334},
		{"sun_overhead", 1800, 1850, sun.Overhead, 90, 593},
		{"sun_west", 1000, 1600, sun.West, 150, 853},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := &fakeSource{sample: ldr.Sample{East: tc.east, West: tc.west}}
			sink := &fakeSink{}
			up := &fakeUplink{}
			c := newTestCycle(src, sink, up)

			rec, err := c.Run(context.Background())
			if err != nil {
				t.Fatalf("Run: %v", err)
			}

			if rec.Direction != tc.wantDir {
				t.Errorf("direction = %v, want %v", rec.Direction, tc.wantDir)
			}
			if rec.Angle != tc.wantTilt {
				t.Errorf("angle = %d, want %d", rec.Angle, tc.wantTilt)
			}
			if rec.East != tc.east || rec.West != tc.west {
				t.Errorf("record readings = (%d, %d), want (%d, %d)", rec.East, rec.West, tc.east, tc.west)
			}
			if len(sink.duties) != 1 || sink.duties[0] != tc.wantDuty {
				t.Errorf("sink duties = %v, want [%d]", sink.duties, tc.wantDuty)
			}
			recs := up.records()
			if len(recs) != 1 || recs[0].Duty != tc.wantDuty {
				t.Errorf("uplink records = %v, want one with duty %d", recs, tc.wantDuty)
			}
		})
	}
}

func TestCycle_Idempotent(t *testing.T) {
	src := &fakeSource{sample: ldr.Sample{East: 2000, West: 1500}}
	sink := &fakeSink{}
	c := newTestCycle(src, sink, &fakeUplink{})

	if _, err := c.Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if _, err := c.Run(context.Background()); err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if len(sink.duties) != 2 || sink.duties[0] != sink.duties[1] {
		t.Errorf("identical readings produced different duties: %v", sink.duties)
	}
}

func TestCycle_SensorErrorFailsCycle(t *testing.T) {
	src := &fakeSource{err: errors.New("channel misconfigured")}
	sink := &fakeSink{}
	up := &fakeUplink{}
	c := newTestCycle(src, sink, up)

	if _, err := c.Run(context.Background()); err == nil {
		t.Fatal("Run succeeded despite sensor error")
	}
	if len(sink.duties) != 0 {
		t.Errorf("servo was driven after a sensor error: %v", sink.duties)
	}
	if len(up.records()) != 0 {
		t.Errorf("telemetry was sent after a sensor error")
	}
}

func TestCycle_ActuatorErrorFailsCycle(t *testing.T) {
	src := &fakeSource{sample: ldr.Sample{East: 1800, West: 1850}}
	sink := &fakeSink{err: errors.New("pwm write failed")}
	up := &fakeUplink{}
	c := newTestCycle(src, sink, up)

	if _, err := c.Run(context.Background()); err == nil {
		t.Fatal("Run succeeded despite actuator error")
	}
	if len(up.records()) != 0 {
		t.Errorf("telemetry was sent after an actuator error")
	}
}

func TestCycle_UplinkErrorDoesNotAffectActuation(t *testing.T) {
	src := &fakeSource{sample: ldr.Sample{East: 2000, West: 1500}}
	sink := &fakeSink{}
	up := &fakeUplink{err: errors.New("503 from endpoint")}
	c := newTestCycle(src, sink, up)

	rec, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed on an uplink error: %v", err)
	}
	if len(sink.duties) != 1 || sink.duties[0] != 334 {
		t.Errorf("sink duties = %v, want [334]", sink.duties)
	}
	if rec.Angle != 30 {
		t.Errorf("record angle = %d, want 30", rec.Angle)
	}
}

func TestCycle_NoUplink(t *testing.T) {
	src := &fakeSource{sample: ldr.Sample{East: 1000, West: 1600}}
	sink := &fakeSink{}
	c := NewCycle(CycleParams{
		Source:    src,
		Sink:      sink,
		Mapper:    newTestMapper(),
		Threshold: 150,
	})

	if _, err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run without uplink: %v", err)
	}
	if len(sink.duties) != 1 {
		t.Errorf("sink duties = %v, want one drive", sink.duties)
	}
}
