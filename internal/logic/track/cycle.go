package track

import (
	"context"
	"fmt"
	"time"

	"github.com/cjeanneret/heliogo/internal/debug"
	"github.com/cjeanneret/heliogo/internal/hw/ldr"
	"github.com/cjeanneret/heliogo/internal/hw/servo"
	"github.com/cjeanneret/heliogo/internal/logic/pulse"
	"github.com/cjeanneret/heliogo/internal/logic/sun"
	"github.com/cjeanneret/heliogo/internal/observability"
	"github.com/cjeanneret/heliogo/internal/telemetry"
)

// CycleParams wires the collaborators of the control cycle.
type CycleParams struct {
	Source    ldr.Source
	Sink      servo.Sink
	Uplink    telemetry.Uplink
	Mapper    *pulse.Mapper
	Threshold int // noise band for direction detection

	// BlockingUplink sends telemetry inline; when false the submission is
	// fire-and-forget so network latency never stretches the cycle.
	BlockingUplink bool
	// UplinkTimeout bounds each telemetry submission.
	UplinkTimeout time.Duration

	Metrics  *observability.Metrics     // optional
	OnRecord func(rec telemetry.Record) // optional, called after each good cycle
}

// Cycle contains the high-level sense-decide-act-report logic. One Run is one
// full iteration; no state is carried between iterations beyond a counter.
type Cycle struct {
	p CycleParams
	n uint64
}

func NewCycle(p CycleParams) *Cycle {
	if p.UplinkTimeout <= 0 {
		p.UplinkTimeout = 4 * time.Second
	}
	return &Cycle{p: p}
}

// Run executes one full control cycle. Sensor and actuator errors fail the
// cycle; uplink errors are logged and never affect the returned record or
// the actuator command.
func (c *Cycle) Run(ctx context.Context) (telemetry.Record, error) {
	c.n++

	sample, err := c.p.Source.Read()
	if err != nil {
		c.p.Metrics.CycleFailed()
		return telemetry.Record{}, fmt.Errorf("sensor acquisition: %w", err)
	}

	dir := sun.Classify(sample.East, sample.West, c.p.Threshold)
	angle := sun.TiltFor(dir)
	duty := c.p.Mapper.DutyForAngle(angle)
	debug.Verbose("Decision: diff=%d threshold=%d -> %s -> %d°",
		sample.East-sample.West, c.p.Threshold, dir, angle)

	if err := c.p.Sink.Drive(duty); err != nil {
		c.p.Metrics.CycleFailed()
		return telemetry.Record{}, fmt.Errorf("actuator drive: %w", err)
	}
	debug.Drive(angle, c.p.Mapper.PulseWidth(angle), duty)

	rec := telemetry.Record{
		Time:      time.Now(),
		East:      sample.East,
		West:      sample.West,
		Direction: dir,
		Angle:     angle,
		Duty:      duty,
	}
	debug.Cycle(c.n, rec.East, rec.West, dir.String(), angle)

	c.p.Metrics.CycleCompleted(rec.East, rec.West, angle)
	if c.p.OnRecord != nil {
		c.p.OnRecord(rec)
	}

	c.report(ctx, rec)
	return rec, nil
}

// report hands the record to the uplink, inline or fire-and-forget.
func (c *Cycle) report(ctx context.Context, rec telemetry.Record) {
	if c.p.Uplink == nil {
		return
	}
	if c.p.BlockingUplink {
		c.send(ctx, rec)
		return
	}
	go c.send(ctx, rec)
}

func (c *Cycle) send(ctx context.Context, rec telemetry.Record) {
	sendCtx, cancel := context.WithTimeout(ctx, c.p.UplinkTimeout)
	defer cancel()

	err := c.p.Uplink.Send(sendCtx, rec)
	debug.Uplink(c.p.Uplink.Name(), err)
	if err != nil {
		c.p.Metrics.UplinkFailed()
	}
}
