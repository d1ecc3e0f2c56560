package telemetry

import (
	"context"
	"time"

	"github.com/cjeanneret/heliogo/internal/logic/sun"
)

// Record is the immutable snapshot of one control cycle, built once per
// cycle and handed to the uplink. Direction marshals as its ordinal
// (east=0, overhead=1, west=2), matching the ThingSpeak field encoding.
type Record struct {
	Time      time.Time     `json:"time"`
	East      int           `json:"east"`
	West      int           `json:"west"`
	Direction sun.Direction `json:"direction"`
	Angle     int           `json:"angle"`
	Duty      int           `json:"duty"`
}

// Uplink delivers telemetry records to a remote aggregation endpoint.
// Delivery is at-most-once and best-effort: the caller logs failures and
// moves on, and no implementation retries or buffers.
type Uplink interface {
	// Name identifies the uplink in logs.
	Name() string
	// Ready blocks until the uplink can accept records (e.g. the broker
	// connection is established), or returns an error.
	Ready(ctx context.Context) error
	// Send delivers one record.
	Send(ctx context.Context, rec Record) error
}

// Nop discards every record. Useful for bench runs without connectivity.
type Nop struct{}

func (Nop) Name() string { return "none" }

func (Nop) Ready(ctx context.Context) error { return nil }

func (Nop) Send(ctx context.Context, _ Record) error { return nil }
