package pulse

import (
	"github.com/cjeanneret/heliogo/internal/config"
)

// Mapper converts tilt angles to servo duty counts using the classic
// piecewise-linear servo convention: 0° = MinPulseUs, 180° = MaxPulseUs,
// scaled onto the PWM duty range. All arithmetic is integer (truncating),
// matching the duty resolution of the PWM peripheral.
type Mapper struct {
	minPulseUs int
	maxPulseUs int
	periodUs   int
	maxDuty    int
}

// NewMapper creates a pulse mapper from configuration.
func NewMapper(cfg *config.Config) *Mapper {
	return &Mapper{
		minPulseUs: cfg.Servo.MinPulseUs,
		maxPulseUs: cfg.Servo.MaxPulseUs,
		periodUs:   cfg.Servo.PeriodUs,
		maxDuty:    cfg.Servo.MaxDuty,
	}
}

// PulseWidth returns the pulse width in microseconds for an angle.
// The angle is clamped to [0, 180] first; the tilt policy only produces
// valid angles, but the clamp stays as a safety net against policy changes.
func (m *Mapper) PulseWidth(angle int) int {
	angle = clampInt(angle, 0, 180)
	return m.minPulseUs + angle*(m.maxPulseUs-m.minPulseUs)/180
}

// DutyForAngle returns the duty count for an angle. Given the configured
// relationship min <= max <= period, the result is always within
// [0, maxDuty].
func (m *Mapper) DutyForAngle(angle int) int {
	return m.PulseWidth(angle) * m.maxDuty / m.periodUs
}

// MaxDuty returns the highest duty count the mapper can emit.
func (m *Mapper) MaxDuty() int {
	return m.maxDuty
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
