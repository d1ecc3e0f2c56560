package servo

import (
	"fmt"

	"github.com/cjeanneret/heliogo/internal/debug"
	"github.com/cjeanneret/heliogo/internal/hw/gpio"
)

// Sink is the high-level interface used by the control loop. It accepts the
// actuator command (a duty count) produced by the pulse mapper, regardless of
// how the pulse is generated (hardware PWM, PCA9685 hat, simulator, etc.).
type Sink interface {
	// Drive applies one duty command to the actuator.
	Drive(duty int) error
}

// Config holds the hardware configuration for a PWM servo.
type Config struct {
	Pin     int // BCM pin with hardware PWM support
	FreqHz  int // PWM frequency (50 Hz for hobby servos)
	MaxDuty int // highest duty count; cycle length is MaxDuty+1
}

// Servo drives a hobby servo through a hardware PWM pin.
type Servo struct {
	gpio gpio.Driver
	cfg  Config
}

// NewServo configures the PWM pin and returns a servo controller.
func NewServo(g gpio.Driver, cfg Config) (*Servo, error) {
	if cfg.MaxDuty <= 0 {
		return nil, fmt.Errorf("servo max duty must be > 0, got %d", cfg.MaxDuty)
	}
	freq := cfg.FreqHz
	if freq <= 0 {
		freq = 50
	}
	cfg.FreqHz = freq

	// Duty counts run 0..MaxDuty, so a full period is MaxDuty+1 counts.
	if err := g.SetupPWM(cfg.Pin, cfg.FreqHz, uint32(cfg.MaxDuty)+1); err != nil {
		return nil, fmt.Errorf("setup servo PWM on pin %d: %w", cfg.Pin, err)
	}

	return &Servo{gpio: g, cfg: cfg}, nil
}

// Drive applies a duty command. Out-of-range commands are rejected rather
// than clamped: the pulse mapper upstream already guarantees the range, so a
// violation here means a real bug.
func (s *Servo) Drive(duty int) error {
	if duty < 0 || duty > s.cfg.MaxDuty {
		return fmt.Errorf("duty %d out of range [0, %d]", duty, s.cfg.MaxDuty)
	}

	debug.Printf("Servo: drive duty=%d on pin %d", duty, s.cfg.Pin)
	if err := s.gpio.SetDuty(s.cfg.Pin, uint32(duty)); err != nil {
		return fmt.Errorf("write servo duty: %w", err)
	}
	return nil
}
