package gpio

import (
	"fmt"

	"github.com/cjeanneret/heliogo/internal/debug"
	"github.com/stianeikeland/go-rpio/v4"
)

// RPiDriver is the real implementation for Raspberry Pi using go-rpio.
type RPiDriver struct {
	pwmPins  map[int]uint32 // pin -> cycle length
	spiOpen  bool
	spiSpeed int
}

// NewRPiDriver creates a real driver for Raspberry Pi.
// Requires running on a Raspberry Pi with access to /dev/gpiomem or as root.
func NewRPiDriver() (*RPiDriver, error) {
	debug.Info("Initializing real GPIO driver (go-rpio)")

	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("failed to open GPIO: %w (are you running on a Raspberry Pi?)", err)
	}

	debug.Verbose("GPIO memory mapped successfully")

	return &RPiDriver{
		pwmPins: make(map[int]uint32),
	}, nil
}

func (r *RPiDriver) SetupPWM(pin int, freqHz int, cycleLen uint32) error {
	debug.GPIO("SetupPWM", pin, debug.Fmt("freq=%dHz cycle=%d", freqHz, cycleLen))

	if cycleLen == 0 {
		return fmt.Errorf("pwm cycle length must be > 0")
	}

	p := rpio.Pin(pin)
	p.Mode(rpio.Pwm)
	// go-rpio takes the PWM clock frequency; one period is cycleLen counts,
	// so clock = freqHz * cycleLen yields freqHz periods per second.
	p.Freq(freqHz * int(cycleLen))
	p.DutyCycle(0, cycleLen)

	r.pwmPins[pin] = cycleLen
	return nil
}

func (r *RPiDriver) SetDuty(pin int, duty uint32) error {
	debug.GPIO("SetDuty", pin, duty)

	cycleLen, ok := r.pwmPins[pin]
	if !ok {
		return fmt.Errorf("pin %d is not configured for PWM", pin)
	}
	if duty > cycleLen {
		return fmt.Errorf("duty %d exceeds cycle length %d on pin %d", duty, cycleLen, pin)
	}

	rpio.Pin(pin).DutyCycle(duty, cycleLen)
	return nil
}

func (r *RPiDriver) SetupSPI(speedHz int) error {
	debug.Trace("SPI setup speed=%dHz", speedHz)

	if r.spiOpen {
		return nil
	}
	if err := rpio.SpiBegin(rpio.Spi0); err != nil {
		return fmt.Errorf("failed to claim SPI0: %w", err)
	}
	rpio.SpiChipSelect(0)
	rpio.SpiSpeed(speedHz)

	r.spiOpen = true
	r.spiSpeed = speedHz
	return nil
}

func (r *RPiDriver) SPIExchange(buf []byte) error {
	if !r.spiOpen {
		return fmt.Errorf("SPI bus is not set up")
	}
	debug.SPI("exchange tx", buf)
	rpio.SpiExchange(buf)
	debug.SPI("exchange rx", buf)
	return nil
}

func (r *RPiDriver) Close() error {
	debug.Trace("GPIO Close (real driver)")

	// Park PWM pins at zero duty, then release them as plain inputs.
	for pin, cycleLen := range r.pwmPins {
		debug.Verbose("Resetting PWM pin %d to input", pin)
		p := rpio.Pin(pin)
		p.DutyCycle(0, cycleLen)
		p.Input()
	}
	if r.spiOpen {
		rpio.SpiEnd(rpio.Spi0)
		r.spiOpen = false
	}

	return rpio.Close()
}
