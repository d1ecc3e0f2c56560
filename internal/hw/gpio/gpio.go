package gpio

import (
	"sync"

	"github.com/cjeanneret/heliogo/internal/debug"
)

// Driver defines the abstract interface for the hardware resources the
// controller needs: one hardware PWM pin for the servo and the SPI bus for
// the ADC. This allows plugging in a real Raspberry Pi implementation or a
// mock for development on PC.
type Driver interface {
	// SetupPWM configures pin as a hardware PWM output. cycleLen is the
	// number of duty counts per period; effective PWM frequency is freqHz.
	SetupPWM(pin int, freqHz int, cycleLen uint32) error
	// SetDuty sets the active duty counts for a pin previously configured
	// with SetupPWM.
	SetDuty(pin int, duty uint32) error
	// SetupSPI claims the main SPI bus (chip select 0) at the given clock.
	SetupSPI(speedHz int) error
	// SPIExchange performs a full-duplex transfer; buf is overwritten with
	// the received bytes.
	SPIExchange(buf []byte) error
	Close() error
}

// MockDriver is a test implementation that logs actions and records PWM
// writes. SPI responses can be scripted for tests; with no script, exchanged
// buffers are zero-filled (a dark-sensor baseline).
type MockDriver struct {
	mu        sync.Mutex
	duties    map[int][]uint32
	spiScript [][]byte
	spiTx     [][]byte
	spiErr    error
}

// NewDriver creates a driver based on the chosen mode.
// If mock is true, returns a MockDriver (for dev/test).
// If mock is false, returns a real RPiDriver (for Raspberry Pi).
func NewDriver(mock bool) (Driver, error) {
	if mock {
		debug.Info("Using MOCK GPIO driver (development mode)")
		return &MockDriver{}, nil
	}
	return NewRPiDriver()
}

func (m *MockDriver) SetupPWM(pin int, freqHz int, cycleLen uint32) error {
	debug.GPIO("SetupPWM", pin, debug.Fmt("freq=%dHz cycle=%d", freqHz, cycleLen))
	return nil
}

func (m *MockDriver) SetDuty(pin int, duty uint32) error {
	debug.GPIO("SetDuty", pin, duty)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.duties == nil {
		m.duties = make(map[int][]uint32)
	}
	m.duties[pin] = append(m.duties[pin], duty)
	return nil
}

func (m *MockDriver) SetupSPI(speedHz int) error {
	debug.Trace("SPI setup (mock) speed=%dHz", speedHz)
	return nil
}

func (m *MockDriver) SPIExchange(buf []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.spiErr != nil {
		return m.spiErr
	}
	tx := make([]byte, len(buf))
	copy(tx, buf)
	m.spiTx = append(m.spiTx, tx)
	if len(m.spiScript) > 0 {
		copy(buf, m.spiScript[0])
		m.spiScript = m.spiScript[1:]
	} else {
		for i := range buf {
			buf[i] = 0
		}
	}
	debug.SPI("exchange (mock)", buf)
	return nil
}

func (m *MockDriver) Close() error {
	debug.Trace("GPIO Close (mock)")
	return nil
}

// ScriptSPI queues response buffers returned by subsequent SPIExchange calls,
// in order.
func (m *MockDriver) ScriptSPI(responses ...[]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spiScript = append(m.spiScript, responses...)
}

// FailSPI makes every subsequent SPIExchange return err (nil to clear).
func (m *MockDriver) FailSPI(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spiErr = err
}

// SPITx returns the transmitted SPI frames, in order.
func (m *MockDriver) SPITx() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.spiTx))
	copy(out, m.spiTx)
	return out
}

// Duties returns the duty values written to a pin, in order.
func (m *MockDriver) Duties(pin int) []uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]uint32, len(m.duties[pin]))
	copy(out, m.duties[pin])
	return out
}
