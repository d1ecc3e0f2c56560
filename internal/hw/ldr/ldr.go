package ldr

import (
	"fmt"

	"github.com/cjeanneret/heliogo/internal/debug"
	"github.com/cjeanneret/heliogo/internal/hw/gpio"
)

// Sample is one pair of light readings, taken back to back within a cycle.
// Values are raw 12-bit intensities (0-4095); higher means brighter.
type Sample struct {
	East int
	West int
}

// Source is the high-level interface used by the control loop. It represents
// an abstract pair of directional light sensors, regardless of how they are
// read (SPI ADC, I2C ADC, simulator, etc.).
type Source interface {
	// Read samples both sensors and returns a fresh pair.
	Read() (Sample, error)
}

// MCP3208 reads two LDR channels from an MCP3208 12-bit ADC on the SPI bus.
type MCP3208 struct {
	gpio   gpio.Driver
	eastCh int
	westCh int
}

// NewMCP3208 claims the SPI bus and returns a sensor source for the given
// channel assignment. Channels must be 0-7 and distinct.
func NewMCP3208(g gpio.Driver, eastCh, westCh, spiSpeedHz int) (*MCP3208, error) {
	if eastCh < 0 || eastCh > 7 {
		return nil, fmt.Errorf("east channel must be 0-7, got %d", eastCh)
	}
	if westCh < 0 || westCh > 7 {
		return nil, fmt.Errorf("west channel must be 0-7, got %d", westCh)
	}
	if eastCh == westCh {
		return nil, fmt.Errorf("east and west channels must differ, both are %d", eastCh)
	}

	if err := g.SetupSPI(spiSpeedHz); err != nil {
		return nil, fmt.Errorf("setup SPI for ADC: %w", err)
	}

	return &MCP3208{
		gpio:   g,
		eastCh: eastCh,
		westCh: westCh,
	}, nil
}

// Read samples the east and west channels.
func (m *MCP3208) Read() (Sample, error) {
	east, err := m.readChannel(m.eastCh)
	if err != nil {
		return Sample{}, fmt.Errorf("read east LDR (ch %d): %w", m.eastCh, err)
	}
	west, err := m.readChannel(m.westCh)
	if err != nil {
		return Sample{}, fmt.Errorf("read west LDR (ch %d): %w", m.westCh, err)
	}

	debug.Reading(east, west)
	return Sample{East: east, West: west}, nil
}

// readChannel performs one single-ended MCP3208 conversion.
// Frame: start bit + single-ended flag + 3 channel bits, then 12 result bits
// spread over the last two exchanged bytes.
func (m *MCP3208) readChannel(ch int) (int, error) {
	buf := []byte{
		0x06 | byte(ch>>2),
		byte(ch << 6),
		0x00,
	}
	if err := m.gpio.SPIExchange(buf); err != nil {
		return 0, err
	}
	value := int(buf[1]&0x0F)<<8 | int(buf[2])
	debug.Trace("MCP3208 ch=%d value=%d", ch, value)
	return value, nil
}
