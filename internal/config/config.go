package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Uplink types selectable in the configuration.
const (
	UplinkThingSpeak = "thingspeak"
	UplinkMQTT       = "mqtt"
	UplinkNone       = "none"
)

// SensorConfig describes the LDR pair behind the MCP3208 ADC.
type SensorConfig struct {
	EastChannel int `yaml:"east_channel"` // ADC channel wired to the east LDR (0-7)
	WestChannel int `yaml:"west_channel"` // ADC channel wired to the west LDR (0-7)
	SPISpeedHz  int `yaml:"spi_speed_hz"` // SPI clock frequency
	Threshold   int `yaml:"threshold"`    // noise band for direction detection (intensity units)
}

// ServoConfig describes the tilt servo and its PWM timing.
type ServoConfig struct {
	Pin        int `yaml:"pin"`          // BCM pin with hardware PWM (e.g. 18)
	FreqHz     int `yaml:"freq_hz"`      // PWM frequency; 50 Hz for hobby servos
	MinPulseUs int `yaml:"min_pulse_us"` // pulse width at 0 degrees
	MaxPulseUs int `yaml:"max_pulse_us"` // pulse width at 180 degrees
	PeriodUs   int `yaml:"period_us"`    // PWM period (20000 us at 50 Hz)
	MaxDuty    int `yaml:"max_duty"`     // duty count for a full period (8191 = 13-bit)
}

// UplinkConfig selects and parameterizes the telemetry uplink.
type UplinkConfig struct {
	Type      string `yaml:"type"`       // "thingspeak", "mqtt" or "none"
	APIKey    string `yaml:"api_key"`    // ThingSpeak write key
	BaseURL   string `yaml:"base_url"`   // ThingSpeak update endpoint
	TimeoutMs int    `yaml:"timeout_ms"` // per-send timeout (ms)
	Broker    string `yaml:"broker"`     // MQTT broker URL, e.g. tcp://host:1883
	Topic     string `yaml:"topic"`      // MQTT topic for telemetry records
	Blocking  bool   `yaml:"blocking"`   // true = send inline, false = fire-and-forget
}

// DefaultsConfig contains generic runtime parameters.
type DefaultsConfig struct {
	CyclePeriodS int  `yaml:"cycle_period_s"` // seconds between control cycles
	SettleDelayS int  `yaml:"settle_delay_s"` // startup delay before the first cycle
	DebugLevel   int  `yaml:"debug_level"`    // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
	MockGPIO     bool `yaml:"mock_gpio"`      // use mock GPIO (true=dev/test, false=real Raspberry Pi)
	FailFast     bool `yaml:"fail_fast"`      // abort on sensor/actuator errors instead of skipping the cycle
}

// Config aggregates all application configuration.
type Config struct {
	Sensor   SensorConfig   `yaml:"sensor"`
	Servo    ServoConfig    `yaml:"servo"`
	Uplink   UplinkConfig   `yaml:"uplink"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration and fills in defaults for unset values.
func (c *Config) Validate() error {
	// Sensor
	if c.Sensor.EastChannel < 0 || c.Sensor.EastChannel > 7 {
		return fmt.Errorf("sensor.east_channel must be 0-7, got %d", c.Sensor.EastChannel)
	}
	if c.Sensor.WestChannel < 0 || c.Sensor.WestChannel > 7 {
		return fmt.Errorf("sensor.west_channel must be 0-7, got %d", c.Sensor.WestChannel)
	}
	if c.Sensor.EastChannel == c.Sensor.WestChannel {
		return fmt.Errorf("sensor channels must differ, both are %d", c.Sensor.EastChannel)
	}
	if c.Sensor.SPISpeedHz <= 0 {
		c.Sensor.SPISpeedHz = 1350000
	}
	if c.Sensor.Threshold < 0 {
		return fmt.Errorf("sensor.threshold must be >= 0, got %d", c.Sensor.Threshold)
	}
	if c.Sensor.Threshold == 0 {
		c.Sensor.Threshold = 150 // reasonable noise band for 12-bit LDR readings
	}

	// Servo
	if c.Servo.Pin <= 0 {
		c.Servo.Pin = 18 // hardware PWM0 on the Pi header
	}
	if c.Servo.FreqHz <= 0 {
		c.Servo.FreqHz = 50
	}
	if c.Servo.MinPulseUs <= 0 {
		c.Servo.MinPulseUs = 500
	}
	if c.Servo.MaxPulseUs <= 0 {
		c.Servo.MaxPulseUs = 2400
	}
	if c.Servo.PeriodUs <= 0 {
		c.Servo.PeriodUs = 20000
	}
	if c.Servo.MaxDuty <= 0 {
		c.Servo.MaxDuty = 8191 // 13-bit resolution
	}
	if c.Servo.MinPulseUs > c.Servo.MaxPulseUs {
		return fmt.Errorf("servo.min_pulse_us (%d) must be <= max_pulse_us (%d)",
			c.Servo.MinPulseUs, c.Servo.MaxPulseUs)
	}
	if c.Servo.MaxPulseUs > c.Servo.PeriodUs {
		return fmt.Errorf("servo.max_pulse_us (%d) must be <= period_us (%d)",
			c.Servo.MaxPulseUs, c.Servo.PeriodUs)
	}

	// Uplink
	if c.Uplink.Type == "" {
		c.Uplink.Type = UplinkThingSpeak
	}
	switch c.Uplink.Type {
	case UplinkThingSpeak:
		if c.Uplink.APIKey == "" {
			return fmt.Errorf("uplink.api_key is required for thingspeak uplink")
		}
		if c.Uplink.BaseURL == "" {
			c.Uplink.BaseURL = "http://api.thingspeak.com/update"
		}
	case UplinkMQTT:
		if c.Uplink.Broker == "" {
			return fmt.Errorf("uplink.broker is required for mqtt uplink")
		}
		if c.Uplink.Topic == "" {
			return fmt.Errorf("uplink.topic is required for mqtt uplink")
		}
	case UplinkNone:
	default:
		return fmt.Errorf("unsupported uplink type: %s", c.Uplink.Type)
	}
	if c.Uplink.TimeoutMs <= 0 {
		c.Uplink.TimeoutMs = 4000
	}

	// Defaults
	if c.Defaults.CyclePeriodS <= 0 {
		c.Defaults.CyclePeriodS = 15
	}
	if c.Defaults.SettleDelayS < 0 {
		return fmt.Errorf("defaults.settle_delay_s must be >= 0, got %d", c.Defaults.SettleDelayS)
	}
	if c.Defaults.SettleDelayS == 0 {
		c.Defaults.SettleDelayS = 5 // give the network time to come up
	}

	return nil
}

// CyclePeriod returns the duration between two control cycles.
func (c *Config) CyclePeriod() time.Duration {
	return time.Duration(c.Defaults.CyclePeriodS) * time.Second
}

// SettleDelay returns the startup delay before the first cycle.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Defaults.SettleDelayS) * time.Second
}

// UplinkTimeout returns the per-send uplink timeout.
func (c *Config) UplinkTimeout() time.Duration {
	return time.Duration(c.Uplink.TimeoutMs) * time.Millisecond
}
