package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/cjeanneret/heliogo/internal/config"
	"github.com/cjeanneret/heliogo/internal/debug"
	"github.com/cjeanneret/heliogo/internal/hw/gpio"
	"github.com/cjeanneret/heliogo/internal/hw/ldr"
	"github.com/cjeanneret/heliogo/internal/hw/servo"
	"github.com/cjeanneret/heliogo/internal/logic/pulse"
	"github.com/cjeanneret/heliogo/internal/logic/track"
	"github.com/cjeanneret/heliogo/internal/observability"
	"github.com/cjeanneret/heliogo/internal/telemetry"
	"github.com/cjeanneret/heliogo/internal/web"
)

func main() {
	// CLI flags
	webPort := &webPortFlag{defaultPort: 8080}
	flag.Var(webPort, "web", "start status web server on port; -web= for default 8080, -web 8980 for custom port")
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	threshold := flag.Int("threshold", 0, "override detection threshold in intensity units (0 = use config)")
	once := flag.Bool("once", false, "run a single control cycle and exit")
	failFast := flag.Bool("fail_fast", false, "abort on sensor/actuator errors instead of retrying next cycle")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	// Apply CLI overrides (zero means "use config default")
	if err := applyOverrides(cfg, *threshold, *failFast); err != nil {
		log.Fatalf("invalid CLI override: %v", err)
	}

	// Initialize debug system
	debug.Init(cfg.Defaults.DebugLevel)
	debug.Summary("HelioGo Canopy Tracker")
	debug.Value("Config path", *cfgPath)
	debug.Value("Debug level", cfg.Defaults.DebugLevel)
	debug.Value("Threshold", cfg.Sensor.Threshold)
	debug.Value("Cycle period", cfg.CyclePeriod())
	debug.Value("Uplink", cfg.Uplink.Type)

	// Initialize GPIO driver
	debug.Value("Mock GPIO", cfg.Defaults.MockGPIO)
	debug.Step(1, "Initializing GPIO driver")
	gpioDriver, err := gpio.NewDriver(cfg.Defaults.MockGPIO)
	if err != nil {
		log.Fatalf("init GPIO failed: %v", err)
	}
	defer func() {
		if err := gpioDriver.Close(); err != nil {
			log.Printf("closing GPIO driver failed: %v", err)
		}
	}()

	// Initialize sensor source (LDR pair on the MCP3208)
	debug.Step(2, "Initializing light sensors")
	source, err := ldr.NewMCP3208(gpioDriver, cfg.Sensor.EastChannel, cfg.Sensor.WestChannel, cfg.Sensor.SPISpeedHz)
	if err != nil {
		log.Fatalf("init sensors failed: %v", err)
	}
	debug.PrintStruct("Sensor config", cfg.Sensor)

	// Initialize servo sink
	debug.Step(3, "Initializing tilt servo")
	sink, err := servo.NewServo(gpioDriver, servo.Config{
		Pin:     cfg.Servo.Pin,
		FreqHz:  cfg.Servo.FreqHz,
		MaxDuty: cfg.Servo.MaxDuty,
	})
	if err != nil {
		log.Fatalf("init servo failed: %v", err)
	}
	debug.PrintStruct("Servo config", cfg.Servo)

	// Initialize uplink
	debug.Step(4, "Initializing telemetry uplink")
	uplink, err := newUplinkFromConfig(cfg)
	if err != nil {
		log.Fatalf("init uplink failed: %v", err)
	}
	if m, ok := uplink.(*telemetry.MQTT); ok {
		defer m.Close()
	}

	cycleParams := track.CycleParams{
		Source:         source,
		Sink:           sink,
		Uplink:         uplink,
		Mapper:         pulse.NewMapper(cfg),
		Threshold:      cfg.Sensor.Threshold,
		BlockingUplink: cfg.Uplink.Blocking,
		UplinkTimeout:  cfg.UplinkTimeout(),
	}

	// Optional status web server
	if port := webPort.port(); port > 0 {
		broadcaster := web.NewStatusBroadcaster()
		state := web.NewState()
		metrics := observability.NewMetrics()
		debug.SetOutput(io.MultiWriter(os.Stdout, web.BroadcastWriter(broadcaster)))

		srv := web.NewServer(fmt.Sprintf(":%d", port), broadcaster, state, metrics.Handler())
		go func() {
			if err := srv.Run(ctx); err != nil {
				log.Printf("web server: %v", err)
			}
		}()

		cycleParams.Metrics = metrics
		cycleParams.OnRecord = func(rec telemetry.Record) {
			state.Update(rec)
			broadcaster.BroadcastRecord(rec)
		}
	}

	cycle := track.NewCycle(cycleParams)

	if *once {
		if err := uplink.Ready(ctx); err != nil {
			log.Fatalf("uplink not ready: %v", err)
		}
		if _, err := cycle.Run(ctx); err != nil {
			log.Fatalf("cycle failed: %v", err)
		}
		return
	}

	sched := track.NewScheduler(track.SchedulerParams{
		Cycle:    cycle,
		Uplink:   uplink,
		Period:   cfg.CyclePeriod(),
		Settle:   cfg.SettleDelay(),
		FailFast: cfg.Defaults.FailFast,
	})
	if err := sched.Run(ctx); err != nil {
		log.Fatalf("control loop: %v", err)
	}
}

// applyOverrides mutates cfg with CLI overrides. threshold 0 means "use
// config default"; failFast only ever tightens the policy.
func applyOverrides(cfg *config.Config, threshold int, failFast bool) error {
	if threshold < 0 {
		return fmt.Errorf("threshold must be >= 0, got %d", threshold)
	}
	if threshold > 0 {
		cfg.Sensor.Threshold = threshold
	}
	if failFast {
		cfg.Defaults.FailFast = true
	}
	return nil
}

// newUplinkFromConfig selects an uplink implementation based on configuration.
func newUplinkFromConfig(cfg *config.Config) (telemetry.Uplink, error) {
	switch cfg.Uplink.Type {
	case config.UplinkThingSpeak:
		return telemetry.NewThingSpeak(cfg.Uplink.BaseURL, cfg.Uplink.APIKey, cfg.UplinkTimeout()), nil
	case config.UplinkMQTT:
		return telemetry.NewMQTT(cfg.Uplink.Broker, cfg.Uplink.Topic, cfg.UplinkTimeout()), nil
	case config.UplinkNone:
		return telemetry.Nop{}, nil
	default:
		return nil, fmt.Errorf("unsupported uplink type: %s", cfg.Uplink.Type)
	}
}

// webPortFlag implements flag.Value for -web: 0 = disabled, -web= or -web 8080 → 8080, -web 8980 → 8980.
type webPortFlag struct {
	val         int
	defaultPort int
}

func (w *webPortFlag) String() string {
	if w.val == 0 {
		return "0"
	}
	return strconv.Itoa(w.val)
}

func (w *webPortFlag) Set(s string) error {
	if s == "" {
		w.val = w.defaultPort
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v <= 0 || v > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", v)
	}
	w.val = v
	return nil
}

func (w *webPortFlag) port() int { return w.val }
