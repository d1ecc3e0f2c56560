package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the control loop. All methods
// are nil-safe so the loop can run without metrics wired in.
type Metrics struct {
	cyclesTotal    prometheus.Counter
	cycleFailures  prometheus.Counter
	uplinkFailures prometheus.Counter
	tiltAngle      prometheus.Gauge
	lightIntensity *prometheus.GaugeVec
}

// NewMetrics creates and registers the collectors on the default registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		cyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "heliogo_cycles_total",
			Help: "Total control cycles executed.",
		}),
		cycleFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "heliogo_cycle_failures_total",
			Help: "Control cycles that failed on sensor or actuator errors.",
		}),
		uplinkFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "heliogo_uplink_failures_total",
			Help: "Telemetry submissions that failed.",
		}),
		tiltAngle: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "heliogo_tilt_angle_degrees",
			Help: "Last commanded canopy tilt angle.",
		}),
		lightIntensity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "heliogo_light_intensity",
			Help: "Last raw LDR reading by sensor.",
		}, []string{"sensor"}),
	}

	prometheus.MustRegister(
		m.cyclesTotal,
		m.cycleFailures,
		m.uplinkFailures,
		m.tiltAngle,
		m.lightIntensity,
	)

	return m
}

// CycleCompleted records a successful cycle and its observed values.
func (m *Metrics) CycleCompleted(east, west, angle int) {
	if m == nil {
		return
	}
	m.cyclesTotal.Inc()
	m.tiltAngle.Set(float64(angle))
	m.lightIntensity.WithLabelValues("east").Set(float64(east))
	m.lightIntensity.WithLabelValues("west").Set(float64(west))
}

// CycleFailed records a failed cycle.
func (m *Metrics) CycleFailed() {
	if m == nil {
		return
	}
	m.cyclesTotal.Inc()
	m.cycleFailures.Inc()
}

// UplinkFailed records a failed telemetry submission.
func (m *Metrics) UplinkFailed() {
	if m == nil {
		return
	}
	m.uplinkFailures.Inc()
}

// Handler returns the scrape endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}
