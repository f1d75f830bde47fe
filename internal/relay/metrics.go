package relay

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks relay command outcomes.
type Metrics struct {
	registry *prometheus.Registry

	commands    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastCommand *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gobotvac_relay_commands_total",
			Help: "Relay commands by command and result",
		}, []string{"command", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gobotvac_relay_command_duration_seconds",
			Help:    "Relay command round-trip duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"command"}),
		lastCommand: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gobotvac_relay_last_command_timestamp_seconds",
			Help: "Timestamp of the last command (seconds since epoch)",
		}, []string{"command"}),
	}

	m.registry.MustRegister(m.commands, m.duration, m.lastCommand)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Observe(command string, err error, elapsed time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.commands.WithLabelValues(command, result).Inc()
	m.duration.WithLabelValues(command).Observe(elapsed.Seconds())
	m.lastCommand.WithLabelValues(command).SetToCurrentTime()
}
