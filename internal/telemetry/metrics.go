// Package telemetry exposes the running Engine as Prometheus gauges and
// serves them over HTTP alongside the live trace websocket feed, grounded
// on the teacher's cmd/ HTTP-server plumbing generalized from "serve
// inference results" to "serve simulation observability". None of this is
// read by the kernel: it's a passive poller, wired in from cmd/run.go and
// cmd/observe.go.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every gauge the telemetry server publishes. A Registry
// registers them once at construction; Sample refreshes their values from
// a kernel.Engine snapshot each scrape (or on a timer, see the tickers in
// cmd/run.go and cmd/observe.go).
type Metrics struct {
	SimClock      prometheus.Gauge
	ActorCount    prometheus.Gauge
	HostCount     prometheus.Gauge
	ExecCount     prometheus.Gauge
	CommCount     prometheus.Gauge
	IoCount       prometheus.Gauge
	SleepCount    prometheus.Gauge
	TraceClients  prometheus.Gauge
}

// NewMetrics constructs and registers every gauge against reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		SimClock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "simgrid",
			Name:      "sim_clock_seconds",
			Help:      "Current simulated time.",
		}),
		ActorCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "simgrid",
			Name:      "actors_alive",
			Help:      "Number of actors currently alive.",
		}),
		HostCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "simgrid",
			Name:      "hosts_total",
			Help:      "Number of hosts in the platform.",
		}),
		ExecCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "simgrid",
			Name:      "activities_exec",
			Help:      "Exec activities currently tracked by the manager.",
		}),
		CommCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "simgrid",
			Name:      "activities_comm",
			Help:      "Comm activities currently tracked by the manager.",
		}),
		IoCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "simgrid",
			Name:      "activities_io",
			Help:      "Io activities currently tracked by the manager.",
		}),
		SleepCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "simgrid",
			Name:      "activities_sleep",
			Help:      "Sleep activities currently tracked by the manager.",
		}),
		TraceClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "simgrid",
			Name:      "trace_clients",
			Help:      "Number of connected live-trace websocket clients.",
		}),
	}
	reg.MustRegister(m.SimClock, m.ActorCount, m.HostCount, m.ExecCount,
		m.CommCount, m.IoCount, m.SleepCount, m.TraceClients)
	return m
}

// EngineSnapshot is the subset of kernel.Engine telemetry needs, kept
// narrow so this package doesn't import kernel just to read seven numbers.
type EngineSnapshot struct {
	Now         float64
	ActorCount  int
	HostCount   int
	Execs       int
	Comms       int
	Ios         int
	Sleeps      int
}

// Sample updates every gauge from snap.
func (m *Metrics) Sample(snap EngineSnapshot) {
	m.SimClock.Set(snap.Now)
	m.ActorCount.Set(float64(snap.ActorCount))
	m.HostCount.Set(float64(snap.HostCount))
	m.ExecCount.Set(float64(snap.Execs))
	m.CommCount.Set(float64(snap.Comms))
	m.IoCount.Set(float64(snap.Ios))
	m.SleepCount.Set(float64(snap.Sleeps))
}

// SetTraceClients updates the connected-websocket-clients gauge.
func (m *Metrics) SetTraceClients(n int) {
	m.TraceClients.Set(float64(n))
}
