package telemetry

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/simgrid/simgrid/internal/trace"
)

func TestMetricsSampleUpdatesGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.Sample(EngineSnapshot{Now: 12.5, ActorCount: 3, HostCount: 2, Execs: 1, Comms: 4, Ios: 0, Sleeps: 1})

	var out dto.Metric
	require.NoError(t, m.SimClock.Write(&out))
	require.InDelta(t, 12.5, out.GetGauge().GetValue(), 1e-9)
}

func TestServerServesMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.Sample(EngineSnapshot{Now: 1, ActorCount: 1, HostCount: 1})
	hub := trace.NewHub()
	s := NewServer("127.0.0.1:0", reg, m, hub)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), "simgrid_sim_clock_seconds")
}

func TestPollTraceClientsReadsHubCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	hub := trace.NewHub()
	s := NewServer("127.0.0.1:0", reg, m, hub)
	s.PollTraceClients()

	var out dto.Metric
	require.NoError(t, m.TraceClients.Write(&out))
	require.Equal(t, 0.0, out.GetGauge().GetValue())
}
