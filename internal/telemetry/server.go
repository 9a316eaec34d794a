package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/simgrid/simgrid/internal/trace"
)

// Server is the HTTP surface a running simulation exposes: Prometheus
// metrics at /metrics and the live trace feed at /trace/ws.
type Server struct {
	httpServer *http.Server
	Metrics    *Metrics
	Hub        *trace.Hub
}

// NewServer wires a chi mux serving /metrics (via promhttp) and /trace/ws
// (via hub's websocket upgrade) on addr.
func NewServer(addr string, reg *prometheus.Registry, metrics *Metrics, hub *trace.Hub) *Server {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Handle("/trace/ws", hub)

	return &Server{
		httpServer: &http.Server{Addr: addr, Handler: r},
		Metrics:    metrics,
		Hub:        hub,
	}
}

// Start begins serving in a background goroutine, logging (not returning)
// any error other than a clean shutdown.
func (s *Server) Start() {
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Errorf("telemetry: server stopped: %v", err)
		}
	}()
}

// Shutdown stops the server within the given timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// PollTraceClients refreshes the trace_clients gauge; cmd/run.go and
// cmd/observe.go call it on a ticker since nothing else triggers this read.
func (s *Server) PollTraceClients() {
	s.Metrics.SetTraceClients(s.Hub.Clients())
}
