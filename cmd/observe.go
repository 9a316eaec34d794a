package cmd

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/simgrid/simgrid/internal/telemetry"
	"github.com/simgrid/simgrid/internal/trace"
	"github.com/simgrid/simgrid/simgrid"
)

var (
	observePlatformPath string
	observeDeadline     float64
	observeAddr         string
)

var observeCmd = &cobra.Command{
	Use:   "observe",
	Short: "Run a platform while always serving /metrics and /trace/ws",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		eng := simgrid.NewEngine()
		if err := eng.LoadPlatform(observePlatformPath); err != nil {
			logrus.Fatalf("loading platform: %v", err)
		}
		if observeDeadline > 0 {
			eng.SetDeadline(observeDeadline)
		}

		reg := prometheus.NewRegistry()
		metrics := telemetry.NewMetrics(reg)
		hub := trace.NewHub()
		srv := telemetry.NewServer(observeAddr, reg, metrics, hub)
		srv.Start()
		defer func() { _ = srv.Shutdown(5 * time.Second) }()

		stop := make(chan struct{})
		defer close(stop)
		go func() {
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					metrics.Sample(eng.TelemetrySnapshot())
					srv.PollTraceClients()
				case <-stop:
					return
				}
			}
		}()

		logrus.Infof("observing platform %s on %s", observePlatformPath, observeAddr)
		eng.Run()
		logrus.Infof("simulation complete at t=%.6f", eng.Clock())
	},
}

func init() {
	observeCmd.Flags().StringVar(&observePlatformPath, "platform", "", "Path to the platform XML description (required)")
	observeCmd.Flags().Float64Var(&observeDeadline, "deadline", 0, "Stop the simulation once simulated time reaches this value (0 = unbounded)")
	observeCmd.Flags().StringVar(&observeAddr, "addr", ":9090", "Address to serve /metrics and /trace/ws on")
	_ = observeCmd.MarkFlagRequired("platform")
}
