package cmd

import (
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/simgrid/simgrid/internal/config"
	"github.com/simgrid/simgrid/internal/telemetry"
	"github.com/simgrid/simgrid/internal/trace"
	"github.com/simgrid/simgrid/simgrid"
)

var (
	runPlatformPath string
	runConfigPath   string
	runDeadline     float64
	runEpsilon      float64
	runTraceOutput  string
	runMetricsAddr  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a platform's resource and profile timeline to completion or deadline",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		eng := simgrid.NewEngine()
		if err := eng.LoadPlatform(runPlatformPath); err != nil {
			logrus.Fatalf("loading platform: %v", err)
		}

		if runConfigPath != "" {
			cfg, err := config.LoadRunConfig(runConfigPath)
			if err != nil {
				logrus.Fatalf("loading run config: %v", err)
			}
			if cfg.Deadline > 0 && runDeadline == 0 {
				runDeadline = cfg.Deadline
			}
			if runEpsilon == 0 {
				runEpsilon = cfg.Epsilon
			}
			if runTraceOutput == "" {
				runTraceOutput = cfg.TraceOutput
			}
		}
		if runDeadline > 0 {
			eng.SetDeadline(runDeadline)
		}
		if runEpsilon > 0 {
			eng.SetSolverEpsilon(runEpsilon)
		}

		if runTraceOutput != "" {
			f, err := os.Create(runTraceOutput)
			if err != nil {
				logrus.Fatalf("opening trace output: %v", err)
			}
			defer func() { _ = f.Close() }()
			// The writer is not connected to the engine, so nothing is
			// pushed into it during Run: the file holds only the Paje
			// header that NewPajeWriter writes.
			trace.NewPajeWriter(f)
		}

		stop := make(chan struct{})
		if runMetricsAddr != "" {
			reg := prometheus.NewRegistry()
			metrics := telemetry.NewMetrics(reg)
			hub := trace.NewHub()
			srv := telemetry.NewServer(runMetricsAddr, reg, metrics, hub)
			srv.Start()
			defer func() { _ = srv.Shutdown(5 * time.Second) }()

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
			defer close(stop)

			logrus.Infof("serving telemetry on %s", runMetricsAddr)
		}

		logrus.Infof("running platform %s", runPlatformPath)
		eng.Run()
		logrus.Infof("simulation complete at t=%.6f", eng.Clock())
	},
}

func init() {
	runCmd.Flags().StringVar(&runPlatformPath, "platform", "", "Path to the platform XML description (required)")
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "Path to an engine run-config YAML document")
	runCmd.Flags().Float64Var(&runDeadline, "deadline", 0, "Stop the simulation once simulated time reaches this value (0 = unbounded)")
	runCmd.Flags().Float64Var(&runEpsilon, "epsilon", 0, "Solver convergence epsilon (0 = engine default)")
	runCmd.Flags().StringVar(&runTraceOutput, "trace", "", "Path to write a Paje trace file")
	runCmd.Flags().StringVar(&runMetricsAddr, "metrics-addr", "", "Address to serve /metrics on while running (empty = disabled)")
	_ = runCmd.MarkFlagRequired("platform")
}
