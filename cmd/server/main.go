// Package main is the entry point of the application
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tecu23/probe-server/pkg/config"
	"github.com/tecu23/probe-server/pkg/events"
	"github.com/tecu23/probe-server/pkg/metrics"
	"github.com/tecu23/probe-server/pkg/probe"
	"github.com/tecu23/probe-server/pkg/registry"
	"github.com/tecu23/probe-server/pkg/server"
)

// App encapsulates global dependencies
type application struct {
	Logger    *zap.Logger
	Config    *config.Config
	Publisher *events.Publisher
	Probes    *probe.Service
	Hub       *server.Hub
	Metrics   *prometheus.Registry
	Server    *http.Server

	StartTime time.Time
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "probe-server",
		Short: "HTTP probe endpoints that log the time between calls",
		Long: `probe-server serves GET /test_1, /test_2 and /test_3. Each returns {"test": "ok"}
and logs the seconds elapsed since the previous call to the same route.

Settings can also be given as PROBE_HOST, PROBE_PORT and PROBE_DEBUG
environment variables or in a .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger := initLogger(cfg.Debug)
			defer logger.Sync()

			app := newApplication(cfg, logger, time.Now())

			go app.Hub.Run()

			return app.serve()
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "path to a YAML config file")
	cmd.Flags().String("host", config.DefaultHost, "host to bind")
	cmd.Flags().Int("port", config.DefaultPort, "port to bind")
	cmd.Flags().Bool("debug", false, "enable debug logging")

	return cmd
}

// newApplication wires every component. The registry is seeded with start.
func newApplication(cfg *config.Config, logger *zap.Logger, start time.Time) *application {
	publisher := events.NewPublisher()
	publisher.SubscribeAll(func(event events.Event) {
		logger.Debug("event published",
			zap.String("event_id", event.ID.String()),
			zap.String("type", string(event.Type)),
		)
	})

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	probes := probe.NewService(
		registry.NewLastCallRegistry(start),
		logger,
		publisher,
		metrics.NewMetrics(promRegistry),
	)

	return &application{
		Logger:    logger,
		Config:    cfg,
		Publisher: publisher,
		Probes:    probes,
		Hub:       server.NewHub(publisher, logger),
		Metrics:   promRegistry,
		StartTime: start,
	}
}

func initLogger(debug bool) *zap.Logger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	cfg.OutputPaths = []string{"stdout"}

	logger, err := cfg.Build()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	return logger
}

// Shutdown cleans up resources
func (app *application) Shutdown() {
	// Shut down hub
	if app.Hub != nil {
		app.Hub.Shutdown()
	}

	app.Logger.Info("All components shut down successfully")
}
