package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/c360studio/brickshape/config"
	"github.com/c360studio/brickshape/ontology"
	"github.com/c360studio/brickshape/service"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(f *flags) *cobra.Command {
	var (
		natsAddr    string
		metricsAddr string
		watch       bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve ontology queries over NATS request/reply",
		Long: `Serve loads the ontology once and answers queries on
<subject_prefix>.describe, .subclasses, .superclasses, .tags, .properties
and .classes. Requests are JSON: {"request_id": "...", "class": "brick:Setpoint"}.

With --watch the sources are reloaded when they change; a reload that fails
keeps the previous ontology in service.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(f)
			if err != nil {
				return err
			}
			cfg.Merge(&config.Config{
				Metrics: config.MetricsConfig{Addr: metricsAddr},
				Watch:   config.WatchConfig{Enabled: watch},
			})
			return serve(cmd.Context(), cfg, natsURL(natsAddr, cfg), logger)
		},
	}

	cmd.Flags().StringVar(&natsAddr, "nats-url", "", "NATS server URL (overrides config and NATS_URL)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Listen address for /metrics and /health, e.g. :9090")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload the ontology when source files change")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config, url string, logger *slog.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := ontology.NewMetrics(registry)

	initial, err := buildOntology(ctx, cfg, logger, metrics)
	if err != nil {
		return err
	}
	holder := service.NewHolder(initial)

	signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	if cfg.Metrics.Addr != "" {
		ms := service.NewMetricsServer(cfg.Metrics.Addr, registry, holder)
		if err := ms.Start(); err != nil {
			return err
		}
		logger.Info("Metrics server started", "addr", ms.Addr())
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := ms.Stop(stopCtx); err != nil {
				logger.Error("Error stopping metrics server", "error", err)
			}
		}()
	}

	if cfg.Watch.Enabled {
		reload := func(ctx context.Context) (*ontology.Ontology, error) {
			return buildOntology(ctx, cfg, logger, metrics)
		}
		w, err := service.NewWatcher(cfg.Sources, cfg.Watch.DebounceDelay, holder, reload, logger)
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		if err := w.Start(signalCtx); err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		defer func() { _ = w.Stop() }()
	}

	logger.Info("Connecting to NATS", "url", url)
	nc, err := nats.Connect(url,
		nats.Name(appName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("Disconnected from NATS", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("Reconnected to NATS", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return wrapNATSError(err, url)
	}
	defer func() {
		if err := nc.Drain(); err != nil {
			nc.Close()
		}
	}()
	logger.Info("Connected to NATS", "url", url)

	qs := service.NewQueryService(holder, service.Config{
		SubjectPrefix: cfg.NATS.SubjectPrefix,
		QueueGroup:    cfg.NATS.QueueGroup,
	}, logger)
	if err := qs.Start(signalCtx, nc); err != nil {
		return err
	}
	defer qs.Stop()

	logger.Info("Brickshape ready",
		"version", Version,
		"ontology_id", initial.ID(),
		"triples", initial.Len())

	<-signalCtx.Done()
	logger.Info("Received shutdown signal")
	return nil
}

// natsURL picks the server URL: the --nats-url flag, NATS_URL,
// BRICKSHAPE_NATS_URL, then config.
func natsURL(flag string, cfg *config.Config) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv("NATS_URL"); env != "" {
		return env
	}
	if env := os.Getenv("BRICKSHAPE_NATS_URL"); env != "" {
		return env
	}
	if cfg.NATS.URL != "" {
		return cfg.NATS.URL
	}
	return nats.DefaultURL
}

// wrapNATSError provides helpful guidance when NATS connection fails.
func wrapNATSError(err error, url string) error {
	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no servers available") ||
		strings.Contains(errStr, "timeout") {
		return fmt.Errorf(`NATS connection failed: %w

NATS is not running at %s.

To start NATS:
  docker run -p 4222:4222 nats

Or set NATS_URL environment variable to point to your NATS server.`, err, url)
	}
	return fmt.Errorf("connect to NATS at %s: %w", url, err)
}
