// Command pandagate runs the PandaDoc webhook gateway: HTTP ingress,
// payload normalization, delivery journal, and workflow-bus forwarding.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/docflows/pandagate/internal/bus"
	"github.com/docflows/pandagate/internal/config"
	"github.com/docflows/pandagate/internal/log"
	"github.com/docflows/pandagate/internal/metrics"
	"github.com/docflows/pandagate/internal/store"
	"github.com/docflows/pandagate/internal/webhook"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "pandagate: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log.Setup(cfg.Service.LogLevel)
	logger := log.WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	journal, err := store.Open(ctx, cfg.Journal.Path)
	if err != nil {
		return fmt.Errorf("open delivery journal: %w", err)
	}
	defer journal.Close()

	publisher, err := bus.FromConfig(cfg.Bus, log.WithComponent("bus"))
	if err != nil {
		return fmt.Errorf("configure bus: %w", err)
	}
	defer publisher.Close()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	if cfg.Metrics.Enabled {
		go serveMetrics(ctx, cfg.Metrics.Listen, registry, log.WithComponent("metrics"))
	}

	webhookCfg, err := webhook.FromGlobalConfig(cfg.Webhook)
	if err != nil {
		return fmt.Errorf("configure webhook: %w", err)
	}

	server := webhook.New(webhookCfg, publisher, journal, m, log.WithComponent("webhook"))
	logger.Info("starting", "service", cfg.Service.Name, "bus", cfg.Bus.Kind)

	if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func serveMetrics(ctx context.Context, listen string, registry *prometheus.Registry, logger *slog.Logger) {
	srv := &http.Server{
		Addr:    listen,
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics server starting", "listen", listen)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server error", "error", err)
	}
}
