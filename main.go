package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/km-arc/go-simpla/framework/app"
	"github.com/km-arc/go-simpla/framework/config"
	"github.com/km-arc/go-simpla/framework/container"
	"github.com/km-arc/go-simpla/framework/logging"
	"github.com/km-arc/go-simpla/framework/providers"
)

func main() {
	cfg := config.Load() // loads .env automatically

	logger, err := logging.New(cfg.Log)
	if err != nil {
		logger = zap.NewExample()
		logger.Warn("falling back to example logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	c := container.Instance(nil,
		container.WithLogger(logger.Named("container")),
		container.WithMetrics(reg),
	)

	// Pre-bind what main already built; the framework providers keep them.
	must(logger, c.Singleton(providers.ConfigKey, cfg))
	must(logger, c.Singleton(providers.LogKey, logger))
	must(logger, c.Singleton(providers.GathererKey, reg))

	manifest := &config.Manifest{}
	if cfg.App.Manifest != "" {
		manifest, err = config.LoadManifest(cfg.App.Manifest)
		if err != nil {
			logger.Fatal("loading manifest", zap.Error(err))
		}
	}

	application := app.New(c, logger)
	if err := application.Bootstrap(manifest); err != nil {
		logger.Fatal("bootstrap failed", zap.Error(err))
	}

	logger.Info("application started",
		zap.String("name", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("container_id", c.ID()),
		zap.String("version", app.Version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
	logger.Info("application stopped")
}

func must(logger *zap.Logger, err error) {
	if err != nil {
		logger.Fatal("binding framework service", zap.Error(err))
	}
}
