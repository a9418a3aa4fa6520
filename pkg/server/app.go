// Package server owns the application lifecycle: start the HTTP surface,
// wait for a signal, then drain and close every resource in reverse order.
package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"HomePulse/internal/repository"
	xcache "HomePulse/pkg/cache"
	pkgch "HomePulse/pkg/clickhouse"
	"HomePulse/pkg/config"
	xhttp "HomePulse/pkg/http"
	pkgkafka "HomePulse/pkg/kafka"
	xlogger "HomePulse/pkg/logger"
	"HomePulse/pkg/workerpool"
)

// App encapsulates the application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *xlogger.Logger
	handler    xhttp.Handler
	pool       *workerpool.Pool
	cache      xcache.Cache
	catalog    *repository.PostgresCatalog
	chClient   *pkgch.Client
	producer   *pkgkafka.Producer
	httpServer *xhttp.Server
}

// New creates the App with all dependencies. chClient and producer may be
// nil when the archive or events are disabled.
func New(cfg *config.Config, logger *xlogger.Logger, handler xhttp.Handler,
	pool *workerpool.Pool, cache xcache.Cache, catalog *repository.PostgresCatalog,
	chClient *pkgch.Client, producer *pkgkafka.Producer) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		handler:  handler,
		pool:     pool,
		cache:    cache,
		catalog:  catalog,
		chClient: chClient,
		producer: producer,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", xlogger.Error(err))
		return err
	}
	a.logger.Info("server started",
		xlogger.String("env", a.cfg.Environment),
		xlogger.Int("port", a.cfg.Server.Port),
		xlogger.String("cache", a.cfg.Cache.Backend),
		xlogger.Bool("archive", a.chClient != nil),
		xlogger.Bool("events", a.producer != nil),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops the HTTP server first so no new work arrives, drains the
// pool, then closes clients.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", xlogger.Error(err))
	}

	a.pool.StopWait()

	if err := a.cache.Close(); err != nil {
		a.logger.Warn("cache close error", xlogger.Error(err))
	}
	if err := a.catalog.Close(); err != nil {
		a.logger.Warn("catalog close error", xlogger.Error(err))
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", xlogger.Error(err))
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("kafka producer close error", xlogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
