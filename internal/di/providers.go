package di

import (
	"context"
	"fmt"
	"time"

	domrepo "HomePulse/internal/domain/repository"
	"HomePulse/internal/handler/api"
	internalrepo "HomePulse/internal/repository"
	"HomePulse/internal/service/kakao"
	"HomePulse/internal/service/molit"
	"HomePulse/internal/usecase"
	xcache "HomePulse/pkg/cache"
	pkgch "HomePulse/pkg/clickhouse"
	"HomePulse/pkg/config"
	xhttp "HomePulse/pkg/http"
	pkgkafka "HomePulse/pkg/kafka"
	xlogger "HomePulse/pkg/logger"
	"HomePulse/pkg/metrics"
	"HomePulse/pkg/ratelimit"
	"HomePulse/pkg/server"
	"HomePulse/pkg/workerpool"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*xlogger.Logger, error) {
	return xlogger.New(&xlogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvidePool creates the shared outbound fan-out pool.
func ProvidePool(cfg *config.Config) *workerpool.Pool {
	return workerpool.New(cfg.Aggregation.PoolSize)
}

// ProvideCache creates the summary cache backend.
func ProvideCache(cfg *config.Config) (xcache.Cache, error) {
	switch cfg.Cache.Backend {
	case "redis":
		return xcache.NewRedis(
			xcache.WithRedisAddr(cfg.Cache.Redis.Addr),
			xcache.WithRedisAuth(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
			xcache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		), nil
	case "memory":
		return xcache.NewMemory(
			xcache.WithMemoryMaxSize(cfg.Cache.MaxSize),
			xcache.WithMemoryCleanup(cfg.Cache.CleanupInterval),
		), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// ProvideCatalog opens the apartment registry.
func ProvideCatalog(cfg *config.Config) (*internalrepo.PostgresCatalog, error) {
	catalog, err := internalrepo.NewPostgresCatalog(cfg.Catalog.DSN)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return catalog, nil
}

// ProvideTradeSource creates the MOLIT trade-record client.
func ProvideTradeSource(cfg *config.Config, logger *xlogger.Logger, m domrepo.Metrics) domrepo.TradeRecordSource {
	return molit.New(
		cfg.Molit.BaseURL,
		cfg.Molit.AptTradePath,
		cfg.Molit.ServiceKey,
		xhttp.NewClient(xhttp.WithTimeout(cfg.Molit.Timeout)),
		molit.WithRateLimit(ratelimit.New(), cfg.Molit.RateCapacity, cfg.Molit.RatePerSec),
		molit.WithLogger(logger),
		molit.WithMetrics(m),
	)
}

// ProvidePoiSearch creates the Kakao Local client.
func ProvidePoiSearch(cfg *config.Config, m domrepo.Metrics) domrepo.PoiSearch {
	return kakao.New(
		cfg.Kakao.BaseURL,
		cfg.Kakao.RestKey,
		xhttp.NewClient(xhttp.WithTimeout(cfg.Kakao.Timeout)),
		kakao.WithMetrics(m),
	)
}

// ProvideClickHouseClient creates the archive client, or nil when the
// archive is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.Archive.Host),
		pkgch.WithPort(cfg.Archive.Port),
		pkgch.WithDatabase(cfg.Archive.Database),
		pkgch.WithCredentials(cfg.Archive.User, cfg.Archive.Password),
		pkgch.WithHTTP(cfg.Archive.UseHTTP),
		pkgch.WithAsyncInsert(cfg.Archive.AsyncInsert, cfg.Archive.WaitForAsync),
		pkgch.WithTimeouts(cfg.Archive.DialTimeout, cfg.Archive.ReadTimeout, cfg.Archive.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.Archive.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.ArchiveSchema); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideKafkaProducer creates the event producer, or nil when events are
// disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Events.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Events.Brokers),
		pkgkafka.WithCompression(cfg.Events.Compression),
		pkgkafka.WithRequiredAcks(cfg.Events.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Events.MaxAttempts),
		pkgkafka.WithBatchTimeout(cfg.Events.Linger),
		pkgkafka.WithTimeouts(cfg.Events.WriteTimeout, cfg.Events.ReadTimeout),
		pkgkafka.WithAsync(cfg.Events.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideReconciler creates the latest-deal reconciler.
func ProvideReconciler(cfg *config.Config, source domrepo.TradeRecordSource,
	m domrepo.Metrics, logger *xlogger.Logger, producer *pkgkafka.Producer) *usecase.Reconciler {
	var opts []usecase.ReconcilerOption
	if producer != nil {
		opts = append(opts, usecase.WithPublisher(
			internalrepo.NewKafkaPublisher(producer, cfg.Events.Topic)))
	}
	return usecase.NewReconciler(source, m, logger,
		cfg.Aggregation.MonthsBack, cfg.Aggregation.PageSize, cfg.Aggregation.PageCeiling, opts...)
}

// ProvideAggregator creates the proximity aggregator.
func ProvideAggregator(cfg *config.Config, catalog *internalrepo.PostgresCatalog,
	poi domrepo.PoiSearch, cache xcache.Cache, pool *workerpool.Pool,
	m domrepo.Metrics, logger *xlogger.Logger) *usecase.ProximityAggregator {
	return usecase.NewProximityAggregator(catalog, poi, cache, pool, m, logger,
		cfg.Aggregation.RadiusM, cfg.Aggregation.WalkPaceMPerMin, cfg.Aggregation.SummaryTTL)
}

// ProvideCollector creates the multi-period collector.
func ProvideCollector(cfg *config.Config, source domrepo.TradeRecordSource,
	pool *workerpool.Pool, m domrepo.Metrics, logger *xlogger.Logger,
	chClient *pkgch.Client) *usecase.Collector {
	var opts []usecase.CollectorOption
	if chClient != nil {
		opts = append(opts, usecase.WithArchive(internalrepo.NewClickHouseArchive(chClient)))
	}
	return usecase.NewCollector(source, pool, m, logger,
		cfg.Aggregation.CollectPageSize, opts...)
}

// ProvideItemsHandler creates the HTTP handler.
func ProvideItemsHandler(logger *xlogger.Logger, catalog *internalrepo.PostgresCatalog,
	source domrepo.TradeRecordSource, reconciler *usecase.Reconciler,
	access *usecase.ProximityAggregator, collector *usecase.Collector) *api.ItemsHandler {
	return api.NewItemsHandler(logger, catalog, source, reconciler, access, collector)
}

// ProvideApp assembles the application.
func ProvideApp(cfg *config.Config, logger *xlogger.Logger, handler *api.ItemsHandler,
	pool *workerpool.Pool, cache xcache.Cache, catalog *internalrepo.PostgresCatalog,
	chClient *pkgch.Client, producer *pkgkafka.Producer) *server.App {
	return server.New(cfg, logger, handler, pool, cache, catalog, chClient, producer)
}
