package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"assetguard/internal/asset"
	assetmetrics "assetguard/internal/asset/metrics"
	assetservice "assetguard/internal/asset/service"
	assetstore "assetguard/internal/asset/store"
	"assetguard/internal/compliance"
	"assetguard/internal/compliance/engine"
	"assetguard/internal/compliance/history"
	compliancemetrics "assetguard/internal/compliance/metrics"
	"assetguard/internal/compliance/ports"
	"assetguard/internal/compliance/service"
	compliancestore "assetguard/internal/compliance/store"
	"assetguard/internal/platform/config"
	"assetguard/internal/platform/database"
	"assetguard/internal/platform/logger"
	"assetguard/internal/platform/metrics"
	"assetguard/internal/platform/redis"
	httptransport "assetguard/internal/transport/http"
	"assetguard/pkg/platform/circuit"
)

// app holds the wired object graph for one process.
type app struct {
	cfg      config.Server
	logger   *slog.Logger
	registry *prometheus.Registry
	db       *sqlx.DB
	redis    *redis.Client

	assets *asset.Service
	engine *compliance.Engine
	router http.Handler
}

// newApp opens the configured backends and wires services and routes.
// Callers must call close when done.
func newApp(ctx context.Context, cfg config.Server) (*app, error) {
	a := &app{
		cfg:      cfg,
		logger:   logger.New(cfg.Log.Level, cfg.Log.Format),
		registry: prometheus.NewRegistry(),
	}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var (
		assetStore  assetservice.Store
		recordStore service.RecordStore
		runner      ports.StoreTx
		assetOpts   = []assetservice.Option{
			assetservice.WithLogger(a.logger),
			assetservice.WithMetrics(assetmetrics.NewWith(a.registry)),
		}
	)
	switch cfg.Database.Driver {
	case config.DriverMemory:
		assets := assetstore.NewInMemory()
		records := compliancestore.NewInMemory(assets)
		memTx := compliancestore.NewMemoryTx(assets, records)
		assetStore, recordStore, runner = memTx.GuardAssets(assets), records, memTx
		assetOpts = append(assetOpts, assetservice.WithCascader(records))
	default:
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		a.db = db
		assetStore = assetstore.NewSQL(db)
		recordStore = compliancestore.NewSQL(db)
		runner = compliancestore.NewSQLTx(db, cfg.Check.Timeout)
	}

	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		_ = a.close()
		return nil, err
	}
	a.redis = client

	var runs ports.History = history.NewInMemory()
	if a.redis != nil {
		a.logger.InfoContext(ctx, "run history stored in redis", "addr", a.redis.Addr())
		runs = history.NewFallback(
			history.NewRedis(a.redis.Client, history.WithTTL(cfg.History.TTL)),
			circuit.New("redis-history"),
			a.logger,
		)
	}

	a.assets = asset.NewService(assetStore, assetOpts...)
	a.engine = compliance.NewEngine(runner,
		engine.WithLogger(a.logger),
		engine.WithMetrics(compliancemetrics.NewWith(a.registry)),
		engine.WithHistory(runs),
	)

	a.router = httptransport.NewRouter(httptransport.Deps{
		Logger:         a.logger,
		Metrics:        metrics.NewWith(a.registry),
		Gatherer:       a.registry,
		RequestTimeout: cfg.Check.Timeout,
		Handlers: []httptransport.Registrar{
			asset.NewHandler(a.assets, a.logger),
			compliance.NewHandler(a.engine, recordStore, a.logger),
		},
		Health: a.healthChecks(),
	})
	return a, nil
}

func (a *app) healthChecks() map[string]httptransport.HealthCheck {
	checks := make(map[string]httptransport.HealthCheck)
	if a.db != nil {
		checks["database"] = a.db.PingContext
	}
	if a.redis != nil {
		checks["redis"] = a.redis.Health
	}
	return checks
}

func (a *app) close() error {
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
