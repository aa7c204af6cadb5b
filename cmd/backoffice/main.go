package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Fuonder/bmadsoffice/internal/apiclient"
	"github.com/Fuonder/bmadsoffice/internal/apiservices"
	"github.com/Fuonder/bmadsoffice/internal/cache"
	"github.com/Fuonder/bmadsoffice/internal/httpserver"
	"github.com/Fuonder/bmadsoffice/internal/logger"
	"github.com/Fuonder/bmadsoffice/internal/resync"
	"github.com/Fuonder/bmadsoffice/internal/storage"
	"github.com/Fuonder/bmadsoffice/internal/storage/memory"
	"github.com/Fuonder/bmadsoffice/internal/storage/postgres"
)

func main() {
	err := parseFlags()
	if err != nil {
		log.Fatal(err)
	}
	if err := logger.Initialize(CliOptions.LogLevel); err != nil {
		panic(fmt.Errorf("method main: %v", err))
	}
	defer func() { _ = logger.Log.Sync() }()
	logger.Log.Info("Flags parsed",
		zap.String("flags", CliOptions.String()))

	logger.Log.Info("Starting service")
	if err = run(); err != nil {
		logger.Log.Fatal("", zap.Error(err))
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client, err := apiclient.New(apiclient.Config{
		BaseURL:      CliOptions.RemoteURL,
		ClientID:     CliOptions.ClientID,
		ClientSecret: CliOptions.ClientSecret,
		RateLimit:    CliOptions.RateLimit,
		RetryCount:   CliOptions.RetryCount,
	}, apiclient.WithMetrics(apiclient.NewMetrics(registry)))
	if err != nil {
		return err
	}

	audit, err := openAudit(ctx)
	if err != nil {
		return err
	}
	defer audit.Close()

	store, err := openCache(ctx)
	if err != nil {
		return err
	}

	workers := resync.NewService(CliOptions.Workers, 0)
	services, err := apiservices.NewAPIServices(apiservices.Config{
		Secret:     []byte(CliOptions.Key),
		SessionTTL: CliOptions.SessionTTL,
		AssetURL:   CliOptions.AssetURL,
	}, client, store, audit, workers)
	if err != nil {
		return err
	}

	service, err := httpserver.NewService(CliOptions.APIAddress.String(), services, CliOptions.AllowedOrigins, registry)
	if err != nil {
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return service.Run(gCtx)
	})
	g.Go(func() error {
		return workers.Run(gCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Log.Debug("exit with error", zap.Error(err))
		return err
	}
	logger.Log.Info("Service stopped")
	return nil
}

func openAudit(ctx context.Context) (storage.AuditStorage, error) {
	if CliOptions.DatabaseDSN == "" {
		logger.Log.Warn("DATABASE_URI not set, audit trail kept in memory")
		return memory.New(), nil
	}
	conn, err := postgres.NewConnection(ctx, CliOptions.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	return postgres.NewPsqlStorage(conn), nil
}

func openCache(ctx context.Context) (cache.Store, error) {
	if len(CliOptions.RedisAddresses) == 0 {
		return cache.NewMemoryStore(CliOptions.CacheTTL), nil
	}
	store := cache.NewRedisStore(cache.NewRedisClient(CliOptions.RedisAddresses, CliOptions.RedisPassword), "bmadsoffice", CliOptions.CacheTTL)
	if err := store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return store, nil
}
