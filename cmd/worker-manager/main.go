// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"storefront-admin/internal/adminquery"
	"storefront-admin/internal/adminquery/stats"
	"storefront-admin/internal/common/aws"
	"storefront-admin/internal/common/camunda"
	"storefront-admin/internal/common/config"
	"storefront-admin/internal/common/database"
	"storefront-admin/internal/common/logger"
	"storefront-admin/internal/common/observability"
	"storefront-admin/internal/storefront"
	"storefront-admin/pkg/registry"

	agg "storefront-admin/internal/workers/admin-query/aggregate-store-stats"
	ans "storefront-admin/internal/workers/admin-query/answer-admin-query"
	act "storefront-admin/internal/workers/admin-query/apply-admin-action"
	paq "storefront-admin/internal/workers/admin-query/parse-admin-query"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name, zapLog)

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch, nil)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	redisClient := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Zeebe Client ---
	zeebe, err := camunda.Connect(ctx, cfg.Camunda, camunda.DefaultRetryConfig, zapLog)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Store and engine ---
	repo := storefront.NewRepository(pg.DB, esClient.Client, log,
		storefront.WithMessagesIndex(cfg.Storefront.MessagesIndex, cfg.Storefront.MessagesLimit))
	if err := repo.EnsureMessagesIndex(ctx); err != nil {
		zapLog.Warn("messages index check failed", zap.Error(err))
	}
	statsCache := storefront.NewStatsCache(redisClient.Client, cfg.Storefront.StatsCacheKey, cfg.Storefront.StatsCacheTTL())
	var executorOpts []storefront.ExecutorOption
	if cfg.Notifications.Enabled {
		publisher, err := aws.NewSNSClient(ctx, cfg.Notifications.Region, cfg.Notifications.TopicARN)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
		executorOpts = append(executorOpts, storefront.WithEventPublisher(publisher))
		zapLog.Info("Admin action events enabled", zap.String("topic", cfg.Notifications.TopicARN))
	}
	executor := storefront.NewExecutor(repo, statsCache, executorOpts...)

	engine := adminquery.NewEngine(
		adminquery.WithStatsOptions(
			stats.WithLowStockThreshold(cfg.AdminQuery.LowStockThreshold),
			stats.WithTopN(cfg.AdminQuery.TopProducts, cfg.AdminQuery.TopCodes),
		),
		adminquery.WithMinConfidence(cfg.AdminQuery.MinConfidence),
		adminquery.WithLogger(log),
		adminquery.WithTracer(obs.Tracer()),
	)

	// --- Register workers ---
	paqCfg := paq.LoadConfig()
	paqCfg.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, paq.TaskType).Timeout)

	aggCfg := agg.LoadConfig()
	aggCfg.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, agg.TaskType).Timeout)

	ansCfg := ans.LoadConfig()
	ansCfg.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, ans.TaskType).Timeout)

	actCfg := act.LoadConfig()
	actCfg.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, act.TaskType).Timeout)

	pool := camunda.StartWorkers(zeebe.Zeebe(), cfg, []camunda.Registration{
		{TaskType: paq.TaskType, Handler: paq.NewHandler(paqCfg, engine, log)},
		{TaskType: agg.TaskType, Handler: agg.NewHandler(aggCfg, engine, repo, statsCache, log)},
		{TaskType: ans.TaskType, Handler: ans.NewHandler(ansCfg, engine, repo, log)},
		{TaskType: act.TaskType, Handler: act.NewHandler(actCfg, executor, log)},
	}, obs, zapLog)
	zapLog.Info("workers registered", zap.Strings("taskTypes", pool.TaskTypes()))
	checkRegistry(cfg.App.ActivityRegistry, pool.TaskTypes(), zapLog)

	// --- Health & Metrics Server ---
	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: newServeMux(map[string]Pinger{
			"postgres":      pg,
			"elasticsearch": esClient,
			"redis":         redisClient,
			"zeebe":         PingFunc(zeebe.HealthCheck),
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing telemetry", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// checkRegistry warns when the activity registry is unusable or does not
// describe a running worker. It never stops startup.
func checkRegistry(path string, taskTypes []string, log *zap.Logger) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		log.Warn("activity registry not loaded", zap.String("path", path), zap.Error(err))
		return
	}
	if err := reg.Validate(); err != nil {
		log.Warn("activity registry is invalid", zap.String("path", path), zap.Error(err))
		return
	}
	if missing := reg.Missing(taskTypes); len(missing) > 0 {
		log.Warn("workers missing from activity registry", zap.Strings("taskTypes", missing))
	}
	if incomplete := reg.Incomplete(taskTypes); len(incomplete) > 0 {
		log.Warn("running workers not marked completed in activity registry", zap.Strings("taskTypes", incomplete))
	}
}
