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

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"booking-workers/internal/common/aws"
	"booking-workers/internal/common/camunda"
	"booking-workers/internal/common/config"
	"booking-workers/internal/common/database"
	"booking-workers/internal/common/logger"
	"booking-workers/internal/common/observability"
	"booking-workers/internal/profiles"

	ar "booking-workers/internal/workers/booking/accept-rider"
	ra "booking-workers/internal/workers/booking/revoke-acceptance"
	cc "booking-workers/internal/workers/matching/calculate-compatibility"
	rv "booking-workers/internal/workers/matching/rank-venues"
	smn "booking-workers/internal/workers/notifications/send-match-notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format).
		With(zap.String("service", cfg.App.Name), zap.String("version", cfg.App.Version))
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...", zap.String("environment", cfg.App.Environment))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("observability disabled", zap.Error(err))
	}
	defer obs.Shutdown(context.Background())

	// --- Zeebe ---
	zeebe, err := camunda.Connect(ctx, cfg.Camunda, camunda.DefaultRetryConfig, log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()
	if err := connectWithRetry(ctx, "PostgreSQL", pg.Ping, log); err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}

	// --- Elasticsearch ---
	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		zapLog.Fatal("elasticsearch init failed", zap.Error(err))
	}
	if err := connectWithRetry(ctx, "Elasticsearch", es.Ping, log); err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	if ok, err := es.IndexExists(ctx, cfg.Matching.VenueIndex); err == nil && !ok {
		zapLog.Warn("venue index missing; rank-venues jobs will fail until it is created",
			zap.String("index", cfg.Matching.VenueIndex))
	}

	// --- Redis ---
	// The profile cache is optional: without Redis every lookup reads Postgres.
	rdb := database.NewRedis(cfg.Database.Redis)
	defer rdb.Close()
	cacheClient := rdb.Client
	if err := connectWithRetry(ctx, "Redis", rdb.Ping, log); err != nil {
		zapLog.Warn("redis unavailable, profile cache disabled", zap.Error(err))
		cacheClient = nil
	}

	store := profiles.NewStore(pg.DB, cacheClient, cfg.Matching.CacheTTL(), log)

	// --- AWS ---
	var email smn.EmailSender
	if cfg.Notifications.Email.Enabled {
		ses, err := aws.NewSESClient(ctx, cfg.Notifications.Region)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
		email = ses
	}
	var sms smn.SMSSender
	if cfg.Notifications.SMS.Enabled {
		sns, err := aws.NewSNSClient(ctx, cfg.Notifications.Region, cfg.Notifications.SMS.SenderID)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		sms = sns
	}

	// --- Workers ---
	var workers []worker.JobWorker
	register := func(taskType string, handler worker.JobHandler) {
		jw := camunda.StartWorker(zeebe.Zeebe(), taskType, config.GetWorkerConfig(cfg, taskType), handler, obs, log)
		if jw != nil {
			workers = append(workers, jw)
		}
	}

	{
		c := cc.LoadConfig()
		c.Timeout = workerTimeout(cfg, cc.TaskType, c.Timeout)
		register(cc.TaskType, cc.NewHandler(c, store, log).Handle)
	}
	{
		c := rv.LoadConfig(cfg.Matching)
		c.Timeout = workerTimeout(cfg, rv.TaskType, c.Timeout)
		register(rv.TaskType, rv.NewHandler(c, es.Client, store, log).Handle)
	}
	{
		c := ar.LoadConfig()
		c.Timeout = workerTimeout(cfg, ar.TaskType, c.Timeout)
		register(ar.TaskType, ar.NewHandler(c, pg.DB, store, log).Handle)
	}
	{
		c := ra.LoadConfig()
		c.Timeout = workerTimeout(cfg, ra.TaskType, c.Timeout)
		register(ra.TaskType, ra.NewHandler(c, pg.DB, store, log).Handle)
	}
	{
		c := smn.LoadConfig(cfg.Notifications)
		c.Timeout = workerTimeout(cfg, smn.TaskType, c.Timeout)
		register(smn.TaskType, smn.NewHandler(c, pg.DB, email, sms, log).Handle)
	}

	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: newServer(map[string]func(context.Context) error{
			"zeebe":         zeebe.HealthCheck,
			"postgres":      pg.Ping,
			"elasticsearch": es.Ping,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	for _, jw := range workers {
		jw.Close()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, jw := range workers {
		done := make(chan struct{})
		go func() {
			jw.AwaitClose()
			close(done)
		}()
		select {
		case <-done:
		case <-shutdownCtx.Done():
			zapLog.Warn("timed out waiting for in-flight jobs")
		}
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	zapLog.Info("Worker manager stopped")
}

// workerTimeout prefers the worker's configured timeout over the handler default.
func workerTimeout(cfg *config.Config, taskType string, fallback time.Duration) time.Duration {
	if ms := config.GetWorkerConfig(cfg, taskType).Timeout; ms > 0 {
		return config.GetDuration(ms)
	}
	return fallback
}

func connectWithRetry(ctx context.Context, name string, ping func(context.Context) error, log logger.Logger) error {
	err := camunda.Retry(ctx, camunda.DefaultRetryConfig, func(attempt int) error {
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := ping(pctx); err != nil {
			log.Warn(name+" not reachable, retrying", map[string]interface{}{
				"attempt": attempt,
				"error":   err,
			})
			return err
		}
		return nil
	})
	if err == nil {
		log.Info(name+" connected successfully", nil)
	}
	return err
}
