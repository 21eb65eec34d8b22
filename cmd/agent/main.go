package main

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/sales-ai-platform/internal/action"
	"github.com/wolfman30/sales-ai-platform/internal/api/router"
	"github.com/wolfman30/sales-ai-platform/internal/compliance"
	appconfig "github.com/wolfman30/sales-ai-platform/internal/config"
	"github.com/wolfman30/sales-ai-platform/internal/conversation"
	"github.com/wolfman30/sales-ai-platform/internal/leads"
	"github.com/wolfman30/sales-ai-platform/internal/messaging"
	"github.com/wolfman30/sales-ai-platform/internal/observability/metrics"
	"github.com/wolfman30/sales-ai-platform/internal/playbook"
	"github.com/wolfman30/sales-ai-platform/internal/queue"
	"github.com/wolfman30/sales-ai-platform/internal/recommend"
	"github.com/wolfman30/sales-ai-platform/internal/scheduler"
	"github.com/wolfman30/sales-ai-platform/internal/sentiment"
	"github.com/wolfman30/sales-ai-platform/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting sales-ai-platform agent",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage. Without DATABASE_URL everything runs in memory, which is
	// enough for local development.
	var (
		leadsRepo    leads.Repository
		convStore    conversation.Store
		schedStore   scheduler.Store
		auditLog     compliance.AuditLog
		recordStore  recommend.RecordStore
		dbPool       *pgxpool.Pool
		memoryAudit  = compliance.NewMemoryAuditLog()
		memoryRecord = recommend.NewMemoryRecordStore()
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		dbPool = pool
		defer dbPool.Close()

		leadsRepo = leads.NewPostgresRepository(dbPool)
		convStore = conversation.NewPostgresStore(dbPool)
		schedStore = scheduler.NewPostgresStore(dbPool)
		auditLog = compliance.NewPostgresAuditLog(dbPool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory stores")
		leadsRepo = leads.NewInMemoryRepository()
		convStore = conversation.NewMemoryStore()
		schedStore = scheduler.NewMemoryStore()
		auditLog = memoryAudit
	}

	// Redis layers the history cache and recommendation records; both
	// degrade gracefully without it.
	recordStore = memoryRecord
	if cfg.RedisAddr != "" {
		redisOpts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(redisOpts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, running without cache", "error", err)
		} else {
			convStore = conversation.NewCachedStore(convStore, redisClient, cfg.HistoryWindow, nil)
			recordStore = recommend.NewRedisRecordStore(redisClient, nil)
		}
	}

	// Outbound delivery.
	provider, providerName, reason := messaging.BuildProvider(messaging.ProviderSelectionConfig{
		Preference:        cfg.MessagingProvider,
		SendGridAPIKey:    cfg.SendGridAPIKey,
		SendGridFromEmail: cfg.SendGridFromEmail,
		SendGridFromName:  cfg.SendGridFromName,
	}, logger)
	if reason != "" {
		logger.Warn("falling back to log delivery provider", "reason", reason)
	}
	logger.Info("delivery provider selected", "provider", providerName)

	// Generation.
	llm, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GenerationModelID)
	if err != nil {
		logger.Error("failed to create gemini client", "error", err)
		os.Exit(1)
	}
	defer llm.Close()

	// Pipeline wiring.
	registry := prometheus.NewRegistry()
	pipelineMetrics := metrics.NewPipelineMetrics(registry)

	schedSvc := scheduler.NewService(schedStore, leadsRepo, messaging.NewCalendarInviter(provider), logger, scheduler.Config{
		FollowupInterval:       cfg.FollowupInterval,
		DefaultMeetingDuration: cfg.DefaultMeetingDuration,
	})
	dispatcher := action.NewDispatcher(action.Deps{
		Scheduler: schedSvc,
		Leads:     leadsRepo,
		Records:   recordStore,
	}, logger)

	engine := conversation.NewEngine(conversation.Deps{
		Leads:    leadsRepo,
		Store:    convStore,
		Analyzer: sentiment.NewAnalyzer(sentiment.Config{
			PositiveThreshold: cfg.SentimentPositiveThreshold,
			NegativeThreshold: cfg.SentimentNegativeThreshold,
			TrendWindow:       cfg.SentimentTrendWindow,
			TrendDelta:        cfg.SentimentTrendDelta,
		}),
		Gate:       compliance.NewGate(),
		Audit:      auditLog,
		Selector:   playbook.NewSelector(),
		LLM:        llm,
		Dispatcher: dispatcher,
		Provider:   provider,
		Metrics:    pipelineMetrics,
	}, conversation.Config{
		GenerationModel:   cfg.GenerationModelID,
		GenerationTimeout: cfg.GenerationTimeout,
		MaxResponseTokens: int32(cfg.MaxResponseTokens),
		Temperature:       float32(cfg.Temperature),
		HistoryWindow:     cfg.HistoryWindow,
		TrendWindow:       cfg.SentimentTrendWindow,
	}, logger, nil)

	pool := conversation.NewPool(engine, queue.NewPriorityQueue(), conversation.WorkerConfig{
		Workers:    cfg.WorkerCount,
		DrainBatch: cfg.QueueDrainBatch,
		PollDelay:  cfg.QueuePollDelay,
	}, logger)

	sweeper := scheduler.NewSweeper(schedSvc, leadsRepo, provider, logger, cfg.SchedulerSweepInterval)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		pool.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		sweeper.Run(ctx)
	}()

	// HTTP surface.
	r := router.New(&router.Config{
		Logger:              logger,
		LeadsHandler:        leads.NewHandler(leadsRepo, logger),
		ConversationHandler: conversation.NewHandler(pool, engine, logger),
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		logger.Info("workers stopped")
	case <-shutdownCtx.Done():
		logger.Error("worker shutdown timed out", "error", shutdownCtx.Err())
	}
}
