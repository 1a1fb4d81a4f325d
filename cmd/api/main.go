package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-summary-service/internal/api/router"
	"github.com/sanosuguru/go-event-summary-service/internal/application"
	"github.com/sanosuguru/go-event-summary-service/internal/config"
	"github.com/sanosuguru/go-event-summary-service/internal/domain/summary"
	"github.com/sanosuguru/go-event-summary-service/internal/infrastructure/memory"
	"github.com/sanosuguru/go-event-summary-service/internal/infrastructure/notification"
	redisinfra "github.com/sanosuguru/go-event-summary-service/internal/infrastructure/redis"
	"github.com/sanosuguru/go-event-summary-service/internal/pkg/logger"
	"github.com/sanosuguru/go-event-summary-service/internal/pkg/metrics"
	"github.com/sanosuguru/go-event-summary-service/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.Init(cfg.App.Env, cfg.App.LogLevel)
	defer func() { _ = logger.Sync() }()

	m := metrics.New()

	// ストア
	eventStore := memory.NewEventStore()
	lockManager := memory.NewLockManager()

	var summaryCache application.SummaryCacheStore = memory.NewSummaryCache()
	if cfg.Redis.IsEnabled() {
		connectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := redisinfra.Connect(connectCtx, &cfg.Redis)
		cancel()
		if err != nil {
			logger.Fatal("Redis接続エラー", zap.Error(err))
		}
		defer client.Close()
		summaryCache = redisinfra.NewSummaryCache(client)
		logger.Info("要約キャッシュに Redis を使用", zap.String("addr", cfg.Redis.Addr()))
	}

	// サービス
	notifier := notification.NewLogNotifier(log, cfg.Notification.Delay, m)
	eventService := application.NewEventService(eventStore, notifier, lockManager,
		application.WithEventMetrics(m),
	)
	summaryService := application.NewSummaryService(
		eventService,
		summaryCache,
		summary.NewGenerator(cfg.Summary.Location()),
		lockManager,
		m,
	)
	streamer := application.NewSummaryStreamer(summaryService,
		application.WithChunkDelay(cfg.Summary.ChunkDelayMin, cfg.Summary.ChunkDelayMax),
		application.WithStreamMetrics(m),
	)

	e := router.New(router.Deps{
		Config:         cfg,
		EventService:   eventService,
		SummaryService: summaryService,
		Streamer:       streamer,
		Metrics:        m,
	})
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	statsCollector := worker.NewEventStatsCollector(eventService, m, cfg.Worker.StatsInterval)
	go statsCollector.Start(ctx)

	go func() {
		logger.Info("サーバー起動", zap.String("addr", cfg.Server.Addr()), zap.String("env", cfg.App.Env))
		if err := e.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("サーバーをシャットダウンしています...")

	statsCollector.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("サーバーシャットダウンエラー", zap.Error(err))
		return
	}
	logger.Info("サーバーが正常にシャットダウンしました")
}
