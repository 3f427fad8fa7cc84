package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/rcc-portal/api/swagger"
	"github.com/noah-isme/rcc-portal/internal/handler"
	"github.com/noah-isme/rcc-portal/internal/middleware"
	"github.com/noah-isme/rcc-portal/internal/repository"
	"github.com/noah-isme/rcc-portal/internal/service"
	"github.com/noah-isme/rcc-portal/pkg/cache"
	"github.com/noah-isme/rcc-portal/pkg/config"
	"github.com/noah-isme/rcc-portal/pkg/database"
	"github.com/noah-isme/rcc-portal/pkg/insight"
	"github.com/noah-isme/rcc-portal/pkg/jobs"
	"github.com/noah-isme/rcc-portal/pkg/logger"
	corsmiddleware "github.com/noah-isme/rcc-portal/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/rcc-portal/pkg/middleware/requestid"
	"github.com/noah-isme/rcc-portal/pkg/observability"
	"github.com/noah-isme/rcc-portal/pkg/response"
	"github.com/noah-isme/rcc-portal/pkg/storage"
)

// @title RCC Portal API
// @version 1.0.0
// @description Coaching portal for attendance, tests, fees and messaging
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

// medium is the opened persistence backend with its probes.
type medium struct {
	kv      storage.KV
	redis   *redis.Client
	ready   func() error
	closers []func() error
}

func (m *medium) close(logr *zap.Logger) {
	for _, c := range m.closers {
		if err := c(); err != nil {
			logr.Warn("close failed", zap.Error(err))
		}
	}
}

func openMedium(ctx context.Context, cfg *config.Config) (*medium, error) {
	m := &medium{}
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		m.kv = storage.NewMemoryKV()
	case config.StorageFile, "":
		kv, err := storage.NewFileKV(cfg.Storage.Dir)
		if err != nil {
			return nil, err
		}
		m.kv = kv
	case config.StorageRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		m.redis = client
		m.kv = storage.NewRedisKV(client, cfg.Storage.Namespace)
		m.ready = func() error { return client.Ping(context.Background()).Err() }
		m.closers = append(m.closers, client.Close)
	case config.StoragePostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		kv := storage.NewPostgresKV(db)
		if err := kv.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		m.kv = kv
		m.ready = db.Ping
		m.closers = append(m.closers, db.Close)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	return m, nil
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	flush, err := observability.InitSentry(cfg)
	if err != nil {
		logr.Warn("sentry disabled", zap.Error(err))
	}
	defer flush()
	response.SetErrorReporter(observability.CaptureErr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	med, err := openMedium(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer med.close(logr)

	metrics := service.NewMetricsService()
	gateway := repository.NewGateway(storage.WithObserver(med.kv, metrics.ObserveStorageOp), logr)
	validate := validator.New()

	cacheClient := med.redis
	if cfg.Insight.CacheEnabled && cacheClient == nil {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("insight cache disabled", zap.Error(err))
		} else {
			cacheClient = client
			med.closers = append(med.closers, client.Close)
		}
	}
	cacheSvc := service.NewCacheService(
		repository.NewCacheRepository(cacheClient, "rcc_cache", logr),
		metrics, cfg.Insight.CacheTTL, logr, cfg.Insight.CacheEnabled && cacheClient != nil)

	sessions, err := service.NewSessionService(gateway, validate, logr, service.SessionConfig{
		TeacherUsername:   cfg.Auth.TeacherUsername,
		TeacherPassphrase: cfg.Auth.TeacherPassphrase,
		StudentPassphrase: cfg.Auth.StudentPassphrase,
		TokenSecret:       cfg.JWT.Secret,
		TokenExpiry:       cfg.JWT.Expiration,
	})
	if err != nil {
		return err
	}

	var generator insight.Generator
	gemini, err := insight.NewGemini(ctx, cfg.Insight.APIKey, cfg.Insight.Model)
	switch {
	case errors.Is(err, insight.ErrMissingAPIKey):
		logr.Warn("GEMINI_API_KEY not set, insights will use the fallback message")
	case err != nil:
		logr.Warn("insight client unavailable", zap.Error(err))
	default:
		generator = gemini
	}

	feeConfig := service.PaymentConfig{StudentTarget: cfg.Fees.StudentTarget, TeacherTarget: cfg.Fees.TeacherTarget}
	attendance := service.NewAttendanceService(gateway, validate, logr)
	tests := service.NewTestService(gateway, validate, logr)
	payments := service.NewPaymentService(gateway, validate, logr, feeConfig)
	insights := service.NewInsightService(gateway, generator, cacheSvc, metrics, logr, service.InsightConfig{
		Timeout:  cfg.Insight.Timeout,
		CacheTTL: cfg.Insight.CacheTTL,
	})
	attendance.OnChange(insights.Invalidate)
	tests.OnChange(insights.Invalidate)

	reminders := service.NewReminderService(gateway, metrics, logr)
	queue := jobs.NewQueue("fee-reminders", reminders.Handle, jobs.QueueConfig{
		Workers:    cfg.Reminder.Workers,
		MaxRetries: cfg.Reminder.Retries,
		RetryDelay: 2 * time.Second,
		Logger:     logr,
		OnDone: func(job jobs.Job, err error) {
			if err != nil {
				logr.Error("fee reminder dropped", zap.String("job_id", job.ID), zap.Error(err))
			}
		},
	})
	queue.Start(ctx)
	defer queue.Stop()
	reminders.UseQueue(queue)

	handlers := handler.Handlers{
		Auth:       handler.NewAuthHandler(sessions),
		Attendance: handler.NewAttendanceHandler(attendance),
		Tests:      handler.NewTestHandler(tests),
		Payments:   handler.NewPaymentHandler(payments, service.NewExportService(payments, logr, nil, nil, nil), reminders),
		Messages:   handler.NewMessageHandler(service.NewMessageService(gateway, validate, logr)),
		Calendar:   handler.NewCalendarHandler(service.NewCalendarService(gateway, validate, logr)),
		Schedule:   handler.NewScheduleHandler(service.NewScheduleService(gateway, validate, logr)),
		Students:   handler.NewStudentHandler(service.NewRosterService(gateway, validate, logr)),
		Dashboard:  handler.NewDashboardHandler(service.NewDashboardService(gateway, feeConfig, logr)),
		Insights:   handler.NewInsightHandler(insights),
		Metrics:    handler.NewMetricsHandler(metrics, med.ready),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics, "/metrics", "/health", "/ready"))

	handler.Register(r, cfg.APIPrefix, handlers, sessions)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
