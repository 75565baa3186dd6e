package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"taskflow/internal/adapter/auth"
	dbadapter "taskflow/internal/adapter/db"
	httpadapter "taskflow/internal/adapter/http"
	"taskflow/internal/adapter/http/handlers"
	httpmiddleware "taskflow/internal/adapter/http/middleware"
	"taskflow/internal/adapter/redisstore"
	"taskflow/internal/adapter/render"
	"taskflow/internal/adapter/reportstore"
	"taskflow/internal/adapter/taskstore"
	"taskflow/internal/app/engine"
	appservice "taskflow/internal/app/service"
	"taskflow/internal/config"
	"taskflow/pkg/translator"
)

const (
	reapInterval    = time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg := config.LoadConfig()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET must be set")
	}

	translator.InitTranslator(translator.Config{
		TranslationFolder:  cfg.TranslationFolder,
		SupportedLanguages: supportedLanguages(cfg.DefaultLanguage),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := dbadapter.ConnectDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to mysql", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close mysql connection", zap.Error(err))
		}
	}()
	if err := dbadapter.Migrate(db, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	redisClient, err := redisstore.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("failed to close redis connection", zap.Error(err))
		}
	}()

	users := dbadapter.NewUserRepository(db)
	authService := auth.NewService(users, cfg.JWTSecret, auth.WithTokenTTL(cfg.TokenTTL))

	store := taskstore.New(
		dbadapter.NewTaskRepository(db),
		redisstore.NewChangeFeed(redisClient, "", logger.Named("feed")),
		logger.Named("taskstore"),
		taskstore.WithMaxRefreshRate(cfg.FeedMaxRefreshPerSecond),
	)
	go func() {
		if err := store.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("task change feed stopped", zap.Error(err))
		}
	}()

	registry := engine.NewRegistry(store, logger.Named("sessions"), engine.WithIdleTimeout(cfg.SessionIdleTimeout))
	defer registry.Close()
	go registry.Run(ctx, reapInterval)

	reportService := appservice.NewReportService(
		store,
		reportstore.New(dbadapter.NewReportRepository(db), redisstore.NewPayloadStore(redisClient), logger.Named("reports")),
		render.NewReportRenderer(),
		logger.Named("reports"),
		cfg.DefaultLanguage,
	)
	defer reportService.Wait()

	validator := appservice.NewValidator(authService, cfg.SLAMinLeadTime)
	taskOpts := []appservice.TaskServiceOption{
		appservice.WithPatcher(registry),
		appservice.WithLogger(logger.Named("tasks")),
	}
	if cfg.AutoReportOnComplete {
		taskOpts = append(taskOpts, appservice.WithCompletionHook(reportService.Dispatch))
	}
	taskService := appservice.NewTaskService(store, authService, validator, taskOpts...)
	viewService := appservice.NewViewService(registry, cfg.SLAThresholds(), time.Now)

	redisPing := handlers.PingFunc(func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})

	r := gin.New()
	r.Use(gin.Recovery(), httpmiddleware.GinZapMiddleware(logger))
	if len(cfg.CorsOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CorsOrigins
		corsConfig.AddAllowHeaders("Authorization", "Accept-Language")
		r.Use(cors.New(corsConfig))
	}
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Fatal("invalid trusted proxies", zap.Error(err))
	}

	httpadapter.RegisterRoutes(r, httpadapter.Handlers{
		Health:  handlers.NewHealthHandler(db, redisPing, registry),
		Auth:    handlers.NewAuthHandler(authService),
		Tasks:   handlers.NewTaskHandler(taskService, viewService, validator.MinLead()),
		Views:   handlers.NewViewHandler(viewService),
		Stream:  handlers.NewStreamHandler(viewService, handlers.DefaultHeartbeat),
		Reports: handlers.NewReportHandler(reportService),
	}, authService, httpmiddleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst))

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	conf := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	conf.Level = zap.NewAtomicLevelAt(lvl)
	return conf.Build()
}

// supportedLanguages puts the default first so it becomes the fallback.
func supportedLanguages(def string) []string {
	langs := []string{def}
	for _, lang := range []string{translator.LanguageEn, translator.LanguageFr, translator.LanguageTr} {
		if lang != def {
			langs = append(langs, lang)
		}
	}
	return langs
}
