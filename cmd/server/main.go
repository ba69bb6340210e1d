package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"pinboard.app/api/common/id"
	"pinboard.app/api/common/logger"
	"pinboard.app/api/common/otel"
	"pinboard.app/api/core/config"
	"pinboard.app/api/core/db"
	"pinboard.app/api/internal/http/middleware"
	httprouter "pinboard.app/api/internal/http/router"
	"pinboard.app/api/internal/metrics"
	"pinboard.app/api/internal/queue"
	"pinboard.app/api/internal/service"
	"pinboard.app/api/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize otel: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "pinboard starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(cfg.SnowflakeNode); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, cfg.DB.DSN, db.MigrateUp); err != nil {
			slog.ErrorContext(ctx, "failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	producer := queue.NewNoopProducer()
	if cfg.Redis.Enabled() {
		redisClient, err := queue.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
			os.Exit(1)
		}
		producer = queue.NewRedisProducer(redisClient, cfg.Redis.RequestStream, slog.Default())
		slog.InfoContext(ctx, "redis connected", "stream", cfg.Redis.RequestStream)
	} else {
		slog.InfoContext(ctx, "redis disabled; request events will not be published")
	}
	defer producer.Close()

	m := metrics.New()
	services := service.NewServices(service.ServicesConfig{
		Stores:   store.NewStores(database.Querier()),
		TxRunner: service.NewTxRunner(database),
		Producer: producer,
		Metrics:  m,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	runCtx, stopBackground := context.WithCancel(ctx)
	defer stopBackground()

	limiter := middleware.NewIPRateLimiter(cfg.RateLimit.SubmitPerMinute, cfg.RateLimit.SubmitBurst, cfg.RateLimit.TTL)
	go limiter.Run(runCtx)

	router := setupRouter(cfg, services, database, m, limiter)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")
	stopBackground()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services, database *db.DB, m *metrics.Metrics, limiter *middleware.IPRateLimiter) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics(m))
	router.Use(middleware.Timeout(cfg.RequestTimeout))
	router.Use(cors.New(corsConfig(cfg)))

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		DB:            database,
		Metrics:       m,
		SubmitLimiter: limiter,
	})

	return router
}

func corsConfig(cfg config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, middleware.RequestIDHeader)
	c.ExposeHeaders = []string{middleware.RequestIDHeader}
	if len(cfg.CORSOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSOrigins
	}
	return c
}
