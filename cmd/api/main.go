package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/resolvepay/resolvepay-platform/internal/api/router"
	appconfig "github.com/resolvepay/resolvepay-platform/internal/config"
	"github.com/resolvepay/resolvepay-platform/internal/customer"
	"github.com/resolvepay/resolvepay-platform/internal/events"
	"github.com/resolvepay/resolvepay-platform/internal/http/handlers"
	"github.com/resolvepay/resolvepay-platform/internal/llm"
	"github.com/resolvepay/resolvepay-platform/internal/observability/metrics"
	"github.com/resolvepay/resolvepay-platform/internal/outreach"
	"github.com/resolvepay/resolvepay-platform/internal/session"
	"github.com/resolvepay/resolvepay-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting resolvepay API server", "env", cfg.Env, "port", cfg.Port)

	ctx := context.Background()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	location, err := time.LoadLocation(cfg.QuietHoursTimezone)
	if err != nil {
		logger.Error("invalid quiet hours timezone", "tz", cfg.QuietHoursTimezone, "error", err)
		os.Exit(1)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	generator := llm.NewGenerator(
		llm.NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg)),
		cfg.BedrockModelID,
		int32(cfg.GeneratorMaxTokens),
	)

	outreachMetrics := metrics.NewOutreachMetrics(nil)

	hub := events.NewHub(logger.Component("events"))
	sink := buildEventSink(cfg, hub, logger)

	engine, err := outreach.NewEngine(outreach.Deps{
		Customers: customer.NewStore(pool),
		Generator: generator,
		Sessions:  session.NewStore(pool),
		Sink:      sink,
		Logger:    logger.Component("outreach"),
		Metrics:   outreachMetrics,
		Config: outreach.Config{
			Enabled:                 cfg.SchedulerAutostart,
			TickIntervalMs:          int(cfg.SchedulerTickInterval.Milliseconds()),
			MaxConcurrentSessions:   cfg.MaxConcurrentSessions,
			MaxContactsPerDay:       cfg.MaxContactsPerDay,
			MinHoursBetweenContacts: cfg.MinHoursBetweenContacts,
			QuietHoursStart:         cfg.QuietHoursStart,
			QuietHoursEnd:           cfg.QuietHoursEnd,
			Location:                location,
		},
	})
	if err != nil {
		logger.Error("failed to build outreach engine", "error", err)
		os.Exit(1)
	}

	if cfg.SchedulerAutostart {
		engine.Start()
	}

	r := router.New(&router.Config{
		Logger:          logger,
		Outreach:        handlers.NewOutreachHandler(engine, logger.Component("api")),
		EventStream:     hub,
		MetricsHandler:  promhttp.Handler(),
		AdminAuthSecret: cfg.AdminJWTSecret,
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

	logger.Info("shutting down server...")
	engine.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// buildEventSink assembles the configured transports plus the websocket hub.
func buildEventSink(cfg *appconfig.Config, hub *events.Hub, logger *logging.Logger) events.Sink {
	sinks := events.MultiSink{hub}
	for _, name := range strings.Split(cfg.EventSinks, ",") {
		switch strings.TrimSpace(name) {
		case "", "log":
			sinks = append(sinks, events.NewLogSink(logger.Component("events")))
		case "redis":
			opts := &redis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
			}
			if cfg.RedisTLS {
				opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
			}
			sinks = append(sinks, events.NewRedisSink(redis.NewClient(opts), cfg.RedisEventChannel, logger.Component("events")))
		case "kafka":
			brokers := strings.Split(cfg.KafkaBrokers, ",")
			sinks = append(sinks, events.NewKafkaSink(brokers, cfg.KafkaEventTopic, logger.Component("events")))
		default:
			logger.Warn("unknown event sink, skipping", "sink", name)
		}
	}
	return sinks
}
