package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/camperrent/camperd/internal/api"
	"github.com/camperrent/camperd/internal/consumer"
	"github.com/camperrent/camperd/internal/records"
	"github.com/camperrent/camperd/internal/telemetry"
	"github.com/camperrent/camperd/internal/thumbs"
)

func setupLogging() {
	var log_level slog.Level
	switch os.Getenv("LOG_LEVEL") {
	case "DEBUG", "debug":
		log_level = slog.LevelDebug
	case "WARN", "warn":
		log_level = slog.LevelWarn
	case "ERROR", "error":
		log_level = slog.LevelError
	default:
		log_level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     log_level,
		AddSource: false,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {

			// Format time to show only the time (HH:MM:SS)
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format("15:04:05"))
			}

			return a
		},
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)
}

func loadEnv() {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		slog.Warn("No .env file found, using environment variables directly.")
		return
	}

	err := godotenv.Load(".env")
	if err != nil {
		slog.Error("Error loading .env file", "error", err)
		os.Exit(1)
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func prepareAMQPUri() string {
	rb_host := os.Getenv("RABBITMQ_HOST")
	rb_port := os.Getenv("RABBITMQ_PORT")
	rb_user := os.Getenv("RABBITMQ_USER")
	rb_pass := os.Getenv("RABBITMQ_PASS")

	return fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		rb_user,
		rb_pass,
		rb_host,
		rb_port,
	)
}

func prepareThumbsService(telemetry *telemetry.TelemetrySvc) *thumbs.Service {
	cacheDir := envOrDefault("THUMBS_CACHE_DIR", "thumbnails-cache")

	store, err := thumbs.NewDirStore(cacheDir)
	if err != nil {
		slog.Error("Failed to initialize thumbnail cache", "error", err)
		os.Exit(1)
	}

	return thumbs.NewService(
		thumbs.ServiceConfig{
			Store:   store,
			Fetcher: thumbs.NewHTTPFetcher(thumbs.DefaultFetchTimeout),
		},
		telemetry,
	)
}

func preparePrewarmConsumer(
	thumbSvc *thumbs.Service,
	telemetry *telemetry.TelemetrySvc,
) (consumer.MessageConsumer, error) {
	var amqpCfg consumer.AMQPConfig
	amqpCfg.AMQPUri = prepareAMQPUri()
	amqpCfg.Exchange = os.Getenv("AMQP_EXCHANGE")
	amqpCfg.PrewarmQueueName = os.Getenv("AMQP_QUEUE_PREWARM_REQUESTS")

	return consumer.NewAMQPConsumer(amqpCfg, thumbSvc, telemetry)
}

func main() {
	loadEnv()
	setupLogging()

	slog.Info("Starting CamperRent API server...")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init telemetry services
	telemetry, err := telemetry.NewTelemetrySvc(ctx)
	if err != nil {
		slog.Error("Failed to initialize Telemetry services", "error", err)
		os.Exit(1)
	}

	thumbSvc := prepareThumbsService(telemetry)
	recordStore := records.NewStore(envOrDefault("DB_FILE", "db.json"))

	app := fiber.New(fiber.Config{
		ServerHeader:          "CamperRent",
		AppName:               "CamperRent API Server 1.0.0",
		DisableStartupMessage: true,
	})
	api.NewServer(thumbSvc, recordStore, telemetry).Register(app)

	addr := envOrDefault("HTTP_ADDR", "127.0.0.1:3000")
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := app.Listen(addr); err != nil {
			slog.Error("HTTP server stopped", "error", err)
			cancel()
		}
	}()

	// The prewarm consumer is optional; it only starts when a broker
	// host is configured.
	var prewarmConsumer consumer.MessageConsumer
	if os.Getenv("RABBITMQ_HOST") != "" {
		prewarmConsumer, err = preparePrewarmConsumer(thumbSvc, telemetry)
		if err != nil {
			slog.Error("Failed to create AMQP consumer", "error", err)
			os.Exit(1)
		}

		if err := prewarmConsumer.Start(ctx); err != nil {
			slog.Error("Failed to start AMQP consumer", "error", err)
			os.Exit(1)
		}
		slog.Info("Prewarm consumer is running.")
	}

	slog.Info("CamperRent API server is running. Press Ctrl+C to stop.")

	// Graceful shutdown (listen for OS signals)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sigChan:
		slog.Info("Received OS signal, shutting down...", "signal", s.String())
	case <-ctx.Done():
		slog.Info(
			"Parent context cancelled, shutting down...",
			"reason",
			ctx.Err(),
		)
	}

	// --- --- --- --- --- --- --- --- --- --- --- ---
	// Perform graceful shutdown operations
	// before cancelling context

	if prewarmConsumer != nil {
		prewarmConsumer.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("Failed to shutdown HTTP server", "error", err)
	}
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		slog.Error("Failed to shutdown telemetry services", "error", err)
	}

	// Trigger context cancellation
	cancel()
	slog.Info("CamperRent API server exited gracefully.")
}
