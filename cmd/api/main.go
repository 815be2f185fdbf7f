package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"

	"github.com/pageza/wod-analyzer/backend/config"
	"github.com/pageza/wod-analyzer/backend/internal/api"
	"github.com/pageza/wod-analyzer/backend/internal/database"
	"github.com/pageza/wod-analyzer/backend/internal/logging"
	"github.com/pageza/wod-analyzer/backend/internal/metrics"
	"github.com/pageza/wod-analyzer/backend/internal/middleware"
	"github.com/pageza/wod-analyzer/backend/internal/server"
	"github.com/pageza/wod-analyzer/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogFile,
		LogToStdout:   cfg.LogToStdout,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogJSON,
	})

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Invalid APP_TIMEZONE %q: %v", cfg.Timezone, err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db.DB, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsManager := metrics.NewManager("wod_analyzer", "api", registry)

	prompts, err := service.NewPromptBuilder()
	if err != nil {
		log.Fatalf("Failed to load prompts: %v", err)
	}

	llmOpts := []service.LLMOption{service.WithMetrics(metricsManager)}
	services := api.Services{Metrics: metricsManager}

	// Redis is optional: without it analyses are not cached and model
	// endpoints are not rate limited
	if cfg.RedisEnabled() {
		redisClient, err := database.NewRedisClient(cfg)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, running without cache and rate limiting")
		} else {
			defer redisClient.Close()
			llmOpts = append(llmOpts, service.WithAnalysisCache(service.NewAnalysisCache(redisClient)))
			services.ModelLimiter = middleware.NewModelRateLimiter(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow, metricsManager)
		}
	}

	llm, err := service.NewLLMService(service.LLMConfig{
		APIKey:     cfg.AnthropicAPIKey,
		BaseURL:    cfg.AnthropicURL,
		Model:      cfg.AnthropicModel,
		Timeout:    cfg.AnthropicTimeout,
		MaxRetries: cfg.AnthropicMaxRetries,
	}, prompts, llmOpts...)
	if err != nil {
		log.Fatalf("Failed to create LLM service: %v", err)
	}
	services.LLM = llm
	services.Wods = service.NewWodService(db.DB, loc)
	services.Athletes = service.NewAthleteService(db.DB)

	if cfg.S3Enabled() {
		s3Cfg, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			log.WithError(err).Warn("S3 unavailable, whiteboard photos will not be stored")
		} else {
			services.Images = service.NewImageService(s3Cfg.Client, s3Cfg.BucketName)
		}
	}

	srv := server.New(cfg, services, db, registry)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Infof("Received signal: %v", sig)
	}

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server shutdown error: %v", err)
	}
	log.Info("Server stopped")
}
