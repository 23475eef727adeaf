package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/screenline/screening-ai-platform/internal/api/router"
	appconfig "github.com/screenline/screening-ai-platform/internal/config"
	"github.com/screenline/screening-ai-platform/internal/observability/metrics"
	"github.com/screenline/screening-ai-platform/internal/scoring"
	"github.com/screenline/screening-ai-platform/internal/screening"
	"github.com/screenline/screening-ai-platform/pkg/logging"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting screening-ai-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Classifier artifacts are load-once and shared read-only by every
	// request; a missing file is fatal here, never per-request.
	artifacts, err := scoring.LoadArtifacts(cfg.ModelArtifactsDir)
	if err != nil {
		logger.Error("failed to load model artifacts", "error", err, "dir", cfg.ModelArtifactsDir)
		os.Exit(1)
	}
	pipeline := scoring.NewPipeline(artifacts, logger)

	ctx := context.Background()
	gemini, err := screening.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Error("failed to create gemini client", "error", err)
		os.Exit(1)
	}
	defer gemini.Close()
	llm := screening.NewRetryLLMClient(gemini, cfg.LLMMaxAttempts, cfg.LLMTimeout, logger)

	screeningMetrics := metrics.NewScreeningMetrics(nil)
	machine := screening.NewMachine(screening.MachineConfig{
		LLM:           llm,
		Interpreter:   screening.NewInterpreter(llm, cfg.GeminiModel),
		Scorer:        pipeline,
		QuestionModel: cfg.GeminiModel,
		SummaryModel:  cfg.GeminiSummaryModel,
		Metrics:       screeningMetrics,
		Logger:        logger,
	})
	service := screening.NewService(machine, screeningMetrics, logger)
	handler := screening.NewHandler(service, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		ScreeningHandler:   handler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		// A turn can carry two oracle round trips including retries.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
