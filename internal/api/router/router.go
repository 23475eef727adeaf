package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpmiddleware "github.com/screenline/screening-ai-platform/internal/http/middleware"
	"github.com/screenline/screening-ai-platform/internal/screening"
	"github.com/screenline/screening-ai-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	ScreeningHandler   *screening.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RateLimitRPS > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	r.Get("/health", cfg.ScreeningHandler.Health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/screening", func(r chi.Router) {
		r.Post("/turn", cfg.ScreeningHandler.Turn)
	})

	return r
}
