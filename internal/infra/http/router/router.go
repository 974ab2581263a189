package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/landing-leads/internal/infra/http/handlers"
	"github.com/xavierca1/landing-leads/internal/infra/http/middleware"
)

// SubmissionEventPath is where the form provider delivers its
// submission-created event.
const SubmissionEventPath = "/.netlify/functions/submission-created"

type Options struct {
	AllowedOrigins []string
	Lead           *handlers.LeadHandler
	Health         *handlers.HealthHandler
	Log            *zap.Logger
}

func New(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Post("/submission", opts.Lead.Submit)
	r.Post(SubmissionEventPath, opts.Lead.Submit)

	if opts.Health != nil {
		r.Get("/health", opts.Health.Handle)
	}
	r.Handle("/metrics", promhttp.Handler())

	return r
}
