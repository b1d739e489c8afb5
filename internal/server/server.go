// Package server serves the rendered site over HTTP for local preview.
package server

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"bayshorebuild.com/site-web/internal/cms"
	"bayshorebuild.com/site-web/internal/observability"
	"bayshorebuild.com/site-web/internal/render"
)

// Config holds runtime options for the preview server.
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	Store    *cms.Store
	Renderer *render.Renderer
	Static   fs.FS
	BaseURL  string
	Disallow []string
	Dev      bool
	Logger   *zap.Logger
}

// New constructs the HTTP server with its middleware stack.
func New(cfg Config) *http.Server {
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           NewRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       orDefault(cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      orDefault(cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:       orDefault(cfg.IdleTimeout, 120*time.Second),
	}
}

// NewRouter wires middleware and routes. Tests drive it with httptest.
func NewRouter(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// RealIP trusts X-Forwarded-For; only run behind a trusted proxy.
	r.Use(chimw.RealIP)
	r.Use(observability.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.Static != nil {
		r.Handle("/assets/*", http.StripPrefix("/assets", AssetsWithCache(cfg.Static, cfg.Dev)))
	}

	h := &siteHandler{store: cfg.Store, renderer: cfg.Renderer, baseURL: cfg.BaseURL, disallow: cfg.Disallow}
	r.Get("/sitemap.xml", h.sitemap)
	r.Get("/robots.txt", h.robots)
	r.Get("/*", h.page)
	return r
}

func orDefault(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}
