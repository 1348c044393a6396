// Package server exposes rendering and enhancement over HTTP.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gompdf/stylepdf/internal/config"
	"github.com/gompdf/stylepdf/internal/enhance"
	"github.com/gompdf/stylepdf/pkg/api"
)

// Server is the HTTP API server for stylepdf.
type Server struct {
	router   chi.Router
	enhancer *enhance.Client
	log      *slog.Logger
	cfg      config.Config
}

// New creates and configures the HTTP server. The enhancement client is
// also used to relay /api/claude requests, which carry their own key.
func New(enhancer *enhance.Client, log *slog.Logger, cfg config.Config) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		enhancer: enhancer,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.log))
	r.Use(CORS(s.cfg.Server.AllowedOrigins))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(LimitBody(s.cfg.Server.MaxBodyBytes))

		r.Post("/api/claude", s.handleClaude)
		r.Post("/api/enhance", s.handleEnhance)
		r.Post("/api/render", s.handleRender)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// converter builds a converter from the configured render defaults.
func (s *Server) converter() *api.Converter {
	o := api.DefaultOptions()
	s.cfg.Render.Apply(&o)
	o.Logger = s.log
	return api.NewWithOptions(o)
}
