// Package app assembles the HTTP servers: routers, middleware and their
// lifecycle.
package app

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/umk/paradigms/internal/config"
	"github.com/umk/paradigms/internal/methods"
	"github.com/umk/paradigms/internal/rest"
	"github.com/umk/paradigms/internal/services"
	"github.com/umk/paradigms/jsonrpc2"
)

func baseRouter(cfg *config.Config, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(Logger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))
	r.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

// NewProcessor builds the JSON-RPC processor with every method registered
// against a fresh user store.
func NewProcessor(cfg *config.Config) (*jsonrpc2.Processor, *jsonrpc2.Registry, error) {
	registry, err := methods.NewRegistry(services.NewUserStore())
	if err != nil {
		return nil, nil, err
	}
	p := jsonrpc2.NewProcessor(registry, jsonrpc2.WithMaxConcurrency(cfg.Batch.MaxConcurrency))
	return p, registry, nil
}

// JSONRPCRouter serves POST /jsonrpc plus health and info endpoints.
func JSONRPCRouter(cfg *config.Config, logger *slog.Logger) (http.Handler, error) {
	processor, registry, err := NewProcessor(cfg)
	if err != nil {
		return nil, err
	}

	h := jsonrpc2.NewHTTPHandler(processor)
	h.MaxBytes = cfg.HTTPServer.MaxBodyBytes
	h.Timeout = cfg.HTTPServer.HandlerTimeout

	r := baseRouter(cfg, logger)
	r.Method(http.MethodPost, "/jsonrpc", h)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, map[string]string{"status": "healthy", "server": "JSON-RPC"})
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, map[string]any{
			"server":   "JSON-RPC Server",
			"version":  methods.ServerVersion,
			"endpoint": "/jsonrpc",
			"methods":  registry.Methods(),
		})
	})
	return r, nil
}

// RESTRouter serves the REST resources plus health and info endpoints.
func RESTRouter(cfg *config.Config, logger *slog.Logger) http.Handler {
	r := baseRouter(cfg, logger)
	rest.New(logger).Routes(r)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, map[string]string{"status": "healthy", "server": "REST API"})
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, map[string]any{
			"api":     "REST API Server",
			"version": methods.ServerVersion,
			"resources": map[string]string{
				"tax-calculations": "/api/tax-calculations",
				"users":            "/api/users",
				"calculations":     "/api/calculations",
			},
			"health": "/health",
		})
	})
	return r
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to write response", slog.String("err", err.Error()))
	}
}
