// Package httpapi exposes the flood-risk API plus health, readiness, and
// metrics HTTP endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/waterkaart/flood-risk-engine/internal/domain"
)

// RiskProvider serves aggregated risk layers, normally the scenario cache.
type RiskProvider interface {
	Get(ctx context.Context, scenario domain.Scenario) (domain.RiskCollection, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the risk API over HTTP.
type Server struct {
	httpServer *http.Server
	provider   RiskProvider
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the risk routes plus /healthz,
// /readyz, and /metrics.
func NewServer(addr string, provider RiskProvider, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		provider: provider,
		logger:   logger,
	}

	mux.HandleFunc("GET /v1/floodrisk/{scenario}", s.handleFloodRisk)
	mux.HandleFunc("GET /v1/scenarios", s.handleScenarios)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleFloodRisk(w http.ResponseWriter, r *http.Request) {
	scenario, err := domain.ParseScenario(r.PathValue("scenario"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":     err.Error(),
			"scenarios": domain.Scenarios,
		})
		return
	}

	collection, err := s.provider.Get(r.Context(), scenario)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownScenario) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.logger.Error("flood risk request failed", "scenario", scenario, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, collection)
}

func (s *Server) handleScenarios(w http.ResponseWriter, _ *http.Request) {
	type scenarioInfo struct {
		ID                string  `json:"id"`
		Label             string  `json:"label"`
		AnnualProbability float64 `json:"annualProbability"`
	}

	infos := make([]scenarioInfo, 0, len(domain.Scenarios))
	for _, sc := range domain.Scenarios {
		infos = append(infos, scenarioInfo{
			ID:                string(sc),
			Label:             sc.Label(),
			AnnualProbability: sc.AnnualProbability(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"scenarios": infos})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}
