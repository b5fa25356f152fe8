// Package server exposes the workflow over HTTP for non-interactive callers.
package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"

	"policy-agent/internal/application/port/input"
	"policy-agent/internal/domain/entity"
)

type Server struct {
	runner input.WorkflowRunner
	router chi.Router

	// Task units and the artifact store keep per-run state, so at most
	// one pipeline run may be in flight per process.
	runMu sync.Mutex
}

func NewServer(runner input.WorkflowRunner) *Server {
	s := &Server{runner: runner}

	logger := httplog.NewLogger("policy-agent", httplog.Options{
		JSON:    true,
		Concise: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/runs", s.handleRun)

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

type runRequest struct {
	PolicyDocument     string `json:"policy_document"`
	DetectedPolicyType string `json:"detected_policy_type"`
	DetectedPolicyCode string `json:"detected_policy_code"`
	ForceType          bool   `json:"force_type"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if req.PolicyDocument == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "policy_document is required"})
		return
	}

	s.runMu.Lock()
	result, err := s.runner.Run(r.Context(), entity.InitialContext{
		PolicyDocument:     req.PolicyDocument,
		DetectedPolicyType: req.DetectedPolicyType,
		DetectedPolicyCode: req.DetectedPolicyCode,
		ForceType:          req.ForceType,
	})
	s.runMu.Unlock()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	status := http.StatusOK
	if result.Status != entity.WorkflowStatusSuccess {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
