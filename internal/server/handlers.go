package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/benvon/dayflow/internal/config"
	"go.uber.org/zap"
)

type checkRequest struct {
	IgnoreGates bool `json:"ignore_gates"`
}

// checkResponse reports whether the tick handled a notification check.
// Handled is true when an intent went out, and also when an AI compose
// attempt consumed its debounce slot without producing output.
type checkResponse struct {
	Handled bool `json:"handled"`
}

type componentHealth struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type healthResponse struct {
	Status     string                     `json:"status"`
	Timestamp  string                     `json:"timestamp"`
	Components map[string]componentHealth `json:"components,omitempty"`
}

// handleHealth probes every registered dependency and reports 503 when
// any of them fails
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := healthResponse{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Components: make(map[string]componentHealth),
	}

	status := http.StatusOK
	for name, check := range s.health {
		if err := check.HealthCheck(r.Context()); err != nil {
			s.logger.Warn("health check failed",
				zap.String("component", name),
				zap.Error(err),
			)
			response.Status = "unhealthy"
			response.Components[name] = componentHealth{Status: "unhealthy", Error: err.Error()}
			status = http.StatusServiceUnavailable
			continue
		}
		response.Components[name] = componentHealth{Status: "healthy"}
	}

	respondJSON(w, status, response)
}

// handleCheck triggers one engine tick on demand
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	handled := s.engine.CheckNow(r.Context(), req.IgnoreGates)
	respondJSON(w, http.StatusOK, checkResponse{Handled: handled})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.settings.Snapshot())
}

// handlePatchSettings applies a partial settings update; nothing changes
// when validation or persistence fails
func (s *Server) handlePatchSettings(w http.ResponseWriter, r *http.Request) {
	var patch config.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.settings.Update(r.Context(), patch)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleTestNotification(w http.ResponseWriter, _ *http.Request) {
	s.engine.SendTestNotification()
	w.WriteHeader(http.StatusNoContent)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}
