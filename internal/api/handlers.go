package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/verte-zerg/typequest/internal/progression"
	"github.com/verte-zerg/typequest/internal/service"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 16

type errorResponse struct {
	Error   string               `json:"error"`
	Details []service.FieldError `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent.
		_ = err
	}
}

func respondError(w http.ResponseWriter, status int, message string, details []service.FieldError) {
	respondJSON(w, status, errorResponse{Error: message, Details: details})
}

// respondServiceError maps service errors to status codes. Unexpected errors
// are logged and reported with a generic message.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.Is(err, service.ErrProfileNotFound):
		respondError(w, http.StatusNotFound, "profile not found", nil)
	default:
		s.logger.Error(op+" failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "internal server error", nil)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body", []service.FieldError{{
			Field:   "body",
			Rule:    "json",
			Message: err.Error(),
		}})
		return false
	}
	return true
}

// rangeDays maps the supported session windows to days. Any other value,
// including none, means the most recent sessions without a window.
func rangeDays(raw string) int {
	switch raw {
	case "7d":
		return 7
	case "30d":
		return 30
	default:
		return 0
	}
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Ready(r.Context()); err != nil {
		s.logger.Warn("readiness check failed", zap.Error(err))
		respondError(w, http.StatusServiceUnavailable, "service not ready", nil)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Profile handlers

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req service.CreateProfileInput
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := s.svc.CreateProfile(r.Context(), req)
	if err != nil {
		s.respondServiceError(w, r, "create profile", err)
		return
	}
	w.Header().Set("Location", "/api/profiles/"+p.ID)
	respondJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, r, "get profile", err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleProfileStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.ProfileStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, r, "profile stats", err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	days := rangeDays(r.URL.Query().Get("range"))
	sessions, err := s.svc.ListSessions(r.Context(), chi.URLParam(r, "id"), days)
	if err != nil {
		s.respondServiceError(w, r, "list sessions", err)
		return
	}
	respondJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleListBadges(w http.ResponseWriter, r *http.Request) {
	badges, err := s.svc.ListBadges(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, r, "list badges", err)
		return
	}
	respondJSON(w, http.StatusOK, badges)
}

func (s *Server) handleBadgeCatalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, progression.Catalog())
}

// Session handlers

func (s *Server) handleSubmitSession(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitSessionInput
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := s.svc.SubmitSession(r.Context(), req)
	if err != nil {
		s.respondServiceError(w, r, "submit session", err)
		return
	}
	respondJSON(w, http.StatusCreated, res)
}
