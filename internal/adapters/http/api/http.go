// Package api declares HTTP contracts and route registration helpers for
// the engine. Handlers carry no engine logic: they decode, delegate to the
// services, and translate the fault taxonomy into status codes.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lectio/aula/internal/domain/fault"
)

// Server wires HTTP routes for the engine API.
type Server struct {
	healthHandler     *HealthHandler
	sessionHandler    *SessionHandler
	evaluationHandler *EvaluationHandler
	boardHandler      *BoardHandler
	awardHandler      *AwardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(schedule ScheduleService, evaluations EvaluationService, boards BoardService, awards AwardService) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		sessionHandler:    NewSessionHandler(schedule),
		evaluationHandler: NewEvaluationHandler(evaluations),
		boardHandler:      NewBoardHandler(boards),
		awardHandler:      NewAwardHandler(awards),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/sessions", MetricsMiddleware(s.sessionHandler.HandleSessions, "sessions"))
	mux.HandleFunc("/sessions/", MetricsMiddleware(s.sessionHandler.HandleSession, "session"))
	mux.HandleFunc("/evaluations", MetricsMiddleware(s.evaluationHandler.HandleEvaluations, "evaluations"))
	mux.HandleFunc("/presenters/", MetricsMiddleware(s.evaluationHandler.HandleAverage, "average"))
	mux.HandleFunc("/boards", MetricsMiddleware(s.boardHandler.HandleAvailable, "boards"))
	mux.HandleFunc("/boards/", MetricsMiddleware(s.boardHandler.HandleBoard, "board"))
	mux.HandleFunc("/awards", MetricsMiddleware(s.awardHandler.HandleAwards, "awards"))
	mux.HandleFunc("/agenda", MetricsMiddleware(s.awardHandler.HandleAgenda, "agenda"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFault maps the engine's error taxonomy onto HTTP status codes.
// Anything outside the taxonomy is an internal error.
func writeFault(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fault.ErrValidation):
		writeError(w, http.StatusBadRequest, "invalid_input", err)
	case errors.Is(err, fault.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, fault.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
