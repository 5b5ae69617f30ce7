package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/lectio/aula/internal/domain/fault"
	"github.com/lectio/aula/internal/domain/model"
)

// dateLayout is the wire format for session dates; sessions carry no time
// of day.
const dateLayout = "2006-01-02"

// SessionHandler handles session CRUD and participant assignment requests.
type SessionHandler struct {
	deps ScheduleService
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps ScheduleService) *SessionHandler {
	return &SessionHandler{deps: deps}
}

type sessionRequest struct {
	Date     string `json:"date"`
	Venue    string `json:"venue"`
	Category string `json:"category"`
}

type sessionResponse struct {
	ID           string   `json:"id"`
	Date         string   `json:"date"`
	Venue        string   `json:"venue"`
	Category     string   `json:"category"`
	PresenterIDs []string `json:"presenter_ids"`
	EvaluatorIDs []string `json:"evaluator_ids"`
}

func toSessionResponse(s model.Session) sessionResponse {
	return sessionResponse{
		ID:           s.ID,
		Date:         s.Date.UTC().Format(dateLayout),
		Venue:        s.Venue,
		Category:     string(s.Category),
		PresenterIDs: s.PresenterIDs,
		EvaluatorIDs: s.EvaluatorIDs,
	}
}

// HandleSessions handles POST /sessions and GET /sessions.
func (h *SessionHandler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.NotFound(w, r)
	}
}

// HandleSession handles methods on /sessions/{id} and the assignment
// subresources /sessions/{id}/{presenters|evaluators}/{participantID}.
func (h *SessionHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/sessions/"), "/")
	switch {
	case len(parts) == 1 && parts[0] != "":
		h.one(w, r, parts[0])
	case len(parts) == 3 && parts[2] != "":
		h.participant(w, r, parts[0], parts[1], parts[2])
	default:
		http.NotFound(w, r)
	}
}

func (h *SessionHandler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSessionRequest(w, r)
	if !ok {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeFault(w, err)
		return
	}
	session, err := h.deps.Create(r.Context(), date, req.Venue, model.Category(req.Category))
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(session))
}

func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.deps.List(r.Context())
	if err != nil {
		writeFault(w, err)
		return
	}
	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResponse(s))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *SessionHandler) one(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		session, err := h.deps.Get(r.Context(), id)
		if err != nil {
			writeFault(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(session))
	case http.MethodPut:
		req, ok := decodeSessionRequest(w, r)
		if !ok {
			return
		}
		date, err := parseDate(req.Date)
		if err != nil {
			writeFault(w, err)
			return
		}
		session := model.Session{
			ID:       id,
			Date:     date,
			Venue:    req.Venue,
			Category: model.Category(req.Category),
		}
		// Participant sets are managed through the assignment
		// subresources; an update keeps the stored sets.
		stored, err := h.deps.Get(r.Context(), id)
		if err != nil {
			writeFault(w, err)
			return
		}
		session.PresenterIDs = stored.PresenterIDs
		session.EvaluatorIDs = stored.EvaluatorIDs
		if err := h.deps.Update(r.Context(), session); err != nil {
			writeFault(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(session))
	case http.MethodDelete:
		if err := h.deps.Delete(r.Context(), id); err != nil {
			writeFault(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func (h *SessionHandler) participant(w http.ResponseWriter, r *http.Request, sessionID, role, participantID string) {
	type op func(r *http.Request) error
	var run op
	switch {
	case role == "presenters" && r.Method == http.MethodPost:
		run = func(r *http.Request) error {
			return h.deps.AssignPresenter(r.Context(), sessionID, participantID)
		}
	case role == "presenters" && r.Method == http.MethodDelete:
		run = func(r *http.Request) error {
			return h.deps.RemovePresenter(r.Context(), sessionID, participantID)
		}
	case role == "evaluators" && r.Method == http.MethodPost:
		run = func(r *http.Request) error {
			return h.deps.AssignEvaluator(r.Context(), sessionID, participantID)
		}
	case role == "evaluators" && r.Method == http.MethodDelete:
		run = func(r *http.Request) error {
			return h.deps.RemoveEvaluator(r.Context(), sessionID, participantID)
		}
	default:
		http.NotFound(w, r)
		return
	}
	if err := run(r); err != nil {
		writeFault(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeSessionRequest(w http.ResponseWriter, r *http.Request) (sessionRequest, bool) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return sessionRequest{}, false
	}
	return req, true
}

func parseDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, fault.NewValidation("date", "must be set")
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fault.NewValidation("date", "must be formatted as "+dateLayout)
	}
	return t, nil
}
