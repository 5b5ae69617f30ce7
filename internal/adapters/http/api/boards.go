package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// BoardHandler handles poster board assignment requests.
type BoardHandler struct {
	deps BoardService
}

// NewBoardHandler creates a new board handler.
func NewBoardHandler(deps BoardService) *BoardHandler {
	return &BoardHandler{deps: deps}
}

type boardAssignRequest struct {
	PresenterID string `json:"presenter_id"`
	SessionID   string `json:"session_id"`
}

type availableResponse struct {
	Available []string `json:"available"`
}

// HandleAvailable handles GET /boards (the free board ids, ascending).
func (h *BoardHandler) HandleAvailable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	boards, err := h.deps.Available(r.Context())
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, availableResponse{Available: boards})
}

// HandleBoard handles POST /boards/{id} (assign) and DELETE /boards/{id}
// (unassign).
func (h *BoardHandler) HandleBoard(w http.ResponseWriter, r *http.Request) {
	boardID := strings.TrimPrefix(r.URL.Path, "/boards/")
	if boardID == "" || strings.Contains(boardID, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodPost:
		var req boardAssignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		if err := h.deps.Assign(r.Context(), boardID, req.PresenterID, req.SessionID); err != nil {
			writeFault(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if err := h.deps.Unassign(r.Context(), boardID); err != nil {
			writeFault(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}
