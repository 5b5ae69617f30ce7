package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/lectio/aula/internal/domain/model"
)

// AwardHandler handles award listing and agenda generation requests.
type AwardHandler struct {
	deps AwardService
}

// NewAwardHandler creates a new award handler.
func NewAwardHandler(deps AwardService) *AwardHandler {
	return &AwardHandler{deps: deps}
}

type voteTally struct {
	PresenterID string `json:"presenter_id"`
	Votes       int    `json:"votes"`
}

// agendaRequest carries the optional ordered vote tally. An absent body or
// an empty tally omits the People's Choice slot entirely.
type agendaRequest struct {
	Votes []voteTally `json:"votes"`
}

type awardResponse struct {
	Kind        string  `json:"kind"`
	PresenterID string  `json:"presenter_id"`
	Score       float64 `json:"score"`
}

func toAwardResponses(awards []model.Award) []awardResponse {
	out := make([]awardResponse, 0, len(awards))
	for _, a := range awards {
		out = append(out, awardResponse{
			Kind:        string(a.Kind),
			PresenterID: a.PresenterID,
			Score:       a.Score,
		})
	}
	return out
}

// HandleAwards handles GET /awards and DELETE /awards.
func (h *AwardHandler) HandleAwards(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		awards, err := h.deps.List(r.Context())
		if err != nil {
			writeFault(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAwardResponses(awards))
	case http.MethodDelete:
		if err := h.deps.Clear(r.Context()); err != nil {
			writeFault(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

// HandleAgenda handles POST /agenda.
func (h *AwardHandler) HandleAgenda(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req agendaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	votes := make([]model.VoteTally, 0, len(req.Votes))
	for _, v := range req.Votes {
		votes = append(votes, model.VoteTally{PresenterID: v.PresenterID, Votes: v.Votes})
	}
	agenda, err := h.deps.GenerateAgenda(r.Context(), votes)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAwardResponses(agenda))
}
