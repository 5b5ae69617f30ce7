package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lectio/aula/internal/app/evaluation"
	"github.com/lectio/aula/internal/domain/model"
	"github.com/lectio/aula/internal/domain/rubric"
)

// EvaluationHandler handles evaluation submission and query requests.
type EvaluationHandler struct {
	deps EvaluationService
}

// NewEvaluationHandler creates a new evaluation handler.
func NewEvaluationHandler(deps EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{deps: deps}
}

type evaluationRequest struct {
	PresenterID string        `json:"presenter_id"`
	EvaluatorID string        `json:"evaluator_id"`
	SessionID   string        `json:"session_id"`
	Scores      rubric.Scores `json:"scores"`
	Comment     string        `json:"comment"`
}

type evaluationResponse struct {
	ID          string        `json:"id"`
	PresenterID string        `json:"presenter_id"`
	EvaluatorID string        `json:"evaluator_id"`
	SessionID   string        `json:"session_id"`
	Scores      rubric.Scores `json:"scores"`
	Total       int           `json:"total"`
	Comment     string        `json:"comment,omitempty"`
}

func toEvaluationResponse(e model.Evaluation) evaluationResponse {
	return evaluationResponse{
		ID:          e.ID,
		PresenterID: e.PresenterID,
		EvaluatorID: e.EvaluatorID,
		SessionID:   e.SessionID,
		Scores:      e.Scores,
		Total:       e.Scores.Total(),
		Comment:     e.Comment,
	}
}

// HandleEvaluations handles POST /evaluations and
// GET /evaluations?presenter=|evaluator=.
func (h *EvaluationHandler) HandleEvaluations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.submit(w, r)
	case http.MethodGet:
		h.query(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *EvaluationHandler) submit(w http.ResponseWriter, r *http.Request) {
	var req evaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	eval, err := h.deps.Submit(r.Context(), evaluation.Submission{
		PresenterID: req.PresenterID,
		EvaluatorID: req.EvaluatorID,
		SessionID:   req.SessionID,
		Scores:      req.Scores,
		Comment:     req.Comment,
	})
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEvaluationResponse(eval))
}

func (h *EvaluationHandler) query(w http.ResponseWriter, r *http.Request) {
	var (
		evals []model.Evaluation
		err   error
	)
	switch {
	case r.URL.Query().Get("presenter") != "":
		evals, err = h.deps.ByPresenter(r.Context(), r.URL.Query().Get("presenter"))
	case r.URL.Query().Get("evaluator") != "":
		evals, err = h.deps.ByEvaluator(r.Context(), r.URL.Query().Get("evaluator"))
	default:
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingFilter)
		return
	}
	if err != nil {
		writeFault(w, err)
		return
	}
	out := make([]evaluationResponse, 0, len(evals))
	for _, e := range evals {
		out = append(out, toEvaluationResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

type averageResponse struct {
	PresenterID string  `json:"presenter_id"`
	Average     float64 `json:"average"`
}

// HandleAverage handles GET /presenters/{id}/average.
func (h *EvaluationHandler) HandleAverage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/presenters/")
	presenterID, op, ok := strings.Cut(path, "/")
	if !ok || presenterID == "" || op != "average" {
		http.NotFound(w, r)
		return
	}
	avg, err := h.deps.AverageScore(r.Context(), presenterID)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, averageResponse{PresenterID: presenterID, Average: avg})
}
