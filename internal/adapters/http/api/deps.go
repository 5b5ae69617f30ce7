package api

import (
	"context"
	"time"

	"github.com/lectio/aula/internal/app/evaluation"
	"github.com/lectio/aula/internal/domain/model"
)

// Dependencies are declared per handler as small interfaces so the handler
// layer stays loosely coupled to the service implementations.

// ScheduleService is the session assignment surface the API needs.
type ScheduleService interface {
	Create(ctx context.Context, date time.Time, venue string, category model.Category) (model.Session, error)
	Update(ctx context.Context, session model.Session) error
	Delete(ctx context.Context, sessionID string) error
	Get(ctx context.Context, sessionID string) (model.Session, error)
	List(ctx context.Context) ([]model.Session, error)
	AssignPresenter(ctx context.Context, sessionID, presenterID string) error
	AssignEvaluator(ctx context.Context, sessionID, evaluatorID string) error
	RemovePresenter(ctx context.Context, sessionID, presenterID string) error
	RemoveEvaluator(ctx context.Context, sessionID, evaluatorID string) error
}

// EvaluationService is the evaluation surface the API needs.
type EvaluationService interface {
	Submit(ctx context.Context, sub evaluation.Submission) (model.Evaluation, error)
	AverageScore(ctx context.Context, presenterID string) (float64, error)
	ByPresenter(ctx context.Context, presenterID string) ([]model.Evaluation, error)
	ByEvaluator(ctx context.Context, evaluatorID string) ([]model.Evaluation, error)
}

// BoardService is the poster board surface the API needs.
type BoardService interface {
	Assign(ctx context.Context, boardID, presenterID, sessionID string) error
	Available(ctx context.Context) ([]string, error)
	Unassign(ctx context.Context, boardID string) error
}

// AwardService is the award surface the API needs.
type AwardService interface {
	GenerateAgenda(ctx context.Context, votes []model.VoteTally) ([]model.Award, error)
	List(ctx context.Context) ([]model.Award, error)
	Clear(ctx context.Context) error
}
