// Package repository defines the engine's persistence interface and errors.
package repository

import (
	"context"

	"github.com/lectio/aula/internal/domain/model"
)

// Store provides read/write access to the engine's records. All services
// hold the same Store instance and observe each other's writes immediately.
//
// List operations return records in insertion order. The award service's
// first-seen-wins tie policy makes iteration order part of the observable
// contract, so implementations must not expose map order.
type Store interface {
	// Sessions.
	GetSession(ctx context.Context, id string) (model.Session, error)
	PutSession(ctx context.Context, s model.Session) error
	DeleteSession(ctx context.Context, id string) error
	ListSessions(ctx context.Context) ([]model.Session, error)

	// Evaluations.
	GetEvaluation(ctx context.Context, id string) (model.Evaluation, error)
	PutEvaluation(ctx context.Context, e model.Evaluation) error
	DeleteEvaluation(ctx context.Context, id string) error
	ListEvaluations(ctx context.Context) ([]model.Evaluation, error)

	// Participants.
	GetPresenter(ctx context.Context, id string) (model.Presenter, error)
	PutPresenter(ctx context.Context, p model.Presenter) error
	ListPresenters(ctx context.Context) ([]model.Presenter, error)
	GetEvaluator(ctx context.Context, id string) (model.Evaluator, error)
	PutEvaluator(ctx context.Context, e model.Evaluator) error

	// Poster boards.
	GetPosterBoard(ctx context.Context, id string) (model.PosterBoard, error)
	PutPosterBoard(ctx context.Context, b model.PosterBoard) error
	DeletePosterBoard(ctx context.Context, id string) error
	ListPosterBoards(ctx context.Context) ([]model.PosterBoard, error)

	// Awards (derived state).
	AppendAward(ctx context.Context, a model.Award) error
	ListAwards(ctx context.Context) ([]model.Award, error)
	ClearAwards(ctx context.Context) error
}
