// Package award computes closing-ceremony awards from presenter records,
// rubric averages, and externally supplied vote tallies. Awards are derived
// state, recomputable at any time.
package award

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lectio/aula/internal/adapters/repository"
	"github.com/lectio/aula/internal/domain/model"
	"github.com/lectio/aula/pkg/logger"
	"github.com/lectio/aula/pkg/metrics"
)

// Averager supplies per-presenter average rubric totals. Satisfied by the
// evaluation service.
type Averager interface {
	AverageScore(ctx context.Context, presenterID string) (float64, error)
}

// Service selects the highest-ranked presenter per award kind using a
// strict greater-than comparison: on an exact tie the first candidate seen
// wins, and the scan order is the store's insertion order, which is
// deterministic by contract.
type Service struct {
	store    repository.Store
	averages Averager
	log      logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New constructs an award service over store, using averages for rubric
// aggregation.
func New(store repository.Store, averages Averager, opts ...Option) *Service {
	s := &Service{store: store, averages: averages}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BestByCategory returns the presenter of the given category with the
// highest average rubric total. ok is false when no presenter of the
// category exists or nobody has a positive average yet; that is an absent
// result, not an error.
func (s *Service) BestByCategory(ctx context.Context, category model.Category) (model.Award, bool, error) {
	presenters, err := s.store.ListPresenters(ctx)
	if err != nil {
		return model.Award{}, false, fmt.Errorf("list presenters: %w", err)
	}

	var (
		bestID    string
		bestScore float64
	)
	for _, p := range presenters {
		if p.Category != category || p.ID == "" {
			continue
		}
		avg, err := s.averages.AverageScore(ctx, p.ID)
		if err != nil {
			return model.Award{}, false, err
		}
		if avg > bestScore {
			bestID = p.ID
			bestScore = avg
		}
	}
	if bestID == "" || bestScore <= 0 {
		return model.Award{}, false, nil
	}

	kind := model.AwardBestOral
	if category == model.CategoryPoster {
		kind = model.AwardBestPoster
	}
	return s.newAward(kind, bestID, bestScore), true, nil
}

// PeoplesChoice returns the presenter with the strictly highest vote count
// in the supplied tally. The tally is ordered; on a tie the earlier entry
// wins. An empty tally or a non-positive maximum yields no award.
func (s *Service) PeoplesChoice(_ context.Context, votes []model.VoteTally) (model.Award, bool) {
	var (
		bestID    string
		bestVotes int
	)
	for _, t := range votes {
		if t.Votes > bestVotes {
			bestID = t.PresenterID
			bestVotes = t.Votes
		}
	}
	if bestID == "" || bestVotes <= 0 {
		return model.Award{}, false
	}
	return s.newAward(model.AwardPeoplesChoice, bestID, float64(bestVotes)), true
}

// GenerateAgenda computes the Best Oral and Best Poster awards and, when a
// vote tally is supplied, the People's Choice award. Each computed award is
// persisted and the ordered list is returned. Without votes the People's
// Choice slot is omitted entirely, not filled with a placeholder.
func (s *Service) GenerateAgenda(ctx context.Context, votes []model.VoteTally) ([]model.Award, error) {
	agenda := make([]model.Award, 0, 3)

	for _, category := range []model.Category{model.CategoryOral, model.CategoryPoster} {
		a, ok, err := s.BestByCategory(ctx, category)
		if err != nil {
			return nil, err
		}
		if ok {
			agenda = append(agenda, a)
		}
	}
	if len(votes) > 0 {
		if a, ok := s.PeoplesChoice(ctx, votes); ok {
			agenda = append(agenda, a)
		}
	}

	for _, a := range agenda {
		if err := s.store.AppendAward(ctx, a); err != nil {
			return nil, fmt.Errorf("append award: %w", err)
		}
	}
	metrics.RecordAwardsComputed(len(agenda))
	if s.log != nil {
		s.log.Info(ctx, "agenda generated", logger.Int("awards", len(agenda)))
	}
	return agenda, nil
}

// List returns all persisted awards in append order.
func (s *Service) List(ctx context.Context) ([]model.Award, error) {
	return s.store.ListAwards(ctx)
}

// Clear discards all persisted awards, typically before recomputation.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.ClearAwards(ctx); err != nil {
		return fmt.Errorf("clear awards: %w", err)
	}
	return nil
}

func (s *Service) newAward(kind model.AwardKind, presenterID string, score float64) model.Award {
	return model.Award{
		ID:          uuid.NewString(),
		Kind:        kind,
		PresenterID: presenterID,
		Score:       score,
		CreatedAt:   time.Now().UTC(),
	}
}
