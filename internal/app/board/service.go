// Package board provides the poster board assignment service over a fixed,
// enumerable board space with an at-most-one-presenter-per-board invariant.
package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lectio/aula/internal/adapters/repository"
	"github.com/lectio/aula/internal/domain/conflict"
	"github.com/lectio/aula/internal/domain/fault"
	"github.com/lectio/aula/internal/domain/model"
	"github.com/lectio/aula/pkg/logger"
	"github.com/lectio/aula/pkg/metrics"
)

// Default board space: B001..B100.
const (
	defaultPrefix = "B"
	defaultCount  = 100
	idWidth       = 3
)

// Service assigns poster boards to presenters. Assignment serializes on a
// per-board mutex so the occupancy check and the write cannot interleave
// with a concurrent assignment of the same board.
type Service struct {
	store     repository.Store
	boardLock *conflict.KeyMutex
	prefix    string
	count     int
	log       logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithBoardSpace sets the enumerable board id space, e.g. ("B", 100) for
// B001..B100.
func WithBoardSpace(prefix string, count int) Option {
	return func(s *Service) {
		if strings.TrimSpace(prefix) != "" && count > 0 {
			s.prefix = prefix
			s.count = count
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New constructs a board service over store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		boardLock: conflict.NewKeyMutex(),
		prefix:    defaultPrefix,
		count:     defaultCount,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Assign maps boardID to presenterID for sessionID. Blank arguments fail
// validation; a board that already has an occupant fails with a
// ConflictError naming that occupant.
func (s *Service) Assign(ctx context.Context, boardID, presenterID, sessionID string) error {
	switch {
	case strings.TrimSpace(boardID) == "":
		return fault.NewValidation("boardId", "must not be blank")
	case strings.TrimSpace(presenterID) == "":
		return fault.NewValidation("presenterId", "must not be blank")
	case strings.TrimSpace(sessionID) == "":
		return fault.NewValidation("sessionId", "must not be blank")
	}

	s.boardLock.Lock(boardID)
	defer s.boardLock.Unlock(boardID)

	existing, err := s.store.GetPosterBoard(ctx, boardID)
	switch {
	case err == nil:
		metrics.RecordConflictRejected()
		return fault.NewConflict(presenterID, boardID, existing.PresenterID)
	case errors.Is(err, repository.ErrNotFound):
		// Board is free.
	default:
		return fmt.Errorf("get poster board: %w", err)
	}

	assignment := model.PosterBoard{
		ID:          boardID,
		PresenterID: presenterID,
		SessionID:   sessionID,
		AssignedAt:  time.Now().UTC(),
	}
	if err := s.store.PutPosterBoard(ctx, assignment); err != nil {
		return fmt.Errorf("put poster board: %w", err)
	}
	metrics.RecordBoardAssigned()
	if s.log != nil {
		s.log.Info(ctx, "board assigned",
			logger.String("board_id", boardID),
			logger.String("presenter_id", presenterID),
			logger.String("session_id", sessionID))
	}
	return nil
}

// Available enumerates the board space in ascending order and returns the
// ids with no current assignment.
func (s *Service) Available(ctx context.Context) ([]string, error) {
	assigned, err := s.store.ListPosterBoards(ctx)
	if err != nil {
		return nil, fmt.Errorf("list poster boards: %w", err)
	}
	taken := make(map[string]struct{}, len(assigned))
	for _, b := range assigned {
		taken[b.ID] = struct{}{}
	}
	out := make([]string, 0, s.count)
	for i := 1; i <= s.count; i++ {
		id := fmt.Sprintf("%s%0*d", s.prefix, idWidth, i)
		if _, ok := taken[id]; !ok {
			out = append(out, id)
		}
	}
	return out, nil
}

// Unassign frees a board. Freeing an unassigned board is a no-op.
func (s *Service) Unassign(ctx context.Context, boardID string) error {
	s.boardLock.Lock(boardID)
	defer s.boardLock.Unlock(boardID)

	err := s.store.DeletePosterBoard(ctx, boardID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("delete poster board: %w", err)
	}
	return nil
}
