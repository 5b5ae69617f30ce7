// Package schedule provides the session assignment service: session CRUD
// plus presenter/evaluator assignment under the date-booking conflict rule.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lectio/aula/internal/adapters/repository"
	"github.com/lectio/aula/internal/domain/conflict"
	"github.com/lectio/aula/internal/domain/fault"
	"github.com/lectio/aula/internal/domain/model"
	"github.com/lectio/aula/pkg/logger"
	"github.com/lectio/aula/pkg/metrics"
)

// Service creates, updates, and deletes sessions and maintains their
// participant sets. Assignment operations serialize on a per-date mutex so
// the conflict check and the subsequent write are atomic with respect to
// other assignments on the same date.
type Service struct {
	store    repository.Store
	registry *conflict.Registry
	dateLock *conflict.KeyMutex
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

// New constructs a schedule service over store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		registry: conflict.NewRegistry(store),
		dateLock: conflict.NewKeyMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and persists a new session with a fresh identifier and
// empty participant sets.
func (s *Service) Create(ctx context.Context, date time.Time, venue string, category model.Category) (model.Session, error) {
	if err := validateSession(date, venue, category); err != nil {
		return model.Session{}, err
	}
	now := time.Now().UTC()
	session := model.Session{
		ID:        uuid.NewString(),
		Date:      date,
		Venue:     strings.TrimSpace(venue),
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.PutSession(ctx, session); err != nil {
		return model.Session{}, fmt.Errorf("put session: %w", err)
	}
	metrics.RecordSessionCreated()
	s.info(ctx, "session created",
		logger.String("session_id", session.ID),
		logger.String("date", model.DayKey(session.Date)),
		logger.String("category", string(session.Category)))
	return session, nil
}

// Update re-validates and overwrites an existing session record.
func (s *Service) Update(ctx context.Context, session model.Session) error {
	if err := validateSession(session.Date, session.Venue, session.Category); err != nil {
		return err
	}
	stored, err := s.get(ctx, session.ID)
	if err != nil {
		return err
	}
	session.Venue = strings.TrimSpace(session.Venue)
	session.CreatedAt = stored.CreatedAt
	session.UpdatedAt = time.Now().UTC()
	if err := s.store.PutSession(ctx, session); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// Delete removes a session. The session id is first removed from every
// assigned evaluator's back-reference so the bidirectional link never
// outlives the session.
func (s *Service) Delete(ctx context.Context, sessionID string) error {
	session, err := s.get(ctx, sessionID)
	if err != nil {
		return err
	}
	for _, evaluatorID := range session.EvaluatorIDs {
		if err := s.dropEvaluatorRef(ctx, evaluatorID, sessionID); err != nil {
			return err
		}
	}
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.info(ctx, "session deleted", logger.String("session_id", sessionID))
	return nil
}

// Get returns a session by id.
func (s *Service) Get(ctx context.Context, sessionID string) (model.Session, error) {
	return s.get(ctx, sessionID)
}

// List returns all sessions in insertion order.
func (s *Service) List(ctx context.Context) ([]model.Session, error) {
	return s.store.ListSessions(ctx)
}

// AssignPresenter adds a presenter to a session's presenter set. The
// presenter's category must equal the session's category, and the presenter
// must not already be booked anywhere on the session's date. Re-adding a
// presenter already in the set is a no-op.
func (s *Service) AssignPresenter(ctx context.Context, sessionID, presenterID string) error {
	session, err := s.get(ctx, sessionID)
	if err != nil {
		return err
	}
	presenter, err := s.store.GetPresenter(ctx, presenterID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fault.NewNotFound("presenter", presenterID)
		}
		return fmt.Errorf("get presenter: %w", err)
	}
	if presenter.Category != session.Category {
		return fault.NewValidation("presenterId", fmt.Sprintf(
			"presenter category %s does not match session category %s",
			presenter.Category, session.Category))
	}

	day := model.DayKey(session.Date)
	s.dateLock.Lock(day)
	defer s.dateLock.Unlock(day)

	// Re-read under the date lock; another assignment may have committed.
	session, err = s.get(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.HasPresenter(presenterID) {
		return nil
	}
	if err := s.checkBooking(ctx, presenterID, session.Date); err != nil {
		return err
	}
	session.PresenterIDs = append(session.PresenterIDs, presenterID)
	session.UpdatedAt = time.Now().UTC()
	if err := s.store.PutSession(ctx, session); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	metrics.RecordAssignment("presenter")
	s.info(ctx, "presenter assigned",
		logger.String("session_id", sessionID),
		logger.String("presenter_id", presenterID))
	return nil
}

// AssignEvaluator adds an evaluator to a session's evaluator set and
// records the session in the evaluator's assigned-session set. The same
// date-booking rule applies; re-adding is a no-op.
func (s *Service) AssignEvaluator(ctx context.Context, sessionID, evaluatorID string) error {
	session, err := s.get(ctx, sessionID)
	if err != nil {
		return err
	}
	if _, err := s.store.GetEvaluator(ctx, evaluatorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fault.NewNotFound("evaluator", evaluatorID)
		}
		return fmt.Errorf("get evaluator: %w", err)
	}

	day := model.DayKey(session.Date)
	s.dateLock.Lock(day)
	defer s.dateLock.Unlock(day)

	// Re-read both sides of the link under the date lock.
	session, err = s.get(ctx, sessionID)
	if err != nil {
		return err
	}
	evaluator, err := s.store.GetEvaluator(ctx, evaluatorID)
	if err != nil {
		return fmt.Errorf("get evaluator: %w", err)
	}
	if session.HasEvaluator(evaluatorID) {
		return nil
	}
	if err := s.checkBooking(ctx, evaluatorID, session.Date); err != nil {
		return err
	}
	session.EvaluatorIDs = append(session.EvaluatorIDs, evaluatorID)
	session.UpdatedAt = time.Now().UTC()
	if err := s.store.PutSession(ctx, session); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	if !evaluator.AssignedTo(sessionID) {
		evaluator.SessionIDs = append(evaluator.SessionIDs, sessionID)
		if err := s.store.PutEvaluator(ctx, evaluator); err != nil {
			return fmt.Errorf("put evaluator: %w", err)
		}
	}
	metrics.RecordAssignment("evaluator")
	s.info(ctx, "evaluator assigned",
		logger.String("session_id", sessionID),
		logger.String("evaluator_id", evaluatorID))
	return nil
}

// RemovePresenter removes a presenter from a session's presenter set.
// Removal is idempotent: a missing session or an unassigned presenter is a
// no-op, not an error.
func (s *Service) RemovePresenter(ctx context.Context, sessionID, presenterID string) error {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get session: %w", err)
	}
	if !session.HasPresenter(presenterID) {
		return nil
	}
	session.PresenterIDs = removeID(session.PresenterIDs, presenterID)
	session.UpdatedAt = time.Now().UTC()
	if err := s.store.PutSession(ctx, session); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// RemoveEvaluator removes an evaluator from a session's evaluator set and
// drops the session from the evaluator's assigned-session set. Idempotent.
func (s *Service) RemoveEvaluator(ctx context.Context, sessionID, evaluatorID string) error {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get session: %w", err)
	}
	if !session.HasEvaluator(evaluatorID) {
		return nil
	}
	session.EvaluatorIDs = removeID(session.EvaluatorIDs, evaluatorID)
	session.UpdatedAt = time.Now().UTC()
	if err := s.store.PutSession(ctx, session); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return s.dropEvaluatorRef(ctx, evaluatorID, sessionID)
}

// HasConflict reports whether participantID is already booked as presenter
// or evaluator in any session on the calendar date of date.
func (s *Service) HasConflict(ctx context.Context, participantID string, date time.Time) (bool, error) {
	booked, _, err := s.registry.Booked(ctx, participantID, date)
	return booked, err
}

// checkBooking runs the conflict scan and shapes the result as a
// ConflictError naming the occupying session. Callers hold the date lock.
func (s *Service) checkBooking(ctx context.Context, participantID string, date time.Time) error {
	booked, occupant, err := s.registry.Booked(ctx, participantID, date)
	if err != nil {
		return err
	}
	if booked {
		metrics.RecordConflictRejected()
		return fault.NewConflict(participantID, model.DayKey(date), occupant)
	}
	return nil
}

// dropEvaluatorRef removes sessionID from an evaluator's assigned-session
// set. A missing evaluator record is tolerated so deletion stays idempotent.
func (s *Service) dropEvaluatorRef(ctx context.Context, evaluatorID, sessionID string) error {
	evaluator, err := s.store.GetEvaluator(ctx, evaluatorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get evaluator: %w", err)
	}
	if !evaluator.AssignedTo(sessionID) {
		return nil
	}
	evaluator.SessionIDs = removeID(evaluator.SessionIDs, sessionID)
	if err := s.store.PutEvaluator(ctx, evaluator); err != nil {
		return fmt.Errorf("put evaluator: %w", err)
	}
	return nil
}

func (s *Service) get(ctx context.Context, sessionID string) (model.Session, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Session{}, fault.NewNotFound("session", sessionID)
		}
		return model.Session{}, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

func (s *Service) info(ctx context.Context, msg string, fields ...logger.Field) {
	if s.log != nil {
		s.log.Info(ctx, msg, fields...)
	}
}

func validateSession(date time.Time, venue string, category model.Category) error {
	if date.IsZero() {
		return fault.NewValidation("date", "must be set")
	}
	if strings.TrimSpace(venue) == "" {
		return fault.NewValidation("venue", "must not be blank")
	}
	if !category.Valid() {
		return fault.NewValidation("category", "must be oral or poster")
	}
	return nil
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
