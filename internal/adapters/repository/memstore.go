package repository

import (
	"context"
	"sync"

	"github.com/lectio/aula/internal/domain/model"
)

// MemStore is the in-memory Store implementation. Records live in maps
// keyed by id, with explicit insertion-order slices backing the List
// operations so iteration order never depends on map order.
//
// A single RWMutex guards the whole store; the expected scale (tens to low
// hundreds of records) does not justify sharding.
type MemStore struct {
	mu sync.RWMutex

	sessions     map[string]model.Session
	sessionOrder []string

	evaluations     map[string]model.Evaluation
	evaluationOrder []string

	presenters     map[string]model.Presenter
	presenterOrder []string

	evaluators map[string]model.Evaluator

	boards     map[string]model.PosterBoard
	boardOrder []string

	awards []model.Award
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		sessions:    make(map[string]model.Session),
		evaluations: make(map[string]model.Evaluation),
		presenters:  make(map[string]model.Presenter),
		evaluators:  make(map[string]model.Evaluator),
		boards:      make(map[string]model.PosterBoard),
	}
}

// GetSession returns the session with id, or ErrNotFound.
func (m *MemStore) GetSession(_ context.Context, id string) (model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return model.Session{}, ErrNotFound
	}
	return copySession(s), nil
}

// PutSession inserts or overwrites a session. First insertion fixes the
// session's position in list order.
func (m *MemStore) PutSession(_ context.Context, s model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; !ok {
		m.sessionOrder = append(m.sessionOrder, s.ID)
	}
	m.sessions[s.ID] = copySession(s)
	return nil
}

// DeleteSession removes the session with id, or returns ErrNotFound.
func (m *MemStore) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	m.sessionOrder = removeID(m.sessionOrder, id)
	return nil
}

// ListSessions returns all sessions in insertion order.
func (m *MemStore) ListSessions(_ context.Context) ([]model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Session, 0, len(m.sessionOrder))
	for _, id := range m.sessionOrder {
		out = append(out, copySession(m.sessions[id]))
	}
	return out, nil
}

// GetEvaluation returns the evaluation with id, or ErrNotFound.
func (m *MemStore) GetEvaluation(_ context.Context, id string) (model.Evaluation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.evaluations[id]
	if !ok {
		return model.Evaluation{}, ErrNotFound
	}
	return e, nil
}

// PutEvaluation inserts or overwrites an evaluation.
func (m *MemStore) PutEvaluation(_ context.Context, e model.Evaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.evaluations[e.ID]; !ok {
		m.evaluationOrder = append(m.evaluationOrder, e.ID)
	}
	m.evaluations[e.ID] = e
	return nil
}

// DeleteEvaluation removes the evaluation with id, or returns ErrNotFound.
func (m *MemStore) DeleteEvaluation(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.evaluations[id]; !ok {
		return ErrNotFound
	}
	delete(m.evaluations, id)
	m.evaluationOrder = removeID(m.evaluationOrder, id)
	return nil
}

// ListEvaluations returns all evaluations in insertion order.
func (m *MemStore) ListEvaluations(_ context.Context) ([]model.Evaluation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Evaluation, 0, len(m.evaluationOrder))
	for _, id := range m.evaluationOrder {
		out = append(out, m.evaluations[id])
	}
	return out, nil
}

// GetPresenter returns the presenter with id, or ErrNotFound.
func (m *MemStore) GetPresenter(_ context.Context, id string) (model.Presenter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.presenters[id]
	if !ok {
		return model.Presenter{}, ErrNotFound
	}
	return p, nil
}

// PutPresenter inserts or overwrites a presenter. First insertion fixes the
// presenter's position in list order, which in turn fixes award tie-breaks.
func (m *MemStore) PutPresenter(_ context.Context, p model.Presenter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.presenters[p.ID]; !ok {
		m.presenterOrder = append(m.presenterOrder, p.ID)
	}
	m.presenters[p.ID] = p
	return nil
}

// ListPresenters returns all presenters in insertion order.
func (m *MemStore) ListPresenters(_ context.Context) ([]model.Presenter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Presenter, 0, len(m.presenterOrder))
	for _, id := range m.presenterOrder {
		out = append(out, m.presenters[id])
	}
	return out, nil
}

// GetEvaluator returns the evaluator with id, or ErrNotFound.
func (m *MemStore) GetEvaluator(_ context.Context, id string) (model.Evaluator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.evaluators[id]
	if !ok {
		return model.Evaluator{}, ErrNotFound
	}
	return copyEvaluator(e), nil
}

// PutEvaluator inserts or overwrites an evaluator.
func (m *MemStore) PutEvaluator(_ context.Context, e model.Evaluator) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evaluators[e.ID] = copyEvaluator(e)
	return nil
}

// GetPosterBoard returns the assignment for a board id, or ErrNotFound.
func (m *MemStore) GetPosterBoard(_ context.Context, id string) (model.PosterBoard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.boards[id]
	if !ok {
		return model.PosterBoard{}, ErrNotFound
	}
	return b, nil
}

// PutPosterBoard inserts or overwrites a board assignment.
func (m *MemStore) PutPosterBoard(_ context.Context, b model.PosterBoard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.boards[b.ID]; !ok {
		m.boardOrder = append(m.boardOrder, b.ID)
	}
	m.boards[b.ID] = b
	return nil
}

// DeletePosterBoard removes a board assignment, or returns ErrNotFound.
func (m *MemStore) DeletePosterBoard(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.boards[id]; !ok {
		return ErrNotFound
	}
	delete(m.boards, id)
	m.boardOrder = removeID(m.boardOrder, id)
	return nil
}

// ListPosterBoards returns all board assignments in insertion order.
func (m *MemStore) ListPosterBoards(_ context.Context) ([]model.PosterBoard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.PosterBoard, 0, len(m.boardOrder))
	for _, id := range m.boardOrder {
		out = append(out, m.boards[id])
	}
	return out, nil
}

// AppendAward appends a computed award.
func (m *MemStore) AppendAward(_ context.Context, a model.Award) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.awards = append(m.awards, a)
	return nil
}

// ListAwards returns all persisted awards in append order.
func (m *MemStore) ListAwards(_ context.Context) ([]model.Award, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Award, len(m.awards))
	copy(out, m.awards)
	return out, nil
}

// ClearAwards discards all persisted awards.
func (m *MemStore) ClearAwards(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.awards = nil
	return nil
}

// copySession deep-copies the participant slices so callers cannot alias
// stored state.
func copySession(s model.Session) model.Session {
	s.PresenterIDs = append([]string(nil), s.PresenterIDs...)
	s.EvaluatorIDs = append([]string(nil), s.EvaluatorIDs...)
	return s
}

func copyEvaluator(e model.Evaluator) model.Evaluator {
	e.SessionIDs = append([]string(nil), e.SessionIDs...)
	return e
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
