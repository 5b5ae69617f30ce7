// Package postgres implements the repository Store on PostgreSQL via pgx.
// Insertion order, which the engine's tie-break contract depends on, is
// pinned by monotonic seq columns rather than map or index order.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lectio/aula/internal/adapters/repository"
	"github.com/lectio/aula/internal/domain/model"
	"github.com/lectio/aula/internal/domain/rubric"
)

// Store implements repository.Store over a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ repository.Store = (*Store)(nil)

// NewPool creates a pgx connection pool and verifies connectivity.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// New creates a Store over pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// GetSession returns the session with id, or repository.ErrNotFound.
func (s *Store) GetSession(ctx context.Context, id string) (model.Session, error) {
	var out model.Session
	err := s.pool.QueryRow(ctx,
		`SELECT id, date, venue, category, created_at, updated_at FROM sessions WHERE id = $1`, id,
	).Scan(&out.ID, &out.Date, &out.Venue, &out.Category, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Session{}, repository.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("get session: %w", err)
	}
	if out.PresenterIDs, err = s.memberIDs(ctx,
		`SELECT presenter_id FROM session_presenters WHERE session_id = $1 ORDER BY seq`, id); err != nil {
		return model.Session{}, err
	}
	if out.EvaluatorIDs, err = s.memberIDs(ctx,
		`SELECT evaluator_id FROM session_evaluators WHERE session_id = $1 ORDER BY seq`, id); err != nil {
		return model.Session{}, err
	}
	return out, nil
}

// PutSession upserts a session row and replaces its membership rows in one
// transaction, so readers never observe a half-written participant set.
func (s *Store) PutSession(ctx context.Context, session model.Session) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO sessions (id, date, venue, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET date = EXCLUDED.date, venue = EXCLUDED.venue,
		    category = EXCLUDED.category, updated_at = EXCLUDED.updated_at`,
		session.ID, session.Date, session.Venue, string(session.Category),
		session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	if err := replaceMembers(ctx, tx, "session_presenters", "presenter_id", session.ID, session.PresenterIDs); err != nil {
		return err
	}
	if err := replaceMembers(ctx, tx, "session_evaluators", "evaluator_id", session.ID, session.EvaluatorIDs); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// DeleteSession removes the session row; membership rows cascade.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListSessions returns all sessions in insertion order.
func (s *Store) ListSessions(ctx context.Context) ([]model.Session, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, date, venue, category, created_at, updated_at FROM sessions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []model.Session
	for rows.Next() {
		var sess model.Session
		if err := rows.Scan(&sess.ID, &sess.Date, &sess.Venue, &sess.Category,
			&sess.CreatedAt, &sess.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	for i := range out {
		if out[i].PresenterIDs, err = s.memberIDs(ctx,
			`SELECT presenter_id FROM session_presenters WHERE session_id = $1 ORDER BY seq`, out[i].ID); err != nil {
			return nil, err
		}
		if out[i].EvaluatorIDs, err = s.memberIDs(ctx,
			`SELECT evaluator_id FROM session_evaluators WHERE session_id = $1 ORDER BY seq`, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// GetEvaluation returns the evaluation with id, or repository.ErrNotFound.
func (s *Store) GetEvaluation(ctx context.Context, id string) (model.Evaluation, error) {
	out, err := scanEvaluation(s.pool.QueryRow(ctx, `
		SELECT id, presenter_id, evaluator_id, session_id,
		       content, organization, delivery, engagement, comment, created_at
		FROM evaluations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Evaluation{}, repository.ErrNotFound
		}
		return model.Evaluation{}, fmt.Errorf("get evaluation: %w", err)
	}
	return out, nil
}

// PutEvaluation upserts an evaluation by primary key.
func (s *Store) PutEvaluation(ctx context.Context, e model.Evaluation) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO evaluations
		  (id, presenter_id, evaluator_id, session_id, content, organization, delivery, engagement, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE
		SET presenter_id = EXCLUDED.presenter_id, evaluator_id = EXCLUDED.evaluator_id,
		    session_id = EXCLUDED.session_id, content = EXCLUDED.content,
		    organization = EXCLUDED.organization, delivery = EXCLUDED.delivery,
		    engagement = EXCLUDED.engagement, comment = EXCLUDED.comment`,
		e.ID, e.PresenterID, e.EvaluatorID, e.SessionID,
		e.Scores.Content, e.Scores.Organization, e.Scores.Delivery, e.Scores.Engagement,
		e.Comment, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert evaluation: %w", err)
	}
	return nil
}

// DeleteEvaluation removes the evaluation with id, or repository.ErrNotFound.
func (s *Store) DeleteEvaluation(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM evaluations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete evaluation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListEvaluations returns all evaluations in insertion order.
func (s *Store) ListEvaluations(ctx context.Context) ([]model.Evaluation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, presenter_id, evaluator_id, session_id,
		       content, organization, delivery, engagement, comment, created_at
		FROM evaluations ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()

	var out []model.Evaluation
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	return out, nil
}

// GetPresenter returns the presenter with id, or repository.ErrNotFound.
func (s *Store) GetPresenter(ctx context.Context, id string) (model.Presenter, error) {
	var out model.Presenter
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, category, votes, has_voted, created_at FROM presenters WHERE id = $1`, id,
	).Scan(&out.ID, &out.Name, &out.Category, &out.Votes, &out.HasVoted, &out.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Presenter{}, repository.ErrNotFound
		}
		return model.Presenter{}, fmt.Errorf("get presenter: %w", err)
	}
	return out, nil
}

// PutPresenter upserts a presenter.
func (s *Store) PutPresenter(ctx context.Context, p model.Presenter) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO presenters (id, name, category, votes, has_voted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, category = EXCLUDED.category,
		    votes = EXCLUDED.votes, has_voted = EXCLUDED.has_voted`,
		p.ID, p.Name, string(p.Category), p.Votes, p.HasVoted, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert presenter: %w", err)
	}
	return nil
}

// ListPresenters returns all presenters in insertion order.
func (s *Store) ListPresenters(ctx context.Context) ([]model.Presenter, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, category, votes, has_voted, created_at FROM presenters ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list presenters: %w", err)
	}
	defer rows.Close()

	var out []model.Presenter
	for rows.Next() {
		var p model.Presenter
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Votes, &p.HasVoted, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan presenter: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list presenters: %w", err)
	}
	return out, nil
}

// GetEvaluator returns the evaluator with id, or repository.ErrNotFound.
func (s *Store) GetEvaluator(ctx context.Context, id string) (model.Evaluator, error) {
	var out model.Evaluator
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM evaluators WHERE id = $1`, id,
	).Scan(&out.ID, &out.Name, &out.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Evaluator{}, repository.ErrNotFound
		}
		return model.Evaluator{}, fmt.Errorf("get evaluator: %w", err)
	}
	if out.SessionIDs, err = s.memberIDs(ctx,
		`SELECT session_id FROM evaluator_sessions WHERE evaluator_id = $1 ORDER BY seq`, id); err != nil {
		return model.Evaluator{}, err
	}
	return out, nil
}

// PutEvaluator upserts an evaluator and replaces its assigned-session rows.
func (s *Store) PutEvaluator(ctx context.Context, e model.Evaluator) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO evaluators (id, name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`,
		e.ID, e.Name, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert evaluator: %w", err)
	}
	if err := replaceMembers(ctx, tx, "evaluator_sessions", "session_id", e.ID, e.SessionIDs); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetPosterBoard returns the board assignment, or repository.ErrNotFound.
func (s *Store) GetPosterBoard(ctx context.Context, id string) (model.PosterBoard, error) {
	var out model.PosterBoard
	err := s.pool.QueryRow(ctx,
		`SELECT id, presenter_id, session_id, assigned_at FROM poster_boards WHERE id = $1`, id,
	).Scan(&out.ID, &out.PresenterID, &out.SessionID, &out.AssignedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PosterBoard{}, repository.ErrNotFound
		}
		return model.PosterBoard{}, fmt.Errorf("get poster board: %w", err)
	}
	return out, nil
}

// PutPosterBoard upserts a board assignment.
func (s *Store) PutPosterBoard(ctx context.Context, b model.PosterBoard) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO poster_boards (id, presenter_id, session_id, assigned_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET presenter_id = EXCLUDED.presenter_id, session_id = EXCLUDED.session_id,
		    assigned_at = EXCLUDED.assigned_at`,
		b.ID, b.PresenterID, b.SessionID, b.AssignedAt)
	if err != nil {
		return fmt.Errorf("upsert poster board: %w", err)
	}
	return nil
}

// DeletePosterBoard removes a board assignment, or repository.ErrNotFound.
func (s *Store) DeletePosterBoard(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM poster_boards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete poster board: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListPosterBoards returns all board assignments in insertion order.
func (s *Store) ListPosterBoards(ctx context.Context) ([]model.PosterBoard, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, presenter_id, session_id, assigned_at FROM poster_boards ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list poster boards: %w", err)
	}
	defer rows.Close()

	var out []model.PosterBoard
	for rows.Next() {
		var b model.PosterBoard
		if err := rows.Scan(&b.ID, &b.PresenterID, &b.SessionID, &b.AssignedAt); err != nil {
			return nil, fmt.Errorf("scan poster board: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list poster boards: %w", err)
	}
	return out, nil
}

// AppendAward appends a computed award.
func (s *Store) AppendAward(ctx context.Context, a model.Award) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO awards (id, kind, presenter_id, score, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		a.ID, string(a.Kind), a.PresenterID, a.Score, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("append award: %w", err)
	}
	return nil
}

// ListAwards returns all persisted awards in append order.
func (s *Store) ListAwards(ctx context.Context) ([]model.Award, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, kind, presenter_id, score, created_at FROM awards ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list awards: %w", err)
	}
	defer rows.Close()

	var out []model.Award
	for rows.Next() {
		var a model.Award
		if err := rows.Scan(&a.ID, &a.Kind, &a.PresenterID, &a.Score, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan award: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list awards: %w", err)
	}
	return out, nil
}

// ClearAwards discards all persisted awards.
func (s *Store) ClearAwards(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM awards`); err != nil {
		return fmt.Errorf("clear awards: %w", err)
	}
	return nil
}

func (s *Store) memberIDs(ctx context.Context, query, key string) ([]string, error) {
	rows, err := s.pool.Query(ctx, query, key)
	if err != nil {
		return nil, fmt.Errorf("member ids: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan member id: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("member ids: %w", err)
	}
	return out, nil
}

// replaceMembers rewrites the membership rows for an owner id. Simple
// delete-and-insert is fine at this scale and keeps ordering via seq.
func replaceMembers(ctx context.Context, tx pgx.Tx, table, column, ownerID string, ids []string) error {
	owner := "session_id"
	if table == "evaluator_sessions" {
		owner = "evaluator_id"
	}
	if _, err := tx.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, owner), ownerID); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	for _, id := range ids {
		if _, err := tx.Exec(ctx,
			fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`, table, owner, column), ownerID, id); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvaluation(row rowScanner) (model.Evaluation, error) {
	var (
		e      model.Evaluation
		scores rubric.Scores
	)
	err := row.Scan(&e.ID, &e.PresenterID, &e.EvaluatorID, &e.SessionID,
		&scores.Content, &scores.Organization, &scores.Delivery, &scores.Engagement,
		&e.Comment, &e.CreatedAt)
	if err != nil {
		return model.Evaluation{}, err
	}
	e.Scores = scores
	return e, nil
}
