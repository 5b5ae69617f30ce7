// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/lectio/aula/internal/domain/rubric"
)

// Category classifies a presenter and the sessions it may be scheduled in.
type Category string

// Presentation categories.
const (
	CategoryOral   Category = "oral"
	CategoryPoster Category = "poster"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c == CategoryOral || c == CategoryPoster
}

// AwardKind tags a computed award.
type AwardKind string

// Award kinds produced by the award service.
const (
	AwardBestOral      AwardKind = "best_oral"
	AwardBestPoster    AwardKind = "best_poster"
	AwardPeoplesChoice AwardKind = "peoples_choice"
)

// Presenter is a registered seminar presenter. The ID is a stable domain
// identifier, distinct from any login identity, assigned once at
// registration and never reused.
type Presenter struct {
	ID        string
	Name      string
	Category  Category
	Votes     int  // audience vote count, non-negative
	HasVoted  bool // whether this presenter has cast their own vote
	CreatedAt time.Time
}

// Evaluator is a registered rubric evaluator. SessionIDs is the
// assigned-session back-reference maintained by the schedule service on
// every assignment mutation; the session's evaluator set is the source
// of truth.
type Evaluator struct {
	ID         string
	Name       string
	SessionIDs []string
	CreatedAt  time.Time
}

// AssignedTo reports whether the evaluator carries the session back-reference.
func (e Evaluator) AssignedTo(sessionID string) bool {
	for _, id := range e.SessionIDs {
		if id == sessionID {
			return true
		}
	}
	return false
}

// Session is a scheduled seminar slot. Presenter and evaluator sets are
// unordered and duplicate-free; every presenter in the set must belong to
// the session's category.
type Session struct {
	ID           string
	Date         time.Time // calendar date; sessions carry no time of day
	Venue        string
	Category     Category
	PresenterIDs []string
	EvaluatorIDs []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPresenter reports whether id is in the session's presenter set.
func (s Session) HasPresenter(id string) bool { return contains(s.PresenterIDs, id) }

// HasEvaluator reports whether id is in the session's evaluator set.
func (s Session) HasEvaluator(id string) bool { return contains(s.EvaluatorIDs, id) }

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Evaluation is one evaluator's rubric scores for one presenter. At most
// one evaluation exists per (EvaluatorID, PresenterID) pair; resubmission
// overwrites the stored record under the same ID.
type Evaluation struct {
	ID          string
	PresenterID string
	EvaluatorID string
	SessionID   string
	Scores      rubric.Scores
	Comment     string
	CreatedAt   time.Time
}

// PosterBoard assigns a physical board to a presenter for a session.
// A board ID maps to at most one presenter at a time.
type PosterBoard struct {
	ID          string // e.g. "B007", from the bounded board space
	PresenterID string
	SessionID   string
	AssignedAt  time.Time
}

// Award names the highest-ranked presenter for a kind. Awards are derived
// state: cleared and regenerated at will, never authoritative.
type Award struct {
	ID          string
	Kind        AwardKind
	PresenterID string
	Score       float64 // average rubric total, or raw vote count
	CreatedAt   time.Time
}

// VoteTally is one presenter's vote count in an externally supplied tally.
// Tallies are ordered slices rather than maps so that the first-seen-wins
// tie policy of the award service stays deterministic.
type VoteTally struct {
	PresenterID string
	Votes       int
}

// DayKey reduces t to its calendar date in UTC, the granularity at which
// booking conflicts are checked.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// SameDay reports whether a and b fall on the same calendar date in UTC.
func SameDay(a, b time.Time) bool {
	return DayKey(a) == DayKey(b)
}
