// Package conflict answers whether a participant is already booked on a
// calendar date, and serializes check-then-act sequences per conflict key.
package conflict

import (
	"context"
	"fmt"
	"time"

	"github.com/lectio/aula/internal/domain/model"
)

// SessionSource lists the sessions the registry scans. Satisfied by the
// repository Store.
type SessionSource interface {
	ListSessions(ctx context.Context) ([]model.Session, error)
}

// Registry performs the date-booking conflict scan. The participant id
// namespace is shared: an id booked as presenter or as evaluator anywhere
// on a date counts as booked. A linear scan is deliberate; the collection
// is tens to low hundreds of sessions.
type Registry struct {
	src SessionSource
}

// NewRegistry creates a Registry over the given session source.
func NewRegistry(src SessionSource) *Registry {
	return &Registry{src: src}
}

// Booked reports whether participantID already appears as presenter or
// evaluator in any session on the calendar date of date. The occupying
// session id is returned for conflict messages.
func (r *Registry) Booked(ctx context.Context, participantID string, date time.Time) (bool, string, error) {
	sessions, err := r.src.ListSessions(ctx)
	if err != nil {
		return false, "", fmt.Errorf("list sessions: %w", err)
	}
	for _, s := range sessions {
		if !model.SameDay(s.Date, date) {
			continue
		}
		if s.HasPresenter(participantID) || s.HasEvaluator(participantID) {
			return true, s.ID, nil
		}
	}
	return false, "", nil
}
