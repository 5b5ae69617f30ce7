// Package demo seeds an in-memory store with a small seminar and drives the
// full pipeline end to end: scheduling, assignment, evaluation, poster
// boards, and award generation. It is a smoke-test harness, not part of the
// serving path.
package demo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lectio/aula/internal/adapters/repository"
	"github.com/lectio/aula/internal/app/award"
	"github.com/lectio/aula/internal/app/board"
	"github.com/lectio/aula/internal/app/evaluation"
	"github.com/lectio/aula/internal/app/schedule"
	"github.com/lectio/aula/internal/domain/fault"
	"github.com/lectio/aula/internal/domain/model"
	"github.com/lectio/aula/internal/domain/rubric"
	"github.com/lectio/aula/pkg/logger"
)

// Config controls the size of the seeded seminar.
type Config struct {
	Presenters int
	Evaluators int
}

// Stats collects counters for the final report.
type Stats struct {
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
	SessionsCreated    int
	Assignments        int
	ConflictsRejected  int
	EvaluationsWritten int
	BoardsAssigned     int
	AwardsComputed     int
}

// Run executes the complete demo against a fresh in-memory store.
func Run(ctx context.Context, cfg *Config) error {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("demo")

	log.Info(ctx, "starting seminar demo",
		logger.Int("presenters", cfg.Presenters),
		logger.Int("evaluators", cfg.Evaluators))

	store := repository.NewMemStore()
	scheduleSvc := schedule.New(store, schedule.WithLogger(log))
	evaluationSvc := evaluation.New(store, evaluation.WithLogger(log))
	boardSvc := board.New(store, board.WithLogger(log))
	awardSvc := award.New(store, evaluationSvc, award.WithLogger(log))

	// Step 1: Seed presenters and evaluators.
	presenters, evaluators, err := seedParticipants(ctx, store, cfg)
	if err != nil {
		return fmt.Errorf("seeding participants failed: %w", err)
	}

	// Step 2: Create one oral and one poster session on consecutive days.
	sessions, err := createSessions(ctx, scheduleSvc, stats)
	if err != nil {
		return fmt.Errorf("session creation failed: %w", err)
	}

	// Step 3: Assign participants, demonstrating the date-conflict rule.
	if err := assignParticipants(ctx, scheduleSvc, sessions, presenters, evaluators, stats); err != nil {
		return fmt.Errorf("assignment failed: %w", err)
	}

	// Step 4: Submit evaluations, including one resubmission per presenter.
	if err := submitEvaluations(ctx, evaluationSvc, sessions, presenters, evaluators, stats); err != nil {
		return fmt.Errorf("evaluation submission failed: %w", err)
	}

	// Step 5: Assign poster boards to poster presenters.
	if err := assignBoards(ctx, boardSvc, sessions, presenters, stats); err != nil {
		return fmt.Errorf("board assignment failed: %w", err)
	}

	// Step 6: Generate the award agenda from scores and audience votes.
	if err := generateAgenda(ctx, awardSvc, presenters, stats); err != nil {
		return fmt.Errorf("agenda generation failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayStats(ctx, log, stats)
	return nil
}

func seedParticipants(ctx context.Context, store repository.Store, cfg *Config) ([]model.Presenter, []model.Evaluator, error) {
	now := time.Now().UTC()
	presenters := make([]model.Presenter, 0, cfg.Presenters)
	for i := 0; i < cfg.Presenters; i++ {
		category := model.CategoryOral
		if i%2 == 1 {
			category = model.CategoryPoster
		}
		p := model.Presenter{
			ID:        fmt.Sprintf("presenter-%03d", i+1),
			Name:      presenterName(i),
			Category:  category,
			Votes:     voteCount(i),
			CreatedAt: now,
		}
		if err := store.PutPresenter(ctx, p); err != nil {
			return nil, nil, err
		}
		presenters = append(presenters, p)
	}

	evaluators := make([]model.Evaluator, 0, cfg.Evaluators)
	for i := 0; i < cfg.Evaluators; i++ {
		e := model.Evaluator{
			ID:        fmt.Sprintf("evaluator-%03d", i+1),
			Name:      evaluatorName(i),
			CreatedAt: now,
		}
		if err := store.PutEvaluator(ctx, e); err != nil {
			return nil, nil, err
		}
		evaluators = append(evaluators, e)
	}
	return presenters, evaluators, nil
}

func createSessions(ctx context.Context, svc *schedule.Service, stats *Stats) ([]model.Session, error) {
	base := time.Now().UTC().AddDate(0, 0, 7).Truncate(24 * time.Hour)
	oral, err := svc.Create(ctx, base, "Auditorium A", model.CategoryOral)
	if err != nil {
		return nil, err
	}
	poster, err := svc.Create(ctx, base.AddDate(0, 0, 1), "Exhibition Hall", model.CategoryPoster)
	if err != nil {
		return nil, err
	}
	// A second oral session on the same date as the first, so presenter
	// reassignment attempts trip the booking rule.
	clash, err := svc.Create(ctx, base, "Auditorium B", model.CategoryOral)
	if err != nil {
		return nil, err
	}
	stats.SessionsCreated = 3
	return []model.Session{oral, poster, clash}, nil
}

func assignParticipants(ctx context.Context, svc *schedule.Service, sessions []model.Session, presenters []model.Presenter, evaluators []model.Evaluator, stats *Stats) error {
	oral, poster, clash := sessions[0], sessions[1], sessions[2]

	for _, p := range presenters {
		target := oral
		if p.Category == model.CategoryPoster {
			target = poster
		}
		if err := svc.AssignPresenter(ctx, target.ID, p.ID); err != nil {
			return err
		}
		stats.Assignments++
	}

	// Every oral presenter is already booked on the clash date, so these
	// attempts must all be rejected.
	for _, p := range presenters {
		if p.Category != model.CategoryOral {
			continue
		}
		err := svc.AssignPresenter(ctx, clash.ID, p.ID)
		switch {
		case err == nil:
			return fmt.Errorf("presenter %s double-booked on %s", p.ID, model.DayKey(clash.Date))
		case isConflict(err):
			stats.ConflictsRejected++
		default:
			return err
		}
	}

	// Evaluators split across the two dates.
	for i, e := range evaluators {
		target := oral
		if i%2 == 1 {
			target = poster
		}
		if err := svc.AssignEvaluator(ctx, target.ID, e.ID); err != nil {
			return err
		}
		stats.Assignments++
	}
	return nil
}

func submitEvaluations(ctx context.Context, svc *evaluation.Service, sessions []model.Session, presenters []model.Presenter, evaluators []model.Evaluator, stats *Stats) error {
	if len(evaluators) == 0 {
		return nil
	}
	for i, p := range presenters {
		sessionID := sessions[0].ID
		if p.Category == model.CategoryPoster {
			sessionID = sessions[1].ID
		}
		evaluator := evaluators[i%len(evaluators)]
		sub := evaluation.Submission{
			PresenterID: p.ID,
			EvaluatorID: evaluator.ID,
			SessionID:   sessionID,
			Scores:      scoresFor(i),
			Comment:     "initial pass",
		}
		first, err := svc.Submit(ctx, sub)
		if err != nil {
			return err
		}

		// Resubmit with revised scores; the record must be replaced, not
		// duplicated.
		sub.Scores = scoresFor(i + 1)
		sub.Comment = "revised after discussion"
		second, err := svc.Submit(ctx, sub)
		if err != nil {
			return err
		}
		if second.ID != first.ID {
			return fmt.Errorf("resubmission created a new record for presenter %s", p.ID)
		}
		stats.EvaluationsWritten++
	}
	return nil
}

func assignBoards(ctx context.Context, svc *board.Service, sessions []model.Session, presenters []model.Presenter, stats *Stats) error {
	boards, err := svc.Available(ctx)
	if err != nil {
		return err
	}
	next := 0
	for _, p := range presenters {
		if p.Category != model.CategoryPoster {
			continue
		}
		if next >= len(boards) {
			return errors.New("ran out of poster boards")
		}
		if err := svc.Assign(ctx, boards[next], p.ID, sessions[1].ID); err != nil {
			return err
		}
		next++
		stats.BoardsAssigned++
	}

	// A second claim on an occupied board must be rejected.
	if stats.BoardsAssigned > 0 {
		err := svc.Assign(ctx, boards[0], "presenter-interloper", sessions[1].ID)
		if err == nil {
			return errors.New("occupied board was reassigned")
		}
		if !isConflict(err) {
			return err
		}
	}
	return nil
}

func generateAgenda(ctx context.Context, svc *award.Service, presenters []model.Presenter, stats *Stats) error {
	votes := make([]model.VoteTally, 0, len(presenters))
	for _, p := range presenters {
		votes = append(votes, model.VoteTally{PresenterID: p.ID, Votes: p.Votes})
	}
	agenda, err := svc.GenerateAgenda(ctx, votes)
	if err != nil {
		return err
	}
	stats.AwardsComputed = len(agenda)
	return nil
}

func displayStats(ctx context.Context, log logger.Logger, stats *Stats) {
	log.Info(ctx, "demo complete",
		logger.String("duration", stats.Duration.String()),
		logger.Int("sessions", stats.SessionsCreated),
		logger.Int("assignments", stats.Assignments),
		logger.Int("conflictsRejected", stats.ConflictsRejected),
		logger.Int("evaluations", stats.EvaluationsWritten),
		logger.Int("boards", stats.BoardsAssigned),
		logger.Int("awards", stats.AwardsComputed))
}

// isConflict reports whether err is a booking or occupancy conflict.
func isConflict(err error) bool {
	return errors.Is(err, fault.ErrConflict)
}

var presenterNames = []string{
	"Ada Calloway", "Bruno Marques", "Chen Wei", "Daria Novak",
	"Elif Demir", "Farid Haddad", "Greta Lindqvist", "Hiro Tanaka",
}

var evaluatorNames = []string{
	"Prof. Okafor", "Dr. Silveira", "Prof. Janssen", "Dr. Moreau",
}

func presenterName(i int) string {
	return presenterNames[i%len(presenterNames)]
}

func evaluatorName(i int) string {
	return evaluatorNames[i%len(evaluatorNames)]
}

// voteCount spreads audience votes so the people's choice award has a
// strict winner.
func voteCount(i int) int {
	return 3 + (i*7)%11
}

// scoresFor produces valid rubric scores that vary across presenters.
func scoresFor(i int) rubric.Scores {
	clamp := func(v int) int {
		if v < rubric.MinScore {
			return rubric.MinScore
		}
		if v > rubric.MaxScore {
			return rubric.MaxScore
		}
		return v
	}
	return rubric.Scores{
		Content:      clamp(5 + i%5),
		Organization: clamp(4 + i%6),
		Delivery:     clamp(6 + i%4),
		Engagement:   clamp(3 + i%7),
	}
}
