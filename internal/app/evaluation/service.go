// Package evaluation provides the rubric evaluation service: validated
// submission with upsert-by-(evaluator, presenter) semantics and
// per-presenter score aggregation.
package evaluation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/lectio/aula/internal/adapters/repository"
	"github.com/lectio/aula/internal/domain/fault"
	"github.com/lectio/aula/internal/domain/model"
	"github.com/lectio/aula/internal/domain/rubric"
	"github.com/lectio/aula/pkg/logger"
	"github.com/lectio/aula/pkg/metrics"
)

// Submission is the validated input for Submit. Criterion score bounds are
// declared on rubric.Scores itself.
type Submission struct {
	PresenterID string        `validate:"required"`
	EvaluatorID string        `validate:"required"`
	SessionID   string        `validate:"required"`
	Scores      rubric.Scores `validate:"required"`
	Comment     string
}

// Service validates and stores rubric evaluations. All lookups are linear
// scans over the repository listing; the expected scale is tens to low
// hundreds of records.
type Service struct {
	store    repository.Store
	validate *validator.Validate
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

// New constructs an evaluation service over store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates sub and upserts it: if an evaluation by the same
// evaluator for the same presenter already exists, the stored record is
// overwritten under its original identifier and creation timestamp;
// otherwise a new record is inserted.
func (s *Service) Submit(ctx context.Context, sub Submission) (model.Evaluation, error) {
	if err := s.validateSubmission(sub); err != nil {
		return model.Evaluation{}, err
	}

	eval := model.Evaluation{
		PresenterID: sub.PresenterID,
		EvaluatorID: sub.EvaluatorID,
		SessionID:   sub.SessionID,
		Scores:      sub.Scores,
		Comment:     sub.Comment,
	}

	existing, found, err := s.byPair(ctx, sub.EvaluatorID, sub.PresenterID)
	if err != nil {
		return model.Evaluation{}, err
	}
	if found {
		eval.ID = existing.ID
		eval.CreatedAt = existing.CreatedAt
	} else {
		eval.ID = uuid.NewString()
		eval.CreatedAt = time.Now().UTC()
	}
	if err := s.store.PutEvaluation(ctx, eval); err != nil {
		return model.Evaluation{}, fmt.Errorf("put evaluation: %w", err)
	}

	metrics.RecordEvaluationSubmitted(found)
	if s.log != nil {
		s.log.Info(ctx, "evaluation submitted",
			logger.String("evaluation_id", eval.ID),
			logger.String("presenter_id", eval.PresenterID),
			logger.String("evaluator_id", eval.EvaluatorID),
			logger.Int("total", eval.Scores.Total()),
			logger.Any("updated", found))
	}
	return eval, nil
}

// AverageScore returns the arithmetic mean of Total() across every
// evaluation recorded for presenterID. No evaluations is a valid state and
// yields 0.0, not an error.
func (s *Service) AverageScore(ctx context.Context, presenterID string) (float64, error) {
	evals, err := s.ByPresenter(ctx, presenterID)
	if err != nil {
		return 0, err
	}
	if len(evals) == 0 {
		return 0, nil
	}
	sum := 0
	for _, e := range evals {
		sum += e.Scores.Total()
	}
	return float64(sum) / float64(len(evals)), nil
}

// ByPresenter returns all evaluations for a presenter in insertion order.
func (s *Service) ByPresenter(ctx context.Context, presenterID string) ([]model.Evaluation, error) {
	evals, err := s.store.ListEvaluations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	out := make([]model.Evaluation, 0, len(evals))
	for _, e := range evals {
		if e.PresenterID == presenterID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ByEvaluator returns all evaluations by an evaluator in insertion order.
func (s *Service) ByEvaluator(ctx context.Context, evaluatorID string) ([]model.Evaluation, error) {
	evals, err := s.store.ListEvaluations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	out := make([]model.Evaluation, 0, len(evals))
	for _, e := range evals {
		if e.EvaluatorID == evaluatorID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ByID returns a single evaluation by identifier.
func (s *Service) ByID(ctx context.Context, id string) (model.Evaluation, error) {
	eval, err := s.store.GetEvaluation(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Evaluation{}, fault.NewNotFound("evaluation", id)
		}
		return model.Evaluation{}, fmt.Errorf("get evaluation: %w", err)
	}
	return eval, nil
}

// byPair finds the evaluation for an (evaluator, presenter) pair, if any.
func (s *Service) byPair(ctx context.Context, evaluatorID, presenterID string) (model.Evaluation, bool, error) {
	evals, err := s.store.ListEvaluations(ctx)
	if err != nil {
		return model.Evaluation{}, false, fmt.Errorf("list evaluations: %w", err)
	}
	for _, e := range evals {
		if e.EvaluatorID == evaluatorID && e.PresenterID == presenterID {
			return e, true, nil
		}
	}
	return model.Evaluation{}, false, nil
}

// validateSubmission maps validator output onto the fault taxonomy, naming
// the first offending field.
func (s *Service) validateSubmission(sub Submission) error {
	err := s.validate.Struct(sub)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fault.NewValidation("submission", err.Error())
	}
	fe := verrs[0]
	field := fieldName(fe)
	switch fe.Tag() {
	case "required":
		return fault.NewValidation(field, "must be set")
	case "min", "max":
		return fault.NewValidation(field, fmt.Sprintf(
			"must be between %d and %d", rubric.MinScore, rubric.MaxScore))
	default:
		return fault.NewValidation(field, fe.Tag())
	}
}

// fieldName renders a validator namespace like
// "Submission.Scores.Delivery" as "scores.delivery".
func fieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return strings.ToLower(ns)
}
