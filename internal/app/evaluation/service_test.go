package evaluation_test

import (
	"context"
	"errors"
	"testing"

	repository "github.com/lectio/aula/internal/adapters/repository"
	evaluation "github.com/lectio/aula/internal/app/evaluation"
	"github.com/lectio/aula/internal/domain/fault"
	"github.com/lectio/aula/internal/domain/rubric"
	. "github.com/smartystreets/goconvey/convey"
)

func validSubmission() evaluation.Submission {
	return evaluation.Submission{
		PresenterID: "p1",
		EvaluatorID: "e1",
		SessionID:   "s1",
		Scores:      rubric.New(7, 8, 6, 9),
		Comment:     "well structured",
	}
}

func TestService_Submit(t *testing.T) {
	ctx := context.Background()

	Convey("Given an evaluation service", t, func() {
		store := repository.NewMemStore()
		svc := evaluation.New(store)

		Convey("When submitting a valid evaluation", func() {
			eval, err := svc.Submit(ctx, validSubmission())

			Convey("Then it is stored with a fresh identifier", func() {
				So(err, ShouldBeNil)
				So(eval.ID, ShouldNotBeBlank)
				So(eval.CreatedAt.IsZero(), ShouldBeFalse)
				So(eval.Scores.Total(), ShouldEqual, 30)
			})

			Convey("And resubmitting the same pair replaces the record", func() {
				sub := validSubmission()
				sub.Scores = rubric.New(9, 9, 9, 9)
				sub.Comment = "revised"

				updated, err := svc.Submit(ctx, sub)
				So(err, ShouldBeNil)
				So(updated.ID, ShouldEqual, eval.ID)
				So(updated.CreatedAt.Equal(eval.CreatedAt), ShouldBeTrue)
				So(updated.Scores.Total(), ShouldEqual, 36)

				all, err := store.ListEvaluations(ctx)
				So(err, ShouldBeNil)
				So(len(all), ShouldEqual, 1)
				So(all[0].Comment, ShouldEqual, "revised")
			})

			Convey("And a different evaluator for the same presenter inserts a second record", func() {
				sub := validSubmission()
				sub.EvaluatorID = "e2"

				other, err := svc.Submit(ctx, sub)
				So(err, ShouldBeNil)
				So(other.ID, ShouldNotEqual, eval.ID)

				all, err := store.ListEvaluations(ctx)
				So(err, ShouldBeNil)
				So(len(all), ShouldEqual, 2)
			})

			Convey("And the same evaluator for a different presenter inserts too", func() {
				sub := validSubmission()
				sub.PresenterID = "p2"

				_, err := svc.Submit(ctx, sub)
				So(err, ShouldBeNil)

				all, err := store.ListEvaluations(ctx)
				So(err, ShouldBeNil)
				So(len(all), ShouldEqual, 2)
			})
		})

		Convey("When submitting invalid input", func() {
			Convey("Then a blank presenter id is rejected with the field name", func() {
				sub := validSubmission()
				sub.PresenterID = ""
				_, err := svc.Submit(ctx, sub)
				So(errors.Is(err, fault.ErrValidation), ShouldBeTrue)

				var verr *fault.ValidationError
				So(errors.As(err, &verr), ShouldBeTrue)
				So(verr.Field, ShouldEqual, "presenterid")
			})

			Convey("And an out-of-range criterion score is rejected", func() {
				sub := validSubmission()
				sub.Scores.Delivery = 11
				_, err := svc.Submit(ctx, sub)
				So(errors.Is(err, fault.ErrValidation), ShouldBeTrue)

				var verr *fault.ValidationError
				So(errors.As(err, &verr), ShouldBeTrue)
				So(verr.Field, ShouldEqual, "scores.delivery")
				So(verr.Reason, ShouldContainSubstring, "between 1 and 10")
			})

			Convey("And a zero criterion score is rejected", func() {
				sub := validSubmission()
				sub.Scores.Content = 0
				_, err := svc.Submit(ctx, sub)
				So(errors.Is(err, fault.ErrValidation), ShouldBeTrue)
			})

			Convey("And nothing is stored on rejection", func() {
				sub := validSubmission()
				sub.SessionID = ""
				_, err := svc.Submit(ctx, sub)
				So(err, ShouldNotBeNil)

				all, err := store.ListEvaluations(ctx)
				So(err, ShouldBeNil)
				So(len(all), ShouldEqual, 0)
			})
		})
	})
}

func TestService_AverageScore(t *testing.T) {
	ctx := context.Background()

	Convey("Given evaluations from several evaluators", t, func() {
		store := repository.NewMemStore()
		svc := evaluation.New(store)

		submit := func(evaluatorID string, scores rubric.Scores) {
			sub := validSubmission()
			sub.EvaluatorID = evaluatorID
			sub.Scores = scores
			_, err := svc.Submit(ctx, sub)
			So(err, ShouldBeNil)
		}

		Convey("When no evaluations exist", func() {
			avg, err := svc.AverageScore(ctx, "p1")
			So(err, ShouldBeNil)
			So(avg, ShouldEqual, 0.0)
		})

		Convey("When three evaluators have scored the presenter", func() {
			submit("e1", rubric.New(7, 8, 6, 9))  // 30
			submit("e2", rubric.New(5, 5, 5, 5))  // 20
			submit("e3", rubric.New(10, 9, 8, 7)) // 34

			Convey("Then the average is the mean of the totals", func() {
				avg, err := svc.AverageScore(ctx, "p1")
				So(err, ShouldBeNil)
				So(avg, ShouldEqual, 28.0)
			})

			Convey("And a resubmission moves the average instead of diluting it", func() {
				submit("e2", rubric.New(10, 10, 10, 10)) // 20 -> 40

				avg, err := svc.AverageScore(ctx, "p1")
				So(err, ShouldBeNil)
				So(avg, ShouldAlmostEqual, (30.0+40.0+34.0)/3.0, 1e-9)
			})
		})
	})
}

func TestService_Queries(t *testing.T) {
	ctx := context.Background()

	Convey("Given a mixed set of evaluations", t, func() {
		store := repository.NewMemStore()
		svc := evaluation.New(store)

		pairs := []struct{ presenter, evaluator string }{
			{"p1", "e1"},
			{"p1", "e2"},
			{"p2", "e1"},
		}
		for _, pair := range pairs {
			sub := validSubmission()
			sub.PresenterID = pair.presenter
			sub.EvaluatorID = pair.evaluator
			_, err := svc.Submit(ctx, sub)
			So(err, ShouldBeNil)
		}

		Convey("Then ByPresenter filters to the presenter in submission order", func() {
			evals, err := svc.ByPresenter(ctx, "p1")
			So(err, ShouldBeNil)
			So(len(evals), ShouldEqual, 2)
			So(evals[0].EvaluatorID, ShouldEqual, "e1")
			So(evals[1].EvaluatorID, ShouldEqual, "e2")
		})

		Convey("And ByEvaluator filters to the evaluator", func() {
			evals, err := svc.ByEvaluator(ctx, "e1")
			So(err, ShouldBeNil)
			So(len(evals), ShouldEqual, 2)
		})

		Convey("And ByID reports not-found for unknown ids", func() {
			_, err := svc.ByID(ctx, "ghost")
			So(errors.Is(err, fault.ErrNotFound), ShouldBeTrue)
		})

		Convey("And ByID returns a stored record", func() {
			byPresenter, err := svc.ByPresenter(ctx, "p2")
			So(err, ShouldBeNil)
			So(len(byPresenter), ShouldEqual, 1)

			got, err := svc.ByID(ctx, byPresenter[0].ID)
			So(err, ShouldBeNil)
			So(got.EvaluatorID, ShouldEqual, "e1")
		})
	})
}
