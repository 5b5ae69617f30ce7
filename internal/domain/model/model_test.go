package model_test

import (
	"testing"
	"time"

	model "github.com/lectio/aula/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCategory_Valid(t *testing.T) {
	Convey("Given the presentation categories", t, func() {
		Convey("Then the known categories are valid", func() {
			So(model.CategoryOral.Valid(), ShouldBeTrue)
			So(model.CategoryPoster.Valid(), ShouldBeTrue)
		})

		Convey("And anything else is rejected", func() {
			So(model.Category("").Valid(), ShouldBeFalse)
			So(model.Category("workshop").Valid(), ShouldBeFalse)
			So(model.Category("Oral").Valid(), ShouldBeFalse)
		})
	})
}

func TestDayKey(t *testing.T) {
	Convey("Given timestamps on the same calendar day", t, func() {
		morning := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
		evening := time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC)

		Convey("Then they share a day key", func() {
			So(model.DayKey(morning), ShouldEqual, "2026-03-14")
			So(model.DayKey(morning), ShouldEqual, model.DayKey(evening))
			So(model.SameDay(morning, evening), ShouldBeTrue)
		})
	})

	Convey("Given timestamps on different days", t, func() {
		a := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
		b := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

		Convey("Then the keys differ", func() {
			So(model.SameDay(a, b), ShouldBeFalse)
			So(model.DayKey(a), ShouldNotEqual, model.DayKey(b))
		})
	})

	Convey("Given the same instant in different zones", t, func() {
		zone := time.FixedZone("UTC+11", 11*3600)
		late := time.Date(2026, 3, 15, 1, 0, 0, 0, zone)
		utc := late.UTC()

		Convey("Then the key is computed in UTC", func() {
			So(model.DayKey(late), ShouldEqual, "2026-03-14")
			So(model.SameDay(late, utc), ShouldBeTrue)
		})
	})
}

func TestSession_Membership(t *testing.T) {
	Convey("Given a session with participants", t, func() {
		session := model.Session{
			ID:           "session-1",
			PresenterIDs: []string{"p1", "p2"},
			EvaluatorIDs: []string{"e1"},
		}

		Convey("Then membership checks match the participant sets", func() {
			So(session.HasPresenter("p1"), ShouldBeTrue)
			So(session.HasPresenter("e1"), ShouldBeFalse)
			So(session.HasEvaluator("e1"), ShouldBeTrue)
			So(session.HasEvaluator("p2"), ShouldBeFalse)
		})
	})
}

func TestEvaluator_AssignedTo(t *testing.T) {
	Convey("Given an evaluator with assignments", t, func() {
		evaluator := model.Evaluator{
			ID:         "e1",
			SessionIDs: []string{"session-1", "session-2"},
		}

		So(evaluator.AssignedTo("session-2"), ShouldBeTrue)
		So(evaluator.AssignedTo("session-9"), ShouldBeFalse)
	})
}
