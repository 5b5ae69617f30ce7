package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"

	metrics "github.com/lectio/aula/pkg/metrics"
)

func TestManager(t *testing.T) {
	Convey("Given a manager with a private registry", t, func() {
		registry := prometheus.NewRegistry()
		manager := metrics.NewManager(
			metrics.WithNamespace("aula_test"),
			metrics.WithRegistry(registry),
		)

		Convey("Then the registry is exposed for scraping", func() {
			So(manager.Registry(), ShouldEqual, registry)

			families, err := registry.Gather()
			So(err, ShouldBeNil)
			So(families, ShouldNotBeNil)
		})
	})

	Convey("Given the package-level recorders", t, func() {
		Convey("Then recording never panics", func() {
			So(func() {
				metrics.RecordSessionCreated()
				metrics.RecordAssignment("presenter")
				metrics.RecordAssignment("evaluator")
				metrics.RecordConflictRejected()
				metrics.RecordEvaluationSubmitted(false)
				metrics.RecordEvaluationSubmitted(true)
				metrics.RecordBoardAssigned()
				metrics.RecordAwardsComputed(3)
				metrics.RecordHTTPRequest("sessions", "POST", "201")
				metrics.RecordHTTPRequestDuration("sessions", "POST", "201", 4.2)
			}, ShouldNotPanic)
		})

		Convey("And the default registry gathers the recorded series", func() {
			families, err := metrics.GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
