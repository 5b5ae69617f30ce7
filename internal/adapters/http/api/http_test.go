package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/lectio/aula/internal/adapters/http/api"
	repository "github.com/lectio/aula/internal/adapters/repository"
	"github.com/lectio/aula/internal/app/award"
	"github.com/lectio/aula/internal/app/board"
	"github.com/lectio/aula/internal/app/evaluation"
	"github.com/lectio/aula/internal/app/schedule"
	"github.com/lectio/aula/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// newTestServer wires the full handler stack over a fresh in-memory store.
func newTestServer() (*httptest.Server, repository.Store) {
	store := repository.NewMemStore()
	evaluations := evaluation.New(store)
	srv := api.NewServer(
		schedule.New(store),
		evaluations,
		board.New(store, board.WithBoardSpace("B", 5)),
		award.New(store, evaluations),
	)
	mux := http.NewServeMux()
	srv.Register(mux)
	return httptest.NewServer(mux), store
}

func doJSON(method, url, body string) (*http.Response, map[string]any, error) {
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return resp, nil, nil
	}
	return resp, decoded, nil
}

func TestHealthEndpoint(t *testing.T) {
	Convey("Given a running API server", t, func() {
		ts, _ := newTestServer()
		defer ts.Close()

		Convey("Then the health endpoint responds ok", func() {
			resp, body, err := doJSON(http.MethodGet, ts.URL+"/healthz", "")
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["status"], ShouldEqual, "ok")
		})
	})
}

func TestSessionEndpoints(t *testing.T) {
	ctx := context.Background()

	Convey("Given a running API server with participants", t, func() {
		ts, store := newTestServer()
		defer ts.Close()
		So(store.PutPresenter(ctx, model.Presenter{ID: "p1", Name: "Ada", Category: model.CategoryOral}), ShouldBeNil)
		So(store.PutEvaluator(ctx, model.Evaluator{ID: "e1", Name: "Prof. Okafor"}), ShouldBeNil)

		Convey("When creating a session", func() {
			resp, body, err := doJSON(http.MethodPost, ts.URL+"/sessions",
				`{"date":"2026-06-10","venue":"Auditorium A","category":"oral"}`)
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusCreated)
			So(body["id"], ShouldNotBeBlank)
			So(body["date"], ShouldEqual, "2026-06-10")
			sessionID := body["id"].(string)

			Convey("Then it appears in the session listing", func() {
				resp, _, err := doJSON(http.MethodGet, ts.URL+"/sessions", "")
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})

			Convey("And it is readable by id", func() {
				resp, body, err := doJSON(http.MethodGet, ts.URL+"/sessions/"+sessionID, "")
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["venue"], ShouldEqual, "Auditorium A")
			})

			Convey("And a presenter can be assigned through the subresource", func() {
				resp, _, err := doJSON(http.MethodPost,
					fmt.Sprintf("%s/sessions/%s/presenters/p1", ts.URL, sessionID), "")
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusNoContent)

				Convey("And a same-date session rejects the double booking", func() {
					_, clash, err := doJSON(http.MethodPost, ts.URL+"/sessions",
						`{"date":"2026-06-10","venue":"Auditorium B","category":"oral"}`)
					So(err, ShouldBeNil)

					resp, body, err := doJSON(http.MethodPost,
						fmt.Sprintf("%s/sessions/%s/presenters/p1", ts.URL, clash["id"].(string)), "")
					So(err, ShouldBeNil)
					So(resp.StatusCode, ShouldEqual, http.StatusConflict)
					So(body["code"], ShouldEqual, "conflict")
				})

				Convey("And the presenter can be removed again", func() {
					resp, _, err := doJSON(http.MethodDelete,
						fmt.Sprintf("%s/sessions/%s/presenters/p1", ts.URL, sessionID), "")
					So(err, ShouldBeNil)
					So(resp.StatusCode, ShouldEqual, http.StatusNoContent)
				})
			})

			Convey("And an evaluator can be assigned", func() {
				resp, _, err := doJSON(http.MethodPost,
					fmt.Sprintf("%s/sessions/%s/evaluators/e1", ts.URL, sessionID), "")
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusNoContent)
			})

			Convey("And the session can be updated and deleted", func() {
				resp, body, err := doJSON(http.MethodPut, ts.URL+"/sessions/"+sessionID,
					`{"date":"2026-06-12","venue":"Annex","category":"oral"}`)
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["venue"], ShouldEqual, "Annex")

				resp, _, err = doJSON(http.MethodDelete, ts.URL+"/sessions/"+sessionID, "")
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusNoContent)

				resp, _, err = doJSON(http.MethodGet, ts.URL+"/sessions/"+sessionID, "")
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When creating with a malformed date", func() {
			resp, body, err := doJSON(http.MethodPost, ts.URL+"/sessions",
				`{"date":"June 10th","venue":"Hall","category":"oral"}`)
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["code"], ShouldEqual, "invalid_input")
		})

		Convey("When creating with an unknown category", func() {
			resp, _, err := doJSON(http.MethodPost, ts.URL+"/sessions",
				`{"date":"2026-06-10","venue":"Hall","category":"recital"}`)
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestEvaluationEndpoints(t *testing.T) {
	Convey("Given a running API server", t, func() {
		ts, _ := newTestServer()
		defer ts.Close()

		submitBody := `{"presenter_id":"p1","evaluator_id":"e1","session_id":"s1",
			"scores":{"content":7,"organization":8,"delivery":6,"engagement":9},
			"comment":"solid work"}`

		Convey("When submitting an evaluation", func() {
			resp, body, err := doJSON(http.MethodPost, ts.URL+"/evaluations", submitBody)
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["total"], ShouldEqual, 30)
			firstID := body["id"].(string)

			Convey("Then resubmitting replaces the record in place", func() {
				revised := strings.Replace(submitBody, `"content":7`, `"content":10`, 1)
				resp, body, err := doJSON(http.MethodPost, ts.URL+"/evaluations", revised)
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["id"], ShouldEqual, firstID)
				So(body["total"], ShouldEqual, 33)
			})

			Convey("And the presenter's average reflects the totals", func() {
				resp, body, err := doJSON(http.MethodGet, ts.URL+"/presenters/p1/average", "")
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["average"], ShouldEqual, 30)
			})

			Convey("And evaluations can be queried by filter", func() {
				resp, _, err := doJSON(http.MethodGet, ts.URL+"/evaluations?presenter=p1", "")
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				resp, _, err = doJSON(http.MethodGet, ts.URL+"/evaluations?evaluator=e1", "")
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})

			Convey("And a filterless query is rejected", func() {
				resp, _, err := doJSON(http.MethodGet, ts.URL+"/evaluations", "")
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When submitting out-of-range scores", func() {
			bad := strings.Replace(submitBody, `"delivery":6`, `"delivery":11`, 1)
			resp, body, err := doJSON(http.MethodPost, ts.URL+"/evaluations", bad)
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["code"], ShouldEqual, "invalid_input")
			So(body["message"], ShouldContainSubstring, "scores.delivery")
		})
	})
}

func TestBoardEndpoints(t *testing.T) {
	Convey("Given a running API server with a small board space", t, func() {
		ts, _ := newTestServer()
		defer ts.Close()

		Convey("When listing the free boards", func() {
			resp, body, err := doJSON(http.MethodGet, ts.URL+"/boards", "")
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(len(body["available"].([]any)), ShouldEqual, 5)
		})

		Convey("When assigning a board", func() {
			resp, _, err := doJSON(http.MethodPost, ts.URL+"/boards/B002",
				`{"presenter_id":"p1","session_id":"s1"}`)
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusNoContent)

			Convey("Then the board leaves the free list", func() {
				_, body, err := doJSON(http.MethodGet, ts.URL+"/boards", "")
				So(err, ShouldBeNil)
				So(len(body["available"].([]any)), ShouldEqual, 4)
			})

			Convey("And a second claim is rejected with the occupant", func() {
				resp, body, err := doJSON(http.MethodPost, ts.URL+"/boards/B002",
					`{"presenter_id":"p2","session_id":"s1"}`)
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusConflict)
				So(body["message"], ShouldContainSubstring, "p1")
			})

			Convey("And unassigning frees it again", func() {
				resp, _, err := doJSON(http.MethodDelete, ts.URL+"/boards/B002", "")
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusNoContent)

				_, body, err := doJSON(http.MethodGet, ts.URL+"/boards", "")
				So(err, ShouldBeNil)
				So(len(body["available"].([]any)), ShouldEqual, 5)
			})
		})
	})
}

func TestAwardEndpoints(t *testing.T) {
	ctx := context.Background()

	Convey("Given a server with evaluated presenters", t, func() {
		ts, store := newTestServer()
		defer ts.Close()

		So(store.PutPresenter(ctx, model.Presenter{ID: "p1", Name: "Ada", Category: model.CategoryOral}), ShouldBeNil)
		So(store.PutPresenter(ctx, model.Presenter{ID: "p2", Name: "Bruno", Category: model.CategoryPoster}), ShouldBeNil)

		submit := func(presenterID string) {
			body := fmt.Sprintf(`{"presenter_id":%q,"evaluator_id":"e1","session_id":"s1",
				"scores":{"content":7,"organization":8,"delivery":6,"engagement":9}}`, presenterID)
			resp, _, err := doJSON(http.MethodPost, ts.URL+"/evaluations", body)
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		}
		submit("p1")
		submit("p2")

		Convey("When generating the agenda with votes", func() {
			resp, _, err := doJSON(http.MethodPost, ts.URL+"/agenda",
				`{"votes":[{"presenter_id":"p1","votes":3},{"presenter_id":"p2","votes":8}]}`)
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			Convey("Then the awards listing has all three kinds", func() {
				req, err := http.NewRequest(http.MethodGet, ts.URL+"/awards", nil)
				So(err, ShouldBeNil)
				resp, err := http.DefaultClient.Do(req)
				So(err, ShouldBeNil)
				defer resp.Body.Close()

				var awards []map[string]any
				So(json.NewDecoder(resp.Body).Decode(&awards), ShouldBeNil)
				So(len(awards), ShouldEqual, 3)
				So(awards[0]["kind"], ShouldEqual, "best_oral")
				So(awards[1]["kind"], ShouldEqual, "best_poster")
				So(awards[2]["kind"], ShouldEqual, "peoples_choice")
				So(awards[2]["presenter_id"], ShouldEqual, "p2")
			})

			Convey("And clearing empties the listing", func() {
				resp, _, err := doJSON(http.MethodDelete, ts.URL+"/awards", "")
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusNoContent)
			})
		})

		Convey("When generating the agenda with no body", func() {
			resp, _, err := doJSON(http.MethodPost, ts.URL+"/agenda", "")
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})
	})
}
