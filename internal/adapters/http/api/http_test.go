package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aadsidhu-design/flexa-sub004/internal/adapters/http/api"
	repository "github.com/aadsidhu-design/flexa-sub004/internal/adapters/repository"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDependencies struct {
	summaries map[string]model.SessionSummary
	order     []string
	listErr   error
}

func (m *mockDependencies) Summary(ctx context.Context, sessionID string) (model.SessionSummary, error) {
	s, ok := m.summaries[sessionID]
	if !ok {
		return model.SessionSummary{}, repository.ErrNotFound
	}
	return s, nil
}

func (m *mockDependencies) Summaries(ctx context.Context, limit int) ([]model.SessionSummary, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.SessionSummary, 0, limit)
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.summaries[m.order[i]])
	}
	return out, nil
}

func (m *mockDependencies) add(s model.SessionSummary) {
	if m.summaries == nil {
		m.summaries = make(map[string]model.SessionSummary)
	}
	m.summaries[s.SessionID] = s
	m.order = append(m.order, s.SessionID)
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newTestMux(deps *mockDependencies) *http.ServeMux {
	statsProvider := &mockStatsProvider{stats: map[string]interface{}{
		"started":        true,
		"activeSessions": 2,
	}}
	server := api.NewServer(deps, statsProvider)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDependencies{}
		mux := newTestMux(deps)

		Convey("Then the health endpoint responds", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "ok")
		})

		Convey("And the metrics endpoint responds", func() {
			req := httptest.NewRequest("GET", "/metrics", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("And the stats endpoint returns the provider's stats", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)

			var stats map[string]interface{}
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["started"], ShouldEqual, true)
		})
	})
}

func TestListSessions(t *testing.T) {
	Convey("Given stored session summaries", t, func() {
		deps := &mockDependencies{}
		deps.add(model.SessionSummary{SessionID: "s1", Detector: model.KindPendulum, RepCount: 3})
		deps.add(model.SessionSummary{SessionID: "s2", Detector: model.KindCircular, RepCount: 7})
		mux := newTestMux(deps)

		Convey("When listing sessions", func() {
			req := httptest.NewRequest("GET", "/sessions", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then all summaries return, most recent first", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var got []model.SessionSummary
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(len(got), ShouldEqual, 2)
				So(got[0].SessionID, ShouldEqual, "s2")
				So(got[1].SessionID, ShouldEqual, "s1")
			})
		})

		Convey("When listing with an explicit limit", func() {
			req := httptest.NewRequest("GET", "/sessions?limit=1", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the limit applies", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var got []model.SessionSummary
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(len(got), ShouldEqual, 1)
			})
		})

		Convey("When the limit is not a positive integer", func() {
			for _, raw := range []string{"0", "-3", "abc"} {
				req := httptest.NewRequest("GET", "/sessions?limit="+raw, nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When using a non-GET method", func() {
			req := httptest.NewRequest("POST", "/sessions", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestGetSummary(t *testing.T) {
	Convey("Given a stored session summary", t, func() {
		deps := &mockDependencies{}
		deps.add(model.SessionSummary{
			SessionID:         "abc-123",
			Detector:          model.KindPendulum,
			RepCount:          5,
			ROMPerRep:         []float64{40, 42, 44, 41, 43},
			AverageSmoothness: 82.5,
		})
		mux := newTestMux(deps)

		Convey("When fetching the summary", func() {
			req := httptest.NewRequest("GET", "/sessions/abc-123/summary", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the full summary returns", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var got model.SessionSummary
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got.SessionID, ShouldEqual, "abc-123")
				So(got.RepCount, ShouldEqual, 5)
				So(len(got.ROMPerRep), ShouldEqual, 5)
				So(got.AverageSmoothness, ShouldEqual, 82.5)
			})
		})

		Convey("When the session does not exist", func() {
			req := httptest.NewRequest("GET", "/sessions/nope/summary", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then a 404 with an error body returns", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(w.Body.String(), ShouldContainSubstring, "not_found")
			})
		})

		Convey("When the path is malformed", func() {
			for _, path := range []string{"/sessions/abc-123", "/sessions/abc-123/rom"} {
				req := httptest.NewRequest("GET", path, nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusBadRequest)
			}
		})
	})
}
