package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRateLimit(t *testing.T) {
	Convey("Given a facade admitting one request per minute", t, func() {
		h := NewHandler(&fakeEngine{loggedIn: true}, ".filman.cc")
		h.Limiter = Limit(1, 1)
		router := NewRouter(h)

		do := func(method string) *httptest.ResponseRecorder {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(method, "/api/keep-alive", nil))
			return rec
		}

		Convey("The first request is served and the next one is turned away", func() {
			So(do(http.MethodGet).Code, ShouldEqual, http.StatusOK)

			rec := do(http.MethodGet)
			So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
			So(rec.Header().Get("Retry-After"), ShouldNotBeEmpty)
			So(rec.Body.String(), ShouldContainSubstring, "too many requests")
		})

		Convey("Preflights are not counted", func() {
			So(do(http.MethodOptions).Code, ShouldEqual, http.StatusOK)
			So(do(http.MethodGet).Code, ShouldEqual, http.StatusOK)
		})
	})

	Convey("A non-positive rate disables limiting", t, func() {
		So(Limit(0, 10), ShouldBeNil)
		So(Limit(-5, 10), ShouldBeNil)
		So(Limit(120, 0).Burst(), ShouldEqual, 1)
	})
}
