package navigate

import (
	"errors"
	"testing"
	"time"

	"github.com/filmscout/filmscout/browser"
	"github.com/filmscout/filmscout/internal/fakesite"
	"github.com/filmscout/filmscout/source"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

type recorder struct {
	slept []time.Duration
}

func (r *recorder) timing() browser.Timing {
	t := browser.Instant()
	t.LoadDelay = time.Millisecond
	t.MovieDelay = 7 * time.Millisecond
	t.Sleep = func(d time.Duration) { r.slept = append(r.slept, d) }
	return t
}

func newNavigator(s *fakesite.Site, r *recorder) (*Navigator, browser.Handle) {
	h := lo.Must(s.Driver().Launch(browser.LaunchOptions{}))
	return New(browser.Fixed(h), r.timing(), fakesite.Base), h
}

func titles(results []*source.SearchResult) []string {
	return lo.Map(results, func(r *source.SearchResult, _ int) string { return r.Title })
}

func TestSearch(t *testing.T) {
	Convey("Given the fake catalog", t, func() {
		s := fakesite.New(fakesite.Catalog()...)
		r := &recorder{}
		nav, h := newNavigator(s, r)

		Convey("Search submits the query through the search form", func() {
			So(nav.Search("Breaking Bad"), ShouldBeNil)

			current := lo.Must(h.URL())
			So(current, ShouldContainSubstring, "/wyszukiwarka")
			So(current, ShouldContainSubstring, "phrase=Breaking+Bad")
			So(r.slept, ShouldResemble, []time.Duration{time.Millisecond, time.Millisecond})
		})

		Convey("A page without the search input is a recoverable failure", func() {
			s.NoSearchInput = true
			So(nav.Search("Breaking Bad"), ShouldEqual, ErrSearchUnavailable)
		})
	})
}

func TestListResults(t *testing.T) {
	Convey("Given the results of a search", t, func() {
		s := fakesite.New(fakesite.Catalog()...)
		nav, _ := newNavigator(s, &recorder{})
		So(nav.Search("Breaking"), ShouldBeNil)

		Convey("Without a filter every complete tile is listed in page order", func() {
			results := lo.Must(nav.ListResults(source.Any))

			So(titles(results), ShouldResemble, []string{
				"Breaking Bad: El Camino",
				"Breaking Bad",
				"Breaking Bad Remake",
				"Breaking News Person",
			})
			So(results[0].Type, ShouldEqual, source.Movie)
			So(results[0].URL, ShouldEqual, fakesite.Base+"/m/el-camino-2019")
			So(results[1].Type, ShouldEqual, source.Series)
			So(results[1].Year, ShouldEqual, "2008")
			So(results[2].Year, ShouldBeEmpty)
			So(results[3].Type, ShouldEqual, source.Unknown)

			for i, result := range results {
				So(result.Index, ShouldEqual, i)
			}
		})

		Convey("A filter excludes the other types", func() {
			So(titles(lo.Must(nav.ListResults(source.Series))), ShouldResemble, []string{"Breaking Bad", "Breaking Bad Remake"})
			So(titles(lo.Must(nav.ListResults(source.Movie))), ShouldResemble, []string{"Breaking Bad: El Camino"})
			So(titles(lo.Must(nav.ListResults(source.Unknown))), ShouldResemble, []string{"Breaking News Person"})
		})
	})
}

func TestSelectByIndex(t *testing.T) {
	Convey("Given the results of a search", t, func() {
		s := fakesite.New(fakesite.Catalog()...)
		r := &recorder{}
		nav, h := newNavigator(s, r)
		So(nav.Search("Breaking"), ShouldBeNil)

		Convey("Selecting index i opens the result listed at i", func() {
			for _, filter := range []source.ContentType{source.Any, source.Series, source.Movie, source.Unknown} {
				listed := lo.Must(nav.ListResults(filter))

				for i, want := range listed {
					So(nav.Search("Breaking"), ShouldBeNil)

					got, err := nav.SelectByIndex(i, filter)
					So(err, ShouldBeNil)
					So(got.URL, ShouldEqual, want.URL)
					So(lo.Must(h.URL()), ShouldEqual, want.URL)
				}

				So(nav.Search("Breaking"), ShouldBeNil)
			}
		})

		Convey("Movie destinations get the extra delay", func() {
			r.slept = nil
			_, err := nav.SelectByIndex(0, source.Movie)
			So(err, ShouldBeNil)
			So(r.slept, ShouldResemble, []time.Duration{time.Millisecond, 7 * time.Millisecond})

			So(nav.Search("Breaking"), ShouldBeNil)
			r.slept = nil
			_, err = nav.SelectByIndex(0, source.Series)
			So(err, ShouldBeNil)
			So(r.slept, ShouldResemble, []time.Duration{time.Millisecond})
		})

		Convey("An index outside the filtered listing fails", func() {
			_, err := nav.SelectByIndex(2, source.Series)
			So(errors.Is(err, ErrResultNotFound), ShouldBeTrue)

			_, err = nav.SelectByIndex(-1, source.Any)
			So(errors.Is(err, ErrResultNotFound), ShouldBeTrue)
		})
	})
}

func TestOpen(t *testing.T) {
	Convey("Open goes straight to a content page", t, func() {
		s := fakesite.New(fakesite.Catalog()...)
		r := &recorder{}
		nav, h := newNavigator(s, r)

		So(nav.Open(fakesite.Base+"/m/el-camino-2019"), ShouldBeNil)
		So(lo.Must(h.URL()), ShouldEqual, fakesite.Base+"/m/el-camino-2019")
		So(r.slept, ShouldResemble, []time.Duration{time.Millisecond, 7 * time.Millisecond})
	})
}
