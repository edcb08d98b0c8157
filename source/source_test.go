package source

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestContentType(t *testing.T) {
	Convey("ParseContentType", t, func() {
		Convey("accepts wire names and aliases", func() {
			for in, want := range map[string]ContentType{
				"serial": Series,
				"Series": Series,
				"film":   Movie,
				"movie":  Movie,
				"":       Any,
				"all":    Any,
			} {
				got, err := ParseContentType(in)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			}
		})

		Convey("rejects anything else", func() {
			_, err := ParseContentType("podcast")
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Filters match by exclusion", t, func() {
		So(Any.Matches(Movie), ShouldBeTrue)
		So(Any.Matches(Unknown), ShouldBeTrue)
		So(Series.Matches(Series), ShouldBeTrue)
		So(Series.Matches(Movie), ShouldBeFalse)
		So(Series.Matches(Unknown), ShouldBeFalse)
	})
}

func TestEpisode(t *testing.T) {
	Convey("Episode", t, func() {
		ep := &Episode{Label: "S01E01", Title: "Pilot", URL: "https://filman.cc/e/1"}

		Convey("String", func() {
			So(ep.String(), ShouldEqual, "[S01E01] Pilot")
			So((&Episode{Label: "Odc 5"}).String(), ShouldEqual, "Odc 5")
		})

		Convey("JSON uses the facade field names", func() {
			data, err := json.Marshal(ep)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, `{"episode":"S01E01","title":"Pilot","url":"https://filman.cc/e/1"}`)
		})
	})

	Convey("SearchResult String includes the year when known", t, func() {
		So((&SearchResult{Title: "Breaking Bad", Year: "2008"}).String(), ShouldEqual, "Breaking Bad (2008)")
		So((&SearchResult{Title: "Breaking Bad"}).String(), ShouldEqual, "Breaking Bad")
	})
}
