package cmd

import (
	"testing"

	"github.com/filmscout/filmscout/filesystem"
	"github.com/filmscout/filmscout/key"
	"github.com/filmscout/filmscout/scraper"
	"github.com/filmscout/filmscout/source"
	"github.com/filmscout/filmscout/where"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestParsePick(t *testing.T) {
	Convey("Given search results", t, func() {
		results := []*source.SearchResult{
			{Title: "El Camino", Year: "2019"},
			{Title: "Breaking Bad", Year: "2008"},
			{Title: "Breaking Bad Remake", Year: "2030"},
		}

		Convey("first and last pick the ends", func() {
			So(lo.Must(parsePick("first"))(results).Title, ShouldEqual, "El Camino")
			So(lo.Must(parsePick("last"))(results).Title, ShouldEqual, "Breaking Bad Remake")
		})

		Convey("A bare number picks by index", func() {
			So(lo.Must(parsePick("1"))(results).Title, ShouldEqual, "Breaking Bad")
		})

		Convey("Prefixed values select the picker kind", func() {
			So(lo.Must(parsePick("year:2030"))(results).Title, ShouldEqual, "Breaking Bad Remake")
			So(lo.Must(parsePick("exact:breaking bad"))(results).Title, ShouldEqual, "Breaking Bad")
		})

		Convey("A title containing a colon keeps its tail", func() {
			named := append(results, &source.SearchResult{Title: "Breaking Bad: Original Minisodes"})
			So(lo.Must(parsePick("exact:Breaking Bad: Original Minisodes"))(named), ShouldPointTo, named[3])
		})

		Convey("Garbage is rejected", func() {
			_, err := parsePick("second")
			So(err, ShouldNotBeNil)

			_, err = parsePick("year:soon")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestParseValue(t *testing.T) {
	Convey("Values are converted to the type of the default", t, func() {
		So(lo.Must(parseValue(key.BrowserHeadless, []string{"true"})), ShouldEqual, true)
		So(lo.Must(parseValue(key.SessionLoginTimeout, []string{"120"})), ShouldEqual, 120)
		So(lo.Must(parseValue(key.ServerAddress, []string{":8080"})), ShouldEqual, ":8080")
		So(lo.Must(parseValue(key.ProvidersAllowed, []string{"voe.sx", "streamup"})), ShouldResemble, []string{"voe.sx", "streamup"})

		_, err := parseValue(key.SessionLoginTimeout, []string{"soon"})
		So(err, ShouldNotBeNil)

		_, err = parseValue(key.BrowserHeadless, []string{"maybe"})
		So(err, ShouldNotBeNil)
	})
}

func TestEnvName(t *testing.T) {
	Convey("Config keys map to prefixed variables", t, func() {
		So(envName(key.SessionAutoRelogin), ShouldEqual, "FILMSCOUT_SESSION_AUTO_RELOGIN")
		So(envName(where.EnvConfigPath), ShouldEqual, where.EnvConfigPath)
	})
}

func TestFirstLink(t *testing.T) {
	Convey("The first link across episodes is found", t, func() {
		entries := []*scraper.EpisodeLinks{
			{Episode: "S01E01", Links: []*source.StreamLink{}},
			{Episode: "S01E02", Links: []*source.StreamLink{{Provider: "voe.sx", URL: "https://voe.sx/e/2"}}},
		}

		link, ok := firstLink(entries)
		So(ok, ShouldBeTrue)
		So(link.URL, ShouldEqual, "https://voe.sx/e/2")

		_, ok = firstLink(entries[:1])
		So(ok, ShouldBeFalse)
	})
}
