package extract

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/filmscout/filmscout/browser"
	"github.com/filmscout/filmscout/browser/static"
	"github.com/filmscout/filmscout/internal/fakesite"
	"github.com/filmscout/filmscout/provider"
	"github.com/filmscout/filmscout/source"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func newExtractor(s static.Site, allow provider.AllowList) (*Extractor, browser.Handle) {
	h := lo.Must(static.New(s).Launch(browser.LaunchOptions{}))
	return New(browser.Fixed(h), browser.Instant(), allow), h
}

func TestParseLabel(t *testing.T) {
	Convey("ParseLabel", t, func() {
		Convey("splits the bracketed code from the title", func() {
			label, title := ParseLabel("[S01E01] Pilot")
			So(label, ShouldEqual, "S01E01")
			So(title, ShouldEqual, "Pilot")
		})

		Convey("upper-cases the code", func() {
			label, _ := ParseLabel("[s02e10]   Over")
			So(label, ShouldEqual, "S02E10")
		})

		Convey("keeps unmatched text as the label", func() {
			label, title := ParseLabel("  Odc 5 ")
			So(label, ShouldEqual, "Odc 5")
			So(title, ShouldBeEmpty)
		})

		Convey("collapses markup whitespace", func() {
			label, title := ParseLabel("\n\t[S01E03]\n\t  ...and the Bag's in the River\n")
			So(label, ShouldEqual, "S01E03")
			So(title, ShouldEqual, "...and the Bag's in the River")
		})

		Convey("accepts a code without a title", func() {
			label, title := ParseLabel("[Special]")
			So(label, ShouldEqual, "SPECIAL")
			So(title, ShouldBeEmpty)
		})
	})
}

func TestDecodeIframe(t *testing.T) {
	Convey("DecodeIframe", t, func() {
		Convey("returns the src of a valid payload", func() {
			So(lo.Must(DecodeIframe(fakesite.Payload("https://voe.sx/e/1"))), ShouldEqual, "https://voe.sx/e/1")
		})

		Convey("accepts unpadded payloads", func() {
			raw := base64.RawStdEncoding.EncodeToString([]byte(`{"src":"https://dood.example/e/9"}`))
			So(lo.Must(DecodeIframe(raw)), ShouldEqual, "https://dood.example/e/9")
		})

		for name, payload := range map[string]string{
			"empty":      "",
			"not base64": "%%%not-base64%%%",
			"not json":   base64.StdEncoding.EncodeToString([]byte("hello")),
			"no src":     base64.StdEncoding.EncodeToString([]byte(`{"href":"x"}`)),
			"blank src":  base64.StdEncoding.EncodeToString([]byte(`{"src":"  "}`)),
		} {
			Convey("rejects a payload that is "+name, func() {
				_, err := DecodeIframe(payload)
				So(errors.Is(err, ErrDecode), ShouldBeTrue)

				var decodeErr *DecodeError
				So(errors.As(err, &decodeErr), ShouldBeTrue)
			})
		}
	})
}

func TestEpisodes(t *testing.T) {
	Convey("Given the fake catalog", t, func() {
		s := fakesite.New(fakesite.Catalog()...)
		ex, h := newExtractor(s, provider.AllowList(provider.Names()))

		Convey("A series page lists its episodes", func() {
			So(h.Navigate(fakesite.Base+"/s/breaking-bad-2008"), ShouldBeNil)

			episodes := lo.Must(ex.Episodes())
			So(episodes, ShouldResemble, []*source.Episode{
				{Label: "S01E01", Title: "Pilot", URL: fakesite.Base + "/e/breaking-bad/1"},
				{Label: "S01E02", Title: "Cat's in the Bag...", URL: fakesite.Base + "/e/breaking-bad/2"},
				{Label: "Odc 5", Title: "", URL: fakesite.Base + "/e/breaking-bad/5"},
			})
		})

		Convey("A movie page yields one FILM episode titled by its heading", func() {
			So(h.Navigate(fakesite.Base+"/m/el-camino-2019"), ShouldBeNil)

			episodes := lo.Must(ex.Episodes())
			So(episodes, ShouldResemble, []*source.Episode{
				{Label: "FILM", Title: "El Camino: A Breaking Bad Movie", URL: fakesite.Base + "/m/el-camino-2019"},
			})
		})

		Convey("Any /m/ or /film/ page yields exactly one episode, heading or not", func() {
			blank, page := newExtractor(static.Fixed("<html><body><p>nothing</p></body></html>"), nil)
			for _, url := range []string{"https://filman.cc/m/a", "https://filman.cc/film/b", "https://filman.cc/x/m/c"} {
				So(page.Navigate(url), ShouldBeNil)

				episodes := lo.Must(blank.Episodes())
				So(episodes, ShouldHaveLength, 1)
				So(episodes[0].Label, ShouldEqual, "FILM")
				So(episodes[0].Title, ShouldEqual, "Film")
				So(episodes[0].URL, ShouldEqual, url)
			}
		})

		Convey("A page without an episode list yields nothing", func() {
			So(h.Navigate(fakesite.Base+"/"), ShouldBeNil)
			So(lo.Must(ex.Episodes()), ShouldBeEmpty)
		})
	})
}

func TestStreamLinks(t *testing.T) {
	Convey("Given an episode with every kind of row", t, func() {
		s := fakesite.New(fakesite.Title{
			Name:     "Fixture",
			Path:     "/s/fixture",
			Episodes: []fakesite.Episode{{Text: "[S01E01] Rows", Path: "/e/fixture/1", Links: fakesite.Links()}},
		})

		Convey("Only complete rows of allowed providers with a decodable payload survive", func() {
			ex, _ := newExtractor(s, provider.AllowList(provider.Names()))

			links := lo.Must(ex.StreamLinks(fakesite.Base + "/e/fixture/1"))
			So(links, ShouldResemble, []*source.StreamLink{
				{Provider: "doodstream", URL: "https://dood.example/e/1", Quality: "1080p", Version: "Lektor PL"},
				{Provider: "streamup", URL: "https://streamup.example/e/4", Quality: "1080p", Version: "Napisy PL"},
			})
		})

		Convey("A provider outside the allow-list never yields a link", func() {
			ex, _ := newExtractor(s, provider.AllowList{"streamup"})

			links := lo.Must(ex.StreamLinks(fakesite.Base + "/e/fixture/1"))
			for _, link := range links {
				So(link.Provider, ShouldEqual, "streamup")
			}
			So(links, ShouldHaveLength, 1)
		})

		Convey("An empty allow-list keeps nothing", func() {
			ex, _ := newExtractor(s, provider.AllowList{})
			So(lo.Must(ex.StreamLinks(fakesite.Base+"/e/fixture/1")), ShouldBeEmpty)
		})
	})

	Convey("A broken payload does not stop the rows after it", t, func() {
		s := fakesite.New(fakesite.Title{
			Name: "Movie",
			Path: "/m/movie",
			Links: []fakesite.Link{
				{Label: "voe.sx", Version: "Lektor", Quality: "720p", Payload: "broken"},
				{Label: "voe.sx", Version: "Lektor", Quality: "1080p", Src: "https://voe.sx/e/ok"},
			},
		})
		ex, _ := newExtractor(s, provider.AllowList(provider.Names()))

		links := lo.Must(ex.StreamLinks(fakesite.Base + "/m/movie"))
		So(links, ShouldHaveLength, 1)
		So(links[0].URL, ShouldEqual, "https://voe.sx/e/ok")
	})
}
