// Package fakesite renders a small catalog with the markup of the real site, for tests.
package fakesite

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"strings"
	"sync"

	"github.com/filmscout/filmscout/browser/static"
	"github.com/filmscout/filmscout/cookie"
)

const (
	Base          = "https://filman.cc"
	SessionCookie = "PHPSESSID"
	SessionValue  = "valid-session"
	Domain        = ".filman.cc"
)

// Link is a row of an episode's link table.
type Link struct {
	Label   string
	Version string
	Quality string
	Src     string
	// Payload replaces the encoded data-iframe value when set.
	Payload string
	// Short renders the row with two cells only.
	Short bool
	// NoAnchor renders the provider cell without the data-iframe anchor.
	NoAnchor bool
}

// Episode is an item of a series' episode list.
type Episode struct {
	Text string
	Path string
	// Header renders a season header item instead of an episode.
	Header   bool
	NoAnchor bool
	Links    []Link
}

// Title is a catalog entry.
type Title struct {
	Name string
	Year string
	// Path is the entry URL path, "/s/..." for series and "/m/..." for movies.
	Path string
	// NoTitle renders the tile without its title element.
	NoTitle  bool
	Heading  string
	Episodes []Episode
	Links    []Link
}

// Site is a stateful fake of the catalog.
type Site struct {
	mu sync.Mutex

	Titles []Title

	// NoSearchInput removes the search form from every page.
	NoSearchInput bool

	// LoginAfter makes a human finish logging in on the nth render of the login page.
	LoginAfter int
	// LoginSetsCookie controls whether that login stores the session cookie.
	LoginSetsCookie bool

	loginRenders int
	requests     []string
}

// New returns a site with the given titles.
func New(titles ...Title) *Site {
	return &Site{Titles: titles, LoginSetsCookie: true}
}

// Driver returns a static driver over the site.
func (s *Site) Driver() *static.Driver {
	return static.New(s)
}

// Requests returns every rendered URL.
func (s *Site) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// SessionCookies returns the cookie set of a logged-in browser.
func SessionCookies() []cookie.Cookie {
	return []cookie.Cookie{{Name: SessionCookie, Value: SessionValue, Domain: Domain}}
}

// Payload encodes src the way the link table does.
func Payload(src string) string {
	data, _ := json.Marshal(map[string]string{"src": src})
	return base64.StdEncoding.EncodeToString(data)
}

func loggedIn(cookies []cookie.Cookie) bool {
	for _, c := range cookies {
		if c.Name == SessionCookie && c.Value == SessionValue {
			return true
		}
	}
	return false
}

// Render implements static.Site.
func (s *Site) Render(req static.Request) (static.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, req.URL)

	u, err := url.Parse(req.URL)
	if err != nil {
		return static.Response{}, err
	}

	authed := loggedIn(req.Cookies)
	path := strings.TrimRight(u.Path, "/")

	switch {
	case path == "":
		return static.Response{HTML: s.page(authed, "")}, nil
	case path == "/logowanie":
		return s.login(authed), nil
	case path == "/wyszukiwarka":
		return static.Response{HTML: s.page(authed, s.results(u.Query().Get("phrase")))}, nil
	}

	for _, t := range s.Titles {
		if path == t.Path {
			return static.Response{HTML: s.page(authed, s.title(t))}, nil
		}

		for _, ep := range t.Episodes {
			if ep.Path != "" && path == ep.Path {
				return static.Response{HTML: s.page(authed, linkTable(ep.Links))}, nil
			}
		}
	}

	return static.Response{HTML: s.page(authed, "<h1>404</h1>")}, nil
}

func (s *Site) login(authed bool) static.Response {
	if authed {
		return static.Response{URL: Base + "/", HTML: s.page(true, "")}
	}

	s.loginRenders++
	if s.LoginAfter > 0 && s.loginRenders >= s.LoginAfter {
		res := static.Response{URL: Base + "/", HTML: s.page(true, "")}
		if s.LoginSetsCookie {
			res.SetCookies = SessionCookies()
		}
		return res
	}

	form := `<form action="/logowanie" method="post">
<input name="username" type="text" value="">
<input name="password" type="password" value="">
<button type="submit">Zaloguj</button>
</form>`
	return static.Response{HTML: s.page(false, form)}
}

func (s *Site) page(authed bool, body string) string {
	var b strings.Builder
	b.WriteString("<html><body><header>")
	if !s.NoSearchInput {
		b.WriteString(`<form action="/wyszukiwarka" method="get"><input name="phrase" type="text" value=""></form>`)
	}
	if authed {
		b.WriteString(`<div class="user-panel"><a href="/wyloguj">Wyloguj</a></div>`)
	} else {
		b.WriteString(`<a href="/logowanie">Zaloguj</a>`)
	}
	b.WriteString("</header><main>")
	b.WriteString(body)
	b.WriteString("</main></body></html>")
	return b.String()
}

func (s *Site) results(phrase string) string {
	var b strings.Builder
	b.WriteString(`<div id="advanced-search"><div class="row">`)
	for _, t := range s.Titles {
		if !strings.Contains(strings.ToLower(t.Name), strings.ToLower(phrase)) {
			continue
		}

		b.WriteString(`<div class="col-item">`)
		fmt.Fprintf(&b, `<div class="poster"><a class="img-responsive" href="%s"><img src="/cover.jpg"></a></div>`, t.Path)
		if !t.NoTitle {
			fmt.Fprintf(&b, `<div class="film_title">%s</div>`, html.EscapeString(t.Name))
		}
		if t.Year != "" {
			fmt.Fprintf(&b, `<div class="film_year">%s</div>`, t.Year)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div></div>`)
	return b.String()
}

func (s *Site) title(t Title) string {
	if strings.HasPrefix(t.Path, "/m/") || strings.HasPrefix(t.Path, "/film/") {
		heading := ""
		if t.Heading != "" {
			heading = "<h1>" + html.EscapeString(t.Heading) + "</h1>"
		}
		return heading + linkTable(t.Links)
	}

	var b strings.Builder
	b.WriteString(`<h1>` + html.EscapeString(t.Name) + `</h1><div id="episode-list"><ul>`)
	for _, ep := range t.Episodes {
		switch {
		case ep.Header:
			fmt.Fprintf(&b, `<li><span>%s</span><ul></ul></li>`, html.EscapeString(ep.Text))
		case ep.NoAnchor:
			fmt.Fprintf(&b, `<li>%s</li>`, html.EscapeString(ep.Text))
		default:
			fmt.Fprintf(&b, `<li><a href="%s">%s</a></li>`, ep.Path, html.EscapeString(ep.Text))
		}
	}
	b.WriteString(`</ul></div>`)
	return b.String()
}

func linkTable(links []Link) string {
	var b strings.Builder
	b.WriteString(`<table id="links"><thead><tr><th>Link</th><th>Wersja</th><th>Jakość</th></tr></thead><tbody>`)
	for _, l := range links {
		payload := l.Payload
		if payload == "" {
			payload = Payload(l.Src)
		}

		b.WriteString("<tr>")
		if l.NoAnchor {
			fmt.Fprintf(&b, `<td class="link-to-video">%s</td>`, html.EscapeString(l.Label))
		} else {
			fmt.Fprintf(&b, `<td class="link-to-video"><a href="#" data-iframe="%s">%s</a></td>`, html.EscapeString(payload), html.EscapeString(l.Label))
		}
		fmt.Fprintf(&b, `<td>%s</td>`, html.EscapeString(l.Version))
		if !l.Short {
			fmt.Fprintf(&b, `<td>%s</td>`, html.EscapeString(l.Quality))
		}
		b.WriteString("</tr>")
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}

// Catalog returns the fixture catalog shared by the tests.
func Catalog() []Title {
	return []Title{
		{
			Name:    "Breaking Bad: El Camino",
			Year:    "2019",
			Path:    "/m/el-camino-2019",
			Heading: "El Camino: A Breaking Bad Movie",
			Links: []Link{
				{Label: "voe.sx", Version: "Lektor", Quality: "1080p", Src: "https://voe.sx/e/camino"},
			},
		},
		{
			Name: "Breaking Bad",
			Year: "2008",
			Path: "/s/breaking-bad-2008",
			Episodes: []Episode{
				{Text: "Sezon 1", Header: true},
				{Text: "[s01e01] Pilot", Path: "/e/breaking-bad/1"},
				{Text: "[S01E02] Cat's in the Bag...", Path: "/e/breaking-bad/2", Links: []Link{
					{Label: "VOE.sx", Version: "Napisy", Quality: "720p", Src: "https://voe.sx/e/bb2"},
				}},
				{Text: "Odc 5", Path: "/e/breaking-bad/5"},
				{Text: "Zapowiedź", NoAnchor: true},
			},
		},
		{
			Name: "Breaking Bad Remake",
			Path: "/s/breaking-bad-remake",
			Episodes: []Episode{
				{Text: "[S01E01] Pilot (remake)", Path: "/e/remake/1"},
			},
		},
		{
			Name:    "Breaking Point",
			Year:    "2008",
			Path:    "/s/breaking-point",
			NoTitle: true,
		},
		{
			Name: "Breaking News Person",
			Path: "/person/breaking-news",
		},
	}
}

// Links returns the fixture rows of the link table tests.
func Links() []Link {
	return []Link{
		{Label: "DoodStream", Version: "Lektor PL", Quality: "1080p", Src: "https://dood.example/e/1"},
		{Label: "mixdrop", Version: "Lektor PL", Quality: "720p", Src: "https://mixdrop.example/e/2"},
		{Label: "voe.sx HD", Version: "Napisy", Quality: "720p", Payload: "%%%not-base64%%%"},
		{Label: "savefiles", Version: "Dubbing", Quality: "480p", Payload: base64.StdEncoding.EncodeToString([]byte(`{"src":""}`))},
		{Label: "vid-guard", Version: "Oryginalna", Short: true, Src: "https://vidguard.example/e/3"},
		{Label: "streamup", Version: "Napisy", Quality: "1080p", NoAnchor: true},
		{Label: "streamup", Version: "Napisy PL", Quality: "1080p", Src: "https://streamup.example/e/4"},
		{Label: "", Version: "?", Quality: "?", Src: "https://blank.example"},
	}
}
