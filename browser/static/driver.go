// Package static implements the browser capability over parsed HTML documents.
//
// Pages are rendered by a Site and queried with goquery. Nothing executes: clicking an anchor
// navigates to its href and submitting a field sends its form as a GET request. A bounded wait
// that misses re-renders the current URL once before timing out, which lets a stateful Site
// model a page that changes while the scraper waits.
package static

import (
	"errors"
	"sync"

	"github.com/filmscout/filmscout/browser"
	"github.com/filmscout/filmscout/cookie"
)

// Request is what a page asks its Site for.
type Request struct {
	URL     string
	Cookies []cookie.Cookie
}

// Response is a rendered document.
type Response struct {
	// URL is the final address after redirects. Empty means the requested URL.
	URL  string
	HTML string
	// SetCookies are stored in the jar before the document is parsed.
	SetCookies []cookie.Cookie
}

// Site renders documents.
type Site interface {
	Render(req Request) (Response, error)
}

// SiteFunc adapts a function to the Site interface.
type SiteFunc func(req Request) (Response, error)

func (f SiteFunc) Render(req Request) (Response, error) {
	return f(req)
}

// Fixed returns a Site serving html for every URL.
func Fixed(html string) Site {
	return SiteFunc(func(Request) (Response, error) {
		return Response{HTML: html}, nil
	})
}

// Driver launches pages over a Site. Cookie jars are kept per profile directory
// so that identity survives a relaunch the way a browser profile does.
type Driver struct {
	site Site

	mu       sync.Mutex
	jars     map[string]*jar
	launched []browser.LaunchOptions
	failWith error
	pages    []*Page
}

// New returns a driver rendering from site.
func New(site Site) *Driver {
	return &Driver{
		site: site,
		jars: make(map[string]*jar),
	}
}

// Launch opens a new page. It fails when FailLaunches is set.
func (d *Driver) Launch(opts browser.LaunchOptions) (browser.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failWith != nil {
		return nil, d.failWith
	}

	j, ok := d.jars[opts.ProfileDir]
	if !ok {
		j = &jar{}
		d.jars[opts.ProfileDir] = j
	}

	d.launched = append(d.launched, opts)
	page := &Page{site: d.site, jar: j, opts: opts}
	d.pages = append(d.pages, page)
	return page, nil
}

// FailLaunches makes every following launch fail with err. Nil restores launching.
func (d *Driver) FailLaunches(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failWith = err
}

// Launched returns the options of every launch so far.
func (d *Driver) Launched() []browser.LaunchOptions {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]browser.LaunchOptions(nil), d.launched...)
}

// Crash marks every open page as dead without closing it.
func (d *Driver) Crash() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.pages {
		p.dead = true
	}
}

// Open reports how many launched pages are still open.
func (d *Driver) Open() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	var open int
	for _, p := range d.pages {
		if !p.closed {
			open++
		}
	}
	return open
}

var errNoForm = errors.New("field is not inside a form")

type jar struct {
	mu      sync.Mutex
	cookies []cookie.Cookie
}

func (j *jar) set(c cookie.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	for i, existing := range j.cookies {
		if existing.Name == c.Name && existing.Domain == c.Domain {
			j.cookies[i] = c
			return
		}
	}
	j.cookies = append(j.cookies, c)
}

func (j *jar) list() []cookie.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]cookie.Cookie(nil), j.cookies...)
}
