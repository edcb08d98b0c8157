package static

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/filmscout/filmscout/browser"
	"github.com/filmscout/filmscout/cookie"
)

// Page is a single-tab browser over a Site.
type Page struct {
	site Site
	jar  *jar
	opts browser.LaunchOptions

	url     string
	doc     *goquery.Document
	scripts []string

	closed bool
	dead   bool
}

// Options returns the launch options the page was opened with.
func (p *Page) Options() browser.LaunchOptions {
	return p.opts
}

// Scripts returns every script passed to Eval.
func (p *Page) Scripts() []string {
	return p.scripts
}

func (p *Page) check() error {
	if p.closed || p.dead {
		return browser.ErrClosed
	}
	return nil
}

func (p *Page) resolve(ref string) (string, error) {
	target, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", ref, err)
	}

	if p.url == "" {
		return target.String(), nil
	}

	base, err := url.Parse(p.url)
	if err != nil {
		return target.String(), nil
	}
	return base.ResolveReference(target).String(), nil
}

// Navigate renders the document at rawURL, resolved against the current one.
func (p *Page) Navigate(rawURL string) error {
	if err := p.check(); err != nil {
		return err
	}

	target, err := p.resolve(rawURL)
	if err != nil {
		return err
	}

	return p.load(target)
}

func (p *Page) load(target string) error {
	res, err := p.site.Render(Request{URL: target, Cookies: p.jar.list()})
	if err != nil {
		return fmt.Errorf("render %s: %w", target, err)
	}

	for _, c := range res.SetCookies {
		p.jar.set(c)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.HTML))
	if err != nil {
		return fmt.Errorf("parse %s: %w", target, err)
	}

	if res.URL != "" {
		target = res.URL
	}

	p.url = target
	p.doc = doc
	return nil
}

// Reload renders the current URL again.
func (p *Page) Reload() error {
	if err := p.check(); err != nil {
		return err
	}

	if p.url == "" {
		return nil
	}
	return p.load(p.url)
}

// URL returns the address of the current document.
func (p *Page) URL() (string, error) {
	if err := p.check(); err != nil {
		return "", err
	}
	return p.url, nil
}

func (p *Page) root() *goquery.Selection {
	if p.doc == nil {
		doc, _ := goquery.NewDocumentFromReader(strings.NewReader(""))
		p.doc = doc
	}
	return p.doc.Selection
}

// Element returns the first match.
func (p *Page) Element(selector string) (browser.Element, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	return first(p, p.root().Find(selector))
}

// Elements returns every match.
func (p *Page) Elements(selector string) ([]browser.Element, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	return all(p, p.root().Find(selector)), nil
}

// WaitElement returns the first match, re-rendering once on a miss.
func (p *Page) WaitElement(selector string, _ time.Duration) (browser.Element, error) {
	if el, err := p.Element(selector); err == nil {
		return el, nil
	}

	if err := p.Reload(); err != nil {
		return nil, err
	}

	el, err := p.Element(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", browser.ErrTimeout, selector)
	}
	return el, nil
}

// WaitGone succeeds when selector is absent, re-rendering once while it is present.
func (p *Page) WaitGone(selector string, _ time.Duration) error {
	if err := p.check(); err != nil {
		return err
	}

	if p.root().Find(selector).Length() == 0 {
		return nil
	}

	if err := p.Reload(); err != nil {
		return err
	}

	if p.root().Find(selector).Length() == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s still present", browser.ErrTimeout, selector)
}

// Cookies returns the jar contents.
func (p *Page) Cookies() ([]cookie.Cookie, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	return p.jar.list(), nil
}

// SetCookie stores c, replacing a cookie with the same name and domain.
func (p *Page) SetCookie(c cookie.Cookie) error {
	if err := p.check(); err != nil {
		return err
	}
	p.jar.set(c)
	return nil
}

// Eval records the script. Nothing is executed.
func (p *Page) Eval(script string) error {
	if err := p.check(); err != nil {
		return err
	}
	p.scripts = append(p.scripts, script)
	return nil
}

// Alive reports whether the page is neither closed nor crashed.
func (p *Page) Alive() bool {
	return p.check() == nil
}

// Close closes the page. Closing twice returns ErrClosed.
func (p *Page) Close() error {
	if p.closed {
		return browser.ErrClosed
	}
	p.closed = true
	return nil
}
