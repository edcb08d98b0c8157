// Package scraper runs every browser-driving operation through a single worker over one session.
package scraper

import (
	"errors"
	"fmt"

	"github.com/filmscout/filmscout/cookie"
	"github.com/filmscout/filmscout/extract"
	"github.com/filmscout/filmscout/internal/cache"
	"github.com/filmscout/filmscout/key"
	"github.com/filmscout/filmscout/log"
	"github.com/filmscout/filmscout/navigate"
	"github.com/filmscout/filmscout/provider"
	"github.com/filmscout/filmscout/session"
	"github.com/filmscout/filmscout/source"
	"github.com/filmscout/filmscout/where"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

var (
	// ErrNotFound is returned when a lookup finds no matching content.
	ErrNotFound = errors.New("content not found")

	// ErrUnauthorized is returned when the session is logged out and cannot be logged in.
	ErrUnauthorized = errors.New("not logged in")
)

// Options configures an Engine.
type Options struct {
	// AutoRelogin reopens a visible browser for a manual login when a headless session is logged out.
	AutoRelogin bool
	Credentials mo.Option[session.Credentials]
	Allow       provider.AllowList

	// Cache stores link lists per episode url. Nil disables it.
	Cache *cache.Cache
	// Store persists injected cookie sets. Nil disables it.
	Store *cookie.Store
}

// DefaultOptions builds options from configuration.
func DefaultOptions() Options {
	opts := Options{
		AutoRelogin: viper.GetBool(key.SessionAutoRelogin),
		Allow:       provider.Configured(),
		Store:       cookie.NewStore(where.Cookies()),
	}

	if viper.GetBool(key.LinksCache) {
		opts.Cache = cache.Links()
	}

	return opts
}

// Engine owns a session and serializes the operations driving it.
type Engine struct {
	session *session.Manager
	nav     *navigate.Navigator
	extract *extract.Extractor
	opts    Options
}

// New returns an engine over manager.
func New(manager *session.Manager, opts Options) *Engine {
	return &Engine{
		session: manager,
		nav:     navigate.New(manager, manager.Timing(), manager.BaseURL()),
		extract: extract.New(manager, manager.Timing(), opts.Allow),
		opts:    opts,
	}
}

// Session returns the underlying session manager.
func (e *Engine) Session() *session.Manager {
	return e.session
}

// Close releases the browser once the operation in flight has finished.
func (e *Engine) Close() error {
	defer e.session.Acquire()()
	return e.session.Close()
}

// ensureAuthenticated logs the session in when the last check said it is logged out.
// A logged out headless browser is swapped for a visible one for the login, then back.
func (e *Engine) ensureAuthenticated() error {
	if e.session.Authenticated() || e.session.CheckLoggedIn() {
		return nil
	}

	if !e.session.Headless() || !e.opts.AutoRelogin {
		log.Info("scraper: not logged in, starting manual login")
		if err := e.session.LoginManual(e.opts.Credentials); err != nil {
			return errors.Join(ErrUnauthorized, err)
		}
		return nil
	}

	log.Warn("scraper: headless session is logged out, switching to a visible browser")
	if _, err := e.session.Reopen(false); err != nil {
		return err
	}

	if err := e.session.LoginManual(e.opts.Credentials); err != nil {
		log.Warn("scraper: login failed, parking the browser in headless mode")
		e.session.Park(true)
		return errors.Join(ErrUnauthorized, err)
	}

	log.Info("scraper: login done, switching back to headless")
	if _, err := e.session.Reopen(true); err != nil {
		return err
	}

	if !e.session.CheckLoggedIn() {
		return fmt.Errorf("%w: session did not persist after relogin", ErrUnauthorized)
	}

	log.Info("scraper: session active in the headless browser")
	return nil
}

// Prepare logs the session in before a scrape, taking the visible browser detour when headless.
func (e *Engine) Prepare() error {
	defer e.session.Acquire()()
	return e.ensureAuthenticated()
}

// Search submits query and lists the results passing filter.
func (e *Engine) Search(query string, filter source.ContentType) ([]*source.SearchResult, error) {
	defer e.session.Acquire()()
	return e.search(query, filter)
}

func (e *Engine) search(query string, filter source.ContentType) ([]*source.SearchResult, error) {
	if err := e.nav.Search(query); err != nil {
		if errors.Is(err, navigate.ErrSearchUnavailable) {
			return nil, errors.Join(ErrNotFound, err)
		}
		return nil, err
	}

	results, err := e.nav.ListResults(filter)
	if err != nil {
		return nil, err
	}

	for _, r := range results {
		log.Infof("scraper: %d. [%s] %s", r.Index, r.Type, r)
	}
	return results, nil
}

// EpisodesOf opens result and lists its episodes. The current page must still show the listing it came from.
func (e *Engine) EpisodesOf(result *source.SearchResult) ([]*source.Episode, error) {
	defer e.session.Acquire()()

	if _, err := e.nav.SelectByIndex(result.Index, result.Filter); err != nil {
		if errors.Is(err, navigate.ErrResultNotFound) {
			return nil, errors.Join(ErrNotFound, err)
		}
		return nil, err
	}

	return e.extract.Episodes()
}

// LinksOf extracts the stream links of a single episode.
// It fails with ErrUnauthorized when the session is logged out.
func (e *Engine) LinksOf(episode *source.Episode) ([]*source.StreamLink, error) {
	defer e.session.Acquire()()

	if !e.session.Authenticated() && !e.session.CheckLoggedIn() {
		return nil, ErrUnauthorized
	}
	return e.links(episode.URL)
}

func (e *Engine) links(url string) ([]*source.StreamLink, error) {
	var cached []*source.StreamLink
	if e.opts.Cache != nil && e.opts.Cache.Read(cache.Key(url), &cached) {
		log.Infof("scraper: links of %s served from cache", url)
		return cached, nil
	}

	links, err := e.extract.StreamLinks(url)
	if err != nil {
		return nil, err
	}

	if e.opts.Cache != nil && len(links) > 0 {
		if err := e.opts.Cache.Write(cache.Key(url), links); err != nil {
			log.Warnf("scraper: caching links of %s: %s", url, err)
		}
	}
	return links, nil
}

// ScrapeSeries logs in when needed, searches, opens the result at index and lists its episodes,
// optionally with their stream links.
func (e *Engine) ScrapeSeries(query string, filter source.ContentType, index int, withLinks bool) (*source.SearchResult, []*source.Episode, error) {
	defer e.session.Acquire()()

	if err := e.ensureAuthenticated(); err != nil {
		return nil, nil, err
	}

	if _, err := e.search(query, filter); err != nil {
		return nil, nil, err
	}

	return e.open(index, filter, withLinks)
}

func (e *Engine) open(index int, filter source.ContentType, withLinks bool) (*source.SearchResult, []*source.Episode, error) {
	result, err := e.nav.SelectByIndex(index, filter)
	if err != nil {
		if errors.Is(err, navigate.ErrResultNotFound) {
			return nil, nil, errors.Join(ErrNotFound, err)
		}
		return nil, nil, err
	}

	episodes, err := e.extract.Episodes()
	if err != nil {
		return result, nil, err
	}

	if withLinks {
		e.attachLinks(episodes)
	}

	log.Infof("scraper: %d episodes for %s", len(episodes), result)
	return result, episodes, nil
}

func (e *Engine) attachLinks(episodes []*source.Episode) {
	for _, ep := range episodes {
		links, err := e.links(ep.URL)
		if err != nil {
			log.Errorf("scraper: links of %s: %s", ep.Label, err)
			continue
		}
		ep.Links = links
	}
}

// PickByYear returns the index of the first result released in year.
// Without a year, or when none matches, it falls back to the first result.
func PickByYear(results []*source.SearchResult, year string) int {
	if year == "" {
		return 0
	}

	for i, r := range results {
		if r.Year == year {
			log.Infof("scraper: year %s matched result %d", year, i)
			return i
		}
	}

	log.Warnf("scraper: no result from %s, using the first one", year)
	return 0
}

// Content is a looked up catalog entry with its episodes.
type Content struct {
	*source.SearchResult
	Episodes []*source.Episode `json:"episodes"`
}

// Lookup searches title, picks the result of year and lists its episodes.
// Nothing found, or a page without a search input, is ErrNotFound.
func (e *Engine) Lookup(title string, filter source.ContentType, year string) (*Content, error) {
	defer e.session.Acquire()()

	results, err := e.search(title, filter)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("%w: no results for %q", ErrNotFound, title)
	}

	result, episodes, err := e.open(PickByYear(results, year), filter, false)
	if err != nil {
		return nil, err
	}

	return &Content{SearchResult: result, Episodes: episodes}, nil
}

// EpisodeLinks is the link lookup result of one episode.
type EpisodeLinks struct {
	Episode string               `json:"episode"`
	URL     string               `json:"url"`
	Links   []*source.StreamLink `json:"links"`
}

// Links extracts the stream links of episodes. It fails with ErrUnauthorized when the session is logged out.
// Episodes without a url are skipped and a failing episode yields an empty list.
func (e *Engine) Links(episodes []*source.Episode) ([]*EpisodeLinks, error) {
	defer e.session.Acquire()()

	if !e.session.Authenticated() && !e.session.CheckLoggedIn() {
		return nil, ErrUnauthorized
	}

	results := make([]*EpisodeLinks, 0, len(episodes))
	for _, ep := range episodes {
		if ep.URL == "" {
			continue
		}

		links, err := e.links(ep.URL)
		if err != nil {
			log.Errorf("scraper: links of %s: %s", ep.Label, err)
			links = []*source.StreamLink{}
		}

		results = append(results, &EpisodeLinks{Episode: ep.Label, URL: ep.URL, Links: links})
	}

	log.Infof("scraper: links extracted for %d episodes", len(results))
	return results, nil
}
