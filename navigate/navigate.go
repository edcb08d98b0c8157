// Package navigate drives the catalog from the search box to a content page.
package navigate

import (
	"errors"
	"fmt"

	"github.com/filmscout/filmscout/browser"
	"github.com/filmscout/filmscout/log"
	"github.com/filmscout/filmscout/site"
	"github.com/filmscout/filmscout/source"
	"github.com/filmscout/filmscout/util"
)

var (
	// ErrSearchUnavailable is returned when the page carries no search input.
	ErrSearchUnavailable = errors.New("search input not found")

	// ErrResultNotFound is returned when the requested index is outside the listing.
	ErrResultNotFound = errors.New("search result not found")
)

// Navigator operates on whatever page the previous operation left open.
type Navigator struct {
	handles browser.HandleProvider
	timing  browser.Timing
	baseURL string
}

// New returns a navigator over the handles of provider.
func New(handles browser.HandleProvider, timing browser.Timing, baseURL string) *Navigator {
	return &Navigator{
		handles: handles,
		timing:  timing,
		baseURL: baseURL,
	}
}

// Search opens the site root and submits query through the search input.
func (n *Navigator) Search(query string) error {
	h, err := n.handles.EnsureHandle()
	if err != nil {
		return err
	}

	log.Infof("navigate: searching for %q", query)
	if err := h.Navigate(n.baseURL); err != nil {
		return fmt.Errorf("open site root: %w", err)
	}
	n.timing.Settle(n.timing.LoadDelay)

	input, err := h.WaitElement(site.SearchInput, n.timing.ElementTimeout)
	if err != nil {
		log.Warnf("navigate: %s", err)
		return ErrSearchUnavailable
	}

	if err := input.Input(query); err != nil {
		return fmt.Errorf("type query: %w", err)
	}

	if err := input.Submit(); err != nil {
		return fmt.Errorf("submit search: %w", err)
	}
	n.timing.Settle(n.timing.LoadDelay)

	log.Info("navigate: search submitted")
	return nil
}

// tile is a result tile together with the record it yields.
type tile struct {
	link   browser.Element
	result *source.SearchResult
}

// scan walks the result tiles in document order. Tiles missing the link or the title are skipped,
// the rest are kept when their type passes filter. ListResults and SelectByIndex share it so that
// both see the same index space.
func (n *Navigator) scan(h browser.Page, filter source.ContentType) ([]tile, error) {
	if _, err := h.WaitElement(site.ResultsContainer, n.timing.ResultsTimeout); err != nil {
		log.Warnf("navigate: results container: %s", err)
	}

	posters, err := h.Elements(site.ResultTile)
	if err != nil {
		return nil, fmt.Errorf("list result tiles: %w", err)
	}
	log.Infof("navigate: %d result tiles on the page", len(posters))

	tiles := make([]tile, 0, len(posters))
	for _, poster := range posters {
		t, ok := readTile(poster)
		if !ok || !filter.Matches(t.result.Type) {
			continue
		}

		t.result.Index = len(tiles)
		t.result.Filter = filter
		tiles = append(tiles, t)
	}

	return tiles, nil
}

func readTile(poster browser.Element) (tile, bool) {
	link, err := poster.Element(site.ResultLink)
	if err != nil {
		return tile{}, false
	}

	href, err := link.Attribute("href")
	if err != nil || href.OrEmpty() == "" {
		return tile{}, false
	}

	parent, err := poster.Parent()
	if err != nil {
		return tile{}, false
	}

	titleElement, err := parent.Element(site.ResultTitle)
	if err != nil {
		return tile{}, false
	}

	title, err := titleElement.Text()
	if err != nil {
		return tile{}, false
	}

	var year string
	if yearElement, err := parent.Element(site.ResultYear); err == nil {
		year, _ = yearElement.Text()
	}

	url := href.MustGet()
	return tile{
		link: link,
		result: &source.SearchResult{
			Title: util.Squash(title),
			URL:   url,
			Type:  site.Classify(url),
			Year:  util.Squash(year),
		},
	}, true
}

// ListResults returns the result tiles of the current page whose type passes filter, in document order.
func (n *Navigator) ListResults(filter source.ContentType) ([]*source.SearchResult, error) {
	h, err := n.handles.EnsureHandle()
	if err != nil {
		return nil, err
	}

	tiles, err := n.scan(h, filter)
	if err != nil {
		return nil, err
	}

	results := make([]*source.SearchResult, len(tiles))
	for i, t := range tiles {
		results[i] = t.result
	}
	return results, nil
}

// SelectByIndex clicks the tile ListResults would list at index for the same filter
// and returns its record.
func (n *Navigator) SelectByIndex(index int, filter source.ContentType) (*source.SearchResult, error) {
	h, err := n.handles.EnsureHandle()
	if err != nil {
		return nil, err
	}

	tiles, err := n.scan(h, filter)
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(tiles) {
		log.Warnf("navigate: no result at index %d (%d matching %s)", index, len(tiles), filter)
		return nil, fmt.Errorf("%w: index %d of %d", ErrResultNotFound, index, len(tiles))
	}

	target := tiles[index]
	if err := target.link.Click(); err != nil {
		return nil, fmt.Errorf("open result %d: %w", index, err)
	}
	n.timing.Settle(n.timing.LoadDelay)

	if current, err := h.URL(); err == nil && site.IsMovie(current) {
		n.timing.Settle(n.timing.MovieDelay)
	}

	log.Infof("navigate: opened result #%d %s", index, target.result)
	return target.result, nil
}

// Open navigates straight to a content page, bypassing the search.
func (n *Navigator) Open(url string) error {
	h, err := n.handles.EnsureHandle()
	if err != nil {
		return err
	}

	if err := h.Navigate(url); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	n.timing.Settle(n.timing.LoadDelay)

	if site.IsMovie(url) {
		n.timing.Settle(n.timing.MovieDelay)
	}
	return nil
}
