// Package extract reads episodes and stream links off content pages.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/filmscout/filmscout/browser"
	"github.com/filmscout/filmscout/constant"
	"github.com/filmscout/filmscout/log"
	"github.com/filmscout/filmscout/provider"
	"github.com/filmscout/filmscout/site"
	"github.com/filmscout/filmscout/source"
	"github.com/filmscout/filmscout/util"
)

var labelPattern = regexp.MustCompile(`^\[([^\]]+)\]\s*(.*)$`)

// Extractor parses the page the handle currently shows.
type Extractor struct {
	handles browser.HandleProvider
	timing  browser.Timing
	allow   provider.AllowList
}

// New returns an extractor keeping only links of allowed providers.
func New(handles browser.HandleProvider, timing browser.Timing, allow provider.AllowList) *Extractor {
	return &Extractor{
		handles: handles,
		timing:  timing,
		allow:   allow,
	}
}

// ParseLabel splits an episode anchor text of the form "[S01E01] Pilot".
// Text without the bracketed code becomes the label with an empty title.
func ParseLabel(text string) (label, title string) {
	text = util.Squash(text)
	groups := labelPattern.FindStringSubmatch(text)
	if groups == nil {
		return text, ""
	}
	return strings.ToUpper(groups[1]), strings.TrimSpace(groups[2])
}

// Episodes lists the episodes of the current page. A movie page yields exactly one episode labelled FILM.
func (e *Extractor) Episodes() ([]*source.Episode, error) {
	h, err := e.handles.EnsureHandle()
	if err != nil {
		return nil, err
	}

	current, err := h.URL()
	if err != nil {
		return nil, fmt.Errorf("read current url: %w", err)
	}

	if site.IsMovie(current) {
		log.Info("extract: movie page, single entry")
		return []*source.Episode{movie(h, current)}, nil
	}

	if _, err := h.WaitElement(site.EpisodeList, e.timing.ElementTimeout); err != nil {
		log.Warnf("extract: episode list: %s", err)
	}

	items, err := h.Elements(site.EpisodeItems)
	if err != nil {
		return nil, fmt.Errorf("list episode items: %w", err)
	}

	episodes := make([]*source.Episode, 0, len(items))
	for _, item := range items {
		if headers, _ := item.Elements(site.SeasonHeader); len(headers) > 0 {
			continue
		}

		anchor, err := item.Element(site.EpisodeAnchor)
		if err != nil {
			continue
		}

		href, err := anchor.Attribute("href")
		if err != nil {
			continue
		}

		text, err := anchor.Text()
		if err != nil {
			continue
		}

		label, title := ParseLabel(text)
		episodes = append(episodes, &source.Episode{
			Label: label,
			Title: title,
			URL:   href.OrEmpty(),
		})
	}

	log.Infof("extract: %d episodes", len(episodes))
	return episodes, nil
}

func movie(h browser.Page, current string) *source.Episode {
	title := site.DefaultFilmTitle
	if heading, err := h.Element(site.MovieHeading); err == nil {
		if text, err := heading.Text(); err == nil && util.Squash(text) != "" {
			title = util.Squash(text)
		}
	}

	return &source.Episode{
		Label: constant.FilmLabel,
		Title: title,
		URL:   current,
	}
}

// StreamLinks opens an episode page and reads its link table. Rows that are short, lack the provider
// link, belong to a provider outside the allow-list or carry an undecodable payload are dropped.
func (e *Extractor) StreamLinks(episodeURL string) ([]*source.StreamLink, error) {
	h, err := e.handles.EnsureHandle()
	if err != nil {
		return nil, err
	}

	log.Infof("extract: opening %s", episodeURL)
	if err := h.Navigate(episodeURL); err != nil {
		return nil, fmt.Errorf("open episode: %w", err)
	}
	e.timing.Settle(e.timing.LoadDelay)

	return e.Links(h)
}

// Links reads the link table of the page h shows.
func (e *Extractor) Links(h browser.Page) ([]*source.StreamLink, error) {
	rows, err := h.Elements(site.LinkRows)
	if err != nil {
		return nil, fmt.Errorf("list link rows: %w", err)
	}

	links := make([]*source.StreamLink, 0, len(rows))
	for i, row := range rows {
		link, err := e.row(row)
		if err != nil {
			log.Infof("extract: row %d/%d dropped: %s", i+1, len(rows), err)
			continue
		}
		links = append(links, link)
	}

	log.Infof("extract: %d stream links from %d rows", len(links), len(rows))
	return links, nil
}

func (e *Extractor) row(row browser.Element) (*source.StreamLink, error) {
	cells, err := row.Elements(site.LinkCells)
	if err != nil {
		return nil, err
	}
	if len(cells) < 3 {
		return nil, fmt.Errorf("%d cells", len(cells))
	}

	anchor, err := row.Element(site.ProviderLink)
	if err != nil {
		return nil, fmt.Errorf("provider link: %w", err)
	}

	label, _ := anchor.Text()
	name := provider.Name(label)
	if !e.allow.Allows(name) {
		return nil, fmt.Errorf("provider %q not allowed", name)
	}

	version, _ := cells[1].Text()
	quality, _ := cells[2].Text()

	payload, err := anchor.Attribute(site.IframeAttribute)
	if err != nil {
		return nil, err
	}

	src, err := DecodeIframe(payload.OrEmpty())
	if err != nil {
		return nil, err
	}

	return &source.StreamLink{
		Provider: name,
		URL:      src,
		Quality:  util.Squash(quality),
		Version:  util.Squash(version),
	}, nil
}
