// Package history records the titles the scraper opened, most recent first.
package history

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/filmscout/filmscout/filesystem"
	"github.com/filmscout/filmscout/source"
	"github.com/filmscout/filmscout/where"
	"github.com/metafates/gache"
)

// Entry is an opened title.
type Entry struct {
	Title    string             `json:"title"`
	URL      string             `json:"url"`
	Type     source.ContentType `json:"type"`
	Year     string             `json:"year,omitempty"`
	Episodes int                `json:"episodes"`
	// Latest is the label of the last listed episode.
	Latest   string    `json:"latest,omitempty"`
	OpenedAt time.Time `json:"opened_at"`
}

func (e *Entry) String() string {
	s := e.Title
	if e.Year != "" {
		s = fmt.Sprintf("%s (%s)", s, e.Year)
	}
	if e.Latest != "" {
		s = fmt.Sprintf("%s : %s", s, e.Latest)
	}
	return s
}

var cacher = gache.New[map[string]*Entry](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// now is replaced in tests.
var now = time.Now

func encode(url string) string {
	return strings.TrimSuffix(url, "/")
}

// Get returns every recorded entry keyed by title url.
func Get() (map[string]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// List returns the entries, most recently opened first.
func List() ([]*Entry, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(saved))
	for _, e := range saved {
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OpenedAt.After(entries[j].OpenedAt)
	})

	return entries, nil
}

// Save records result as opened now. A title opened again replaces its entry.
func Save(result *source.SearchResult, episodes []*source.Episode) error {
	if result == nil || result.URL == "" {
		return nil
	}

	saved, err := Get()
	if err != nil {
		return err
	}

	entry := &Entry{
		Title:    result.Title,
		URL:      result.URL,
		Type:     result.Type,
		Year:     result.Year,
		Episodes: len(episodes),
		OpenedAt: now(),
	}
	if len(episodes) > 0 {
		entry.Latest = episodes[len(episodes)-1].Label
	}

	saved[encode(result.URL)] = entry
	return cacher.Set(saved)
}

// Remove deletes the entry of url.
func Remove(url string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, encode(url))
	return cacher.Set(saved)
}

// Forget drops every entry.
func Forget() error {
	return cacher.Set(make(map[string]*Entry))
}
