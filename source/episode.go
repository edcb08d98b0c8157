package source

import "fmt"

// Episode is a playable unit of a catalog entry. Movies are represented by a single episode.
type Episode struct {
	// Label is the bracketed code, e.g. "S01E01", or the whole item text when it has none.
	Label string `json:"episode"`
	Title string `json:"title"`
	URL   string `json:"url"`

	// Links are populated only when requested.
	Links []*StreamLink `json:"streaming_links,omitempty"`
}

// String returns the label and title joined for display.
func (e *Episode) String() string {
	if e.Title == "" {
		return e.Label
	}
	return fmt.Sprintf("[%s] %s", e.Label, e.Title)
}

// StreamLink is a playable embed extracted from an episode's link table.
type StreamLink struct {
	Provider string `json:"provider"`
	URL      string `json:"url"`
	Quality  string `json:"quality"`
	Version  string `json:"version"`
}

func (l *StreamLink) String() string {
	return fmt.Sprintf("%s %s %s", l.Provider, l.Quality, l.URL)
}
