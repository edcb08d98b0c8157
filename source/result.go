package source

import "fmt"

// SearchResult is one tile of the search results page.
type SearchResult struct {
	Title string      `json:"title"`
	URL   string      `json:"url"`
	Type  ContentType `json:"type"`
	// Year is the release year as printed on the tile. Empty when absent.
	Year string `json:"year,omitempty"`
	// Index is the position of the tile within the filtered listing it came from.
	Index int `json:"index"`
	// Filter is the content type filter the listing was built with.
	Filter ContentType `json:"-"`
}

func (r *SearchResult) String() string {
	if r.Year == "" {
		return r.Title
	}
	return fmt.Sprintf("%s (%s)", r.Title, r.Year)
}
