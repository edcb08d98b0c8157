// Package source defines the domain models and interfaces for catalog discovery and link retrieval.
package source

// Source defines the capabilities of a catalog scraping engine.
type Source interface {
	// Search submits a query and returns the result tiles, optionally narrowed to one content type.
	Search(query string, filter ContentType) ([]*SearchResult, error)

	// EpisodesOf opens a search result and lists its episodes.
	EpisodesOf(result *SearchResult) ([]*Episode, error)

	// LinksOf extracts the playable stream links of an episode.
	LinksOf(episode *Episode) ([]*StreamLink, error)
}

// Preparer is implemented by sources that must be logged in before scraping.
type Preparer interface {
	Prepare() error
}
