// Package inline runs a search and prints what it finds without any interaction.
package inline

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/filmscout/filmscout/scraper"
	"github.com/filmscout/filmscout/source"
	"github.com/filmscout/filmscout/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

type (
	ResultPicker   func([]*source.SearchResult) *source.SearchResult
	EpisodesFilter func([]*source.Episode) ([]*source.Episode, error)
)

type Options struct {
	Out    io.Writer
	Source source.Source
	Json   bool
	Query  string
	// Filter narrows the search to one content type.
	Filter         source.ContentType
	ResultPicker   mo.Option[ResultPicker]
	EpisodesFilter mo.Option[EpisodesFilter]
	// Links extracts the stream links of every kept episode.
	Links bool
	// WriteHistory records the picked title.
	WriteHistory bool
}

// ParseResultPicker builds a picker from its kind: first, last, exact, index or year.
func ParseResultPicker(kind, value string) (ResultPicker, error) {
	switch kind {
	case "first":
		return func(results []*source.SearchResult) *source.SearchResult {
			if len(results) == 0 {
				return nil
			}
			return results[0]
		}, nil
	case "last":
		return func(results []*source.SearchResult) *source.SearchResult {
			if len(results) == 0 {
				return nil
			}
			return results[len(results)-1]
		}, nil
	case "exact":
		return func(results []*source.SearchResult) *source.SearchResult {
			for _, r := range results {
				if strings.EqualFold(r.Title, value) {
					return r
				}
			}
			return nil
		}, nil
	case "index":
		idx, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid index: %s", value)
		}
		return func(results []*source.SearchResult) *source.SearchResult {
			if len(results) == 0 {
				return nil
			}
			i := util.Min(idx, uint64(len(results)-1))
			return results[i]
		}, nil
	case "year":
		if _, err := strconv.ParseUint(value, 10, 16); err != nil {
			return nil, fmt.Errorf("invalid year: %s", value)
		}
		return func(results []*source.SearchResult) *source.SearchResult {
			if len(results) == 0 {
				return nil
			}
			return results[scraper.PickByYear(results, value)]
		}, nil
	default:
		return nil, fmt.Errorf("unknown picker type: %s", kind)
	}
}

// ParseEpisodesFilter parses an episode selection.
// Format: "first", "last", "all", "1-5", "@text@", "3" or an episode label such as "S01E02".
func ParseEpisodesFilter(description string) (EpisodesFilter, error) {
	switch description {
	case "first":
		return func(episodes []*source.Episode) ([]*source.Episode, error) {
			if len(episodes) == 0 {
				return episodes, nil
			}
			return episodes[:1], nil
		}, nil
	case "last":
		return func(episodes []*source.Episode) ([]*source.Episode, error) {
			if len(episodes) == 0 {
				return episodes, nil
			}
			return episodes[len(episodes)-1:], nil
		}, nil
	case "all", "":
		return func(episodes []*source.Episode) ([]*source.Episode, error) {
			return episodes, nil
		}, nil
	}

	// Range: "1-5"
	if from, to, ok := strings.Cut(description, "-"); ok {
		first, err1 := strconv.ParseUint(from, 10, 16)
		last, err2 := strconv.ParseUint(to, 10, 16)
		if err1 == nil && err2 == nil {
			return func(episodes []*source.Episode) ([]*source.Episode, error) {
				start := util.Min(first, uint64(len(episodes)))
				end := util.Min(last+1, uint64(len(episodes)))
				if start > end {
					return []*source.Episode{}, nil
				}
				return episodes[start:end], nil
			}, nil
		}
	}

	// Substring of the label or title: "@text@"
	if len(description) > 1 && strings.HasPrefix(description, "@") && strings.HasSuffix(description, "@") {
		sub := strings.ToLower(description[1 : len(description)-1])
		return func(episodes []*source.Episode) ([]*source.Episode, error) {
			return lo.Filter(episodes, func(e *source.Episode, _ int) bool {
				return strings.Contains(strings.ToLower(e.Label), sub) || strings.Contains(strings.ToLower(e.Title), sub)
			}), nil
		}, nil
	}

	// Single index: "5"
	if idx, err := strconv.ParseUint(description, 10, 16); err == nil {
		return func(episodes []*source.Episode) ([]*source.Episode, error) {
			if uint64(len(episodes)) <= idx {
				return []*source.Episode{}, nil
			}
			return []*source.Episode{episodes[idx]}, nil
		}, nil
	}

	// Label: "S01E02"
	if strings.ContainsFunc(description, func(r rune) bool { return r == ' ' || r == '\t' }) {
		return nil, fmt.Errorf("invalid episode filter: %s", description)
	}

	return func(episodes []*source.Episode) ([]*source.Episode, error) {
		return lo.Filter(episodes, func(e *source.Episode, _ int) bool {
			return strings.EqualFold(e.Label, description)
		}), nil
	}, nil
}
