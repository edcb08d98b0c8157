// Package query remembers searched titles and suggests them back.
package query

import (
	"strings"
	"time"

	"github.com/filmscout/filmscout/filesystem"
	"github.com/filmscout/filmscout/key"
	"github.com/filmscout/filmscout/source"
	"github.com/filmscout/filmscout/util"
	"github.com/filmscout/filmscout/where"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

// record is one remembered title query.
type record struct {
	Query string `json:"query"`
	Rank  int    `json:"rank"`
	// Types counts the searches made per content type filter.
	Types    map[source.ContentType]int `json:"types,omitempty"`
	LastUsed time.Time                  `json:"last_used"`
}

// affinity is how often the query was searched with filter. Any counts every search.
func (r *record) affinity(filter source.ContentType) int {
	if filter == source.Any {
		return r.Rank
	}
	return r.Types[filter]
}

var cacher = gache.New[map[string]*record](
	&gache.Options{
		Path:       where.Queries(),
		FileSystem: &filesystem.GacheFs{},
	},
)

var now = time.Now

func load() map[string]*record {
	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		return make(map[string]*record)
	}
	return cached
}

// Remember records a title searched with filter, raising its rank.
func Remember(q string, filter source.ContentType) error {
	q = sanitize(q)
	if q == "" {
		return nil
	}

	cached := load()
	r, ok := cached[q]
	if !ok {
		r = &record{Query: q}
		cached[q] = r
	}

	if r.Types == nil {
		r.Types = make(map[source.ContentType]int)
	}

	r.Rank++
	r.Types[filter]++
	r.LastUsed = now()

	return cacher.Set(cached)
}

// Forget drops the whole query history.
func Forget() error {
	return cacher.Set(make(map[string]*record))
}

// Suggest returns the best remembered title for a partial input.
func Suggest(q string, filter source.ContentType) mo.Option[string] {
	suggestions := SuggestMany(q, filter)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}

// SuggestMany returns the remembered titles fuzzy matching q.
// Titles searched with filter come first, then the most searched, then the most recent.
func SuggestMany(q string, filter source.ContentType) []string {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return []string{}
	}

	q = sanitize(q)
	records := lo.Filter(lo.Values(load()), func(r *record, _ int) bool {
		return fuzzy.Match(q, r.Query)
	})

	slices.SortFunc(records, func(a, b *record) int {
		if d := b.affinity(filter) - a.affinity(filter); d != 0 {
			return d
		}
		if d := b.Rank - a.Rank; d != 0 {
			return d
		}
		return b.LastUsed.Compare(a.LastUsed)
	})

	return lo.Map(records, func(r *record, _ int) string {
		return r.Query
	})
}

func sanitize(q string) string {
	return util.Squash(strings.ToLower(q))
}
