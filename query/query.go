// Package query keeps the search history used for query suggestions.
package query

import (
	"strings"
	"sync"
	"time"

	"github.com/imgscout/imgscout/filesystem"
	"github.com/imgscout/imgscout/key"
	"github.com/imgscout/imgscout/where"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

type record struct {
	Rank      int       `json:"rank"`
	Query     string    `json:"query"`
	Providers []string  `json:"providers"`
	LastUsed  time.Time `json:"last_used"`
}

type history = map[string]*record

var (
	mu     sync.Mutex
	cacher *gache.Cache[history]
	once   sync.Once
)

func store() *gache.Cache[history] {
	once.Do(func() {
		cacher = gache.New[history](&gache.Options{
			Path:       where.Queries(),
			FileSystem: &filesystem.GacheFs{},
		})
	})
	return cacher
}

func load() history {
	cached, expired, err := store().Get()
	if expired || err != nil || cached == nil {
		return make(history)
	}
	return cached
}

// Remember records q as searched with the given provider.
func Remember(providerID, q string) error {
	q = sanitize(q)
	if q == "" {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	cached := load()
	r, ok := cached[q]
	if !ok {
		r = &record{Query: q}
		cached[q] = r
	}
	r.Rank++
	r.LastUsed = time.Now()
	if !lo.Contains(r.Providers, providerID) {
		r.Providers = append(r.Providers, providerID)
	}

	return store().Set(cached)
}

// Suggest returns the best suggestion for q, if any.
func Suggest(q string) mo.Option[string] {
	suggestions := SuggestMany(q)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}

// SuggestMany returns past queries fuzzily matching q, most used first.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return []string{}
	}

	q = sanitize(q)

	mu.Lock()
	cached := load()
	mu.Unlock()

	records := lo.Filter(lo.Values(cached), func(r *record, _ int) bool {
		return fuzzy.Match(q, r.Query)
	})

	slices.SortFunc(records, func(a, b *record) int {
		if a.Rank != b.Rank {
			return b.Rank - a.Rank
		}
		return b.LastUsed.Compare(a.LastUsed)
	})

	return lo.Map(records, func(r *record, _ int) string { return r.Query })
}

// Clear forgets the whole history.
func Clear() error {
	mu.Lock()
	defer mu.Unlock()

	return store().Set(make(history))
}

func sanitize(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}
