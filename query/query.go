// Package query keeps the search history behind query suggestions.
package query

import (
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/tubecycle/tubecycle/filesystem"
	"github.com/tubecycle/tubecycle/key"
	"github.com/tubecycle/tubecycle/where"
	"golang.org/x/exp/slices"
)

type record struct {
	Rank     int       `json:"rank"`
	Query    string    `json:"query"`
	LastUsed time.Time `json:"last_used"`
}

var (
	mu          sync.Mutex
	once        sync.Once
	cacher      *gache.Cache[map[string]*record]
	suggestions = make(map[string][]string)
)

func store() *gache.Cache[map[string]*record] {
	once.Do(func() {
		cacher = gache.New[map[string]*record](
			&gache.Options{
				Path:       where.Queries(),
				FileSystem: &filesystem.GacheFs{},
			},
		)
	})
	return cacher
}

func load() map[string]*record {
	cached, expired, err := store().Get()
	if expired || err != nil || cached == nil {
		return make(map[string]*record)
	}
	return cached
}

// Remember records q, adding weight to its rank when it was searched before.
func Remember(q string, weight int) error {
	q = sanitize(q)
	if q == "" {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	records := load()
	if r, ok := records[q]; ok {
		r.Rank += weight
		r.LastUsed = time.Now()
	} else {
		records[q] = &record{Rank: weight, Query: q, LastUsed: time.Now()}
	}

	clear(suggestions)
	return store().Set(records)
}

// Suggest returns the best ranked past query fuzzy-matching q.
func Suggest(q string) mo.Option[string] {
	if s := SuggestMany(q); len(s) > 0 {
		return mo.Some(s[0])
	}
	return mo.None[string]()
}

// SuggestMany returns past queries fuzzy-matching q, highest rank first and most recent on ties.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return nil
	}

	q = sanitize(q)

	mu.Lock()
	defer mu.Unlock()

	if prev, ok := suggestions[q]; ok {
		return prev
	}

	matched := lo.Filter(lo.Values(load()), func(r *record, _ int) bool {
		return fuzzy.Match(q, r.Query)
	})

	slices.SortFunc(matched, func(a, b *record) int {
		if a.Rank != b.Rank {
			return b.Rank - a.Rank
		}
		return b.LastUsed.Compare(a.LastUsed)
	})

	result := lo.Map(matched, func(r *record, _ int) string {
		return r.Query
	})
	suggestions[q] = result
	return result
}

// Clear forgets every past query.
func Clear() error {
	mu.Lock()
	defer mu.Unlock()

	clear(suggestions)
	return store().Set(make(map[string]*record))
}

func sanitize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
