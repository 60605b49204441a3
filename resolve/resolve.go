// Package resolve turns view page references into direct image URLs.
package resolve

import (
	"context"

	"github.com/hashicorp/golang-lru/v2"
	"github.com/imgscout/imgscout/log"
	"github.com/imgscout/imgscout/source"
)

// Resolver handles the items of one provider family.
type Resolver interface {
	// Matches reports whether item's ImageRef is a page this resolver understands.
	Matches(item source.Item) bool

	// Resolve fetches the view page at ref and returns the direct URL.
	Resolve(ctx context.Context, ref string) (string, error)
}

// Router dispatches items to the first matching resolver and caches
// successful resolutions by view page URL.
type Router struct {
	resolvers []Resolver
	cache     *lru.Cache[string, string]
}

// NewRouter creates a router keeping up to cacheSize resolutions.
func NewRouter(cacheSize int, resolvers ...Resolver) *Router {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		panic(err)
	}
	return &Router{resolvers: resolvers, cache: cache}
}

// Add registers another resolver after the existing ones.
func (r *Router) Add(resolver Resolver) {
	r.resolvers = append(r.resolvers, resolver)
}

// Resolve returns item with a direct ImageRef. Items that need no
// resolution come back unchanged, as do items whose resolution failed.
func (r *Router) Resolve(ctx context.Context, item source.Item) source.Item {
	if !item.NeedsResolution {
		return item
	}

	if direct, ok := r.cache.Get(item.ImageRef); ok {
		return item.Resolved(direct)
	}

	logger := log.WithFields(log.Fields{"provider": item.SourceName, "url": item.ImageRef})

	for _, resolver := range r.resolvers {
		if !resolver.Matches(item) {
			continue
		}

		direct, err := resolver.Resolve(ctx, item.ImageRef)
		if err != nil {
			logger.WithError(err).Warn("resolution failed")
			return item
		}

		r.cache.Add(item.ImageRef, direct)
		return item.Resolved(direct)
	}

	logger.Warn("no resolver matches")
	return item
}
