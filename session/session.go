// Package session hands out results of a search in batches, behind an opaque handle.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/imgscout/imgscout/constant"
	"github.com/imgscout/imgscout/source"
	"golang.org/x/exp/slices"
)

// Session wraps one source. Calls on the same session are serialized.
type Session struct {
	Handle     string
	ProviderID string
	Query      source.Query
	Created    time.Time

	mu      sync.Mutex
	src     source.Source
	pending []source.Item
}

func newSession(handle, providerID string, q source.Query, src source.Source) *Session {
	return &Session{
		Handle:     handle,
		ProviderID: providerID,
		Query:      q,
		Created:    time.Now(),
		src:        src,
	}
}

// NextBatch returns up to n items. Leftovers from the previous page are
// served first, then pages are fetched until n items are gathered or a
// page comes back empty. Items past n are kept for the next call.
func (s *Session) NextBatch(ctx context.Context, n int) []source.Item {
	if n <= 0 {
		n = constant.DefaultBatchSize
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make([]source.Item, 0, n)
	batch = s.take(batch, n)

	for len(batch) < n && ctx.Err() == nil {
		page := s.src.FetchNextPage(ctx)
		if len(page) == 0 {
			break
		}
		s.pending = append(s.pending, page...)
		batch = s.take(batch, n)
	}

	return batch
}

// Pending returns how many fetched items are waiting for the next batch.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *Session) take(batch []source.Item, n int) []source.Item {
	k := min(n-len(batch), len(s.pending))
	batch = append(batch, s.pending[:k]...)
	s.pending = slices.Clone(s.pending[k:])
	return batch
}
