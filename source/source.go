// Package source defines the normalized result model and the provider capability.
package source

import "context"

// Source is one remote image provider with its own pagination cursor.
type Source interface {
	// Name identifies the provider on every item it produces.
	Name() Name

	// FetchNextPage returns the next page of results. An empty page means
	// nothing now or nothing ever again; remote failures never surface as errors.
	// Implementations are not safe for concurrent use.
	FetchNextPage(ctx context.Context) []Item
}
