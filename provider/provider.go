// Package provider is the closed registry of built-in image providers.
package provider

import (
	"github.com/imgscout/imgscout/auth"
	"github.com/imgscout/imgscout/key"
	"github.com/imgscout/imgscout/network"
	"github.com/imgscout/imgscout/provider/bing"
	"github.com/imgscout/imgscout/provider/booru"
	"github.com/imgscout/imgscout/provider/duckduckgo"
	"github.com/imgscout/imgscout/provider/yandex"
	"github.com/imgscout/imgscout/resolve"
	"github.com/imgscout/imgscout/source"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Provider describes one selectable source.
type Provider struct {
	ID          string
	Name        source.Name
	Description string

	// Tagged providers take the query as literal tag syntax and ignore the size modifier.
	Tagged bool

	// CreateSource builds a fresh source with its own cursor.
	CreateSource func(t *network.Transport, q source.Query) source.Source

	// CreateResolver is set for providers whose items need resolution.
	CreateResolver func(t *network.Transport) resolve.Resolver
}

func (p *Provider) String() string {
	return p.ID
}

// RequiresCredentials reports whether this provider refuses to run anonymously.
func (p *Provider) RequiresCredentials() bool {
	return p.ID == "booru" && viper.GetBool(key.BooruAuthenticated)
}

// Builtins returns every provider in display order.
func Builtins() []*Provider {
	return []*Provider{
		{
			ID:          "booru",
			Name:        source.TagBooru,
			Description: "Booru JSON API, tag syntax",
			Tagged:      true,
			CreateSource: func(t *network.Transport, q source.Query) source.Source {
				opts := append(booru.ConfigOptions(), booru.WithCredentials(auth.Booru()))
				return booru.NewAPI(t, q.Text, opts...)
			},
		},
		{
			ID:          "booru-html",
			Name:        source.TagBooruHTML,
			Description: "Booru website listing, tag syntax, results resolved on demand",
			Tagged:      true,
			CreateSource: func(t *network.Transport, q source.Query) source.Source {
				return booru.NewHTML(t, q.Text, booru.ConfigOptions()...)
			},
			CreateResolver: func(t *network.Transport) resolve.Resolver {
				return booru.NewResolver(t, booru.ConfigOptions()...)
			},
		},
		{
			ID:          "bing",
			Name:        source.Bing,
			Description: "Bing image search",
			CreateSource: func(t *network.Transport, q source.Query) source.Source {
				return bing.New(t, q, bing.ConfigOptions()...)
			},
		},
		{
			ID:          "ddg",
			Name:        source.DuckDuckGo,
			Description: "DuckDuckGo image search, single page",
			CreateSource: func(t *network.Transport, q source.Query) source.Source {
				return duckduckgo.New(t, q)
			},
		},
		{
			ID:          "yandex",
			Name:        source.Yandex,
			Description: "Yandex image search, single page",
			CreateSource: func(t *network.Transport, q source.Query) source.Source {
				return yandex.New(t, q, yandex.ConfigOptions()...)
			},
		},
	}
}

// IDs lists the ids of every built-in provider.
func IDs() []string {
	return lo.Map(Builtins(), func(p *Provider, _ int) string { return p.ID })
}

// Get finds a provider by id.
func Get(id string) (*Provider, bool) {
	return lo.Find(Builtins(), func(p *Provider) bool { return p.ID == id })
}
