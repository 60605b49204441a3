// Package duckduckgo fetches DuckDuckGo image results through the
// vqd token handshake. It only ever yields a single page.
package duckduckgo

import (
	"context"
	"net/http"
	"net/url"
	"regexp"

	"github.com/imgscout/imgscout/log"
	"github.com/imgscout/imgscout/network"
	"github.com/imgscout/imgscout/source"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

const (
	defaultBaseURL = "https://duckduckgo.com"
	defaultTitle   = "DDG Image"
)

var vqdPattern = regexp.MustCompile(`vqd=['"]([^'"]+)['"]`)

type result struct {
	Image     string `json:"image"`
	Thumbnail string `json:"thumbnail"`
	Title     string `json:"title"`
	URL       string `json:"url"`
}

type response struct {
	Results []result `json:"results"`
}

// Client is single fire: once a definitive answer arrives, results or
// a block, every later call returns nothing.
type Client struct {
	transport *network.Transport
	query     string
	baseURL   string

	fired bool
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func New(transport *network.Transport, q source.Query, opts ...Option) *Client {
	c := &Client{
		transport: transport,
		query:     q.Format(),
		baseURL:   defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() source.Name {
	return source.DuckDuckGo
}

func (c *Client) FetchNextPage(ctx context.Context) []source.Item {
	if c.fired {
		return nil
	}

	logger := log.WithFields(log.Fields{"provider": c.Name()})

	vqd, done := c.token(ctx)
	if done {
		c.fired = true
	}
	token, ok := vqd.Get()
	if !ok {
		return nil
	}

	res := c.transport.Get(ctx, network.Request{
		URL: c.baseURL + "/i.js",
		Params: url.Values{
			"l":   {"us-en"},
			"o":   {"json"},
			"q":   {c.query},
			"vqd": {token},
			"f":   {",,,"},
			"p":   {"1"},
		},
		Header: http.Header{"Referer": {c.baseURL + "/"}},
	})

	switch {
	case res.Outcome == network.OutcomeHTTPError && res.Status == http.StatusForbidden:
		logger.Warn("blocked")
		c.fired = true
		return nil
	case res.Outcome.Transient():
		logger.Warnf("results skipped: %s", res.Outcome)
		return nil
	}

	c.fired = true

	var body response
	if !res.OK() || !network.DecodeJSON(res.Body, &body) {
		logger.Warnf("no usable results: %s", res.Outcome)
		return nil
	}

	return lo.FilterMap(body.Results, func(r result, _ int) (source.Item, bool) {
		if r.Image == "" {
			return source.Item{}, false
		}
		item := source.Item{
			ImageRef:     r.Image,
			ThumbnailRef: lo.Ternary(r.Thumbnail != "", r.Thumbnail, r.Image),
			Title:        lo.Ternary(r.Title != "", r.Title, defaultTitle),
			SourceName:   source.DuckDuckGo,
			OriginURL:    r.URL,
		}
		return item, true
	})
}

// token runs the first phase. done reports a definitive outcome: a token,
// or a page that had none, which means the client is blocked.
func (c *Client) token(ctx context.Context) (vqd mo.Option[string], done bool) {
	res := c.transport.Get(ctx, network.Request{
		URL:    c.baseURL + "/",
		Params: url.Values{"q": {c.query}},
		Header: http.Header{"Referer": {c.baseURL + "/"}},
	})
	if res.Outcome.Transient() {
		return mo.None[string](), false
	}

	m := vqdPattern.FindSubmatch(res.Body)
	if m == nil {
		log.WithFields(log.Fields{"provider": c.Name(), "status": res.Status}).Warn("no vqd token, blocked")
		return mo.None[string](), true
	}
	return mo.Some(string(m[1])), false
}
