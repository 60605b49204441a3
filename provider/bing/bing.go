// Package bing scrapes Bing image search result pages.
package bing

import (
	"context"
	"net/url"
	"regexp"
	"strconv"

	"github.com/imgscout/imgscout/key"
	"github.com/imgscout/imgscout/log"
	"github.com/imgscout/imgscout/network"
	"github.com/imgscout/imgscout/source"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const (
	defaultBaseURL   = "https://www.bing.com"
	defaultMaxOffset = 1000
	title            = "Bing Image"
)

// The result markup has switched between HTML-escaped and raw JSON attributes.
var (
	escapedMurl = regexp.MustCompile(`murl&quot;:&quot;([^&]+)&quot;`)
	rawMurl     = regexp.MustCompile(`"murl":"([^"]+)"`)
)

// Client pages through results by offset.
type Client struct {
	transport *network.Transport
	query     string
	baseURL   string
	maxOffset int

	offset int
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithMaxOffset sets the offset past which no more pages are requested.
func WithMaxOffset(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxOffset = n
		}
	}
}

func ConfigOptions() []Option {
	return []Option{WithMaxOffset(viper.GetInt(key.BingMaxOffset))}
}

func New(transport *network.Transport, q source.Query, opts ...Option) *Client {
	c := &Client{
		transport: transport,
		query:     q.Format(),
		baseURL:   defaultBaseURL,
		maxOffset: defaultMaxOffset,
		offset:    1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() source.Name {
	return source.Bing
}

func (c *Client) FetchNextPage(ctx context.Context) []source.Item {
	if c.offset > c.maxOffset {
		return nil
	}

	res := c.transport.Get(ctx, network.Request{
		URL: c.baseURL + "/images/search",
		Params: url.Values{
			"q":        {c.query},
			"form":     {"HDRSC2"},
			"first":    {strconv.Itoa(c.offset)},
			"scenario": {"ImageBasicHover"},
		},
	})
	if !res.OK() {
		log.WithFields(log.Fields{"provider": c.Name(), "offset": c.offset}).Warnf("page skipped: %s", res.Outcome)
		return nil
	}

	links := extract(string(res.Body))
	if len(links) == 0 {
		return nil
	}

	c.offset += len(links)
	return lo.Map(links, func(link string, _ int) source.Item {
		return source.Item{
			ImageRef:     link,
			ThumbnailRef: link,
			Title:        title,
			SourceName:   source.Bing,
			OriginURL:    link,
		}
	})
}

func extract(body string) []string {
	matches := escapedMurl.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		matches = rawMurl.FindAllStringSubmatch(body, -1)
	}
	return lo.Map(matches, func(m []string, _ int) string { return m[1] })
}
