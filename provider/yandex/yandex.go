// Package yandex does a best effort scrape of one Yandex image results page.
package yandex

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/imgscout/imgscout/key"
	"github.com/imgscout/imgscout/log"
	"github.com/imgscout/imgscout/network"
	"github.com/imgscout/imgscout/source"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const (
	defaultBaseURL    = "https://yandex.com"
	defaultMaxResults = 30
	title             = "Yandex Result"
)

var (
	quotedURL  = regexp.MustCompile(`"https?://[^"]+"`)
	extensions = []string{".jpg", ".jpeg", ".png"}
)

type Client struct {
	transport     *network.Transport
	query         string
	baseURL       string
	maxResults    int
	excludedHosts []string

	fired bool
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithMaxResults(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

// WithExcludedHosts drops URLs served from Yandex's own asset hosts.
func WithExcludedHosts(hosts []string) Option {
	return func(c *Client) { c.excludedHosts = hosts }
}

func ConfigOptions() []Option {
	return []Option{
		WithMaxResults(viper.GetInt(key.YandexMaxResults)),
		WithExcludedHosts(viper.GetStringSlice(key.YandexExcludedHosts)),
	}
}

func New(transport *network.Transport, q source.Query, opts ...Option) *Client {
	c := &Client{
		transport:     transport,
		query:         q.Format(),
		baseURL:       defaultBaseURL,
		maxResults:    defaultMaxResults,
		excludedHosts: []string{"avatars.mds.yandex.net"},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() source.Name {
	return source.Yandex
}

func (c *Client) FetchNextPage(ctx context.Context) []source.Item {
	if c.fired {
		return nil
	}

	res := c.transport.Get(ctx, network.Request{
		URL:    c.baseURL + "/images/search",
		Params: url.Values{"text": {c.query}},
	})
	if res.Outcome.Transient() {
		log.WithFields(log.Fields{"provider": c.Name()}).Warnf("page skipped: %s", res.Outcome)
		return nil
	}
	c.fired = true

	if !res.OK() {
		return nil
	}

	images := c.extract(string(res.Body))
	return lo.Map(images, func(img string, _ int) source.Item {
		return source.Item{
			ImageRef:     img,
			ThumbnailRef: img,
			Title:        title,
			SourceName:   source.Yandex,
			OriginURL:    img,
		}
	})
}

func (c *Client) extract(body string) []string {
	candidates := lo.Map(quotedURL.FindAllString(body, -1), func(m string, _ int) string {
		return strings.Trim(m, `"`)
	})

	images := lo.Filter(candidates, func(u string, _ int) bool {
		return c.isImage(u) && !c.excluded(u)
	})

	images = lo.Uniq(images)
	if len(images) > c.maxResults {
		images = images[:c.maxResults]
	}
	return images
}

func (c *Client) isImage(u string) bool {
	lower := strings.ToLower(u)
	return lo.SomeBy(extensions, func(ext string) bool { return strings.Contains(lower, ext) })
}

func (c *Client) excluded(u string) bool {
	return lo.SomeBy(c.excludedHosts, func(host string) bool { return strings.Contains(u, host) })
}
