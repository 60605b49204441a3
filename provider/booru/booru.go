// Package booru implements the tag based booru providers: the JSON API,
// the HTML listing used when the API is unavailable, and the view page
// resolver that turns listing results into direct image URLs.
package booru

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/imgscout/imgscout/auth"
	"github.com/imgscout/imgscout/key"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// PerPage is how many thumbnails one listing page holds.
const PerPage = 42

var viewIDPattern = regexp.MustCompile(`[?&]id=(\d+)`)

type options struct {
	apiURL      string
	siteURL     string
	pageLimit   int
	credentials mo.Option[auth.Credentials]
}

type Option func(*options)

func WithAPIURL(u string) Option {
	return func(o *options) {
		if u != "" {
			o.apiURL = strings.TrimSuffix(u, "/")
		}
	}
}

func WithSiteURL(u string) Option {
	return func(o *options) {
		if u != "" {
			o.siteURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithPageLimit sets how many posts one API page asks for.
func WithPageLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageLimit = n
		}
	}
}

// WithCredentials switches the API to authenticated requests.
func WithCredentials(c mo.Option[auth.Credentials]) Option {
	return func(o *options) { o.credentials = c }
}

// ConfigOptions returns the options derived from the providers.booru.* settings.
func ConfigOptions() []Option {
	return []Option{
		WithAPIURL(viper.GetString(key.BooruAPIURL)),
		WithSiteURL(viper.GetString(key.BooruSiteURL)),
		WithPageLimit(viper.GetInt(key.BooruPageLimit)),
	}
}

func newOptions(opts []Option) options {
	o := options{
		apiURL:    "https://api.rule34.xxx",
		siteURL:   "https://rule34.xxx",
		pageLimit: 20,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ViewURL is the canonical post page for id.
func ViewURL(site, id string) string {
	return site + "/index.php?page=post&s=view&id=" + id
}

// absolute resolves ref against base. Protocol relative and root
// relative references both end up on base's scheme and host.
func absolute(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	b, err := url.Parse(base + "/")
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func postID(viewURL string) (string, bool) {
	m := viewIDPattern.FindStringSubmatch(viewURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}
