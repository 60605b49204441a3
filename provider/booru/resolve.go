package booru

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/imgscout/imgscout/network"
	"github.com/imgscout/imgscout/source"
)

var ErrNoImage = errors.New("no image on view page")

// Resolver reads the direct image URL off a post view page.
type Resolver struct {
	transport *network.Transport
	opts      options
	host      string
}

func NewResolver(transport *network.Transport, opts ...Option) *Resolver {
	o := newOptions(opts)
	var host string
	if u, err := url.Parse(o.siteURL); err == nil {
		host = u.Host
	}
	return &Resolver{transport: transport, opts: o, host: host}
}

// Matches accepts view page references on the configured site.
func (r *Resolver) Matches(item source.Item) bool {
	u, err := url.Parse(item.ImageRef)
	if err != nil || u.Host != r.host {
		return false
	}
	q := u.Query()
	return q.Get("page") == "post" && q.Get("s") == "view" && viewIDPattern.MatchString(item.ImageRef)
}

func (r *Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	res := r.transport.Get(ctx, network.Request{URL: ref})
	if !res.OK() {
		return "", fmt.Errorf("fetch view page: %s (status %d)", res.Outcome, res.Status)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		return "", fmt.Errorf("parse view page: %w", err)
	}

	src := strings.TrimSpace(doc.Find("img#image").AttrOr("src", ""))
	if src == "" {
		src = strings.TrimSpace(doc.Find(`meta[property="og:image"]`).AttrOr("content", ""))
	}
	if src == "" {
		return "", ErrNoImage
	}

	return absolute(r.opts.siteURL, src), nil
}
