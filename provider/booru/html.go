package booru

import (
	"bytes"
	"context"
	"net/url"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/imgscout/imgscout/log"
	"github.com/imgscout/imgscout/network"
	"github.com/imgscout/imgscout/source"
)

// HTML scrapes the post listing. Listing pages carry no direct image
// URLs, so every item it yields needs resolution.
type HTML struct {
	transport *network.Transport
	tags      string
	opts      options

	offset    int
	seen      map[string]struct{}
	exhausted bool
}

func NewHTML(transport *network.Transport, tags string, opts ...Option) *HTML {
	return &HTML{
		transport: transport,
		tags:      tags,
		opts:      newOptions(opts),
		seen:      make(map[string]struct{}),
	}
}

func (h *HTML) Name() source.Name {
	return source.TagBooruHTML
}

func (h *HTML) FetchNextPage(ctx context.Context) []source.Item {
	if h.exhausted {
		return nil
	}

	res := h.transport.Get(ctx, network.Request{
		URL: h.opts.siteURL + "/index.php",
		Params: url.Values{
			"page": {"post"},
			"s":    {"list"},
			"tags": {h.tags},
			"pid":  {strconv.Itoa(h.offset)},
		},
	})

	logger := log.WithFields(log.Fields{"provider": h.Name(), "offset": h.offset})

	switch res.Outcome {
	case network.OutcomeOK:
	case network.OutcomeEmpty:
		h.exhausted = true
		return nil
	default:
		logger.Warnf("page skipped: %s", res.Outcome)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		logger.WithError(err).Warn("unparsable listing")
		h.exhausted = true
		return nil
	}

	thumbs := doc.Find("span.thumb > a")
	if thumbs.Length() == 0 {
		logger.Info("no thumbnails, no more pages")
		h.exhausted = true
		return nil
	}

	var items []source.Item
	thumbs.Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}

		view := absolute(h.opts.siteURL, href)
		id, ok := postID(view)
		if !ok {
			return
		}
		if _, dup := h.seen[id]; dup {
			return
		}
		h.seen[id] = struct{}{}

		thumb := absolute(h.opts.siteURL, s.Find("img").AttrOr("src", ""))
		if thumb == "" {
			thumb = view
		}

		items = append(items, source.Item{
			ImageRef:        view,
			ThumbnailRef:    thumb,
			Title:           "Post #" + id,
			SourceName:      source.TagBooruHTML,
			OriginURL:       view,
			NeedsResolution: true,
		})
	})

	h.offset += PerPage
	return items
}
