package booru

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/imgscout/imgscout/log"
	"github.com/imgscout/imgscout/network"
	"github.com/imgscout/imgscout/source"
	"github.com/samber/lo"
)

type post struct {
	ID         json.Number `json:"id"`
	Score      json.Number `json:"score"`
	FileURL    string      `json:"file_url"`
	SampleURL  string      `json:"sample_url"`
	PreviewURL string      `json:"preview_url"`
}

func (p post) thumbnail() string {
	switch {
	case p.PreviewURL != "":
		return p.PreviewURL
	case p.SampleURL != "":
		return p.SampleURL
	default:
		return p.FileURL
	}
}

func (p post) score() string {
	if p.Score == "" {
		return "0"
	}
	return p.Score.String()
}

// API pages through the booru JSON API.
type API struct {
	transport *network.Transport
	tags      string
	opts      options

	pid       int
	exhausted bool
}

// NewAPI creates a source for raw tag syntax.
func NewAPI(transport *network.Transport, tags string, opts ...Option) *API {
	return &API{
		transport: transport,
		tags:      tags,
		opts:      newOptions(opts),
	}
}

func (a *API) Name() source.Name {
	return source.TagBooru
}

// FetchNextPage requests the current pid. The cursor is exhausted for
// good by an empty body, an unparsable or non-array body, or an empty list.
func (a *API) FetchNextPage(ctx context.Context) []source.Item {
	if a.exhausted {
		return nil
	}

	res := a.transport.Get(ctx, network.Request{
		URL:    a.opts.apiURL + "/index.php",
		Params: a.params(),
	})

	logger := log.WithFields(log.Fields{"provider": a.Name(), "page": a.pid})

	switch res.Outcome {
	case network.OutcomeOK:
	case network.OutcomeEmpty:
		logger.Info("empty body, no more pages")
		a.exhausted = true
		return nil
	default:
		logger.Warnf("page skipped: %s", res.Outcome)
		return nil
	}

	var posts []post
	if !network.DecodeJSON(res.Body, &posts) || len(posts) == 0 {
		logger.Info("no posts in response, no more pages")
		a.exhausted = true
		return nil
	}

	a.pid++

	posts = lo.Filter(posts, func(p post, _ int) bool { return p.FileURL != "" })
	return lo.Map(posts, func(p post, _ int) source.Item {
		return source.Item{
			ImageRef:     p.FileURL,
			ThumbnailRef: p.thumbnail(),
			Title:        "Score: " + p.score(),
			SourceName:   source.TagBooru,
			OriginURL:    ViewURL(a.opts.siteURL, p.ID.String()),
		}
	})
}

func (a *API) params() url.Values {
	params := url.Values{
		"page":  {"dapi"},
		"s":     {"post"},
		"q":     {"index"},
		"json":  {"1"},
		"limit": {strconv.Itoa(a.opts.pageLimit)},
		"pid":   {strconv.Itoa(a.pid)},
		"tags":  {a.tags},
	}

	if creds, ok := a.opts.credentials.Get(); ok && creds.Valid() {
		params.Set("api_key", creds.APIKey)
		params.Set("user_id", creds.UserID)
	}

	return params
}
