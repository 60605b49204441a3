package duckduckgo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/imgscout/imgscout/network"
	"github.com/imgscout/imgscout/source"
	. "github.com/smartystreets/goconvey/convey"
)

type fixture struct {
	tokenPage     string
	resultsStatus int
	results       string

	tokenHits   atomic.Int32
	resultsHits atomic.Int32
	vqd         string
	referer     string
	query       string
}

func (f *fixture) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/i.js", func(w http.ResponseWriter, r *http.Request) {
		f.resultsHits.Add(1)
		f.vqd = r.URL.Query().Get("vqd")
		f.referer = r.Header.Get("Referer")
		w.WriteHeader(f.resultsStatus)
		_, _ = w.Write([]byte(f.results))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		f.tokenHits.Add(1)
		f.query = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(f.tokenPage))
	})
	return mux
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	Convey("Given DuckDuckGo hands out a token", t, func() {
		f := &fixture{
			tokenPage:     `<script>DDG.deep.initialize('/d.js?q=x&vqd="4-123456"&p=1');</script>`,
			resultsStatus: http.StatusOK,
			results: `{"results":[
				{"image":"https://i.example/1.jpg","thumbnail":"https://t.example/1.jpg","title":"Sunset","url":"https://site.example/1"},
				{"image":"https://i.example/2.jpg","url":"https://site.example/2"},
				{"thumbnail":"https://t.example/3.jpg"}]}`,
		}
		server := httptest.NewServer(f.handler())
		defer server.Close()

		c := New(network.NewTransport(nil), source.Query{Text: "sunset", Size: "wallpaper"}, WithBaseURL(server.URL))

		Convey("One page of results is returned", func() {
			items := c.FetchNextPage(ctx)
			So(items, ShouldHaveLength, 2)
			So(items[0], ShouldResemble, source.Item{
				ImageRef:     "https://i.example/1.jpg",
				ThumbnailRef: "https://t.example/1.jpg",
				Title:        "Sunset",
				SourceName:   source.DuckDuckGo,
				OriginURL:    "https://site.example/1",
			})
			So(items[1].Title, ShouldEqual, "DDG Image")
			So(items[1].ThumbnailRef, ShouldEqual, "https://i.example/2.jpg")

			So(f.query, ShouldEqual, "sunset wallpaper")
			So(f.vqd, ShouldEqual, "4-123456")
			So(f.referer, ShouldEqual, server.URL+"/")

			Convey("Later calls are empty and silent", func() {
				So(c.FetchNextPage(ctx), ShouldBeEmpty)
				So(c.FetchNextPage(ctx), ShouldBeEmpty)
				So(f.tokenHits.Load(), ShouldEqual, 1)
				So(f.resultsHits.Load(), ShouldEqual, 1)
			})
		})
	})

	Convey("Given the token is missing", t, func() {
		f := &fixture{tokenPage: `<html>Unusual traffic</html>`, resultsStatus: http.StatusOK}
		server := httptest.NewServer(f.handler())
		defer server.Close()

		c := New(network.NewTransport(nil), source.Query{Text: "x"}, WithBaseURL(server.URL))
		So(c.FetchNextPage(ctx), ShouldBeEmpty)
		So(c.FetchNextPage(ctx), ShouldBeEmpty)
		So(f.tokenHits.Load(), ShouldEqual, 1)
		So(f.resultsHits.Load(), ShouldEqual, 0)
	})

	Convey("Given the results endpoint answers 403", t, func() {
		f := &fixture{tokenPage: `vqd='abc'`, resultsStatus: http.StatusForbidden}
		server := httptest.NewServer(f.handler())
		defer server.Close()

		c := New(network.NewTransport(nil), source.Query{Text: "x"}, WithBaseURL(server.URL))
		So(c.FetchNextPage(ctx), ShouldBeEmpty)
		So(c.FetchNextPage(ctx), ShouldBeEmpty)
		So(f.resultsHits.Load(), ShouldEqual, 1)
	})

	Convey("Given the results endpoint is rate limited", t, func() {
		f := &fixture{tokenPage: `vqd='abc'`, resultsStatus: http.StatusTooManyRequests}
		server := httptest.NewServer(f.handler())
		defer server.Close()

		noSleep := func(context.Context, time.Duration) error { return nil }
		c := New(network.NewTransport(nil, network.WithSleeper(noSleep), network.WithMaxAttempts(1)),
			source.Query{Text: "x"}, WithBaseURL(server.URL))

		Convey("The flag stays unfired so a later call retries", func() {
			So(c.FetchNextPage(ctx), ShouldBeEmpty)
			So(c.fired, ShouldBeFalse)

			f.resultsStatus = http.StatusOK
			f.results = `{"results":[{"image":"https://i.example/1.jpg"}]}`
			So(c.FetchNextPage(ctx), ShouldHaveLength, 1)
			So(c.fired, ShouldBeTrue)
		})
	})
}
