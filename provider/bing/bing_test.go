package bing

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/imgscout/imgscout/network"
	"github.com/imgscout/imgscout/source"
	. "github.com/smartystreets/goconvey/convey"
)

func escapedResults(from, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `<a class="iusc" m="{&quot;murl&quot;:&quot;https://img.example/%d.jpg&quot;}"></a>`, from+i)
	}
	return b.String()
}

func TestClient(t *testing.T) {
	Convey("Given a Bing results server", t, func() {
		var (
			hits   atomic.Int32
			firsts []string
			qs     []string
		)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			first := r.URL.Query().Get("first")
			firsts = append(firsts, first)
			qs = append(qs, r.URL.Query().Get("q"))
			n, _ := strconv.Atoi(first)
			_, _ = w.Write([]byte(escapedResults(n, 35)))
		}))
		defer server.Close()

		c := New(network.NewTransport(nil), source.Query{Text: "aurora", Size: "4k"},
			WithBaseURL(server.URL), WithMaxOffset(100))
		ctx := context.Background()

		Convey("Items are built from murl attributes", func() {
			items := c.FetchNextPage(ctx)
			So(items, ShouldHaveLength, 35)
			So(items[0], ShouldResemble, source.Item{
				ImageRef:     "https://img.example/1.jpg",
				ThumbnailRef: "https://img.example/1.jpg",
				Title:        "Bing Image",
				SourceName:   source.Bing,
				OriginURL:    "https://img.example/1.jpg",
			})
			So(qs[0], ShouldEqual, "aurora 4k wallpaper")
		})

		Convey("The offset advances by the links found until the ceiling", func() {
			for c.FetchNextPage(ctx) != nil {
			}
			So(firsts, ShouldResemble, []string{"1", "36", "71"})

			before := hits.Load()
			So(c.FetchNextPage(ctx), ShouldBeEmpty)
			So(c.FetchNextPage(ctx), ShouldBeEmpty)
			So(hits.Load(), ShouldEqual, before)
		})
	})

	Convey("The raw JSON pattern is used as a fallback", t, func() {
		links := extract(`<script>var x = {"murl":"https://a.example/1.png","turl":"t"};{"murl":"https://a.example/2.png"}</script>`)
		So(links, ShouldResemble, []string{"https://a.example/1.png", "https://a.example/2.png"})
	})

	Convey("A page without links leaves the offset alone", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>captcha</html>"))
		}))
		defer server.Close()

		c := New(network.NewTransport(nil), source.Query{Text: "x"}, WithBaseURL(server.URL))
		So(c.FetchNextPage(context.Background()), ShouldBeEmpty)
		So(c.offset, ShouldEqual, 1)
	})
}
