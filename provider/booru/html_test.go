package booru

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/imgscout/imgscout/network"
	"github.com/imgscout/imgscout/source"
	. "github.com/smartystreets/goconvey/convey"
)

const listingPage = `<html><body><div class="image-list">
<span id="s1" class="thumb"><a id="p1" href="index.php?page=post&amp;s=view&amp;id=101"><img src="//cdn.booru.example/thumbnails/1/thumbnail_a.jpg" class="preview"/></a></span>
<span id="s2" class="thumb"><a id="p2" href="/index.php?page=post&amp;s=view&amp;id=102"><img src="/thumbnails/1/thumbnail_b.jpg" class="preview"/></a></span>
<span id="s3" class="thumb"><a id="p3" href="index.php?page=post&amp;s=view&amp;id=101"><img src="/thumbnails/1/thumbnail_a.jpg"/></a></span>
<span class="thumb"><a href="index.php?page=favorites">no id</a></span>
</div></body></html>`

const repeatPage = `<html><body>
<span class="thumb"><a href="index.php?page=post&amp;s=view&amp;id=102"><img src="/t/b.jpg"/></a></span>
<span class="thumb"><a href="index.php?page=post&amp;s=view&amp;id=103"><img src="/t/c.jpg"/></a></span>
</body></html>`

func TestHTML(t *testing.T) {
	Convey("Given a listing with two pages", t, func() {
		var (
			hits atomic.Int32
			pids []string
		)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			pid := r.URL.Query().Get("pid")
			pids = append(pids, pid)
			switch pid {
			case "0":
				_, _ = w.Write([]byte(listingPage))
			case "42":
				_, _ = w.Write([]byte(repeatPage))
			default:
				_, _ = w.Write([]byte(`<html><body><div>Nobody here but us chickens!</div></body></html>`))
			}
		}))
		defer server.Close()

		h := NewHTML(network.NewTransport(nil), "tag", WithSiteURL(server.URL))
		ctx := context.Background()

		Convey("Thumbnails become items needing resolution", func() {
			items := h.FetchNextPage(ctx)
			So(items, ShouldHaveLength, 2)

			view := server.URL + "/index.php?page=post&s=view&id=101"
			So(items[0], ShouldResemble, source.Item{
				ImageRef:        view,
				ThumbnailRef:    "http://cdn.booru.example/thumbnails/1/thumbnail_a.jpg",
				Title:           "Post #101",
				SourceName:      source.TagBooruHTML,
				OriginURL:       view,
				NeedsResolution: true,
			})
			So(items[1].ThumbnailRef, ShouldEqual, server.URL+"/thumbnails/1/thumbnail_b.jpg")

			Convey("The offset moves by a page and duplicates are skipped", func() {
				items := h.FetchNextPage(ctx)
				So(pids, ShouldResemble, []string{"0", "42"})
				So(items, ShouldHaveLength, 1)
				So(items[0].Title, ShouldEqual, "Post #103")

				Convey("A page without thumbnails exhausts the listing", func() {
					So(h.FetchNextPage(ctx), ShouldBeEmpty)
					before := hits.Load()
					So(h.FetchNextPage(ctx), ShouldBeEmpty)
					So(hits.Load(), ShouldEqual, before)
				})
			})
		})
	})
}
