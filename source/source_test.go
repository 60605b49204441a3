package source

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestItem(t *testing.T) {
	Convey("Given an item that needs resolution", t, func() {
		item := Item{
			ImageRef:        "https://booru.example/index.php?page=post&s=view&id=42",
			ThumbnailRef:    "https://booru.example/thumbs/42.jpg",
			Title:           "Post #42",
			SourceName:      TagBooruHTML,
			OriginURL:       "https://booru.example/index.php?page=post&s=view&id=42",
			NeedsResolution: true,
		}

		Convey("Resolved returns an updated copy", func() {
			resolved := item.Resolved("https://img.example/42.png")
			So(resolved.ImageRef, ShouldEqual, "https://img.example/42.png")
			So(resolved.NeedsResolution, ShouldBeFalse)
			So(resolved.OriginURL, ShouldEqual, item.OriginURL)

			So(item.NeedsResolution, ShouldBeTrue)
		})
	})
}

func TestQuery(t *testing.T) {
	Convey("Format", t, func() {
		So(Query{Text: "mountains"}.Format(), ShouldEqual, "mountains")
		So(Query{Text: "mountains", Size: "4k"}.Format(), ShouldEqual, "mountains 4k wallpaper")
		So(Query{Text: "mountains", Size: "hd"}.Format(), ShouldEqual, "mountains hd wallpaper")
		So(Query{Text: " mountains ", Size: "wallpaper"}.Format(), ShouldEqual, "mountains wallpaper")
	})

	Convey("Validate", t, func() {
		for _, size := range append([]string{""}, Sizes...) {
			So(Query{Text: "x", Size: size}.Validate(), ShouldBeNil)
		}

		err := Query{Text: "x", Size: "16k"}.Validate()
		So(errors.Is(err, ErrInvalidSize), ShouldBeTrue)
	})
}
