package cmd

import (
	"bytes"
	"testing"

	"github.com/imgscout/imgscout/key"
	"github.com/imgscout/imgscout/source"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestPrintItems(t *testing.T) {
	Convey("Given plain output", t, func() {
		viper.Set(key.CliColored, false)
		viper.Set(key.IconsVariant, "plain")
		var buf bytes.Buffer

		Convey("An empty result set says so", func() {
			printItems(&buf, nil)
			So(buf.String(), ShouldContainSubstring, "no results")
		})

		Convey("Items are listed with a summary", func() {
			printItems(&buf, []source.Item{
				{Title: "Score: 7", ImageRef: "https://x/img.png"},
				{Title: "Post #42", ImageRef: "https://booru.example/index.php?page=post&s=view&id=42", NeedsResolution: true},
			})

			out := buf.String()
			So(out, ShouldContainSubstring, "Score: 7")
			So(out, ShouldContainSubstring, "https://x/img.png")
			So(out, ShouldContainSubstring, "2 results")
			So(out, ShouldContainSubstring, "1 result need resolution")
		})
	})
}
