package query

import (
	"testing"

	"github.com/imgscout/imgscout/filesystem"
	"github.com/imgscout/imgscout/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.SearchShowQuerySuggestions, true)
}

func TestQuery(t *testing.T) {
	Convey("Given an empty history", t, func() {
		So(Clear(), ShouldBeNil)

		Convey("Nothing is suggested", func() {
			So(SuggestMany("sun"), ShouldBeEmpty)
			So(Suggest("sun").IsAbsent(), ShouldBeTrue)
		})

		Convey("When remembering queries", func() {
			So(Remember("bing", "sunset beach"), ShouldBeNil)
			So(Remember("ddg", "Sunset  Mountains"), ShouldBeNil)
			So(Remember("yandex", "sunset mountains"), ShouldBeNil)
			So(Remember("bing", "   "), ShouldBeNil)

			Convey("Suggestions are ranked by use", func() {
				So(SuggestMany("sun"), ShouldResemble, []string{"sunset mountains", "sunset beach"})
				So(Suggest("smnt").MustGet(), ShouldEqual, "sunset mountains")
			})

			Convey("Suggestions can be turned off", func() {
				viper.Set(key.SearchShowQuerySuggestions, false)
				defer viper.Set(key.SearchShowQuerySuggestions, true)
				So(SuggestMany("sun"), ShouldBeEmpty)
			})

			Convey("Clear forgets everything", func() {
				So(Clear(), ShouldBeNil)
				So(SuggestMany("sun"), ShouldBeEmpty)
			})
		})
	})

	Convey("sanitize lowercases and collapses spaces", t, func() {
		So(sanitize("  NEON   City "), ShouldEqual, "neon city")
	})
}
