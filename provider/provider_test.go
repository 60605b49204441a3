package provider

import (
	"testing"

	"github.com/imgscout/imgscout/key"
	"github.com/imgscout/imgscout/network"
	"github.com/imgscout/imgscout/source"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

func TestGet(t *testing.T) {
	Convey("When trying to get an invalid provider", t, func() {
		_, ok := Get("kek")
		So(ok, ShouldBeFalse)
	})

	Convey("Every built-in provider can be found and builds a source", t, func() {
		keyring.MockInit()
		So(IDs(), ShouldResemble, []string{"booru", "booru-html", "bing", "ddg", "yandex"})

		for _, id := range IDs() {
			p, ok := Get(id)
			So(ok, ShouldBeTrue)

			src := p.CreateSource(network.NewTransport(nil), source.Query{Text: "x"})
			So(src, ShouldNotBeNil)
			So(src.Name(), ShouldEqual, p.Name)
		}
	})

	Convey("Only the HTML listing needs a resolver", t, func() {
		for _, p := range Builtins() {
			So(p.CreateResolver != nil, ShouldEqual, p.ID == "booru-html")
		}
	})

	Convey("Only an authenticated-only booru requires credentials", t, func() {
		viper.Set(key.BooruAuthenticated, true)
		defer viper.Set(key.BooruAuthenticated, false)

		booru, _ := Get("booru")
		bing, _ := Get("bing")
		So(booru.RequiresCredentials(), ShouldBeTrue)
		So(bing.RequiresCredentials(), ShouldBeFalse)
	})
}
