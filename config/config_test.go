package config

import (
	"encoding/json"
	"testing"

	"github.com/filmscout/filmscout/filesystem"
	"github.com/filmscout/filmscout/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
			So(viper.GetString(key.SiteCookieDomain), ShouldEqual, ".filman.cc")
			So(viper.GetInt(key.SessionLoginTimeout), ShouldEqual, 300)
			So(viper.GetStringSlice(key.ProvidersAllowed), ShouldContain, "voe.sx")
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("browser.user_agent")
			So(result, ShouldEqual, "browser_user_agent")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given a registered field", t, func() {
		field := Default[key.BrowserHeadless]

		Convey("Env should carry the application prefix", func() {
			So(field.Env(), ShouldEqual, "FILMSCOUT_BROWSER_HEADLESS")
		})

		Convey("It should marshal its type and default", func() {
			data, err := json.Marshal(&field)
			So(err, ShouldBeNil)

			var decoded map[string]any
			So(json.Unmarshal(data, &decoded), ShouldBeNil)
			So(decoded["type"], ShouldEqual, "bool")
			So(decoded["default"], ShouldEqual, false)
		})

		Convey("The allow-list field should be a string slice", func() {
			allowed := Default[key.ProvidersAllowed]
			So(allowed.typeName(), ShouldEqual, "[]string")
		})
	})
}
