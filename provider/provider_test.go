package provider

import (
	"testing"

	"github.com/filmscout/filmscout/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestBuiltins(t *testing.T) {
	Convey("Builtins", t, func() {
		So(Names(), ShouldResemble, []string{"doodstream", "voe.sx", "savefiles", "vid-guard", "streamup"})

		p, ok := Get("voe.sx")
		So(ok, ShouldBeTrue)
		So(p.String(), ShouldEqual, "VOE")

		_, ok = Get("mixdrop")
		So(ok, ShouldBeFalse)
	})
}

func TestName(t *testing.T) {
	Convey("Name", t, func() {
		So(Name("  VOE.sx  HD"), ShouldEqual, "voe.sx")
		So(Name("DoodStream"), ShouldEqual, "doodstream")
		So(Name("   "), ShouldEqual, "unknown")
	})
}

func TestAllowList(t *testing.T) {
	Convey("Given the default allow-list", t, func() {
		allow := AllowList(Names())

		Convey("listed providers are allowed", func() {
			So(allow.Allows("doodstream"), ShouldBeTrue)
			So(allow.Allows("voe.sx"), ShouldBeTrue)
			So(allow.Allows("vid-guard"), ShouldBeTrue)
		})

		Convey("a name containing an entry is allowed", func() {
			So(allow.Allows("doodstream.com"), ShouldBeTrue)
		})

		Convey("anything else is rejected", func() {
			So(allow.Allows("mixdrop"), ShouldBeFalse)
			So(allow.Allows("unknown"), ShouldBeFalse)
			So(allow.Allows(""), ShouldBeFalse)
		})
	})

	Convey("Configured", t, func() {
		Convey("reads the configured entries", func() {
			viper.Set(key.ProvidersAllowed, []string{"mixdrop"})
			defer viper.Set(key.ProvidersAllowed, nil)

			So(Configured().Allows("mixdrop"), ShouldBeTrue)
			So(Configured().Allows("voe.sx"), ShouldBeFalse)
		})

		Convey("falls back to the builtins when empty", func() {
			viper.Set(key.ProvidersAllowed, []string{})
			So(Configured().Allows("streamup"), ShouldBeTrue)
		})
	})
}
