package site

import (
	"testing"

	"github.com/filmscout/filmscout/key"
	"github.com/filmscout/filmscout/source"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestClassify(t *testing.T) {
	Convey("Classify", t, func() {
		So(Classify("https://filman.cc/s/breaking-bad-123"), ShouldEqual, source.Series)
		So(Classify("https://filman.cc/serial/breaking-bad"), ShouldEqual, source.Series)
		So(Classify("https://filman.cc/m/inception-2010"), ShouldEqual, source.Movie)
		So(Classify("https://filman.cc/film/inception"), ShouldEqual, source.Movie)
		So(Classify("https://filman.cc/person/nolan"), ShouldEqual, source.Unknown)
		So(Classify("/s/relative"), ShouldEqual, source.Series)
	})

	Convey("IsMovie", t, func() {
		So(IsMovie("https://filman.cc/m/x"), ShouldBeTrue)
		So(IsMovie("https://filman.cc/e/x"), ShouldBeFalse)
	})
}

func TestURLs(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		viper.Set(key.SiteBaseURL, "https://filman.cc/")
		viper.Set(key.SiteLoginPath, "")
		defer viper.Set(key.SiteBaseURL, "")

		So(BaseURL(), ShouldEqual, "https://filman.cc")
		So(LoginURL(), ShouldEqual, "https://filman.cc/logowanie")
		So(CookieDomain(), ShouldEqual, ".filman.cc")
	})
}

func TestIsLogout(t *testing.T) {
	Convey("IsLogout", t, func() {
		So(IsLogout("https://filman.cc/wyloguj", ""), ShouldBeTrue)
		So(IsLogout("#", "Wyloguj się"), ShouldBeTrue)
		So(IsLogout("/login", "Zaloguj"), ShouldBeFalse)
	})
}
