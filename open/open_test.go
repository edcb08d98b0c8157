package open

import (
	"testing"

	"github.com/filmscout/filmscout/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	Convey("Given an embed link", t, func() {
		link := "https://doodstream.com/e/abc?x=1&y=2"

		Convey("The system handler is used without an app", func() {
			cmd, ok := command(constant.Linux, link, "")
			So(ok, ShouldBeTrue)
			So(cmd.Args, ShouldResemble, []string{"xdg-open", link})

			cmd, ok = command(constant.Darwin, link, "")
			So(ok, ShouldBeTrue)
			So(cmd.Args, ShouldResemble, []string{"open", link})
		})

		Convey("A named app receives the link", func() {
			cmd, ok := command(constant.Linux, link, "mpv")
			So(ok, ShouldBeTrue)
			So(cmd.Args, ShouldResemble, []string{"mpv", link})

			cmd, ok = command(constant.Darwin, link, "IINA")
			So(ok, ShouldBeTrue)
			So(cmd.Args, ShouldResemble, []string{"open", "-a", "IINA", link})
		})

		Convey("Ampersands are escaped for start on windows", func() {
			cmd, ok := command(constant.Windows, link, "vlc")
			So(ok, ShouldBeTrue)
			So(cmd.Args[len(cmd.Args)-1], ShouldEqual, "https://doodstream.com/e/abc?x=1^&y=2")
		})

		Convey("Unknown systems are rejected", func() {
			_, ok := command("plan9", link, "")
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Non web links are refused", t, func() {
		So(Link("file:///etc/passwd", ""), ShouldNotBeNil)
		So(Link("not a url", ""), ShouldNotBeNil)
	})
}
