package chrome

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/filmscout/filmscout/browser"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher/flags"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	Convey("Given headless launch options", t, func() {
		l := New().command(browser.LaunchOptions{
			ProfileDir: "/tmp/filmscout-profile",
			Headless:   true,
			Bin:        "/usr/bin/chromium",
			UserAgent:  "test-agent",
			NoSandbox:  true,
		})

		Convey("The launcher carries the profile and stealth flags", func() {
			So(l.Get(flags.UserDataDir), ShouldEqual, "/tmp/filmscout-profile")
			So(l.Get(flags.Flag("profile-directory")), ShouldEqual, "Default")
			So(l.Get(flags.Flag("disable-blink-features")), ShouldEqual, "AutomationControlled")
			So(l.Has(flags.Flag("disable-dev-shm-usage")), ShouldBeTrue)
			So(l.Get(flags.Headless), ShouldEqual, "new")
			So(l.Has(flags.NoSandbox), ShouldBeTrue)
			So(l.Get(flags.Flag("user-agent")), ShouldEqual, "test-agent")
			So(l.Get(flags.Bin), ShouldEqual, "/usr/bin/chromium")
		})
	})

	Convey("Given a visible launch", t, func() {
		l := New().command(browser.LaunchOptions{Bin: "/usr/bin/chromium"})

		So(l.Has(flags.Headless), ShouldBeFalse)
		So(l.Has(flags.Flag("user-agent")), ShouldBeFalse)
	})
}

func TestNotFound(t *testing.T) {
	Convey("notFound maps rod lookups to the shared sentinel", t, func() {
		wrapped := fmt.Errorf("lookup: %w", &rod.ElementNotFoundError{})
		So(notFound(wrapped), ShouldEqual, browser.ErrElementNotFound)

		other := errors.New("cdp closed")
		So(notFound(other), ShouldEqual, other)
	})
}

func TestTimedOut(t *testing.T) {
	Convey("timedOut maps exceeded deadlines to the shared sentinel", t, func() {
		err := timedOut(fmt.Errorf("click: %w", context.DeadlineExceeded), "click")
		So(errors.Is(err, browser.ErrTimeout), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "click")

		other := errors.New("node detached")
		So(timedOut(other, "click"), ShouldEqual, other)
		So(timedOut(nil, "click"), ShouldBeNil)
	})
}

func TestBounded(t *testing.T) {
	Convey("Element interactions always run under a deadline", t, func() {
		base := (&rod.Element{}).Context(context.Background())

		el := &Element{el: base, timeout: time.Minute}
		bounded := el.bounded()
		deadline, ok := bounded.GetContext().Deadline()
		So(ok, ShouldBeTrue)
		So(time.Until(deadline), ShouldBeLessThanOrEqualTo, time.Minute)
		bounded.CancelTimeout()

		unset := &Element{el: base}
		bounded = unset.bounded()
		deadline, ok = bounded.GetContext().Deadline()
		So(ok, ShouldBeTrue)
		So(time.Until(deadline), ShouldBeLessThanOrEqualTo, defaultActionTimeout)
		So(time.Until(deadline), ShouldBeGreaterThan, defaultActionTimeout-time.Minute)
		bounded.CancelTimeout()
	})
}
