package session

import (
	"errors"
	"testing"
	"time"

	"github.com/filmscout/filmscout/browser"
	"github.com/filmscout/filmscout/cookie"
	"github.com/filmscout/filmscout/internal/fakesite"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testOptions() Options {
	timing := browser.Instant()
	timing.ConfirmTimeout = 10 * time.Millisecond
	return Options{
		Launch:  browser.LaunchOptions{ProfileDir: "/profile", Headless: true},
		Timing:  timing,
		BaseURL: fakesite.Base,
	}
}

func TestLifecycle(t *testing.T) {
	Convey("Given a manager over the fake site", t, func() {
		site := fakesite.New(fakesite.Catalog()...)
		driver := site.Driver()
		manager := New(driver, testOptions())

		Convey("Nothing is launched before first use", func() {
			So(manager.State(), ShouldEqual, Uninitialized)
			So(driver.Launched(), ShouldBeEmpty)
		})

		Convey("EnsureHandle launches once and reuses the handle", func() {
			first, err := manager.EnsureHandle()
			So(err, ShouldBeNil)
			second, err := manager.EnsureHandle()
			So(err, ShouldBeNil)

			So(second, ShouldEqual, first)
			So(driver.Launched(), ShouldHaveLength, 1)
			So(manager.State(), ShouldEqual, Ready)
		})

		Convey("A dead browser is replaced on next use", func() {
			first, _ := manager.EnsureHandle()
			driver.Crash()

			second, err := manager.EnsureHandle()
			So(err, ShouldBeNil)
			So(second, ShouldNotEqual, first)
			So(second.Alive(), ShouldBeTrue)
			So(driver.Launched(), ShouldHaveLength, 2)
		})

		Convey("Launch failures surface as DriverInitError and are retried fresh", func() {
			driver.FailLaunches(errors.New("chromium not found"))

			_, err := manager.EnsureHandle()
			var initErr *DriverInitError
			So(errors.As(err, &initErr), ShouldBeTrue)
			So(initErr.Error(), ShouldContainSubstring, "chromium not found")
			So(manager.State(), ShouldEqual, Uninitialized)

			driver.FailLaunches(nil)
			_, err = manager.EnsureHandle()
			So(err, ShouldBeNil)
		})

		Convey("Close always drops the handle", func() {
			h, _ := manager.EnsureHandle()
			So(h.Close(), ShouldBeNil)

			So(manager.Close(), ShouldBeNil)
			So(manager.State(), ShouldEqual, Closed)
			So(manager.Authenticated(), ShouldBeFalse)

			_, err := manager.EnsureHandle()
			So(err, ShouldBeNil)
			So(manager.State(), ShouldEqual, Ready)
		})

		Convey("Reopen switches the headless mode", func() {
			_, _ = manager.EnsureHandle()
			_, err := manager.Reopen(false)
			So(err, ShouldBeNil)

			launched := driver.Launched()
			So(launched, ShouldHaveLength, 2)
			So(launched[0].Headless, ShouldBeTrue)
			So(launched[1].Headless, ShouldBeFalse)
			So(manager.Headless(), ShouldBeFalse)
			So(driver.Open(), ShouldEqual, 1)
		})

		Convey("Acquire serializes operations", func() {
			release := manager.Acquire()
			acquired := make(chan struct{})
			go func() {
				defer close(acquired)
				manager.Acquire()()
			}()

			select {
			case <-acquired:
				t.Fatal("second acquire should block")
			case <-time.After(20 * time.Millisecond):
			}

			release()
			<-acquired
		})
	})
}

func TestLoginState(t *testing.T) {
	Convey("Given a logged out browser", t, func() {
		site := fakesite.New(fakesite.Catalog()...)
		manager := New(site.Driver(), testOptions())

		Convey("CheckLoggedIn reports false", func() {
			So(manager.CheckLoggedIn(), ShouldBeFalse)
			So(manager.Authenticated(), ShouldBeFalse)
		})

		Convey("Injecting the session cookies logs it in", func() {
			applied, err := manager.InjectCookies([]cookie.Cookie{
				{Name: fakesite.SessionCookie, Value: fakesite.SessionValue},
				{Name: "", Value: "junk"},
				{Name: "theme", Value: ""},
			})
			So(err, ShouldBeNil)
			So(applied, ShouldResemble, []cookie.Cookie{
				{Name: fakesite.SessionCookie, Value: fakesite.SessionValue, Domain: ".filman.cc"},
			})
			So(manager.Injected(), ShouldResemble, applied)
			So(manager.CheckLoggedIn(), ShouldBeTrue)

			Convey("and injecting the same set again changes nothing", func() {
				_, err := manager.InjectCookies(fakesite.SessionCookies())
				So(err, ShouldBeNil)
				So(manager.CheckLoggedIn(), ShouldBeTrue)

				live, err := manager.LiveCookies()
				So(err, ShouldBeNil)
				So(cookie.Names(live), ShouldResemble, []string{fakesite.SessionCookie})
			})
		})

		Convey("Wrong cookies leave it logged out", func() {
			_, err := manager.InjectCookies([]cookie.Cookie{{Name: fakesite.SessionCookie, Value: "expired"}})
			So(err, ShouldBeNil)
			So(manager.CheckLoggedIn(), ShouldBeFalse)
		})

		Convey("A failing launch makes CheckLoggedIn false instead of an error", func() {
			broken := fakesite.New().Driver()
			broken.FailLaunches(errors.New("no display"))
			So(New(broken, testOptions()).CheckLoggedIn(), ShouldBeFalse)
		})
	})
}

func TestLoginManual(t *testing.T) {
	Convey("Given the login page", t, func() {
		site := fakesite.New(fakesite.Catalog()...)
		var prompts []string
		opts := testOptions()
		opts.Notify = func(msg string) { prompts = append(prompts, msg) }
		manager := New(site.Driver(), opts)

		Convey("An operator finishing the login is detected", func() {
			site.LoginAfter = 2

			err := manager.LoginManual(mo.Some(Credentials{Username: "user", Password: "secret"}))
			So(err, ShouldBeNil)
			So(manager.Authenticated(), ShouldBeTrue)
			So(prompts, ShouldHaveLength, 2)
			So(prompts[0], ShouldContainSubstring, "/logowanie")
		})

		Convey("An already logged in profile is redirected and succeeds at once", func() {
			_, err := manager.InjectCookies(fakesite.SessionCookies())
			So(err, ShouldBeNil)

			So(manager.LoginManual(mo.None[Credentials]()), ShouldBeNil)
			So(manager.Authenticated(), ShouldBeTrue)
			So(prompts, ShouldBeEmpty)
		})

		Convey("Nobody logging in times out after the secondary check", func() {
			err := manager.LoginManual(mo.None[Credentials]())
			So(err, ShouldEqual, ErrLoginTimeout)
			So(manager.Authenticated(), ShouldBeFalse)
			So(site.Requests()[len(site.Requests())-1], ShouldEqual, fakesite.Base)
		})

		Convey("A launch failure is returned as is", func() {
			driver := fakesite.New().Driver()
			driver.FailLaunches(errors.New("no display"))

			err := New(driver, testOptions()).LoginManual(mo.None[Credentials]())
			var initErr *DriverInitError
			So(errors.As(err, &initErr), ShouldBeTrue)
		})
	})
}
