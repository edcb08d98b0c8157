package browser

import (
	"testing"
	"time"

	"github.com/filmscout/filmscout/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestTiming(t *testing.T) {
	Convey("Given a timing with a recording sleeper", t, func() {
		var slept []time.Duration
		timing := DefaultTiming()
		timing.Sleep = func(d time.Duration) { slept = append(slept, d) }

		Convey("Settle routes through the sleeper", func() {
			timing.Settle(timing.LoadDelay)
			timing.Settle(0)
			So(slept, ShouldResemble, []time.Duration{2 * time.Second})
		})

		Convey("Poll stops as soon as the condition holds", func() {
			calls := 0
			ok := timing.Poll(time.Minute, func() bool {
				calls++
				return calls == 3
			})
			So(ok, ShouldBeTrue)
			So(calls, ShouldEqual, 3)
			So(slept, ShouldHaveLength, 2)
		})

		Convey("Poll gives up once the timeout elapses", func() {
			So(timing.Poll(0, func() bool { return false }), ShouldBeFalse)
		})
	})

	Convey("ConfiguredTiming reads seconds from configuration", t, func() {
		viper.Set(key.TimingLoadDelay, 3)
		viper.Set(key.SessionLoginTimeout, 60)
		defer viper.Set(key.TimingLoadDelay, 2)
		defer viper.Set(key.SessionLoginTimeout, 300)

		timing := ConfiguredTiming()
		So(timing.LoadDelay, ShouldEqual, 3*time.Second)
		So(timing.LoginTimeout, ShouldEqual, time.Minute)
		So(timing.PollInterval, ShouldEqual, 500*time.Millisecond)
	})
}
