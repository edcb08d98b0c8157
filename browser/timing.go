package browser

import (
	"time"

	"github.com/filmscout/filmscout/key"
	"github.com/spf13/viper"
)

// Timing holds the fixed settle delays and wait bounds used against the site.
type Timing struct {
	// LoadDelay follows every navigation and form submission.
	LoadDelay time.Duration
	// MovieDelay is added after opening a movie page.
	MovieDelay time.Duration
	// CookieDelay precedes cookie injection on the site origin.
	CookieDelay time.Duration

	ElementTimeout time.Duration
	FieldTimeout   time.Duration
	ResultsTimeout time.Duration

	// LoginTimeout bounds the wait for the login form to disappear.
	LoginTimeout time.Duration
	// ConfirmTimeout bounds the wait for the logged-in marker afterwards.
	ConfirmTimeout time.Duration
	// PollInterval paces marker polling.
	PollInterval time.Duration

	// Sleep performs every settle. Nil means time.Sleep.
	Sleep func(time.Duration)
}

// DefaultTiming returns the stock delays.
func DefaultTiming() Timing {
	return Timing{
		LoadDelay:      2 * time.Second,
		MovieDelay:     2 * time.Second,
		CookieDelay:    time.Second,
		ElementTimeout: 15 * time.Second,
		FieldTimeout:   5 * time.Second,
		ResultsTimeout: 5 * time.Second,
		LoginTimeout:   300 * time.Second,
		ConfirmTimeout: 15 * time.Second,
		PollInterval:   500 * time.Millisecond,
	}
}

// ConfiguredTiming reads the delays from configuration.
func ConfiguredTiming() Timing {
	seconds := func(k string) time.Duration {
		return time.Duration(viper.GetInt(k)) * time.Second
	}

	t := DefaultTiming()
	t.LoadDelay = seconds(key.TimingLoadDelay)
	t.MovieDelay = seconds(key.TimingMovieDelay)
	t.CookieDelay = seconds(key.TimingCookieDelay)
	t.ElementTimeout = seconds(key.TimingElementTimeout)
	t.FieldTimeout = seconds(key.TimingFieldTimeout)
	t.ResultsTimeout = seconds(key.TimingResultsTimeout)
	t.LoginTimeout = seconds(key.SessionLoginTimeout)
	t.ConfirmTimeout = seconds(key.SessionConfirmTimeout)
	return t
}

// Instant returns a Timing that never sleeps, for driving snapshot pages.
func Instant() Timing {
	return Timing{Sleep: func(time.Duration) {}}
}

// Settle blocks for d.
func (t Timing) Settle(d time.Duration) {
	if d <= 0 {
		return
	}

	if t.Sleep != nil {
		t.Sleep(d)
		return
	}

	time.Sleep(d)
}

// Poll calls cond every PollInterval until it returns true or timeout elapses.
func (t Timing) Poll(timeout time.Duration, cond func() bool) bool {
	interval := t.PollInterval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}

	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return true
		}

		if !time.Now().Before(deadline) {
			return false
		}

		t.Settle(interval)
	}
}
