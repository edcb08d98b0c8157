// Package session owns the single browser handle and the site identity it carries.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/filmscout/filmscout/browser"
	"github.com/filmscout/filmscout/constant"
	"github.com/filmscout/filmscout/cookie"
	"github.com/filmscout/filmscout/key"
	"github.com/filmscout/filmscout/log"
	"github.com/filmscout/filmscout/site"
	"github.com/filmscout/filmscout/where"
	"github.com/spf13/viper"
)

// State is the lifecycle stage of the browser handle.
type State int

const (
	Uninitialized State = iota
	Initializing
	Ready
	Closed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrLoginTimeout is returned when a manual login did not complete within its bounds.
var ErrLoginTimeout = errors.New("login not completed in time")

// DriverInitError is returned when the browser cannot be launched. The next call retries from scratch.
type DriverInitError struct {
	Err error
}

func (e *DriverInitError) Error() string {
	return "browser driver init: " + e.Err.Error()
}

func (e *DriverInitError) Unwrap() error {
	return e.Err
}

// Options configures a Manager.
type Options struct {
	Launch browser.LaunchOptions
	Timing browser.Timing

	BaseURL      string
	LoginURL     string
	LoginPath    string
	CookieDomain string

	// Notify receives operator prompts during a manual login.
	Notify func(msg string)
}

// DefaultOptions builds options from configuration.
func DefaultOptions() Options {
	return Options{
		Launch: browser.LaunchOptions{
			ProfileDir: where.Profile(),
			Headless:   viper.GetBool(key.BrowserHeadless),
			Bin:        viper.GetString(key.BrowserBin),
			UserAgent:  viper.GetString(key.BrowserUserAgent),
			NoSandbox:  viper.GetBool(key.BrowserNoSandbox),

			ActionTimeout: time.Duration(viper.GetInt(key.TimingElementTimeout)) * time.Second,
		},
		Timing:       browser.ConfiguredTiming(),
		BaseURL:      site.BaseURL(),
		LoginURL:     site.LoginURL(),
		LoginPath:    site.LoginPath(),
		CookieDomain: site.CookieDomain(),
	}
}

func (o *Options) withDefaults() {
	if o.BaseURL == "" {
		o.BaseURL = constant.SiteBaseURL
	}
	if o.LoginPath == "" {
		o.LoginPath = constant.SiteLoginPath
	}
	if o.LoginURL == "" {
		o.LoginURL = o.BaseURL + o.LoginPath
	}
	if o.CookieDomain == "" {
		o.CookieDomain = constant.SiteCookieDomain
	}
}

// Manager owns at most one live browser handle.
//
// mu guards creation and replacement of the handle. Operations that drive the page are
// serialized by callers through Acquire; the manager itself never drives the page concurrently.
type Manager struct {
	driver browser.Driver
	opts   Options

	work sync.Mutex

	mu            sync.Mutex
	handle        browser.Handle
	state         State
	authenticated bool
	injected      []cookie.Cookie
}

// New returns a manager that launches browsers with driver. Nothing is launched until first use.
func New(driver browser.Driver, opts Options) *Manager {
	opts.withDefaults()
	return &Manager{
		driver: driver,
		opts:   opts,
	}
}

// Acquire takes exclusive use of the browser for one operation. The returned func releases it.
func (m *Manager) Acquire() (release func()) {
	m.work.Lock()
	return m.work.Unlock
}

// EnsureHandle returns the live handle, launching a browser when there is none or the previous one died.
func (m *Manager) EnsureHandle() (browser.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ensureLocked()
}

func (m *Manager) ensureLocked() (browser.Handle, error) {
	if m.handle != nil {
		if m.handle.Alive() {
			return m.handle, nil
		}

		log.Warn("session: browser process is gone, relaunching")
		_ = m.handle.Close()
		m.handle = nil
		m.state = Uninitialized
		m.authenticated = false
	}

	m.state = Initializing
	handle, err := m.driver.Launch(m.opts.Launch)
	if err != nil {
		m.state = Uninitialized
		log.Errorf("session: launch failed: %s", err)
		return nil, &DriverInitError{Err: err}
	}

	m.handle = handle
	m.state = Ready
	m.authenticated = false
	log.Infof("session: browser ready (headless=%t)", m.opts.Launch.Headless)
	return handle, nil
}

// Reopen closes the current handle and launches a new one with the given headless mode.
func (m *Manager) Reopen(headless bool) (browser.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeLocked()
	m.opts.Launch.Headless = headless
	return m.ensureLocked()
}

// Park closes the current handle and sets the mode of the next launch without launching.
func (m *Manager) Park(headless bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeLocked()
	m.opts.Launch.Headless = headless
}

// Close terminates the browser. Teardown failures are logged, and the handle is always dropped.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeLocked()
	return nil
}

func (m *Manager) closeLocked() {
	if m.handle != nil {
		if err := m.handle.Close(); err != nil {
			log.Warnf("session: closing browser: %s", err)
		}
		log.Info("session: browser closed")
	}

	m.handle = nil
	m.state = Closed
	m.authenticated = false
}

// State returns the lifecycle stage.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Authenticated returns the result of the last login check. It may be stale.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticated
}

func (m *Manager) setAuthenticated(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authenticated = v
}

// Headless reports the mode the next launch uses.
func (m *Manager) Headless() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opts.Launch.Headless
}

// Injected returns the cookie set applied by the last injection.
func (m *Manager) Injected() []cookie.Cookie {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]cookie.Cookie(nil), m.injected...)
}

func (m *Manager) notify(msg string) {
	log.Info("session: " + msg)
	if m.opts.Notify != nil {
		m.opts.Notify(msg)
	}
}

// Timing returns the delays the manager settles with.
func (m *Manager) Timing() browser.Timing {
	return m.opts.Timing
}

// BaseURL returns the site origin.
func (m *Manager) BaseURL() string {
	return m.opts.BaseURL
}
