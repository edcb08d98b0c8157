// Package browser defines the narrow capability surface the scraper needs from an automated browser.
//
// Two drivers implement it: chrome, which drives a real Chromium through the DevTools protocol,
// and static, which serves parsed HTML snapshots for offline parsing and tests.
package browser

import (
	"errors"
	"time"

	"github.com/filmscout/filmscout/cookie"
	"github.com/samber/mo"
)

var (
	// ErrElementNotFound is returned when a selector matches nothing.
	ErrElementNotFound = errors.New("element not found")

	// ErrTimeout is returned when a bounded wait elapses.
	ErrTimeout = errors.New("timed out waiting for element")

	// ErrClosed is returned by handles that were already closed.
	ErrClosed = errors.New("browser closed")
)

// Element is a node of the current page.
type Element interface {
	// Text returns the rendered text content.
	Text() (string, error)

	// Attribute returns the named attribute. For href the resolved absolute URL is returned.
	Attribute(name string) (mo.Option[string], error)

	// Element returns the first descendant matching selector, or ErrElementNotFound.
	Element(selector string) (Element, error)

	// Elements returns every descendant matching selector.
	Elements(selector string) ([]Element, error)

	// Parent returns the parent node.
	Parent() (Element, error)

	Click() error

	// Input clears the field and types text into it.
	Input(text string) error

	// Submit presses Enter in the field.
	Submit() error
}

// Page is the browser tab the scraper drives.
type Page interface {
	Navigate(url string) error
	Reload() error

	// URL returns the address of the current document.
	URL() (string, error)

	// Element returns the first match without waiting, or ErrElementNotFound.
	Element(selector string) (Element, error)

	// Elements returns every match without waiting.
	Elements(selector string) ([]Element, error)

	// WaitElement blocks until selector matches or timeout elapses with ErrTimeout.
	WaitElement(selector string, timeout time.Duration) (Element, error)

	// WaitGone blocks until selector matches no visible element or timeout elapses with ErrTimeout.
	WaitGone(selector string, timeout time.Duration) error

	Cookies() ([]cookie.Cookie, error)
	SetCookie(c cookie.Cookie) error

	// Eval runs a script in the page.
	Eval(script string) error
}

// Handle is a running browser with its single page.
type Handle interface {
	Page

	// Alive reports whether the underlying browser process still answers.
	Alive() bool

	Close() error
}

// LaunchOptions configures a browser launch.
type LaunchOptions struct {
	// ProfileDir is the user-data directory carrying the persistent identity.
	ProfileDir string
	Headless   bool
	// Bin overrides the browser executable.
	Bin       string
	UserAgent string
	NoSandbox bool
	// ActionTimeout bounds clicks and typing on an element. Zero means the driver default.
	ActionTimeout time.Duration
}

// Driver launches browsers.
type Driver interface {
	Launch(opts LaunchOptions) (Handle, error)
}

// DriverFunc adapts a function to the Driver interface.
type DriverFunc func(opts LaunchOptions) (Handle, error)

func (f DriverFunc) Launch(opts LaunchOptions) (Handle, error) {
	return f(opts)
}

// HandleProvider hands out the live handle, launching it when needed.
type HandleProvider interface {
	EnsureHandle() (Handle, error)
}

type fixed struct {
	handle Handle
}

func (f fixed) EnsureHandle() (Handle, error) {
	return f.handle, nil
}

// Fixed returns a HandleProvider that always yields h.
func Fixed(h Handle) HandleProvider {
	return fixed{handle: h}
}
