// Package chrome implements the browser capability with go-rod over a local Chromium.
package chrome

import (
	"errors"
	"fmt"

	"github.com/filmscout/filmscout/browser"
	"github.com/filmscout/filmscout/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// hideWebdriver removes the automation flag for scripts that check it directly.
const hideWebdriver = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`

// Driver launches Chromium processes bound to a profile directory.
type Driver struct{}

// New returns a Chromium driver.
func New() *Driver {
	return &Driver{}
}

// command builds the launcher for opts without starting anything.
func (d *Driver) command(opts browser.LaunchOptions) *launcher.Launcher {
	l := launcher.New().
		Headless(opts.Headless).
		Set(flags.Flag("profile-directory"), "Default").
		Set(flags.Flag("disable-blink-features"), "AutomationControlled").
		Set(flags.Flag("disable-dev-shm-usage"))

	if opts.Headless {
		l = l.Set(flags.Headless, "new")
	}

	if opts.ProfileDir != "" {
		l = l.UserDataDir(opts.ProfileDir)
	}

	if opts.NoSandbox {
		l = l.NoSandbox(true)
	}

	if opts.UserAgent != "" {
		l = l.Set(flags.Flag("user-agent"), opts.UserAgent)
	}

	switch {
	case opts.Bin != "":
		l = l.Bin(opts.Bin)
	default:
		if path, ok := launcher.LookPath(); ok {
			l = l.Bin(path)
		}
	}

	return l
}

// Launch starts Chromium and opens a stealth page.
func (d *Driver) Launch(opts browser.LaunchOptions) (browser.Handle, error) {
	l := d.command(opts)

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect to chromium: %w", err)
	}

	page, err := stealth.Page(b)
	if err != nil {
		_ = b.Close()
		l.Kill()
		return nil, fmt.Errorf("open page: %w", err)
	}

	if opts.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: opts.UserAgent}); err != nil {
			log.Warnf("chrome: user agent override failed: %s", err)
		}
	}

	if _, err := page.EvalOnNewDocument(hideWebdriver); err != nil {
		log.Warnf("chrome: webdriver flag override failed: %s", err)
	}

	log.Infof("chrome: launched (headless=%t, profile=%s)", opts.Headless, opts.ProfileDir)

	return &Handle{
		launcher: l,
		browser:  b,
		page:     page,
		actions:  opts.ActionTimeout,
	}, nil
}

// notFound maps rod's lookup failure onto the shared sentinel.
func notFound(err error) error {
	var nf *rod.ElementNotFoundError
	if errors.As(err, &nf) {
		return browser.ErrElementNotFound
	}
	return err
}
