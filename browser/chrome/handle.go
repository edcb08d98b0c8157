package chrome

import (
	"fmt"
	"time"

	"github.com/filmscout/filmscout/browser"
	"github.com/filmscout/filmscout/cookie"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/samber/lo"
)

const goneInterval = 500 * time.Millisecond

// Handle owns a Chromium process and its single page.
type Handle struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	// actions bounds element interactions.
	actions time.Duration
}

func (h *Handle) Navigate(url string) error {
	if err := h.page.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return h.page.WaitLoad()
}

func (h *Handle) Reload() error {
	if err := h.page.Reload(); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	return h.page.WaitLoad()
}

func (h *Handle) URL() (string, error) {
	info, err := h.page.Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (h *Handle) Element(selector string) (browser.Element, error) {
	has, el, err := h.page.Has(selector)
	if err != nil {
		return nil, err
	}

	if !has {
		return nil, browser.ErrElementNotFound
	}
	return &Element{el: el, timeout: h.actions}, nil
}

func (h *Handle) Elements(selector string) ([]browser.Element, error) {
	els, err := h.page.Elements(selector)
	if err != nil {
		return nil, notFound(err)
	}
	return wrap(els, h.actions), nil
}

func (h *Handle) WaitElement(selector string, timeout time.Duration) (browser.Element, error) {
	el, err := h.page.Timeout(timeout).Element(selector)
	if err != nil {
		return nil, timedOut(err, selector)
	}
	return &Element{el: el.CancelTimeout(), timeout: h.actions}, nil
}

// WaitGone polls until no element matching selector is visible.
func (h *Handle) WaitGone(selector string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		has, el, err := h.page.Has(selector)
		if err != nil {
			return err
		}

		if !has {
			return nil
		}

		if visible, err := el.Visible(); err == nil && !visible {
			return nil
		}

		if !time.Now().Before(deadline) {
			return fmt.Errorf("%w: %s still visible", browser.ErrTimeout, selector)
		}

		time.Sleep(goneInterval)
	}
}

func (h *Handle) Cookies() ([]cookie.Cookie, error) {
	cookies, err := h.page.Cookies(nil)
	if err != nil {
		return nil, err
	}

	return lo.Map(cookies, func(c *proto.NetworkCookie, _ int) cookie.Cookie {
		return cookie.Cookie{Name: c.Name, Value: c.Value, Domain: c.Domain}
	}), nil
}

func (h *Handle) SetCookie(c cookie.Cookie) error {
	return h.page.SetCookies([]*proto.NetworkCookieParam{{
		Name:   c.Name,
		Value:  c.Value,
		Domain: c.Domain,
		Path:   "/",
	}})
}

func (h *Handle) Eval(script string) error {
	_, err := proto.RuntimeEvaluate{Expression: script}.Call(h.page)
	return err
}

// Alive asks the browser for its version.
func (h *Handle) Alive() bool {
	_, err := proto.BrowserGetVersion{}.Call(h.browser)
	return err == nil
}

// Close disconnects and kills the process. The profile directory is left in place.
func (h *Handle) Close() error {
	err := h.browser.Close()
	h.launcher.Kill()
	return err
}
