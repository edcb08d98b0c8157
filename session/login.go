package session

import (
	"fmt"
	"strings"

	"github.com/filmscout/filmscout/browser"
	"github.com/filmscout/filmscout/cookie"
	"github.com/filmscout/filmscout/log"
	"github.com/filmscout/filmscout/site"
	"github.com/samber/mo"
)

// Credentials prefill the login form.
type Credentials struct {
	Username string
	Password string
}

// CheckLoggedIn opens the site root and looks for the logged-in markers.
// It never fails: any error counts as logged out.
func (m *Manager) CheckLoggedIn() bool {
	h, err := m.EnsureHandle()
	if err != nil {
		m.setAuthenticated(false)
		return false
	}

	if err := h.Navigate(m.opts.BaseURL); err != nil {
		log.Warnf("session: login check navigation failed: %s", err)
		m.setAuthenticated(false)
		return false
	}
	m.opts.Timing.Settle(m.opts.Timing.LoadDelay)

	ok := hasLoginMarker(h)
	m.setAuthenticated(ok)
	log.Infof("session: logged in = %t", ok)
	return ok
}

// hasLoginMarker reports whether the page shows a logout affordance or the user panel.
func hasLoginMarker(p browser.Page) bool {
	if _, err := p.Element(site.UserPanel); err == nil {
		return true
	}

	anchors, err := p.Elements(site.LogoutAnchor)
	if err != nil {
		return false
	}

	for _, a := range anchors {
		href, _ := a.Attribute("href")
		text, _ := a.Text()
		if site.IsLogout(href.OrEmpty(), text) {
			return true
		}
	}

	return false
}

// InjectCookies applies cookies to the site origin and reloads. Records missing a name or value are
// skipped, records missing a domain get the site cookie domain. A cookie the browser rejects is logged
// and skipped. The applied set is returned.
func (m *Manager) InjectCookies(cookies []cookie.Cookie) ([]cookie.Cookie, error) {
	h, err := m.EnsureHandle()
	if err != nil {
		return nil, err
	}

	if err := h.Navigate(m.opts.BaseURL); err != nil {
		return nil, fmt.Errorf("open site before cookie injection: %w", err)
	}
	m.opts.Timing.Settle(m.opts.Timing.CookieDelay)

	normalized := cookie.Normalize(cookies, m.opts.CookieDomain)
	applied := make([]cookie.Cookie, 0, len(normalized))
	for _, c := range normalized {
		if err := h.SetCookie(c); err != nil {
			log.Warnf("session: cookie %s rejected: %s", c, err)
			continue
		}
		applied = append(applied, c)
	}

	if err := h.Reload(); err != nil {
		return applied, fmt.Errorf("reload after cookie injection: %w", err)
	}
	m.opts.Timing.Settle(m.opts.Timing.LoadDelay)

	m.mu.Lock()
	m.injected = applied
	m.mu.Unlock()

	log.Infof("session: injected %d of %d cookies", len(applied), len(cookies))
	return applied, nil
}

// LiveCookies returns the cookies the browser currently holds.
func (m *Manager) LiveCookies() ([]cookie.Cookie, error) {
	h, err := m.EnsureHandle()
	if err != nil {
		return nil, err
	}

	cookies, err := h.Cookies()
	if err != nil {
		return nil, fmt.Errorf("read browser cookies: %w", err)
	}
	return cookie.Normalize(cookies, m.opts.CookieDomain), nil
}

// LoginManual opens the login page and waits for the operator to log in, optionally prefilling credentials.
// A redirect away from the login page means the session is already authenticated.
// When the waits run out, one final login check decides the outcome.
func (m *Manager) LoginManual(creds mo.Option[Credentials]) error {
	h, err := m.EnsureHandle()
	if err != nil {
		return err
	}

	if err := h.Navigate(m.opts.LoginURL); err != nil {
		return fmt.Errorf("open login page: %w", err)
	}
	m.opts.Timing.Settle(m.opts.Timing.LoadDelay)

	current, err := h.URL()
	if err == nil && !strings.Contains(current, m.opts.LoginPath) {
		log.Info("session: login page redirected, already logged in")
		m.setAuthenticated(true)
		return nil
	}

	if c, ok := creds.Get(); ok {
		m.autofill(h, c)
	}

	m.notify(fmt.Sprintf("log in at %s in the browser window, waiting up to %s", m.opts.LoginURL, m.opts.Timing.LoginTimeout))

	if err := h.WaitGone(site.UsernameInput, m.opts.Timing.LoginTimeout); err != nil {
		log.Warnf("session: login form still present: %s", err)
		return m.confirm()
	}

	if !m.opts.Timing.Poll(m.opts.Timing.ConfirmTimeout, func() bool { return hasLoginMarker(h) }) {
		log.Warn("session: login form is gone but no logged-in marker appeared")
		return m.confirm()
	}

	m.setAuthenticated(true)
	m.notify("logged in")
	return nil
}

// confirm runs the secondary login check after a timed out wait.
func (m *Manager) confirm() error {
	if m.CheckLoggedIn() {
		m.notify("logged in")
		return nil
	}
	return ErrLoginTimeout
}

// autofill types the credentials into the login form. Missing fields are logged and skipped.
func (m *Manager) autofill(h browser.Page, c Credentials) {
	user, err := h.WaitElement(site.UsernameInput, m.opts.Timing.FieldTimeout)
	if err != nil {
		log.Warnf("session: autofill skipped, username field: %s", err)
		return
	}

	pass, err := h.WaitElement(site.PasswordInput, m.opts.Timing.FieldTimeout)
	if err != nil {
		log.Warnf("session: autofill skipped, password field: %s", err)
		return
	}

	if err := user.Input(c.Username); err != nil {
		log.Warnf("session: typing username: %s", err)
		return
	}

	if err := pass.Input(c.Password); err != nil {
		log.Warnf("session: typing password: %s", err)
		return
	}

	log.Info("session: login form prefilled")
}
