package scraper

import (
	"github.com/filmscout/filmscout/cookie"
	"github.com/filmscout/filmscout/log"
	"github.com/filmscout/filmscout/session"
)

// Health reports the session state after making sure a browser is up and checking the login.
type Health struct {
	LoggedIn bool          `json:"logged_in"`
	State    session.State `json:"-"`
}

// Health launches the browser when needed and checks the login. Only a browser that cannot start fails.
func (e *Engine) Health() (*Health, error) {
	defer e.session.Acquire()()

	if _, err := e.session.EnsureHandle(); err != nil {
		return nil, err
	}

	loggedIn := e.session.CheckLoggedIn()
	return &Health{LoggedIn: loggedIn, State: e.session.State()}, nil
}

// KeepAlive refreshes the session by checking the login.
func (e *Engine) KeepAlive() bool {
	defer e.session.Acquire()()
	return e.session.CheckLoggedIn()
}

// UpdateSession injects cookies, saves the applied set and checks the login.
func (e *Engine) UpdateSession(cookies []cookie.Cookie) (applied []cookie.Cookie, loggedIn bool, err error) {
	defer e.session.Acquire()()

	applied, err = e.session.InjectCookies(cookies)
	if err != nil {
		return applied, false, err
	}

	if e.opts.Store != nil {
		if err := e.opts.Store.Save(applied); err != nil {
			log.Warnf("scraper: saving cookies: %s", err)
		}
	}

	return applied, e.session.CheckLoggedIn(), nil
}

// Restore injects the saved cookie set, if there is one, and reports how many cookies were applied.
func (e *Engine) Restore() (int, error) {
	if e.opts.Store == nil {
		return 0, nil
	}

	saved, err := e.opts.Store.Load()
	if err != nil {
		return 0, err
	}

	if len(saved) == 0 {
		return 0, nil
	}

	defer e.session.Acquire()()

	applied, err := e.session.InjectCookies(saved)
	if err != nil {
		return 0, err
	}

	log.Infof("scraper: restored %d saved cookies", len(applied))
	return len(applied), nil
}

// Export returns the cookies the browser holds for the site.
func (e *Engine) Export() ([]cookie.Cookie, error) {
	defer e.session.Acquire()()
	return e.session.LiveCookies()
}

// Login runs a manual login in a visible browser, then closes it so the profile is flushed.
func (e *Engine) Login() error {
	defer e.session.Acquire()()

	if _, err := e.session.Reopen(false); err != nil {
		return err
	}

	if err := e.session.LoginManual(e.opts.Credentials); err != nil {
		return err
	}

	return e.session.Close()
}
