package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/filmscout/filmscout/auth"
	"github.com/filmscout/filmscout/browser/chrome"
	"github.com/filmscout/filmscout/icon"
	"github.com/filmscout/filmscout/key"
	"github.com/filmscout/filmscout/log"
	"github.com/filmscout/filmscout/scraper"
	"github.com/filmscout/filmscout/session"
	"github.com/filmscout/filmscout/style"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

var (
	engineMu sync.Mutex
	engine   *scraper.Engine

	// exitOnSignal is turned off by commands that shut down on their own.
	exitOnSignal = true
)

// newEngine builds the engine over a Chromium driver, restores the saved cookies when asked to
// and makes SIGINT or SIGTERM close the browser before exiting.
func newEngine() *scraper.Engine {
	engineMu.Lock()
	defer engineMu.Unlock()

	if engine != nil {
		return engine
	}

	CheckDependencies()

	opts := session.DefaultOptions()
	opts.Notify = func(msg string) {
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Lock), style.Faint(msg))
	}

	engineOpts := scraper.DefaultOptions()
	engineOpts.Credentials = credentials()

	engine = scraper.New(session.New(chrome.New(), opts), engineOpts)

	if exitOnSignal {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		go func() {
			sig := <-signals
			log.Infof("received %s, closing the browser", sig)
			closeEngine()
			os.Exit(130)
		}()
	}

	if viper.GetBool(key.SessionRestore) {
		if _, err := engine.Restore(); err != nil {
			log.Warnf("restoring saved cookies: %s", err)
		}
	}

	return engine
}

// closeEngine closes the browser if one was started.
func closeEngine() {
	engineMu.Lock()
	defer engineMu.Unlock()

	if engine == nil {
		return
	}

	if err := engine.Close(); err != nil {
		log.Warnf("closing browser: %s", err)
	}
	engine = nil
}

// credentials returns the configured account with its keyring password, if both are known.
func credentials() mo.Option[session.Credentials] {
	username := viper.GetString(key.SessionUsername)
	if username == "" {
		return mo.None[session.Credentials]()
	}

	password, err := auth.GetPassword(username)
	if err != nil {
		log.Infof("no stored password for %s: %s", username, err)
		return mo.None[session.Credentials]()
	}

	return mo.Some(session.Credentials{Username: username, Password: password})
}
