// Package open hands stream links to the desktop: the default URL handler or a named player.
package open

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/filmscout/filmscout/constant"
)

// Link opens rawURL with app, or with the system URL handler when app is empty.
// It returns once the handler is started.
func Link(rawURL, app string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("not a web link: %q", rawURL)
	}

	cmd, ok := command(runtime.GOOS, u.String(), app)
	if !ok {
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}

	return cmd.Start()
}

func command(goos, link, app string) (*exec.Cmd, bool) {
	if app == "" {
		switch goos {
		case constant.Windows:
			rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
			return exec.Command(rundll, "url.dll,FileProtocolHandler", link), true
		case constant.Darwin:
			return exec.Command("open", link), true
		case constant.Linux:
			return exec.Command("xdg-open", link), true
		case constant.Android:
			return exec.Command("termux-open-url", link), true
		default:
			return nil, false
		}
	}

	switch goos {
	case constant.Windows:
		// start treats & as a command separator.
		return exec.Command("cmd", "/C", "start", "", app, strings.ReplaceAll(link, "&", "^&")), true
	case constant.Darwin:
		return exec.Command("open", "-a", app, link), true
	case constant.Linux, constant.Android:
		return exec.Command(app, link), true
	default:
		return nil, false
	}
}
