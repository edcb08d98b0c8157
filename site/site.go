// Package site holds everything tied to the catalog's markup: selectors, URL layout and login markers.
package site

import (
	"net/url"
	"strings"

	"github.com/filmscout/filmscout/constant"
	"github.com/filmscout/filmscout/key"
	"github.com/filmscout/filmscout/source"
	"github.com/spf13/viper"
)

// Login form.
const (
	UsernameInput = "input[name='username']"
	PasswordInput = "input[name='password']"
	SubmitButton  = "button[type='submit']"
)

// Login markers. A logged-in page carries a logout anchor or one of the user panel elements.
const (
	LogoutAnchor = "a"
	LogoutHref   = "wyloguj"
	LogoutText   = "Wyloguj"
	UserPanel    = ".user-menu, .user-panel, .user-info, .user-name"
)

// Search.
const (
	SearchInput      = "input[name='phrase']"
	ResultsContainer = "#advanced-search"
	ResultTile       = ".poster"
	ResultLink       = "a.img-responsive"
	ResultTitle      = ".film_title"
	ResultYear       = ".film_year"
)

// Content pages.
const (
	MovieHeading     = "h1, .film-title, .page-title"
	EpisodeList      = "#episode-list"
	EpisodeItems     = "#episode-list ul li"
	EpisodeAnchor    = "a"
	SeasonHeader     = "span"
	LinkRows         = "#links tbody tr"
	LinkCells        = "td"
	ProviderLink     = "td.link-to-video a[data-iframe]"
	IframeAttribute  = "data-iframe"
	DefaultFilmTitle = "Film"
)

// BaseURL returns the configured site origin without a trailing slash.
func BaseURL() string {
	base := viper.GetString(key.SiteBaseURL)
	if base == "" {
		base = constant.SiteBaseURL
	}
	return strings.TrimRight(base, "/")
}

// LoginPath returns the configured login page path.
func LoginPath() string {
	path := viper.GetString(key.SiteLoginPath)
	if path == "" {
		path = constant.SiteLoginPath
	}
	return path
}

// LoginURL returns the absolute login page URL.
func LoginURL() string {
	return BaseURL() + LoginPath()
}

// CookieDomain returns the domain assigned to cookies that carry none.
func CookieDomain() string {
	domain := viper.GetString(key.SiteCookieDomain)
	if domain == "" {
		domain = constant.SiteCookieDomain
	}
	return domain
}

// Classify derives the content type from a catalog URL path.
func Classify(rawURL string) source.ContentType {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		path = u.Path
	}

	switch {
	case strings.Contains(path, "/s/"), strings.Contains(path, "/serial/"):
		return source.Series
	case IsMovie(path):
		return source.Movie
	default:
		return source.Unknown
	}
}

// IsMovie reports whether a URL points to a movie page.
func IsMovie(rawURL string) bool {
	return strings.Contains(rawURL, "/m/") || strings.Contains(rawURL, "/film/")
}

// IsLogout reports whether an anchor's href or text marks the logout affordance.
func IsLogout(href, text string) bool {
	return strings.Contains(href, LogoutHref) || strings.Contains(text, LogoutText)
}
