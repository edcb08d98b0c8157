package constant

// Catalog site defaults.
const (
	SiteBaseURL      = "https://filman.cc"
	SiteLoginPath    = "/logowanie"
	SiteCookieDomain = ".filman.cc"
)

// FilmLabel is the sentinel episode label produced for movie pages.
const FilmLabel = "FILM"
