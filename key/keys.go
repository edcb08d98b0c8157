// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Catalog Site - these keys locate the site being scraped.
const (
	SiteBaseURL      = "site.base_url"
	SiteLoginPath    = "site.login_path"
	SiteCookieDomain = "site.cookie_domain"
)

// Browser - these keys control how the automated browser is launched.
const (
	BrowserHeadless  = "browser.headless"
	BrowserBin       = "browser.bin"
	BrowserProfile   = "browser.profile"
	BrowserUserAgent = "browser.user_agent"
	BrowserNoSandbox = "browser.no_sandbox"
)

// Session - these keys govern authentication and relogin behaviour.
const (
	SessionAutoRelogin    = "session.auto_relogin"
	SessionUsername       = "session.username"
	SessionLoginTimeout   = "session.login_timeout"
	SessionConfirmTimeout = "session.confirm_timeout"
	SessionRestore        = "session.restore"
)

// Timing - fixed settle delays and wait bounds, in seconds.
const (
	TimingLoadDelay      = "timing.load_delay"
	TimingMovieDelay     = "timing.movie_delay"
	TimingCookieDelay    = "timing.cookie_delay"
	TimingElementTimeout = "timing.element_timeout"
	TimingFieldTimeout   = "timing.field_timeout"
	TimingResultsTimeout = "timing.results_timeout"
)

// Stream Providers - these keys shape the link extraction allow-list.
const (
	ProvidersAllowed = "providers.allowed"
)

// Stream Link Cache
const (
	LinksCache    = "links.cache"
	LinksCacheTTL = "links.cache_ttl"
)

// Search Interaction - these keys define the parameters for search discovery.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// History
const (
	HistorySave = "history.save"
)

// HTTP Facade
const (
	ServerAddress   = "server.address"
	ServerRateLimit = "server.rate_limit"
	ServerRateBurst = "server.rate_burst"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite  = "logs.write"
	LogsLevel  = "logs.level"
	LogsJson   = "logs.json"
	LogsStderr = "logs.stderr"
)

// CLI Execution Environment
const (
	CliColored = "cli.colored"
)
