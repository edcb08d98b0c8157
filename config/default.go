// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/filmscout/filmscout/color"
	"github.com/filmscout/filmscout/constant"
	"github.com/filmscout/filmscout/key"
	"github.com/filmscout/filmscout/provider"
	"github.com/filmscout/filmscout/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.App + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	// register validates and adds a new configuration field to the global registry.
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.SiteBaseURL, constant.SiteBaseURL, "Origin of the catalog site")
	register(key.SiteLoginPath, constant.SiteLoginPath, "Path of the login page, relative to the base url.\nA page whose url no longer contains it is treated as a redirect after login")
	register(key.SiteCookieDomain, constant.SiteCookieDomain, "Domain assigned to injected cookies that carry none")
	register(key.BrowserHeadless, false, "Run the browser without a visible window")
	register(key.BrowserBin, "", "Path to the Chromium binary.\nLeave empty to locate or download one automatically")
	register(key.BrowserProfile, "", "Browser user-data directory holding the persistent identity.\nLeave empty to use the default under the config directory")
	register(key.BrowserUserAgent, constant.UserAgent, "User-Agent presented by the browser")
	register(key.BrowserNoSandbox, true, "Launch the browser with --no-sandbox")
	register(key.SessionAutoRelogin, true, "When running headless and logged out, reopen a visible browser for a manual login")
	register(key.SessionUsername, "", "Account name used to prefill the login form.\nThe password is kept in the system keyring")
	register(key.SessionLoginTimeout, 300, "Seconds to wait for a manual login to complete")
	register(key.SessionConfirmTimeout, 15, "Seconds to wait for the logged-in marker after the login form is gone")
	register(key.SessionRestore, true, "Re-inject the last saved cookie set when the browser starts")
	register(key.TimingLoadDelay, 2, "Seconds to settle after each navigation")
	register(key.TimingMovieDelay, 2, "Extra seconds to settle after opening a movie page")
	register(key.TimingCookieDelay, 1, "Seconds to settle on the site origin before applying cookies")
	register(key.TimingElementTimeout, 15, "Seconds to wait for the search input and the episode list")
	register(key.TimingFieldTimeout, 5, "Seconds to wait for each login form field when autofilling")
	register(key.TimingResultsTimeout, 5, "Seconds to wait for the search results container")
	register(key.ProvidersAllowed, provider.Names(), "Stream providers whose links are extracted.\nA provider matches when its name contains an entry")
	register(key.LinksCache, false, "Cache extracted stream links per episode url")
	register(key.LinksCacheTTL, 24, "Hours a cached stream link list stays valid")
	register(key.SearchShowQuerySuggestions, true, "Show query suggestions when searching")
	register(key.HistorySave, true, "Record the titles opened by scrape")
	register(key.ServerAddress, ":5001", "Listen address of the HTTP facade")
	register(key.ServerRateLimit, 60, "Requests per minute the HTTP facade accepts.\n0 disables the limit")
	register(key.ServerRateBurst, 10, "Requests the HTTP facade accepts at once before the limit applies")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.LogsStderr, false, "Write logs to stderr instead of the log file")
	register(key.CliColored, true, "Enable colored CLI output")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
