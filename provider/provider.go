// Package provider describes the third-party embed hosts whose stream links are extracted.
package provider

import (
	"strings"

	"github.com/filmscout/filmscout/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Provider is a known embed host.
type Provider struct {
	// ID is the token matched against the link table's provider column.
	ID   string
	Name string
	Host string
}

func (p *Provider) String() string {
	return p.Name
}

// Builtins returns the providers extracted by default.
func Builtins() []*Provider {
	return []*Provider{
		{ID: "doodstream", Name: "DoodStream", Host: "doodstream.com"},
		{ID: "voe.sx", Name: "VOE", Host: "voe.sx"},
		{ID: "savefiles", Name: "SaveFiles", Host: "savefiles.com"},
		{ID: "vid-guard", Name: "VidGuard", Host: "vidguard.to"},
		{ID: "streamup", Name: "StreamUP", Host: "streamup.ws"},
	}
}

// Names returns the IDs of the builtin providers.
func Names() []string {
	return lo.Map(Builtins(), func(p *Provider, _ int) string {
		return p.ID
	})
}

// Get finds a builtin provider by ID.
func Get(id string) (*Provider, bool) {
	return lo.Find(Builtins(), func(p *Provider) bool {
		return p.ID == id
	})
}

// AllowList decides which provider names yield stream links.
type AllowList []string

// Configured returns the allow-list from configuration, or the builtins when it is empty.
func Configured() AllowList {
	names := viper.GetStringSlice(key.ProvidersAllowed)
	if len(names) == 0 {
		return AllowList(Names())
	}
	return AllowList(names)
}

// Allows reports whether name contains any entry of the list.
// Names are the lower-cased first token of a link label, so "voe.sx" and "doodstream.com" both match.
func (a AllowList) Allows(name string) bool {
	name = strings.ToLower(name)
	return lo.ContainsBy(a, func(entry string) bool {
		entry = strings.ToLower(strings.TrimSpace(entry))
		return entry != "" && strings.Contains(name, entry)
	})
}

// Name normalizes a provider label into the token the allow-list is matched against:
// lower-cased, first whitespace-separated field, "unknown" when blank.
func Name(label string) string {
	fields := strings.Fields(strings.ToLower(label))
	if len(fields) == 0 {
		return "unknown"
	}
	return fields[0]
}
