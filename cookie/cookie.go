// Package cookie models the site identity cookies and the formats they travel in.
package cookie

import (
	"fmt"
	"strings"

	"github.com/filmscout/filmscout/log"
)

// Cookie is a single identity record. Order within a set is preserved everywhere.
type Cookie struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Domain string `json:"domain,omitempty"`
}

func (c Cookie) String() string {
	return fmt.Sprintf("%s@%s", c.Name, c.Domain)
}

// Valid reports whether the record carries both a name and a value.
func (c Cookie) Valid() bool {
	return c.Name != "" && c.Value != ""
}

// Normalize drops records lacking a name or value and assigns defaultDomain to records without one.
// The input is left untouched.
func Normalize(cookies []Cookie, defaultDomain string) []Cookie {
	normalized := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		c.Name = strings.TrimSpace(c.Name)
		c.Domain = strings.TrimSpace(c.Domain)

		if !c.Valid() {
			log.Warnf("skipping cookie %q: missing name or value", c.Name)
			continue
		}

		if c.Domain == "" {
			c.Domain = defaultDomain
		}

		normalized = append(normalized, c)
	}

	return normalized
}

// Names returns the cookie names in order, for logging without leaking values.
func Names(cookies []Cookie) []string {
	names := make([]string, len(cookies))
	for i, c := range cookies {
		names[i] = c.Name
	}
	return names
}
