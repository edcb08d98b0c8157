package source

import (
	"fmt"
	"strings"
)

// ContentType classifies a catalog entry.
type ContentType string

const (
	// Any matches every content type when used as a filter.
	Any     ContentType = ""
	Series  ContentType = "serial"
	Movie   ContentType = "film"
	Unknown ContentType = "unknown"
)

// ParseContentType accepts the wire names as well as their English aliases.
func ParseContentType(s string) (ContentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any", "all":
		return Any, nil
	case "serial", "series", "show":
		return Series, nil
	case "film", "movie":
		return Movie, nil
	case "unknown":
		return Unknown, nil
	default:
		return Any, fmt.Errorf("unknown content type: %s", s)
	}
}

// Matches reports whether a value of type t passes the filter f.
func (f ContentType) Matches(t ContentType) bool {
	return f == Any || f == t
}

func (t ContentType) String() string {
	if t == Any {
		return "any"
	}
	return string(t)
}
