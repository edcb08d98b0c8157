package cookie

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat is returned for payloads none of the parsers recognise.
var ErrUnsupportedFormat = errors.New("unsupported cookie format")

// wrapper is the object form produced by cookie exports: {"cookies": [...]}.
type wrapper struct {
	Cookies []Cookie `json:"cookies"`
}

// Parse detects the payload format and decodes it. Accepted forms are a JSON list of records,
// a {"cookies": [...]} object, Netscape cookie-jar text and a flat "a=b; c=d" header string.
// Records are normalized with defaultDomain.
func Parse(data []byte, defaultDomain string) ([]Cookie, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty cookie payload")
	}

	var (
		cookies []Cookie
		err     error
	)

	// Pasted exports sometimes carry a label before the list.
	list := bytes.IndexByte(trimmed, '[')

	switch {
	case trimmed[0] == '{':
		cookies, err = parseObject(trimmed)
	case list >= 0 && trimmed[len(trimmed)-1] == ']':
		cookies, err = ParseJSON(trimmed[list:])
	case isNetscape(trimmed):
		cookies, err = ParseNetscape(trimmed)
	case bytes.ContainsRune(trimmed, '='):
		cookies = ParseString(string(trimmed), defaultDomain)
	default:
		err = ErrUnsupportedFormat
	}

	if err != nil {
		return nil, err
	}

	return Normalize(cookies, defaultDomain), nil
}

// ParseJSON decodes a JSON list of records.
func ParseJSON(data []byte) ([]Cookie, error) {
	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("decode cookie list: %w", err)
	}
	return cookies, nil
}

func parseObject(data []byte) ([]Cookie, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode cookie object: %w", err)
	}

	if _, ok := probe["cookies"]; ok {
		var w wrapper
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("decode cookie object: %w", err)
		}
		return w.Cookies, nil
	}

	// Browser extension exports keyed by url and data.
	if _, hasURL := probe["url"]; hasURL {
		if _, hasData := probe["data"]; hasData {
			return nil, fmt.Errorf("%w: extension export with url and data keys, export as a JSON list instead", ErrUnsupportedFormat)
		}
	}

	var single Cookie
	if err := json.Unmarshal(data, &single); err != nil || single.Name == "" {
		return nil, ErrUnsupportedFormat
	}
	return []Cookie{single}, nil
}

// ParseString decodes a flat "name=value; name=value" header string.
func ParseString(s, defaultDomain string) []Cookie {
	var cookies []Cookie
	for _, pair := range strings.Split(s, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}

		cookies = append(cookies, Cookie{
			Name:   strings.TrimSpace(name),
			Value:  strings.TrimSpace(value),
			Domain: defaultDomain,
		})
	}
	return cookies
}

func isNetscape(data []byte) bool {
	if bytes.HasPrefix(data, []byte("# Netscape")) || bytes.HasPrefix(data, []byte("# HTTP Cookie File")) {
		return true
	}

	line, _, _ := bytes.Cut(data, []byte("\n"))
	return bytes.Count(line, []byte("\t")) >= 6
}

// ParseNetscape decodes cookie-jar text: seven tab separated columns, '#' comments.
// Domain is column 1, name column 6 and value column 7.
func ParseNetscape(data []byte) ([]Cookie, error) {
	var cookies []Cookie

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// Curl marks HttpOnly entries with a comment-like prefix.
		line = strings.TrimPrefix(line, "#HttpOnly_")
		if strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) < 7 {
			continue
		}

		cookies = append(cookies, Cookie{
			Domain: parts[0],
			Name:   parts[5],
			Value:  parts[6],
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read cookie jar: %w", err)
	}

	return cookies, nil
}

// Header renders cookies in the flat "name=value; name=value" form.
func Header(cookies []Cookie) string {
	pairs := make([]string, len(cookies))
	for i, c := range cookies {
		pairs[i] = c.Name + "=" + c.Value
	}
	return strings.Join(pairs, "; ")
}
