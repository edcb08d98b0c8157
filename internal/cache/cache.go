// Package cache keeps stream link lists on disk so repeated lookups of an episode skip the browser.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/filmscout/filmscout/filesystem"
	"github.com/filmscout/filmscout/key"
	"github.com/filmscout/filmscout/where"
	"github.com/spf13/viper"
)

// Cache is a directory of JSON entries that expire ttl after they were written.
type Cache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// New returns a cache rooted at dir.
func New(dir string, ttl time.Duration) *Cache {
	return &Cache{dir: dir, ttl: ttl, now: time.Now}
}

// Links returns the stream link cache configured by links.cache_ttl.
func Links() *Cache {
	return New(where.Links(), time.Duration(viper.GetInt(key.LinksCacheTTL))*time.Hour)
}

// Key derives a deterministic entry name from an episode url.
func Key(url string) string {
	sanitized := strings.TrimRight(strings.TrimSpace(url), "/")
	hash := sha256.Sum256([]byte(sanitized))
	return hex.EncodeToString(hash[:])
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func (c *Cache) expired(info os.FileInfo) bool {
	return c.ttl > 0 && c.now().Sub(info.ModTime()) > c.ttl
}

// Read decodes the entry into target. It reports false when the entry is missing, expired or unreadable.
func (c *Cache) Read(key string, target any) bool {
	fs := filesystem.API()
	path := c.path(key)

	info, err := fs.Stat(path)
	if err != nil || c.expired(info) {
		return false
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return false
	}

	return json.Unmarshal(data, target) == nil
}

// Write stores data under key, swapping the file in atomically.
func (c *Cache) Write(key string, data any) error {
	fs := filesystem.API()
	if err := fs.MkdirAll(c.dir, os.ModePerm); err != nil {
		return err
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return err
	}

	path := c.path(key)
	tmpPath := path + ".tmp"
	if err := fs.WriteFile(tmpPath, encoded, 0o644); err != nil {
		return err
	}

	return fs.Rename(tmpPath, path)
}

// Forget removes the entry under key.
func (c *Cache) Forget(key string) error {
	err := filesystem.API().Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// CollectGarbage prunes expired entries and returns how many were removed.
func (c *Cache) CollectGarbage() int {
	fs := filesystem.API()

	var removed int
	_ = fs.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		if c.expired(info) && fs.Remove(path) == nil {
			removed++
		}
		return nil
	})

	return removed
}
