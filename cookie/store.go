package cookie

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/filmscout/filmscout/filesystem"
)

// Snapshot is the persisted form of the last injected cookie set.
// It is the {"cookies": [...]} object Parse accepts, so a sidecar can be injected again as is.
type Snapshot struct {
	Cookies []Cookie  `json:"cookies"`
	SavedAt time.Time `json:"saved_at"`
}

// Store persists the last injected cookie set to a JSON sidecar.
type Store struct {
	path string
}

// NewStore returns a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the sidecar location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the saved cookie set, or nil when nothing has been saved yet.
func (s *Store) Load() ([]Cookie, error) {
	data, err := filesystem.API().ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	return Parse(data, "")
}

// Save replaces the saved cookie set.
func (s *Store) Save(cookies []Cookie) error {
	if cookies == nil {
		cookies = []Cookie{}
	}

	data, err := json.MarshalIndent(&Snapshot{Cookies: cookies, SavedAt: time.Now()}, "", "  ")
	if err != nil {
		return err
	}

	if err := filesystem.API().MkdirAll(filepath.Dir(s.path), os.ModePerm); err != nil {
		return err
	}
	return filesystem.API().WriteFile(s.path, data, 0600)
}

// Forget removes the sidecar.
func (s *Store) Forget() error {
	err := filesystem.API().Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
