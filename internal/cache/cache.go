package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kmansel/phonelink/internal/config"
)

const cacheFile = "connection_cache.json"

// Record is the last-known connection, overwritten on each successful
// connect. IP and Port are present together or not at all.
type Record struct {
	IP          string    `json:"ip,omitempty"`
	Port        int       `json:"port,omitempty"`
	MAC         string    `json:"mac,omitempty"`
	DeviceName  string    `json:"device_name,omitempty"`
	DeviceModel string    `json:"device_model,omitempty"`
	LastConn    time.Time `json:"last_connected,omitempty"`
}

// HasEndpoint reports whether the record carries a usable ip:port pair.
func (r Record) HasEndpoint() bool {
	return r.IP != "" && r.Port > 0 && r.Port <= 65535
}

// String returns a human-readable representation of the record.
func (r Record) String() string {
	if !r.HasEndpoint() {
		return "empty"
	}
	s := fmt.Sprintf("%s:%d", r.IP, r.Port)
	if r.DeviceModel != "" {
		s += " (" + r.DeviceModel + ")"
	}
	return s
}

// Store persists the singleton connection record as a JSON file.
type Store struct {
	path string
}

// NewStore creates a store at the default location in the config
// directory.
func NewStore() (*Store, error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache location: %w", err)
	}
	return NewStoreAt(filepath.Join(dir, cacheFile)), nil
}

// NewStoreAt creates a store at an explicit path. Used by tests and the
// --cache flag.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Path returns the cache file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the cached record. An absent file yields a zero record and
// no error; a corrupt file is reported but should be treated as an empty
// cache by callers.
func (s *Store) Load() (Record, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Record{}, nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to read cache: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("failed to parse cache: %w", err)
	}
	if rec.IP == "" || rec.Port <= 0 {
		// Enforce the pair invariant on whatever was on disk.
		rec.IP = ""
		rec.Port = 0
	}
	return rec, nil
}

// Save writes the record atomically, stamping LastConn.
func (s *Store) Save(rec Record) error {
	if !rec.HasEndpoint() {
		return fmt.Errorf("refusing to cache record without ip:port")
	}
	rec.LastConn = time.Now()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save cache: %w", err)
	}
	return nil
}

// Clear removes the cache file. A missing file is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
