package favorites

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry is one remembered item for a media service.
type Entry struct {
	Title   string    `json:"title"`
	URL     string    `json:"url,omitempty"`
	AddedAt time.Time `json:"added_at"`
}

// Store keeps per-service favorites and last-played markers as small JSON
// files under the application support directory. Favorites are append-only.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, "Library", "Application Support", "Julie Julie")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create support dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Add appends an entry to the service's favorites file.
func (s *Store) Add(service string, entry Entry) error {
	if entry.AddedAt.IsZero() {
		entry.AddedAt = time.Now().UTC()
	}
	existing, err := s.List(service)
	if err != nil {
		return err
	}
	existing = append(existing, entry)
	return s.writeJSON(s.favoritesPath(service), existing)
}

// List returns all favorites for a service, oldest first.
func (s *Store) List(service string) ([]Entry, error) {
	var out []Entry
	if err := s.readJSON(s.favoritesPath(service), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetLastPlayed overwrites the service's last-played marker.
func (s *Store) SetLastPlayed(service string, entry Entry) error {
	if entry.AddedAt.IsZero() {
		entry.AddedAt = time.Now().UTC()
	}
	return s.writeJSON(s.lastPlayedPath(service), entry)
}

// LastPlayed returns the service's last-played marker, or nil when none exists.
func (s *Store) LastPlayed(service string) (*Entry, error) {
	var entry Entry
	path := s.lastPlayedPath(service)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if err := s.readJSON(path, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Store) favoritesPath(service string) string {
	return filepath.Join(s.dir, service+"_favorites.json")
}

func (s *Store) lastPlayedPath(service string) string {
	return filepath.Join(s.dir, service+"_last_played.json")
}

func (s *Store) readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (s *Store) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
