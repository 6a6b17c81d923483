// Package snapshot keeps the latest fetched copy of each source document.
// A failed refresh or a process restart degrades to last-known data instead
// of an empty page.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store layers an in-memory cache over JSON files on disk. Memory serves
// the hot path; disk survives restarts.
type Store struct {
	mem *gocache.Cache
	dir string
	now func() time.Time // injectable for tests
}

type envelope struct {
	StoredAt time.Time       `json:"stored_at"`
	Data     json.RawMessage `json:"data"`
}

// NewStore creates a snapshot store under dir. ttl bounds how long the
// memory layer serves an entry before falling back to disk.
func NewStore(dir string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &Store{
		mem: gocache.New(ttl, 2*ttl),
		dir: dir,
		now: time.Now,
	}, nil
}

// Put records the latest copy of the named document in both layers. Payloads
// that are not valid JSON are rejected before either layer is touched, so a
// source serving an error page with status 200 cannot evict last-known data.
func (s *Store) Put(name string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("snapshot %s: payload is not valid JSON", name)
	}

	stored := envelope{StoredAt: s.now().UTC(), Data: json.RawMessage(data)}
	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", name, err)
	}
	if err := os.WriteFile(s.path(name), raw, 0644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", name, err)
	}
	s.mem.Set(name, stored, gocache.DefaultExpiration)
	return nil
}

// Get returns the most recent copy of the named document and when it was
// stored. Disk entries are served regardless of age; stale data beats no
// data for a read-only page.
func (s *Store) Get(name string) ([]byte, time.Time, bool) {
	if v, ok := s.mem.Get(name); ok {
		e := v.(envelope)
		return e.Data, e.StoredAt, true
	}

	raw, err := os.ReadFile(s.path(name))
	if err != nil {
		return nil, time.Time{}, false
	}
	var e envelope
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, time.Time{}, false
	}

	s.mem.Set(name, e, gocache.DefaultExpiration)
	return e.Data, e.StoredAt, true
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}
