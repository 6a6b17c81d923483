package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

const prefsFile = "prefs.json"

// prefs mirrors the keys the page historically kept in local storage. The
// last-send timestamp is epoch milliseconds stored as text.
type prefs struct {
	Locale   string `json:"wpo_lang,omitempty"`
	LastSend string `json:"wpo_last_report_ts,omitempty"`
}

// Store persists per-visitor preferences as a single JSON file keyed by
// visitor id. All access is single-writer read-modify-write behind a mutex.
type Store struct {
	path string

	mu       sync.Mutex
	visitors map[string]prefs
}

// Open loads the preference file under dir, creating the directory if
// needed. A missing or corrupt file yields empty preferences, not an error.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	s := &Store{
		path:     filepath.Join(dir, prefsFile),
		visitors: make(map[string]prefs),
	}
	data, err := os.ReadFile(s.path)
	if err == nil {
		// Corrupt content is treated as absent.
		_ = json.Unmarshal(data, &s.visitors)
	}
	if s.visitors == nil {
		s.visitors = make(map[string]prefs)
	}
	return s, nil
}

// Locale returns the visitor's persisted locale code, or "" if never set.
func (s *Store) Locale(visitor string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visitors[visitor].Locale
}

// SetLocale persists the visitor's locale code immediately.
func (s *Store) SetLocale(visitor, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.visitors[visitor]
	p.Locale = code
	s.visitors[visitor] = p
	return s.save()
}

// LastSend returns the recorded time of the visitor's last accepted send,
// or the zero time if none was recorded or the stored value is unreadable.
func (s *Store) LastSend(visitor string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms, err := strconv.ParseInt(s.visitors[visitor].LastSend, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// MarkSend records t as the visitor's last accepted send and persists it.
func (s *Store) MarkSend(visitor string, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.visitors[visitor]
	p.LastSend = strconv.FormatInt(t.UnixMilli(), 10)
	s.visitors[visitor] = p
	return s.save()
}

// save writes the preference file. Callers hold s.mu.
func (s *Store) save() error {
	data, err := json.Marshal(s.visitors)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}
