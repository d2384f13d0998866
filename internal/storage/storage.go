package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Slot names for persisted state. Each slot is one JSON file in the data
// directory.
const (
	KeyEntries    = "timesheet"
	KeyArchived   = "archived_projects"
	KeyTimer      = "timer_state"
	KeyPrefs      = "preferences"
	KeyContacts   = "contacts"
	KeyLastReport = "last_weekly_report"
)

// KV is the repository interface the domain packages persist through. Values
// are JSON-encoded. Implementations must make Set durable before returning.
type KV interface {
	// Get decodes the slot into v. Returns false when the slot is absent or
	// holds unparseable data; a parse failure is treated as absence so the
	// caller falls back to its default, never as a fatal error.
	Get(key string, v any) (bool, error)

	// Set encodes v into the slot, replacing any previous value.
	Set(key string, v any) error

	// Delete removes the slot. Removing an absent slot is not an error.
	Delete(key string) error
}

// FileStore is a KV backed by one JSON file per slot in a single directory.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates the data directory if needed and returns a store
// rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the data directory the store writes into.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) slotPath(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get implements KV.
func (s *FileStore) Get(key string, v any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.slotPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		// Corrupt slot: treat as empty rather than failing the whole tool.
		return false, nil
	}
	return true, nil
}

// Set implements KV. The write goes to a temp file first and is renamed into
// place so a crash mid-write never leaves a truncated slot.
func (s *FileStore) Set(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.slotPath(key)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Delete implements KV.
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.slotPath(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
