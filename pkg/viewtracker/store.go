package viewtracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MemoryStore keeps markers for the life of the process.
type MemoryStore struct {
	mu    sync.Mutex
	marks map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{marks: make(map[string]time.Time)}
}

func (s *MemoryStore) Get(slug string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.marks[slug]
	return at, ok, nil
}

func (s *MemoryStore) Put(slug string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks[slug] = at
	return nil
}

func (s *MemoryStore) PurgeBefore(cutoff time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	purge(s.marks, cutoff)
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.marks)
}

// FileStore keeps markers in a JSON object of slug to RFC 3339 timestamp.
// A missing or unreadable file is treated as empty and rewritten on the next Put.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(slug string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	marks, err := s.load()
	if err != nil {
		return time.Time{}, false, err
	}
	at, ok := marks[slug]
	return at, ok, nil
}

func (s *FileStore) Put(slug string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	marks, err := s.load()
	if err != nil {
		return err
	}
	marks[slug] = at
	return s.save(marks)
}

func (s *FileStore) PurgeBefore(cutoff time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	marks, err := s.load()
	if err != nil {
		return err
	}
	if !purge(marks, cutoff) {
		return nil
	}
	return s.save(marks)
}

func (s *FileStore) load() (map[string]time.Time, error) {
	marks := make(map[string]time.Time)
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return marks, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read view markers: %w", err)
	}
	if len(raw) == 0 {
		return marks, nil
	}
	if err := json.Unmarshal(raw, &marks); err != nil {
		return make(map[string]time.Time), nil
	}
	return marks, nil
}

// save writes through a temp file so readers never see a partial file.
func (s *FileStore) save(marks map[string]time.Time) error {
	raw, err := json.Marshal(marks)
	if err != nil {
		return fmt.Errorf("encode view markers: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create marker dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".viewmarks-*")
	if err != nil {
		return fmt.Errorf("write view markers: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write view markers: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write view markers: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write view markers: %w", err)
	}
	return nil
}

// purge deletes markers older than cutoff and reports whether any were removed.
func purge(marks map[string]time.Time, cutoff time.Time) bool {
	removed := false
	for slug, at := range marks {
		if at.Before(cutoff) {
			delete(marks, slug)
			removed = true
		}
	}
	return removed
}
