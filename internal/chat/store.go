package chat

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// ThreadStore persists the conversation identifier across sends. The
// backend is authoritative: Save is called with whatever id it returns,
// Clear when it rejects the stored one.
type ThreadStore interface {
	Load() (int64, bool)
	Save(id int64) error
	Clear() error
}

// MemoryStore keeps the thread id for the lifetime of the process.
type MemoryStore struct {
	mu  sync.Mutex
	id  int64
	set bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, s.set
}

func (s *MemoryStore) Save(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id, s.set = id, true
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id, s.set = 0, false
	return nil
}

// FileStore keeps the thread id in a small JSON file, surviving
// restarts the way the widget's browser storage survives page loads.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

type storedThread struct {
	ThreadID int64 `json:"thread_id"`
}

func (s *FileStore) Load() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return 0, false
	}
	var st storedThread
	if err := json.Unmarshal(raw, &st); err != nil {
		return 0, false
	}
	return st.ThreadID, true
}

func (s *FileStore) Save(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(storedThread{ThreadID: id})
	if err != nil {
		return fmt.Errorf("encode thread id: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write thread store: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear thread store: %w", err)
	}
	return nil
}
