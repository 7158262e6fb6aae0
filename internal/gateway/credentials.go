package gateway

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// CredentialStore is the single process-wide slot holding the session
// credential. It is injected into the Client at construction so tests can
// substitute an in-memory store.
type CredentialStore interface {
	// Get returns the stored session id, or "" when none is stored.
	Get() string
	// Set stores the session id.
	Set(sessionID string) error
	// Clear removes the stored session id. Clearing an empty store is a no-op.
	Clear() error
}

// FileCredentialStore persists the session id as a single file under the
// user's config directory, mode 0600.
type FileCredentialStore struct {
	mu   sync.Mutex
	path string
}

// NewFileCredentialStore creates a store backed by the given file path.
func NewFileCredentialStore(path string) *FileCredentialStore {
	return &FileCredentialStore{path: path}
}

func (s *FileCredentialStore) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (s *FileCredentialStore) Set(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("credentials: failed to create dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(sessionID), 0o600); err != nil {
		return fmt.Errorf("credentials: failed to write %s: %w", s.path, err)
	}
	return nil
}

func (s *FileCredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("credentials: failed to remove %s: %w", s.path, err)
	}
	return nil
}

// MemoryCredentialStore keeps the session id in memory. Used in tests and
// whenever persistence across runs is undesirable.
type MemoryCredentialStore struct {
	mu        sync.Mutex
	sessionID string
}

// NewMemoryCredentialStore creates an empty in-memory store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{}
}

func (s *MemoryCredentialStore) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

func (s *MemoryCredentialStore) Set(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = sessionID
	return nil
}

func (s *MemoryCredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = ""
	return nil
}
