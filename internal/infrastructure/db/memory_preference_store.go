package db

import (
	"sync"

	"github.com/financaspro/finance-core/internal/domain/repository"
)

// MemoryPreferenceStore is an in-memory preference store. Nothing survives
// the process; it backs tests and --ephemeral runs.
type MemoryPreferenceStore struct {
	mu    sync.Mutex
	token string
	theme string
}

var _ repository.PreferenceStore = (*MemoryPreferenceStore)(nil)

// NewMemoryPreferenceStore creates an empty in-memory store.
func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{}
}

func (s *MemoryPreferenceStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryPreferenceStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryPreferenceStore) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

func (s *MemoryPreferenceStore) Theme() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme, nil
}

func (s *MemoryPreferenceStore) SetTheme(theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	return nil
}
