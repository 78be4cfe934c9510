package db

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"

	"github.com/financaspro/finance-core/internal/domain/repository"
)

const (
	tokenKey = "pref:token"
	themeKey = "pref:theme"
)

// BadgerPreferenceStore implements the preference store interface using
// BadgerDB. Exactly two values live here: the bearer token and the theme
// preference.
type BadgerPreferenceStore struct {
	db *badger.DB
}

var _ repository.PreferenceStore = (*BadgerPreferenceStore)(nil)

// NewBadgerPreferenceStore creates a BadgerDB preference store.
func NewBadgerPreferenceStore(db *badger.DB) *BadgerPreferenceStore {
	return &BadgerPreferenceStore{db: db}
}

// Open opens (or creates) a Badger database at dir with logging disabled,
// ready to back a preference store.
func Open(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open preference database: %w", err)
	}
	return db, nil
}

// Token returns the persisted bearer token, or "" when absent.
func (s *BadgerPreferenceStore) Token() (string, error) {
	return s.get(tokenKey)
}

// SetToken persists the bearer token.
func (s *BadgerPreferenceStore) SetToken(token string) error {
	return s.set(tokenKey, token)
}

// ClearToken removes the persisted token. Clearing an absent token is not
// an error.
func (s *BadgerPreferenceStore) ClearToken() error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(tokenKey))
	})
	if err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

// Theme returns the persisted theme preference, or "" when absent.
func (s *BadgerPreferenceStore) Theme() (string, error) {
	return s.get(themeKey)
}

// SetTheme persists the theme preference.
func (s *BadgerPreferenceStore) SetTheme(theme string) error {
	return s.set(themeKey, theme)
}

func (s *BadgerPreferenceStore) get(key string) (string, error) {
	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

func (s *BadgerPreferenceStore) set(key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}
