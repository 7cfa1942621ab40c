package secret

import (
	"fmt"
	"sync"
)

// SecretStore provides a pluggable interface for storing sensitive data
// such as the document database password. The default implementation uses
// the macOS Keychain.
type SecretStore interface {
	// Set stores a secret value under the given key.
	Set(key string, value []byte) error

	// Get retrieves the secret value for the given key.
	// Returns empty slice and nil error if key does not exist.
	Get(key string) ([]byte, error)

	// Delete removes the secret for the given key.
	Delete(key string) error
}

// ResolvePassword returns direct when set, otherwise the secret stored under
// key. An empty key with no direct value means no password.
func ResolvePassword(direct, key string, store SecretStore) (string, error) {
	if direct != "" || key == "" {
		return direct, nil
	}
	if store == nil {
		return "", fmt.Errorf("no secret store for key %q", key)
	}
	v, err := store.Get(key)
	if err != nil {
		return "", fmt.Errorf("read secret %q: %w", key, err)
	}
	if len(v) == 0 {
		return "", fmt.Errorf("secret %q not found", key)
	}
	return string(v), nil
}

// MapStore is an in-memory SecretStore.
type MapStore struct {
	mu sync.Mutex
	m  map[string][]byte
}

func (s *MapStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		s.m = make(map[string][]byte)
	}
	s.m[key] = append([]byte(nil), value...)
	return nil
}

func (s *MapStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[key], nil
}

func (s *MapStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}
