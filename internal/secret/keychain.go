package secret

import (
	"fmt"
	"os/exec"
	"strings"
)

const keychainService = "gridedit"

// KeychainStore implements SecretStore using the macOS Keychain
// via the `security` CLI tool.
type KeychainStore struct{}

// NewKeychainStore creates a new KeychainStore.
func NewKeychainStore() *KeychainStore {
	return &KeychainStore{}
}

// Set stores a secret in the macOS Keychain, replacing any existing value.
func (k *KeychainStore) Set(key string, value []byte) error {
	k.Delete(key)

	cmd := exec.Command("security", "add-generic-password",
		"-a", key,
		"-s", keychainService,
		"-w", string(value),
		"-U",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("keychain set: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}

// Get retrieves a secret from the macOS Keychain.
// A missing item, or a system without the `security` tool, reads as empty.
func (k *KeychainStore) Get(key string) ([]byte, error) {
	out, err := exec.Command("security", "find-generic-password",
		"-a", key,
		"-s", keychainService,
		"-w",
	).Output()
	if err != nil {
		return nil, nil
	}
	return []byte(strings.TrimSpace(string(out))), nil
}

// Delete removes a secret from the macOS Keychain. Missing items are ignored.
func (k *KeychainStore) Delete(key string) error {
	exec.Command("security", "delete-generic-password",
		"-a", key,
		"-s", keychainService,
	).Run()
	return nil
}
