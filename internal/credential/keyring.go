package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zalando/go-keyring"
)

const (
	service = "orderdesk"
)

// KeyringStore keeps the credential in the OS keychain/credential manager.
// The keychain has no notion of expiry, so the value is stored as JSON
// together with its expiry time.
type KeyringStore struct {
	now func() time.Time
}

// NewKeyringStore creates a keyring-backed store
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{now: time.Now}
}

// Set persists the credential securely in the OS keychain
func (k *KeyringStore) Set(value string, expiresInDays int) error {
	data, err := json.Marshal(newEntry(value, expiresInDays, k.now()))
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	if err := keyring.Set(service, Key, string(data)); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

// Get retrieves the credential from the OS keychain
func (k *KeyringStore) Get() (string, bool, error) {
	raw, err := keyring.Get(service, Key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to load credential: %w", err)
	}

	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return "", false, fmt.Errorf("failed to decode credential: %w", err)
	}

	if e.expired(k.now()) {
		_ = k.Remove()
		return "", false, nil
	}

	return e.Value, true, nil
}

// Remove deletes the credential from the OS keychain
func (k *KeyringStore) Remove() error {
	if err := keyring.Delete(service, Key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}
