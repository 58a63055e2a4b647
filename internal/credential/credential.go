// Package credential persists the opaque bearer token that keeps the operator
// signed in between requests. Every backend holds a single slot named "token"
// with an explicit expiry; an expired slot reads as absent.
package credential

import (
	"fmt"
	"time"

	"github.com/orderdesk/orderdesk/internal/config"
)

// Key is the fixed name of the credential slot
const Key = "token"

// Store defines the credential slot operations.
// This allows the session store to run against the OS keyring, a file or memory.
type Store interface {
	// Set stores value, replacing any previous credential, valid for expiresInDays.
	Set(value string, expiresInDays int) error
	// Get returns the stored credential and whether one was present and unexpired.
	Get() (string, bool, error)
	// Remove deletes the credential. Removing an absent credential is not an error.
	Remove() error
}

// entry is the stored form of a credential in every persistent backend
type entry struct {
	Value     string    `json:"value" yaml:"value"`
	ExpiresAt time.Time `json:"expires_at" yaml:"expires_at"`
}

func newEntry(value string, expiresInDays int, now time.Time) entry {
	return entry{
		Value:     value,
		ExpiresAt: now.Add(time.Duration(expiresInDays) * 24 * time.Hour),
	}
}

func (e entry) expired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}

// New returns the backend selected in cfg
func New(cfg config.CredentialConfig) (Store, error) {
	switch cfg.Backend {
	case config.CredentialBackendKeyring:
		return NewKeyringStore(), nil
	case config.CredentialBackendFile:
		return NewFileStore(cfg.File), nil
	case config.CredentialBackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown credential backend %q", cfg.Backend)
	}
}
