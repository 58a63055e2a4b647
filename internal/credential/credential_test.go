package credential

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/orderdesk/orderdesk/internal/config"
)

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

// backends returns every Store implementation wired to a controllable clock
func backends(t *testing.T) map[string]func(c *clock) Store {
	t.Helper()
	return map[string]func(c *clock) Store{
		"memory": func(c *clock) Store {
			s := NewMemoryStore()
			s.now = c.now
			return s
		},
		"file": func(c *clock) Store {
			s := NewFileStore(filepath.Join(t.TempDir(), "nested", "credentials.yaml"))
			s.now = c.now
			return s
		},
		"keyring": func(c *clock) Store {
			keyring.MockInit()
			s := NewKeyringStore()
			s.now = c.now
			return s
		},
	}
}

func TestStore_SetGetRemove(t *testing.T) {
	for name, build := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := &clock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
			store := build(c)

			_, found, err := store.Get()
			require.NoError(t, err)
			assert.False(t, found, "fresh store should be empty")

			require.NoError(t, store.Set("token-abc", 7))
			value, found, err := store.Get()
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "token-abc", value)

			require.NoError(t, store.Set("token-def", 7))
			value, _, err = store.Get()
			require.NoError(t, err)
			assert.Equal(t, "token-def", value, "last writer wins")

			require.NoError(t, store.Remove())
			_, found, err = store.Get()
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, store.Remove(), "removing an absent credential is not an error")
		})
	}
}

func TestStore_Expiry(t *testing.T) {
	for name, build := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := &clock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
			store := build(c)

			require.NoError(t, store.Set("token-abc", 7))

			c.advance(7*24*time.Hour - time.Second)
			_, found, err := store.Get()
			require.NoError(t, err)
			assert.True(t, found, "still valid one second before expiry")

			c.advance(time.Second)
			_, found, err = store.Get()
			require.NoError(t, err)
			assert.False(t, found, "expired after seven days")
		})
	}
}

func TestFileStore_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	store := NewFileStore(path)
	require.NoError(t, store.Set("token-abc", 7))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, os.WriteFile(path, []byte("token: [unterminated"), 0600))

	_, _, err := NewFileStore(path).Get()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse credential file")
}

func TestNew(t *testing.T) {
	tests := []struct {
		backend string
		want    any
		wantErr bool
	}{
		{backend: config.CredentialBackendKeyring, want: &KeyringStore{}},
		{backend: config.CredentialBackendFile, want: &FileStore{}},
		{backend: config.CredentialBackendMemory, want: &MemoryStore{}},
		{backend: "vault", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			store, err := New(config.CredentialConfig{Backend: tt.backend, File: filepath.Join(t.TempDir(), "c.yaml")})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, store)
		})
	}
}
