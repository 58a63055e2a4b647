package credential

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// FileStore keeps the credential in a YAML file readable only by the owner.
// Used where no keychain is available (headless hosts, containers).
type FileStore struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// NewFileStore creates a file-backed store at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// Path returns the backing file location
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Set(value string, expiresInDays int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return err
	}
	entries[Key] = newEntry(value, expiresInDays, f.now())
	return f.write(entries)
}

func (f *FileStore) Get() (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return "", false, err
	}

	e, ok := entries[Key]
	if !ok {
		return "", false, nil
	}
	if e.expired(f.now()) {
		delete(entries, Key)
		_ = f.write(entries)
		return "", false, nil
	}
	return e.Value, true, nil
}

func (f *FileStore) Remove() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := entries[Key]; !ok {
		return nil
	}
	delete(entries, Key)
	return f.write(entries)
}

func (f *FileStore) read() (map[string]entry, error) {
	entries := make(map[string]entry)

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entries, nil
		}
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse credential file: %w", err)
	}
	if entries == nil {
		entries = make(map[string]entry)
	}
	return entries, nil
}

func (f *FileStore) write(entries map[string]entry) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal credential file: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	return nil
}
