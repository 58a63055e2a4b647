package credential

import (
	"sync"
	"time"
)

// MemoryStore keeps the credential for the lifetime of the process only
type MemoryStore struct {
	mu  sync.Mutex
	e   *entry
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (m *MemoryStore) Set(value string, expiresInDays int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := newEntry(value, expiresInDays, m.now())
	m.e = &e
	return nil
}

func (m *MemoryStore) Get() (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.e == nil {
		return "", false, nil
	}
	if m.e.expired(m.now()) {
		m.e = nil
		return "", false, nil
	}
	return m.e.Value, true, nil
}

func (m *MemoryStore) Remove() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.e = nil
	return nil
}
