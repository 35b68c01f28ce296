package store

import (
	"sort"
	"sync"
	"time"

	"github.com/sysmuse/exprflow/pkg/exprflow/value"
)

// MemoryStore is an in-memory context store for testing.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	runs   map[string]storedRun
	closed bool
}

// storedRun holds a cloned context with metadata for Runs().
type storedRun struct {
	result    *value.Context
	timestamp time.Time
}

// NewMemoryStore creates a new in-memory context store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]storedRun)}
}

// Save implements ContextStore.
func (m *MemoryStore) Save(runID string, result *value.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	// Clone so later caller mutation doesn't leak into the store.
	m.runs[runID] = storedRun{
		result:    result.Clone(),
		timestamp: time.Now().UTC(),
	}
	return nil
}

// Load implements ContextStore.
func (m *MemoryStore) Load(runID string) (*value.Context, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	run, ok := m.runs[runID]
	if !ok {
		return nil, ErrNotFound
	}
	return run.result.Clone(), nil
}

// Runs implements ContextStore.
func (m *MemoryStore) Runs() ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	infos := make([]Info, 0, len(m.runs))
	for runID, run := range m.runs {
		infos = append(infos, Info{
			RunID:     runID,
			Timestamp: run.timestamp,
			Entries:   run.result.Len(),
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Timestamp.After(infos[j].Timestamp)
	})
	return infos, nil
}

// Delete implements ContextStore.
func (m *MemoryStore) Delete(runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.runs, runID)
	return nil
}

// Close implements ContextStore.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.runs = nil
	return nil
}

// Len returns the number of stored runs. Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.runs)
}
