package api

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cfranzen/eightball/pkg/domain"
	"github.com/cfranzen/eightball/pkg/storage"
)

// MockStore provides an in-memory domain.Store for handler tests, tracking
// call counts and optionally failing every operation with a fixed error
type MockStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]domain.Record
	counters    map[string]uint64

	insertCalls int
	getCalls    int
	findCalls   int
	updateCalls int
	deleteCalls int

	// FailWith, if set, is returned by every operation
	FailWith error
}

// NewMockStore creates a new mock store
func NewMockStore() *MockStore {
	return &MockStore{
		collections: make(map[string]map[string]domain.Record),
		counters:    make(map[string]uint64),
	}
}

func (m *MockStore) Insert(collName string, rec domain.Record) (domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertCalls++
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	if len(rec) == 0 {
		return nil, fmt.Errorf("record data is empty: %w", domain.ErrValidation)
	}
	if _, exists := rec[domain.IDField]; exists {
		return nil, fmt.Errorf("record may not carry a client-supplied %s: %w", domain.IDField, domain.ErrValidation)
	}

	if m.collections[collName] == nil {
		m.collections[collName] = make(map[string]domain.Record)
	}
	m.counters[collName]++
	stored := rec.Copy()
	stored[domain.IDField] = fmt.Sprintf("%d", m.counters[collName])
	m.collections[collName][stored.ID()] = stored
	return stored.Copy(), nil
}

func (m *MockStore) GetById(collName, id string) (domain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.getCalls++
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	recs, exists := m.collections[collName]
	if !exists {
		return nil, fmt.Errorf("collection %s does not exist: %w", collName, domain.ErrNotFound)
	}
	rec, exists := recs[id]
	if !exists {
		return nil, fmt.Errorf("record %s not found: %w", id, domain.ErrNotFound)
	}
	return rec.Copy(), nil
}

func (m *MockStore) FindAll(collName string, filter map[string]interface{}) ([]domain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.findCalls++
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	recs, exists := m.collections[collName]
	if !exists {
		return nil, fmt.Errorf("collection %s does not exist: %w", collName, domain.ErrNotFound)
	}

	results := []domain.Record{}
	for _, rec := range recs {
		if len(filter) == 0 || storage.MatchesFilter(rec, filter) {
			results = append(results, rec.Copy())
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return storage.IDLess(results[i].ID(), results[j].ID())
	})
	return results, nil
}

func (m *MockStore) UpdateById(collName, id string, updates domain.Record) (domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	recs, exists := m.collections[collName]
	if !exists {
		return nil, fmt.Errorf("collection %s does not exist: %w", collName, domain.ErrNotFound)
	}
	rec, exists := recs[id]
	if !exists {
		return nil, fmt.Errorf("record %s not found: %w", id, domain.ErrNotFound)
	}
	for key, value := range updates {
		if key != domain.IDField {
			rec[key] = value
		}
	}
	return rec.Copy(), nil
}

func (m *MockStore) DeleteById(collName, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	if m.FailWith != nil {
		return m.FailWith
	}

	recs, exists := m.collections[collName]
	if !exists {
		return fmt.Errorf("collection %s does not exist: %w", collName, domain.ErrNotFound)
	}
	if _, exists := recs[id]; !exists {
		return fmt.Errorf("record %s not found: %w", id, domain.ErrNotFound)
	}
	delete(recs, id)
	return nil
}

func (m *MockStore) Close() error { return nil }

// GetInsertCalls returns the number of Insert calls
func (m *MockStore) GetInsertCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.insertCalls
}

// GetRecordCount returns the number of records in a collection
func (m *MockStore) GetRecordCount(collName string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collName])
}
