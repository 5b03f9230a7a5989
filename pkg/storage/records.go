package storage

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/cfranzen/eightball/pkg/domain"
)

// Insert stores a new record in a collection, creating the collection on
// first use. The stored record, including its assigned ID, is returned.
func (se *Engine) Insert(collName string, rec domain.Record) (domain.Record, error) {
	if err := se.checkOpen(); err != nil {
		return nil, err
	}
	if len(rec) == 0 {
		return nil, fmt.Errorf("record data is empty: %w", domain.ErrValidation)
	}
	if _, exists := rec[domain.IDField]; exists {
		return nil, fmt.Errorf("record may not carry a client-supplied %s: %w", domain.IDField, domain.ErrValidation)
	}

	se.mu.Lock()
	defer se.mu.Unlock()

	_, existed := se.collections[collName]
	collection := se.getOrCreateCollectionInternal(collName)

	stored := rec.Copy()
	stored[domain.IDField] = se.nextID(collName)
	collection.Records[stored.ID()] = stored

	if err := se.saveAfterWriteLocked(); err != nil {
		// unwind the write so a failed save leaves nothing behind
		delete(collection.Records, stored.ID())
		se.idCounters[collName]--
		if !existed {
			delete(se.collections, collName)
			delete(se.idCounters, collName)
		}
		return nil, err
	}
	return stored.Copy(), nil
}

// GetById retrieves a specific record by its ID
func (se *Engine) GetById(collName, id string) (domain.Record, error) {
	if err := se.checkOpen(); err != nil {
		return nil, err
	}

	se.mu.RLock()
	defer se.mu.RUnlock()

	collection, err := se.getCollectionInternal(collName)
	if err != nil {
		return nil, err
	}

	rec, exists := collection.Records[id]
	if !exists {
		return nil, fmt.Errorf("record %s not found in collection %s: %w", id, collName, domain.ErrNotFound)
	}

	return rec.Copy(), nil
}

// UpdateById merges the supplied fields into an existing record.
// The record's ID cannot be changed.
func (se *Engine) UpdateById(collName, id string, updates domain.Record) (domain.Record, error) {
	if err := se.checkOpen(); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("update data is empty: %w", domain.ErrValidation)
	}

	se.mu.Lock()
	defer se.mu.Unlock()

	collection, err := se.getCollectionInternal(collName)
	if err != nil {
		return nil, err
	}

	rec, exists := collection.Records[id]
	if !exists {
		return nil, fmt.Errorf("record %s not found in collection %s: %w", id, collName, domain.ErrNotFound)
	}

	previous := rec.Copy()
	for key, value := range updates {
		if key != domain.IDField {
			rec[key] = value
		}
	}

	if err := se.saveAfterWriteLocked(); err != nil {
		collection.Records[id] = previous
		return nil, err
	}
	return rec.Copy(), nil
}

// DeleteById removes a specific record by its ID. Deleting an ID that does
// not exist fails with domain.ErrNotFound.
func (se *Engine) DeleteById(collName, id string) error {
	if err := se.checkOpen(); err != nil {
		return err
	}

	se.mu.Lock()
	defer se.mu.Unlock()

	collection, err := se.getCollectionInternal(collName)
	if err != nil {
		return err
	}

	removed, exists := collection.Records[id]
	if !exists {
		return fmt.Errorf("record %s not found in collection %s: %w", id, collName, domain.ErrNotFound)
	}

	delete(collection.Records, id)

	if err := se.saveAfterWriteLocked(); err != nil {
		collection.Records[id] = removed
		return err
	}
	return nil
}

// FindAll returns records that match the given filter criteria, ordered by
// ID. If filter is nil or empty, all records are returned.
func (se *Engine) FindAll(collName string, filter map[string]interface{}) ([]domain.Record, error) {
	if err := se.checkOpen(); err != nil {
		return nil, err
	}

	se.mu.RLock()
	collection, err := se.getCollectionInternal(collName)
	if err != nil {
		se.mu.RUnlock()
		return nil, err
	}

	recs := make([]domain.Record, 0, len(collection.Records))
	for _, rec := range collection.Records {
		if len(filter) == 0 || MatchesFilter(rec, filter) {
			recs = append(recs, rec.Copy())
		}
	}
	se.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		return IDLess(recs[i].ID(), recs[j].ID())
	})
	return recs, nil
}

// IDLess orders decimal string IDs numerically, falling back to
// lexicographic order for IDs that are not numbers
func IDLess(a, b string) bool {
	na, errA := strconv.ParseUint(a, 10, 64)
	nb, errB := strconv.ParseUint(b, 10, 64)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
