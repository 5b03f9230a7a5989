package storage

import (
	"fmt"

	"github.com/cfranzen/eightball/pkg/domain"
)

// GetCollection returns a collection by name
func (se *Engine) GetCollection(collName string) (*domain.Collection, error) {
	if err := se.checkOpen(); err != nil {
		return nil, err
	}
	se.mu.RLock()
	defer se.mu.RUnlock()
	return se.getCollectionInternal(collName)
}

// CreateCollection creates a new empty collection
func (se *Engine) CreateCollection(collName string) error {
	if err := se.checkOpen(); err != nil {
		return err
	}
	if collName == "" {
		return fmt.Errorf("collection name cannot be empty: %w", domain.ErrValidation)
	}

	se.mu.Lock()
	defer se.mu.Unlock()

	if _, exists := se.collections[collName]; exists {
		return fmt.Errorf("collection %s already exists: %w", collName, domain.ErrValidation)
	}

	se.collections[collName] = domain.NewCollection(collName)
	return nil
}
