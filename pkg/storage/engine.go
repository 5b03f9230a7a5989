package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/tevino/abool"

	"github.com/cfranzen/eightball/pkg/domain"
)

// Engine is an in-memory record store with snapshot persistence.
// It implements domain.Store.
type Engine struct {
	mu          sync.RWMutex
	collections map[string]*domain.Collection

	// Per-collection ID counters for thread-safe ID generation
	idCounters map[string]uint64

	// Configuration
	dataDir         string
	dataFile        string
	transactionSave bool
	backgroundSave  bool
	saveInterval    time.Duration

	// Background workers
	backgroundWg sync.WaitGroup
	stopChan     chan struct{}

	closed *abool.AtomicBool
}

// NewEngine creates a new storage engine
func NewEngine(options ...Option) *Engine {
	engine := &Engine{
		collections:     make(map[string]*domain.Collection),
		idCounters:      make(map[string]uint64),
		dataDir:         ".",
		transactionSave: true,
		saveInterval:    5 * time.Minute,
		stopChan:        make(chan struct{}),
		closed:          abool.New(),
	}

	for _, option := range options {
		option(engine)
	}

	return engine
}

// checkOpen fails with domain.ErrStoreUnavailable once the engine is closed
func (se *Engine) checkOpen() error {
	if se.closed.IsSet() {
		return fmt.Errorf("engine is closed: %w", domain.ErrStoreUnavailable)
	}
	return nil
}

// getCollectionInternal returns a collection without locking
func (se *Engine) getCollectionInternal(collName string) (*domain.Collection, error) {
	collection, exists := se.collections[collName]
	if !exists {
		return nil, fmt.Errorf("collection %s does not exist: %w", collName, domain.ErrNotFound)
	}
	return collection, nil
}

// getOrCreateCollectionInternal returns a collection, creating it if absent
func (se *Engine) getOrCreateCollectionInternal(collName string) *domain.Collection {
	collection, exists := se.collections[collName]
	if !exists {
		collection = domain.NewCollection(collName)
		se.collections[collName] = collection
	}
	return collection
}

// nextID generates the next identifier for a collection. IDs are decimal
// strings, monotonically increasing, and never reused after a delete.
func (se *Engine) nextID(collName string) string {
	se.idCounters[collName]++
	return fmt.Sprintf("%d", se.idCounters[collName])
}

// Close stops background workers, saves a final snapshot and marks the
// engine unavailable. It is safe to call more than once.
func (se *Engine) Close() error {
	if !se.closed.SetToIf(false, true) {
		return nil
	}
	se.StopBackgroundWorkers()
	if se.dataFile != "" {
		return se.saveSnapshot()
	}
	return nil
}
