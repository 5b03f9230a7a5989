// Package bolt provides a bbolt-backed implementation of domain.Store.
// Each collection maps to a bucket; records are stored msgpack-encoded
// under their identifier, and identifiers come from the bucket sequence.
package bolt

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/tevino/abool"
	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"

	"github.com/cfranzen/eightball/pkg/domain"
	"github.com/cfranzen/eightball/pkg/storage"
)

// DefaultFileName is the database file created inside the data directory
const DefaultFileName = "eightball.bbolt"

// Store is a domain.Store backed by a bbolt database file
type Store struct {
	db     *bbolt.DB
	closed *abool.AtomicBool
}

// Open opens or creates a bbolt database in the given data directory
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	db, err := bbolt.Open(filepath.Join(dataDir, DefaultFileName), 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt database: %w: %v", domain.ErrStoreUnavailable, err)
	}
	return &Store{
		db:     db,
		closed: abool.New(),
	}, nil
}

func (s *Store) checkOpen() error {
	if s.closed.IsSet() {
		return fmt.Errorf("database is closed: %w", domain.ErrStoreUnavailable)
	}
	return nil
}

// Insert stores a new record, assigning its ID from the bucket sequence
func (s *Store) Insert(collName string, rec domain.Record) (domain.Record, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if len(rec) == 0 {
		return nil, fmt.Errorf("record data is empty: %w", domain.ErrValidation)
	}
	if _, exists := rec[domain.IDField]; exists {
		return nil, fmt.Errorf("record may not carry a client-supplied %s: %w", domain.IDField, domain.ErrValidation)
	}

	stored := rec.Copy()
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket, txErr := tx.CreateBucketIfNotExists([]byte(collName))
		if txErr != nil {
			return txErr
		}
		seq, txErr := bucket.NextSequence()
		if txErr != nil {
			return txErr
		}
		stored[domain.IDField] = strconv.FormatUint(seq, 10)

		data, txErr := msgpack.Marshal(stored)
		if txErr != nil {
			return txErr
		}
		return bucket.Put([]byte(stored.ID()), data)
	})
	if err != nil {
		return nil, fmt.Errorf("insert failed: %w: %v", domain.ErrStoreUnavailable, err)
	}
	return stored, nil
}

// GetById retrieves a record by identifier
func (s *Store) GetById(collName, id string) (domain.Record, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	var rec domain.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(collName))
		if bucket == nil {
			return fmt.Errorf("collection %s does not exist: %w", collName, domain.ErrNotFound)
		}
		value := bucket.Get([]byte(id))
		if value == nil {
			return fmt.Errorf("record %s not found in collection %s: %w", id, collName, domain.ErrNotFound)
		}
		return msgpack.Unmarshal(value, &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// FindAll returns the records matching the filter, ordered by identifier
func (s *Store) FindAll(collName string, filter map[string]interface{}) ([]domain.Record, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	var recs []domain.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(collName))
		if bucket == nil {
			return fmt.Errorf("collection %s does not exist: %w", collName, domain.ErrNotFound)
		}
		return bucket.ForEach(func(_, value []byte) error {
			var rec domain.Record
			if txErr := msgpack.Unmarshal(value, &rec); txErr != nil {
				return txErr
			}
			if len(filter) == 0 || storage.MatchesFilter(rec, filter) {
				recs = append(recs, rec)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(recs, func(i, j int) bool {
		return storage.IDLess(recs[i].ID(), recs[j].ID())
	})
	if recs == nil {
		recs = []domain.Record{}
	}
	return recs, nil
}

// UpdateById merges the supplied fields into an existing record
func (s *Store) UpdateById(collName, id string, updates domain.Record) (domain.Record, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("update data is empty: %w", domain.ErrValidation)
	}

	var updated domain.Record
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(collName))
		if bucket == nil {
			return fmt.Errorf("collection %s does not exist: %w", collName, domain.ErrNotFound)
		}
		value := bucket.Get([]byte(id))
		if value == nil {
			return fmt.Errorf("record %s not found in collection %s: %w", id, collName, domain.ErrNotFound)
		}

		var rec domain.Record
		if txErr := msgpack.Unmarshal(value, &rec); txErr != nil {
			return txErr
		}
		for key, val := range updates {
			if key != domain.IDField {
				rec[key] = val
			}
		}
		updated = rec

		data, txErr := msgpack.Marshal(rec)
		if txErr != nil {
			return txErr
		}
		return bucket.Put([]byte(id), data)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteById removes a record. Deleting an absent identifier fails with
// domain.ErrNotFound.
func (s *Store) DeleteById(collName, id string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(collName))
		if bucket == nil {
			return fmt.Errorf("collection %s does not exist: %w", collName, domain.ErrNotFound)
		}
		if bucket.Get([]byte(id)) == nil {
			return fmt.Errorf("record %s not found in collection %s: %w", id, collName, domain.ErrNotFound)
		}
		return bucket.Delete([]byte(id))
	})
}

// Close closes the database file. Operations after Close fail with
// domain.ErrStoreUnavailable.
func (s *Store) Close() error {
	if !s.closed.SetToIf(false, true) {
		return nil
	}
	return s.db.Close()
}
