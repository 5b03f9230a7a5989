package domain

// Store defines the interface for record persistence.
// All access to the backing store goes through a Store implementation;
// no other component touches the store directly.
//
// Successful writes are durable before the call returns. Failures are
// reported with the sentinel errors in this package, possibly wrapped.
type Store interface {
	// Insert assigns an identifier to rec, stores it in the named
	// collection (creating the collection if needed) and returns the
	// stored record including its new identifier.
	Insert(collName string, rec Record) (Record, error)

	// GetById retrieves a record by identifier.
	GetById(collName, id string) (Record, error)

	// FindAll returns the records matching the field-equality filter,
	// ordered by identifier. A nil or empty filter returns everything.
	FindAll(collName string, filter map[string]interface{}) ([]Record, error)

	// UpdateById merges the supplied fields into an existing record and
	// returns the updated record. The identifier is never modified.
	UpdateById(collName, id string, updates Record) (Record, error)

	// DeleteById removes a record. Deleting an absent identifier fails
	// with ErrNotFound.
	DeleteById(collName, id string) error

	// Close releases the store connection. Operations after Close fail
	// with ErrStoreUnavailable.
	Close() error
}
