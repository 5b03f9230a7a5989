package domain

// IDField is the reserved field holding a record's identifier.
// It is assigned by the store on insert and never changes afterwards.
const IDField = "_id"

// Record represents a single persisted item in a collection
type Record map[string]interface{}

// ID returns the record's identifier, or "" if it has none yet
func (r Record) ID() string {
	id, _ := r[IDField].(string)
	return id
}

// Copy returns a shallow copy of the record
func (r Record) Copy() Record {
	dup := make(Record, len(r))
	for k, v := range r {
		dup[k] = v
	}
	return dup
}

// Collection represents a named set of records keyed by identifier
type Collection struct {
	Name    string            `json:"name"`
	Records map[string]Record `json:"records"`
}

// NewCollection creates a new empty collection
func NewCollection(name string) *Collection {
	return &Collection{
		Name:    name,
		Records: make(map[string]Record),
	}
}
