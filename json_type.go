package relq

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON is a generic scan/value wrapper for JSON-valued columns, in
// particular the aggregated relation columns this package compiles. A HasOne
// relation scans into JSON[*Row] (SQL NULL becomes a nil pointer), a HasMany
// relation into JSON[[]Row] (an empty aggregate becomes an empty slice).
//
//	type UserWithPosts struct {
//	    ID    int64             `db:"id"`
//	    Posts relq.JSON[[]Post] `db:"posts"`
//	}
type JSON[T any] struct {
	Data T
}

// NewJSON creates a new JSON wrapper for the given value.
func NewJSON[T any](v T) JSON[T] {
	return JSON[T]{Data: v}
}

// Scan implements the sql.Scanner interface.
func (j *JSON[T]) Scan(value any) error {
	if value == nil {
		var zero T
		j.Data = zero
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("relq: failed to scan JSON: expected []byte or string, got %T", value)
	}

	if len(raw) == 0 {
		var zero T
		j.Data = zero
		return nil
	}

	return json.Unmarshal(raw, &j.Data)
}

// Value implements the driver.Valuer interface.
func (j JSON[T]) Value() (driver.Value, error) {
	return json.Marshal(j.Data)
}

// MarshalJSON implements json.Marshaler.
func (j JSON[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Data)
}

// UnmarshalJSON implements json.Unmarshaler.
func (j *JSON[T]) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &j.Data)
}
