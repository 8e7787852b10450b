package models

import "encoding/json"

// Optional is a JSON field wrapper that distinguishes a field that is absent
// from the request body from one that is present with a null or concrete
// value. Partial updates depend on this distinction: absent leaves the stored
// value unchanged, null clears it, and a concrete value overwrites it.
type Optional[T any] struct {
	// Set is true when the field appeared in the request body.
	Set bool
	// Valid is true when the field carried a non-null value.
	Valid bool
	// Value holds the decoded value when Valid is true.
	Value T
}

// UnmarshalJSON is only invoked for keys present in the body, which is what
// makes presence observable.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}
