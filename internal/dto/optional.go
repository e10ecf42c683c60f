package dto

import "encoding/json"

// Optional is a JSON field that distinguishes "absent" from "explicit null".
// A PATCH body that omits a field leaves it untouched, while `"field": null`
// clears it, so pointer fields alone cannot represent the difference.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// UnmarshalJSON is only invoked for fields present in the payload, which is
// what makes Set reliable.
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

// Ptr returns a pointer to the value when it is present and non-null.
func (o Optional[T]) Ptr() *T {
	if !o.Set || !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}
