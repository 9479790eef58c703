package domain

import "encoding/json"

// Optional distinguishes "field absent from the JSON body" from "field
// explicitly set to null". Set is true whenever the field appeared at all;
// Valid is true only when it carried a non-null value.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: v}
}

// Null returns an Optional that was explicitly set to null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}
