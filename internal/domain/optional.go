package domain

import "encoding/json"

// Opt is an optional patch value that distinguishes "absent" from
// "explicitly set", including set to the zero value. Patch shapes use Opt
// for every field: an unset Opt leaves the stored value unchanged, a set Opt
// overwrites it. For nullable entity fields the element type is itself a
// pointer, so Set[*time.Time](nil) expresses "clear the field".
type Opt[T any] struct {
	value T
	set   bool
}

// Set returns an Opt holding v.
func Set[T any](v T) Opt[T] {
	return Opt[T]{value: v, set: true}
}

// IsSet reports whether a value was supplied.
func (o Opt[T]) IsSet() bool {
	return o.set
}

// Value returns the supplied value; the zero value when unset.
func (o Opt[T]) Value() T {
	return o.value
}

// MarshalJSON encodes the held value. Unset Opts encode as null; callers
// should rely on omitzero/presence at the transport layer instead.
func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON marks the Opt as set. It only runs when the JSON key is
// present, which is exactly the presence semantics patches need.
func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.value = v
	o.set = true
	return nil
}
