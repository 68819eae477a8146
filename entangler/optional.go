package entangler

import "fmt"

// Optional holds either a value (Some) or nothing (None).
type Optional[T any] struct {
	value T
	set   bool
}

// Some wraps v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an empty Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is set.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsNone reports whether no value is set.
func (o Optional[T]) IsNone() bool { return !o.set }

// OrElse returns the value, or def when unset.
func (o Optional[T]) OrElse(def T) T {
	if o.set {
		return o.value
	}
	return def
}

// String renders Some(v) or None.
func (o Optional[T]) String() string {
	if !o.set {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.value)
}
