package synth

type (
	// Option is a value that may be absent. Effect slots are Options, so a
	// disabled effect is the zero Option rather than a nil pointer.
	Option[T any] struct {
		value  T
		exists bool
	}
)

// Some returns an Option holding value.
func Some[T any](value T) Option[T] {
	return Option[T]{value: value, exists: true}
}

func (o Option[T]) Unpack() (T, bool) {
	return o.value, o.exists
}

// Value returns the held value and panics if there is none.
func (o Option[T]) Value() T {
	if !o.exists {
		panic("access value of empty Option")
	}
	return o.value
}

func (o Option[T]) Present() bool {
	return o.exists
}
