package control

// RingBuffer is a fixed size window over the latest values written to it.
type RingBuffer[T any] struct {
	Buffer []T
	Cursor int
}

func (r *RingBuffer[T]) WriteWrapSingle(value T) {
	r.Cursor = (r.Cursor + 1) % len(r.Buffer)
	r.Buffer[r.Cursor] = value
}

// Reset zeroes the buffer, keeping its length.
func (r *RingBuffer[T]) Reset() {
	r.Cursor = 0
	clear(r.Buffer)
}
