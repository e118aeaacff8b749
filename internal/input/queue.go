package input

// ring is a fixed-capacity FIFO. The backing storage is allocated once; a
// push onto a full ring is rejected so queued entries are never overwritten.
type ring[T any] struct {
	buf   []T
	head  int
	count int
}

func newRing[T any](capacity int) ring[T] {
	return ring[T]{buf: make([]T, capacity)}
}

func (r *ring[T]) push(v T) bool {
	if r.count == len(r.buf) {
		return false
	}
	r.buf[(r.head+r.count)%len(r.buf)] = v
	r.count++
	return true
}

func (r *ring[T]) pop() (T, bool) {
	var zero T
	if r.count == 0 {
		return zero, false
	}
	v := r.buf[r.head]
	r.buf[r.head] = zero
	r.head = (r.head + 1) % len(r.buf)
	r.count--
	return v, true
}

func (r *ring[T]) len() int { return r.count }

func (r *ring[T]) reset() {
	clear(r.buf)
	r.head = 0
	r.count = 0
}
