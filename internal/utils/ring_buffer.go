package utils

import "sync"

// RingBuffer keeps the most recent submissions up to a fixed limit. Once the
// limit is reached every Push overwrites the oldest element.
// All methods are safe for concurrent use.
//
// Example:
//
//	rb := NewRingBuffer[int](2)
//	rb.Push(1)
//	rb.Push(2)
//	rb.Push(3)                // 1 is overwritten
//	fmt.Println(rb.ToSlice()) // [2 3]
type RingBuffer[T any] struct {
	mu    sync.RWMutex
	items []T
	limit int
	// next: slot overwritten by the following Push once items is full,
	// which is also the position of the oldest element.
	next int
}

// NewRingBuffer creates a buffer retaining at most limit elements.
// A non-positive limit panics.
func NewRingBuffer[T any](limit int) *RingBuffer[T] {
	if limit <= 0 {
		panic("ring buffer limit must be positive")
	}
	return &RingBuffer[T]{
		items: make([]T, 0, limit),
		limit: limit,
	}
}

// Push adds item as the newest element.
func (rb *RingBuffer[T]) Push(item T) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if len(rb.items) < rb.limit {
		rb.items = append(rb.items, item)
		return
	}
	rb.items[rb.next] = item
	rb.next = (rb.next + 1) % rb.limit
}

// Len returns the number of retained elements.
func (rb *RingBuffer[T]) Len() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return len(rb.items)
}

// Last returns the newest element, or false when nothing was pushed.
func (rb *RingBuffer[T]) Last() (T, bool) {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	if len(rb.items) == 0 {
		var zero T
		return zero, false
	}
	i := rb.next - 1
	if i < 0 {
		i = len(rb.items) - 1
	}
	return rb.items[i], true
}

// ToSlice returns a copy of the retained elements, oldest first.
func (rb *RingBuffer[T]) ToSlice() []T {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	result := make([]T, 0, len(rb.items))
	result = append(result, rb.items[rb.next:]...)
	return append(result, rb.items[:rb.next]...)
}
