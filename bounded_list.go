package kdtree

import (
	"cmp"
	"iter"
	"sort"
)

// BoundedList keeps at most Cap() elements sorted ascending by priority.
// It is the result container for nearest-neighbor searches: the current
// worst candidate is always at the end, so both MaxPriority and an ordered
// snapshot are O(1).
//
// Insertion finds its position by binary search and shifts the tail, so it
// costs O(log n) comparisons plus an O(n) copy. Elements with equal
// priority keep their insertion order.
//
// A BoundedList is not safe for concurrent use.
type BoundedList[E any, P cmp.Ordered] struct {
	elements   []E
	priorities []P
	capacity   int
}

// NewBoundedList returns an empty list holding at most capacity elements.
// A zero capacity list accepts nothing. Panics if capacity < 0.
func NewBoundedList[E any, P cmp.Ordered](capacity int) *BoundedList[E, P] {
	if capacity < 0 {
		panic("kdtree: BoundedList capacity must be >= 0")
	}
	return &BoundedList[E, P]{
		elements:   make([]E, 0, capacity),
		priorities: make([]P, 0, capacity),
		capacity:   capacity,
	}
}

// Add offers an element with the given priority. When the list is full the
// element is accepted only if its priority is strictly below MaxPriority,
// in which case the current maximum is evicted. Rejection is silent.
func (l *BoundedList[E, P]) Add(element E, priority P) {
	n := len(l.priorities)
	if n >= l.capacity {
		if l.capacity == 0 || priority >= l.priorities[n-1] {
			return
		}
		pos := l.position(priority)
		copy(l.priorities[pos+1:], l.priorities[pos:n-1])
		copy(l.elements[pos+1:], l.elements[pos:n-1])
		l.priorities[pos] = priority
		l.elements[pos] = element
		return
	}

	pos := l.position(priority)
	var zeroE E
	var zeroP P
	l.priorities = append(l.priorities, zeroP)
	l.elements = append(l.elements, zeroE)
	copy(l.priorities[pos+1:], l.priorities[pos:n])
	copy(l.elements[pos+1:], l.elements[pos:n])
	l.priorities[pos] = priority
	l.elements[pos] = element
}

// position returns the first index whose priority is strictly greater than
// p, which places p after any existing entries of equal priority.
func (l *BoundedList[E, P]) position(p P) int {
	return sort.Search(len(l.priorities), func(i int) bool {
		return cmp.Less(p, l.priorities[i])
	})
}

// Len returns the number of elements currently held.
func (l *BoundedList[E, P]) Len() int { return len(l.priorities) }

// Cap returns the maximum number of elements the list holds.
func (l *BoundedList[E, P]) Cap() int { return l.capacity }

// Full reports whether the list is at capacity.
func (l *BoundedList[E, P]) Full() bool { return len(l.priorities) >= l.capacity }

// MinElement returns the element with the smallest priority.
// Panics if the list is empty.
func (l *BoundedList[E, P]) MinElement() E { return l.elements[0] }

// MinPriority returns the smallest priority. Panics if the list is empty.
func (l *BoundedList[E, P]) MinPriority() P { return l.priorities[0] }

// MaxElement returns the element with the largest priority.
// Panics if the list is empty.
func (l *BoundedList[E, P]) MaxElement() E { return l.elements[len(l.elements)-1] }

// MaxPriority returns the largest priority. Panics if the list is empty.
func (l *BoundedList[E, P]) MaxPriority() P { return l.priorities[len(l.priorities)-1] }

// At returns the element at rank i (0 = smallest priority).
func (l *BoundedList[E, P]) At(i int) E { return l.elements[i] }

// PriorityAt returns the priority at rank i.
func (l *BoundedList[E, P]) PriorityAt(i int) P { return l.priorities[i] }

// Elements returns a copy of the elements in ascending priority order.
func (l *BoundedList[E, P]) Elements() []E {
	out := make([]E, len(l.elements))
	copy(out, l.elements)
	return out
}

// Priorities returns a copy of the priorities in ascending order.
func (l *BoundedList[E, P]) Priorities() []P {
	out := make([]P, len(l.priorities))
	copy(out, l.priorities)
	return out
}

// All iterates over (element, priority) pairs in ascending priority order.
func (l *BoundedList[E, P]) All() iter.Seq2[E, P] {
	return func(yield func(E, P) bool) {
		for i := range l.elements {
			if !yield(l.elements[i], l.priorities[i]) {
				return
			}
		}
	}
}
