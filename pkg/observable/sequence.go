package observable

import "iter"

// Sequence is an ordered container of unique-identity elements that records
// its structural mutations into the logs of registered observers.
//
// Mutations addressing an index out of range do nothing and record nothing.
type Sequence[T comparable] struct {
	items     []T
	observers map[Token]*observer
}

// NewSequence creates a sequence holding items, in order.
func NewSequence[T comparable](items ...T) *Sequence[T] {
	return &Sequence[T]{items: append([]T(nil), items...)}
}

// Len returns the number of elements.
func (s *Sequence[T]) Len() int {
	return len(s.items)
}

// At returns the element at index i. The second result is false when i is
// out of range.
func (s *Sequence[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(s.items) {
		var zero T
		return zero, false
	}
	return s.items[i], true
}

// Items returns a copy of the elements.
func (s *Sequence[T]) Items() []T {
	return append([]T(nil), s.items...)
}

// All iterates over index/element pairs.
func (s *Sequence[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range s.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

// IndexOf returns the index of v by identity, or -1.
func (s *Sequence[T]) IndexOf(v T) int {
	for i, item := range s.items {
		if item == v {
			return i
		}
	}
	return -1
}

// Contains reports whether v is in the sequence.
func (s *Sequence[T]) Contains(v T) bool {
	return s.IndexOf(v) >= 0
}

// FindIndex returns the index of the first element matching pred, or -1.
func (s *Sequence[T]) FindIndex(pred func(T) bool) int {
	for i, item := range s.items {
		if pred(item) {
			return i
		}
	}
	return -1
}

// Find returns the first element matching pred.
func (s *Sequence[T]) Find(pred func(T) bool) (T, bool) {
	if i := s.FindIndex(pred); i >= 0 {
		return s.items[i], true
	}
	var zero T
	return zero, false
}

// Filter returns the elements matching pred, in order.
func (s *Sequence[T]) Filter(pred func(T) bool) []T {
	var out []T
	for _, item := range s.items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// Append adds v at the end.
func (s *Sequence[T]) Append(v T) {
	s.items = append(s.items, v)
	s.emit(Inserted, []int{len(s.items) - 1})
}

// AppendAll adds vs at the end, in order.
func (s *Sequence[T]) AppendAll(vs ...T) {
	if len(vs) == 0 {
		return
	}
	start := len(s.items)
	s.items = append(s.items, vs...)
	s.emit(Inserted, span(start, len(vs)))
}

// Insert places v at index i, shifting later elements. i may equal Len.
func (s *Sequence[T]) Insert(i int, v T) {
	s.InsertAll(i, v)
}

// InsertAll places vs starting at index i, shifting later elements.
func (s *Sequence[T]) InsertAll(i int, vs ...T) {
	if i < 0 || i > len(s.items) || len(vs) == 0 {
		return
	}
	grown := make([]T, 0, len(s.items)+len(vs))
	grown = append(grown, s.items[:i]...)
	grown = append(grown, vs...)
	grown = append(grown, s.items[i:]...)
	s.items = grown
	s.emit(Inserted, span(i, len(vs)))
}

// RemoveAt removes and returns the element at index i.
func (s *Sequence[T]) RemoveAt(i int) (T, bool) {
	if i < 0 || i >= len(s.items) {
		var zero T
		return zero, false
	}
	v := s.items[i]
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	s.emit(Deleted, []int{i})
	return v, true
}

// RemoveIndices removes the elements at the given indices as one mutation
// and returns them in ascending index order. Out-of-range and duplicate
// indices are ignored.
func (s *Sequence[T]) RemoveIndices(indices ...int) []T {
	valid := normalize(indices, len(s.items))
	if len(valid) == 0 {
		return nil
	}
	removed := make([]T, 0, len(valid))
	kept := make([]T, 0, len(s.items)-len(valid))
	next := 0
	for i, item := range s.items {
		if next < len(valid) && valid[next] == i {
			removed = append(removed, item)
			next++
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	s.emit(Deleted, valid)
	return removed
}

// Replace swaps the element at index i for v and returns the old element.
func (s *Sequence[T]) Replace(i int, v T) (T, bool) {
	if i < 0 || i >= len(s.items) {
		var zero T
		return zero, false
	}
	old := s.items[i]
	s.items[i] = v
	s.emit(Updated, []int{i})
	return old, true
}

// RemoveAll empties the sequence and returns the removed elements.
func (s *Sequence[T]) RemoveAll() []T {
	if len(s.items) == 0 {
		return nil
	}
	removed := s.items
	s.items = nil
	s.emit(Deleted, span(0, len(removed)))
	return removed
}

// MarkUpdated records an update for the given indices without mutating the
// sequence. Out-of-range indices are ignored.
func (s *Sequence[T]) MarkUpdated(indices ...int) {
	if valid := normalize(indices, len(s.items)); len(valid) > 0 {
		s.emit(Updated, valid)
	}
}

// Observe registers an observer for token. Only events produced from now on
// are recorded. Observing an already registered token resets its log.
func (s *Sequence[T]) Observe(token Token) {
	if s.observers == nil {
		s.observers = make(map[Token]*observer)
	}
	s.observers[token] = &observer{baseline: len(s.items)}
}

// Observed reports whether an observer is registered for token.
func (s *Sequence[T]) Observed(token Token) bool {
	_, ok := s.observers[token]
	return ok
}

// Baseline returns the length of the sequence when token's observer was
// registered, or the current length if it is not registered.
func (s *Sequence[T]) Baseline(token Token) int {
	if o, ok := s.observers[token]; ok {
		return o.baseline
	}
	return len(s.items)
}

// Log returns the events recorded for token, oldest first.
func (s *Sequence[T]) Log(token Token) []Event {
	o, ok := s.observers[token]
	if !ok {
		return nil
	}
	return append([]Event(nil), o.events...)
}

// Forget removes token's observer and discards its log.
func (s *Sequence[T]) Forget(token Token) {
	delete(s.observers, token)
}

func (s *Sequence[T]) emit(kind EventKind, indices []int) {
	for _, o := range s.observers {
		o.record(kind, indices)
	}
}

func span(start, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = start + i
	}
	return out
}
