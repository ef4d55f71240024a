package collections

import "sync"

// Selection remembers a record by id only, so it never holds a stale copy.
type Selection[T Record] struct {
	mu  sync.Mutex
	id  int64
	set bool
}

func (s *Selection[T]) Select(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id, s.set = id, true
}

func (s *Selection[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id, s.set = 0, false
}

func (s *Selection[T]) ID() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, s.set
}

// Reselect looks the selected id up in a fresh snapshot. A selection whose
// record is gone is cleared.
func (s *Selection[T]) Reselect(items []T) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if !s.set {
		return zero, false
	}
	rec, ok := find(items, s.id)
	if !ok {
		s.id, s.set = 0, false
	}
	return rec, ok
}
