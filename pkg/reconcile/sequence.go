package reconcile

// Sequence allocates monotonically increasing keys for a collection.
// It is owned by the collection and passed by reference; it is not safe
// for concurrent use.
type Sequence struct {
	next uint64
}

// NewSequence returns a Sequence whose first key is start.
func NewSequence(start uint64) *Sequence {
	return &Sequence{next: start}
}

// Next returns a fresh key.
func (s *Sequence) Next() uint64 {
	k := s.next
	s.next++
	return k
}

// Peek returns the key the next call to Next will return.
func (s *Sequence) Peek() uint64 {
	return s.next
}
