package reactive

import "strconv"

// NodeID identifies a reactive node or scope within a Runtime.
// IDs are monotonically increasing and never reused.
type NodeID uint64

// String returns the decimal form of the id.
func (id NodeID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// idAllocator hands out ids for one Runtime.
type idAllocator struct {
	last NodeID
}

// next returns the next unique id.
func (a *idAllocator) next() NodeID {
	a.last++
	return a.last
}
