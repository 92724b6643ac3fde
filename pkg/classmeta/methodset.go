package classmeta

import (
	"iter"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// SignatureFunc maps a method to its identity key. Two methods with the same
// key are considered the same method by a MethodSet.
type SignatureFunc func(Method) string

// DefaultSignature keys a method by name and ordered parameter types.
// Return type and declaring type do not participate, so an override and the
// method it overrides collapse into one entry.
func DefaultSignature(m Method) string {
	var b strings.Builder
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, p := range m.ParameterTypes {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p)
	}
	b.WriteByte(')')
	return b.String()
}

// MethodSet holds at most one method per signature, in insertion order.
// The first method added for a signature wins.
type MethodSet struct {
	signature SignatureFunc
	methods   []Method
	// index buckets positions in methods by the hash of their signature key.
	index map[uint64][]int
	keys  []string
}

// NewMethodSet creates an empty set. A nil fn selects DefaultSignature.
func NewMethodSet(fn SignatureFunc) *MethodSet {
	if fn == nil {
		fn = DefaultSignature
	}
	return &MethodSet{
		signature: fn,
		index:     make(map[uint64][]int),
	}
}

// Add inserts m unless an equivalent method is already present.
// It reports whether m was inserted.
func (s *MethodSet) Add(m Method) bool {
	key := s.signature(m)
	h := xxhash.Sum64String(key)
	if s.lookup(h, key) >= 0 {
		return false
	}
	s.index[h] = append(s.index[h], len(s.methods))
	s.methods = append(s.methods, m)
	s.keys = append(s.keys, key)
	return true
}

// Contains reports whether a method equivalent to m is present.
func (s *MethodSet) Contains(m Method) bool {
	key := s.signature(m)
	return s.lookup(xxhash.Sum64String(key), key) >= 0
}

// Get returns the retained method equivalent to m.
func (s *MethodSet) Get(m Method) (Method, bool) {
	key := s.signature(m)
	i := s.lookup(xxhash.Sum64String(key), key)
	if i < 0 {
		return Method{}, false
	}
	return s.methods[i], true
}

func (s *MethodSet) lookup(h uint64, key string) int {
	for _, i := range s.index[h] {
		if s.keys[i] == key {
			return i
		}
	}
	return -1
}

// Len returns the number of methods in the set.
func (s *MethodSet) Len() int {
	return len(s.methods)
}

// Visit calls fn for each method in insertion order.
func (s *MethodSet) Visit(fn func(Method)) {
	for _, m := range s.methods {
		fn(m)
	}
}

// All returns an iterator over the methods in insertion order.
func (s *MethodSet) All() iter.Seq[Method] {
	return func(yield func(Method) bool) {
		for _, m := range s.methods {
			if !yield(m) {
				return
			}
		}
	}
}

// Methods returns a copy of the methods in insertion order.
func (s *MethodSet) Methods() []Method {
	out := make([]Method, len(s.methods))
	copy(out, s.methods)
	return out
}
