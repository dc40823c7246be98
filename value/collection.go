package value

// MapEntry is one key/value pair of a Map, in iteration (insertion) order.
type MapEntry struct {
	Key Value
	Val Value
}

// Map represents a host Map: an ordered collection of key/value pairs
// where keys can be any Value, not just strings.
type Map struct {
	Entries []MapEntry
}

func (*Map) isValue() {}

// NewMap returns an empty Map.
func NewMap() *Map { return &Map{} }

// Put appends a key/value pair, preserving insertion order.
func (m *Map) Put(k, v Value) *Map {
	m.Entries = append(m.Entries, MapEntry{Key: k, Val: v})

	return m
}

// Set represents a host Set: an ordered collection of unique values.
type Set struct {
	Items []Value
}

func (*Set) isValue() {}

// NewSet returns an empty Set.
func NewSet() *Set { return &Set{} }

// Add appends v, preserving insertion order.
func (s *Set) Add(v Value) *Set {
	s.Items = append(s.Items, v)

	return s
}
