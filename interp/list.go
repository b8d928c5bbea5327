package interp

// List is an immutable, persistent sequence of Values. Tail() shares the
// backing array with its parent (O(1)); Cons() always allocates a new
// backing array (O(n)), since the subset has no mutation of existing
// list cells. Because lists are never mutated in place, sharing a backing
// array across Tail() calls is safe.
type List struct {
	items []Value
}

// EmptyList returns the empty list.
func EmptyList() List { return List{} }

// NewList builds a list from the given elements, copying them so the
// caller's backing array can be reused freely.
func NewList(items ...Value) List {
	if len(items) == 0 {
		return List{}
	}
	cp := make([]Value, len(items))
	copy(cp, items)
	return List{items: cp}
}

// Cons prepends head to tail, returning a new list. tail is not modified.
func Cons(head Value, tail List) List {
	items := make([]Value, 0, len(tail.items)+1)
	items = append(items, head)
	items = append(items, tail.items...)
	return List{items: items}
}

// Len reports the number of elements.
func (l List) Len() int { return len(l.items) }

// IsEmpty reports whether the list has no elements.
func (l List) IsEmpty() bool { return len(l.items) == 0 }

// Head returns the first element; ok is false for the empty list.
func (l List) Head() (Value, bool) {
	if len(l.items) == 0 {
		return Value{}, false
	}
	return l.items[0], true
}

// Tail returns every element but the first, sharing the backing array.
// Tail of the empty list is the empty list.
func (l List) Tail() List {
	if len(l.items) == 0 {
		return l
	}
	return List{items: l.items[1:]}
}

// At returns the i-th element (0-based).
func (l List) At(i int) (Value, bool) {
	if i < 0 || i >= len(l.items) {
		return Value{}, false
	}
	return l.items[i], true
}

// Elements returns a read-only view of the list's elements. Callers must
// not mutate the returned slice.
func (l List) Elements() []Value { return l.items }

// Equal reports whether two lists have the same length and elementwise-equal values.
func (l List) Equal(other List) bool {
	if len(l.items) != len(other.items) {
		return false
	}
	for i := range l.items {
		if !l.items[i].Equal(other.items[i]) {
			return false
		}
	}
	return true
}
