package interp

import "sync"

// smallSymbolLen is the inline capacity of a Symbol before it falls back to
// heap storage. Symbols of at most 23 bytes never allocate.
const smallSymbolLen = 23

// heapLen marks a Symbol whose text lives on the heap rather than inline.
const heapLen = 255

// Symbol is an interned Scheme identifier. Short identifiers (<=23 bytes)
// are stored inline in the struct; longer ones are interned so that two
// Symbols built from equal strings always share one heap string, which
// keeps Symbol comparable by plain == (and usable as a map key) without an
// explicit Equal method.
type Symbol struct {
	small [smallSymbolLen]byte
	n     uint8
	ptr   *string
}

var symbolIntern sync.Map // string -> *string

func internSymbolText(s string) *string {
	if v, ok := symbolIntern.Load(s); ok {
		return v.(*string)
	}
	owned := s
	actual, _ := symbolIntern.LoadOrStore(s, &owned)
	return actual.(*string)
}

// NewSymbol interns s as a Symbol. Accepts either a borrowed or owned
// string; the inline (<=23 byte) path never allocates a separate string.
func NewSymbol(s string) Symbol {
	if len(s) <= smallSymbolLen {
		var sym Symbol
		copy(sym.small[:], s)
		sym.n = uint8(len(s))
		return sym
	}
	return Symbol{n: heapLen, ptr: internSymbolText(s)}
}

// String returns the identifier text.
func (s Symbol) String() string {
	if s.n != heapLen {
		return string(s.small[:s.n])
	}
	return *s.ptr
}

// IsZero reports whether s is the zero Symbol (used as an absent marker).
func (s Symbol) IsZero() bool {
	return s.n == 0 && s.ptr == nil
}
