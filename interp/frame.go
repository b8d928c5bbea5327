package interp

import "weak"

// Frame is an environment: something a Symbol can be looked up in. Both
// live call/let/global frames (ChainFrame) and captured closure
// environments (DetachedFrame) implement it, so the evaluator never needs
// to know which kind of frame it is walking.
type Frame interface {
	Lookup(sym Symbol) (Value, bool)
	Names() []Symbol
	Parent() (Frame, bool)
}

// ChainFrame is an ordinary mutable binding frame: the global frame, a
// lambda call frame, or a let/letrec body frame. Bindings are added with
// Define and resolved by walking parent frames outward.
type ChainFrame struct {
	bindings map[Symbol]Value
	parent   Frame
}

// NewChainFrame creates a frame with no bindings, chained to parent
// (parent may be nil for the root/global frame).
func NewChainFrame(parent Frame) *ChainFrame {
	return &ChainFrame{bindings: make(map[Symbol]Value), parent: parent}
}

// Define installs or overwrites a binding in this frame only.
func (f *ChainFrame) Define(sym Symbol, v Value) {
	f.bindings[sym] = v
}

// Lookup resolves sym in this frame, then its ancestors.
func (f *ChainFrame) Lookup(sym Symbol) (Value, bool) {
	if v, ok := f.bindings[sym]; ok {
		return v, true
	}
	if f.parent != nil {
		return f.parent.Lookup(sym)
	}
	return Value{}, false
}

// Names returns the symbols bound directly in this frame (not ancestors).
func (f *ChainFrame) Names() []Symbol {
	names := make([]Symbol, 0, len(f.bindings))
	for sym := range f.bindings {
		names = append(names, sym)
	}
	return names
}

// Parent returns the enclosing frame, if any.
func (f *ChainFrame) Parent() (Frame, bool) {
	if f.parent == nil {
		return nil, false
	}
	return f.parent, true
}

// Contains reports whether sym resolves anywhere in the chain starting at f.
func (f *ChainFrame) Contains(sym Symbol) bool {
	_, ok := f.Lookup(sym)
	return ok
}

// ChainDepth counts frames from f (inclusive) out to the root.
func (f *ChainFrame) ChainDepth() int {
	depth := 1
	var cur Frame = f
	for {
		p, ok := cur.Parent()
		if !ok {
			return depth
		}
		depth++
		cur = p
	}
}

// FindBindingLevel returns how many frames out from f (0 = f itself) the
// first binding for sym is found, or ok=false if it is unbound.
func (f *ChainFrame) FindBindingLevel(sym Symbol) (int, bool) {
	level := 0
	var cur Frame = f
	for {
		if cf, ok := cur.(*ChainFrame); ok {
			if _, found := cf.bindings[sym]; found {
				return level, true
			}
		} else if df, ok := cur.(*DetachedFrame); ok {
			if df.containsLocal(sym) {
				return level, true
			}
		}
		p, ok := cur.Parent()
		if !ok {
			return 0, false
		}
		level++
		cur = p
	}
}

// DetachedFrame is the environment a Lambda closes over. It holds a
// strong reference to the lexically enclosing frame chain (ordinary
// closure semantics: a frame shared with other live bindings is still
// shared, so later defines in it are visible, matching the late-binding
// rule for recursive/self-referential definitions) plus a weak handle to
// the specific frame that is about to receive this lambda's own name.
//
// A refcounted host must make that second link non-owning to avoid an
// uncollectable cycle (frame -> lambda -> frame). Go's tracing collector
// reclaims such cycles regardless of reference strength, so the weak
// handle here is not load-bearing for correctness; it is kept because it
// is the concrete realization of that same strategy, exercised on the
// lookup path below rather than left inert.
type DetachedFrame struct {
	outer        Frame
	installer    weak.Pointer[ChainFrame]
	hasInstaller bool
}

// CaptureClosureEnv builds the DetachedFrame for a lambda created while
// evaluating inside outer. installer, when non-nil, is the frame that will
// (or may) receive this lambda's own binding immediately after creation,
// e.g. the frame `(define name (lambda ...))` defines name into.
func CaptureClosureEnv(outer Frame, installer *ChainFrame) *DetachedFrame {
	df := &DetachedFrame{outer: outer}
	if installer != nil {
		df.installer = weak.Make(installer)
		df.hasInstaller = true
	}
	return df
}

func (f *DetachedFrame) containsLocal(sym Symbol) bool {
	if f.hasInstaller {
		if p := f.installer.Value(); p != nil {
			if _, ok := p.bindings[sym]; ok {
				return true
			}
		}
	}
	return false
}

// Lookup first consults the installer frame directly (the fast path for a
// lambda referencing its own name), then falls back to the strong outer
// chain, which covers every other free variable.
func (f *DetachedFrame) Lookup(sym Symbol) (Value, bool) {
	if f.hasInstaller {
		if p := f.installer.Value(); p != nil {
			if v, ok := p.bindings[sym]; ok {
				return v, true
			}
		}
	}
	if f.outer != nil {
		return f.outer.Lookup(sym)
	}
	return Value{}, false
}

// Names returns the names visible directly through the installer frame, if
// it is still alive; the outer chain's names are reached via Parent.
func (f *DetachedFrame) Names() []Symbol {
	if f.hasInstaller {
		if p := f.installer.Value(); p != nil {
			return p.Names()
		}
	}
	return nil
}

// Parent exposes the strong outer chain, so chain-walking helpers
// (ChainDepth, suggestion gathering) continue past a DetachedFrame.
func (f *DetachedFrame) Parent() (Frame, bool) {
	if f.outer != nil {
		return f.outer, true
	}
	return nil, false
}
