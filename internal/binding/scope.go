package binding

// Scope is one lexical frame of instance bindings. Lookups walk outwards
// through the parent chain; the nearest frame that mentions a name decides
// whether it is bound.
//
//	root (receiver, params)       s: bound
//	  └─ block                    s: shadowed   ← s := other()
//	       └─ closure             s: bound      ← s := NewMyStruct()
type Scope struct {
	parent *Scope
	names  map[string]bool
}

// NewScope returns a frame nested in parent. parent may be nil.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent}
}

// Push returns a new child frame.
func (s *Scope) Push() *Scope { return NewScope(s) }

// Parent returns the enclosing frame, nil for the root.
func (s *Scope) Parent() *Scope { return s.parent }

// Bind marks name as denoting the target type in this frame.
func (s *Scope) Bind(name string) { s.set(name, true) }

// Shadow hides any outer binding of name for this frame.
func (s *Scope) Shadow(name string) { s.set(name, false) }

func (s *Scope) set(name string, bound bool) {
	if name == "" || name == "_" {
		return
	}
	if s.names == nil {
		s.names = make(map[string]bool)
	}
	s.names[name] = bound
}

// IsBound reports whether name denotes the target type in this frame.
func (s *Scope) IsBound(name string) bool {
	for f := s; f != nil; f = f.parent {
		if bound, ok := f.names[name]; ok {
			return bound
		}
	}
	return false
}
