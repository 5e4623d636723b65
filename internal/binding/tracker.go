// Package binding tracks which local names denote an instance of one
// target type.
//
// A name becomes bound by:
//
//   - a pointer receiver, whatever its type, or a value receiver of the target type
//   - a parameter whose type is the target after stripping *, parentheses
//     and generic instantiation
//   - a local whose declared type is the target
//   - a local initialized by a recognized constructor (see [Tracker.IsConstructor])
//
// Any other declaration of a bound name shadows it for the rest of the frame.
// Bindings through other factories, conversions or aliases are not
// recognized.
package binding

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/mpyw/fnpolicy/internal/tree"
	"github.com/mpyw/fnpolicy/internal/typeutil"
)

// UnsupportedError reports a parameter that holds the target type as the
// element of a container. Writes through its elements cannot be classified.
type UnsupportedError struct {
	Name   string
	Type   string
	Target string
	Pos    token.Pos
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported construct: parameter %s %s holds %s as a container element", e.Name, e.Type, e.Target)
}

// Tracker recognizes bindings of one target type. The target is written as
// in source: "MyStruct" or "pkg.MyStruct".
type Tracker struct {
	target        string
	qualifier     string // "pkg" for "pkg.MyStruct"
	name          string // "MyStruct"
	strictReceive bool
	skipContainer bool
}

// Option configures a Tracker.
type Option func(*Tracker)

// StrictReceiver binds a pointer receiver only when its type is the target.
func StrictReceiver() Option {
	return func(t *Tracker) { t.strictReceive = true }
}

// SkipContainers shadows parameters holding the target as a container
// element instead of rejecting them. Writes through their elements are not
// recognized.
func SkipContainers() Option {
	return func(t *Tracker) { t.skipContainer = true }
}

// New creates a Tracker for target.
func New(target string, opts ...Option) *Tracker {
	t := &Tracker{target: target, name: target}
	if i := strings.LastIndexByte(target, '.'); i >= 0 {
		t.qualifier, t.name = target[:i], target[i+1:]
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Bind creates the root frame of fn from its receiver and parameters.
func (t *Tracker) Bind(fn *tree.Func) (*Scope, error) {
	scope := NewScope(nil)
	if fn.Recv != nil && t.receiverBound(fn.Recv) {
		scope.Bind(fn.Recv.Name)
	}
	if err := t.BindParams(fn.Params, scope); err != nil {
		return nil, err
	}
	return scope, nil
}

func (t *Tracker) receiverBound(recv *tree.Param) bool {
	if recv.Pointer && !t.strictReceive {
		return true
	}
	return typeutil.Matches(recv.Type, t.target)
}

// BindParams declares params in scope. Parameters of the target type are
// bound; any other named parameter shadows.
func (t *Tracker) BindParams(params []tree.Param, scope *Scope) error {
	for _, p := range params {
		if typeutil.ContainsElement(p.Type, t.target) {
			if t.skipContainer {
				scope.Shadow(p.Name)
				continue
			}
			return &UnsupportedError{Name: p.Name, Type: p.Type, Target: t.target, Pos: p.Pos}
		}
		if typeutil.Matches(p.Type, t.target) {
			scope.Bind(p.Name)
		} else {
			scope.Shadow(p.Name)
		}
	}
	return nil
}

// Observe declares the names of local in scope.
func (t *Tracker) Observe(local *tree.Local, scope *Scope) {
	if local.Type != "" {
		bound := typeutil.Matches(local.Type, t.target)
		for _, name := range local.Names {
			if bound {
				scope.Bind(name)
			} else {
				scope.Shadow(name)
			}
		}
		return
	}
	for i, name := range local.Names {
		// x, y := f() and range variables carry no per-name initializer.
		if len(local.Init) == len(local.Names) && t.IsConstructor(local.Init[i]) {
			scope.Bind(name)
		} else {
			scope.Shadow(name)
		}
	}
}

// IsConstructor reports whether n produces a new instance of the target:
//
//	NewMyStruct(...), newMyStruct(...), pkg.NewMyStruct(...)
//	new(MyStruct)
//	MyStruct{...}, &MyStruct{...}
func (t *Tracker) IsConstructor(n tree.Node) bool {
	if o, ok := n.(*tree.Other); ok && o.Op == "&" && len(o.Children) == 1 {
		n = o.Children[0]
	}
	switch n := n.(type) {
	case *tree.Composite:
		return typeutil.Matches(n.Type, t.target)
	case *tree.Call:
		p, ok := n.Callee.(*tree.Path)
		if !ok {
			return false
		}
		if p.String() == "new" {
			if len(n.Args) != 1 {
				return false
			}
			arg, ok := n.Args[0].(*tree.Path)
			return ok && typeutil.Matches(arg.String(), t.target)
		}
		if !t.isFactoryName(p.Name()) {
			return false
		}
		switch len(p.Segments) {
		case 1:
			return t.qualifier == ""
		case 2:
			return t.qualifier == "" || p.Segments[0] == t.qualifier
		}
		return false
	case *tree.MethodCall:
		// pkg.NewMyStruct() lowered without type information.
		recv, ok := n.Receiver.(*tree.Path)
		if !ok || t.qualifier == "" {
			return false
		}
		id, ok := recv.Ident()
		return ok && id == t.qualifier && t.isFactoryName(n.Method)
	}
	return false
}

func (t *Tracker) isFactoryName(name string) bool {
	return name == "New"+t.name || name == "new"+t.name
}
