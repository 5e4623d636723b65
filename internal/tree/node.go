// Package tree models a function body as a closed set of node kinds.
//
// Only the shapes that matter for policy checking are distinguished; every
// other construct becomes an [Other] node that still carries its
// sub-expressions, so a walk never loses a call hidden inside e.g. a
// return statement or a binary expression.
//
// # Node Kinds
//
//	Call            f(x), pkg.F(x), new(T)
//	MethodCall      x.M(a)
//	Block           { ... }, case bodies, implicit if/for/switch blocks
//	If              if init; cond { } else { }
//	While           for cond { }, for { }
//	For             for init; cond; post { }, for k, v := range x { }
//	Closure         func(p T) { ... }
//	Local           x := e, var x T = e, const x = e
//	Assign          a, b = c, d
//	CompoundAssign  a += b, a++
//	FieldAccess     x.f
//	Path            x, pkg.Name
//	Composite       T{...}
//	Other           anything else
//
// [Node] is sealed: adding a kind means adding it here, to [Children] and to
// every type switch over nodes.
package tree

import (
	"go/token"
	"go/types"
	"strings"
)

// Node is a statement or expression of a lowered function body.
type Node interface {
	node()
}

// Func is a lowered function or method declaration.
type Func struct {
	Name   string
	Recv   *Param // nil for plain functions
	Params []Param
	Body   *Block // nil for declarations without a body
	Pos    token.Pos
}

// Param is a parameter or receiver. Type is the textual type expression
// (e.g. "*MyStruct", "[]pkg.T", "...int"). Name is empty for unnamed
// parameters.
type Param struct {
	Name    string
	Type    string
	Pointer bool // receiver declared with a pointer
	Pos     token.Pos
}

// Call is a call whose callee is not a method selector.
type Call struct {
	Callee Node
	Args   []Node
	Obj    types.Object // resolved callee, nil if unknown
	Pos    token.Pos
}

// MethodCall is x.Method(args).
type MethodCall struct {
	Receiver Node
	Method   string
	Args     []Node
	Obj      types.Object
	Pos      token.Pos
}

// Block is a list of statements forming a lexical scope. Implicit is set for
// the scopes Go introduces around if/for/switch statements.
type Block struct {
	Stmts    []Node
	Implicit bool
}

// If is a conditional. Else is nil, a *Block or an *If.
type If struct {
	Init Node
	Cond Node
	Then *Block
	Else Node
}

// While is a loop with at most a condition.
type While struct {
	Cond Node
	Body *Block
}

// For is a three-clause or range loop. For range loops, Range is the ranged
// expression and Init declares or assigns the iteration variables.
type For struct {
	Range Node
	Init  Node
	Cond  Node
	Post  Node
	Body  *Block
}

// Closure is a function literal.
type Closure struct {
	Params []Param
	Body   *Block
}

// Local introduces names in the current scope. Type is the declared type,
// empty when inferred. Init is either empty, one expression per name, or a
// single multi-value expression.
type Local struct {
	Names []string
	Type  string
	Init  []Node
	Pos   token.Pos
}

// Assign is a plain assignment.
type Assign struct {
	Targets []Node
	Values  []Node
	Pos     token.Pos
}

// CompoundAssign is an operator assignment. Value is nil for ++ and --.
type CompoundAssign struct {
	Target Node
	Op     string
	Value  Node
	Pos    token.Pos
}

// FieldAccess is Base.Field.
type FieldAccess struct {
	Base  Node
	Field string
	Pos   token.Pos
}

// Path is a name, optionally package-qualified.
type Path struct {
	Segments []string
	Pos      token.Pos
}

// Composite is a composite literal of the named type.
type Composite struct {
	Type string
	Elts []Node
	Pos  token.Pos
}

// Other is any construct without policy meaning. Op names the construct
// ("return", "defer", "&", "+", "index", ...).
type Other struct {
	Op       string
	Children []Node
}

func (*Call) node()           {}
func (*MethodCall) node()     {}
func (*Block) node()          {}
func (*If) node()             {}
func (*While) node()          {}
func (*For) node()            {}
func (*Closure) node()        {}
func (*Local) node()          {}
func (*Assign) node()         {}
func (*CompoundAssign) node() {}
func (*FieldAccess) node()    {}
func (*Path) node()           {}
func (*Composite) node()      {}
func (*Other) node()          {}

// Name returns the final path segment.
func (p *Path) Name() string {
	if len(p.Segments) == 0 {
		return ""
	}
	return p.Segments[len(p.Segments)-1]
}

// String returns the dotted path.
func (p *Path) String() string { return strings.Join(p.Segments, ".") }

// Ident returns the name if the path has a single segment.
func (p *Path) Ident() (string, bool) {
	if len(p.Segments) != 1 {
		return "", false
	}
	return p.Segments[0], true
}

// Name returns the callee's final path segment, or "" when the callee is not
// a path (an indirect call through an expression).
func (c *Call) Name() string {
	if p, ok := c.Callee.(*Path); ok {
		return p.Name()
	}
	return ""
}
