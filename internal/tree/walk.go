package tree

import "fmt"

// Visitor has the go/ast.Visitor shape: Visit is called for each node; if it
// returns a non-nil w, the children are walked with w and w.Visit(nil) is
// called afterwards.
type Visitor interface {
	Visit(n Node) (w Visitor)
}

// Walk traverses n depth-first in source order, pre-order.
func Walk(v Visitor, n Node) {
	if isNil(n) {
		return
	}
	if v = v.Visit(n); v == nil {
		return
	}
	for _, c := range Children(n) {
		Walk(v, c)
	}
	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(n Node) Visitor {
	if f(n) {
		return f
	}
	return nil
}

// Inspect calls f for every node in pre-order. Returning false prunes the
// children of that node. f(nil) is called after the children of a visited
// node, as with ast.Inspect.
func Inspect(n Node, f func(Node) bool) {
	Walk(inspector(f), n)
}

// Children returns the direct children of n in evaluation order. It is the
// single definition of the traversal shape: every analyzer walks exactly
// these edges.
func Children(n Node) []Node {
	var out []Node
	add := func(ns ...Node) {
		for _, c := range ns {
			if !isNil(c) {
				out = append(out, c)
			}
		}
	}
	switch n := n.(type) {
	case *Call:
		add(n.Callee)
		add(n.Args...)
	case *MethodCall:
		add(n.Receiver)
		add(n.Args...)
	case *Block:
		add(n.Stmts...)
	case *If:
		add(n.Init, n.Cond, blockNode(n.Then), n.Else)
	case *While:
		add(n.Cond, blockNode(n.Body))
	case *For:
		add(n.Range, n.Init, n.Cond, n.Post, blockNode(n.Body))
	case *Closure:
		add(blockNode(n.Body))
	case *Local:
		add(n.Init...)
	case *Assign:
		add(n.Targets...)
		add(n.Values...)
	case *CompoundAssign:
		add(n.Target, n.Value)
	case *FieldAccess:
		add(n.Base)
	case *Path:
	case *Composite:
		add(n.Elts...)
	case *Other:
		add(n.Children...)
	default:
		panic(fmt.Sprintf("tree: unexpected node %T", n))
	}
	return out
}

// blockNode avoids wrapping a nil *Block in a non-nil Node interface.
func blockNode(b *Block) Node {
	if b == nil {
		return nil
	}
	return b
}

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch n := n.(type) {
	case *Block:
		return n == nil
	case *If:
		return n == nil
	}
	return false
}
