// Package mutation checks which fields of one struct type a function writes.
//
// A write is an assignment or operator assignment whose target is a field
// selected directly from a name bound to the type:
//
//	s.count = 0        write to count (s bound)
//	s.count++          write to count
//	_ = s.count        read, never reported
//	s.inner.count = 0  not a direct write, invisible
//	other.count = 0    other not bound, invisible
//
// Bindings follow lexical scope as tracked by the [binding] package, so a
// name rebound by a constructor inside a closure is seen there too.
//
// [binding]: github.com/mpyw/fnpolicy/internal/binding
package mutation

import (
	"fmt"
	"go/token"

	"github.com/mpyw/fnpolicy/internal/binding"
	"github.com/mpyw/fnpolicy/internal/policy"
	"github.com/mpyw/fnpolicy/internal/tree"
)

// Write is one recorded field write.
type Write struct {
	Name  string // bound name written through
	Field string
	Pos   token.Pos
}

// Collect returns the field writes fn performs on values of type target,
// in source order.
func Collect(fn *tree.Func, target string) ([]Write, error) {
	return CollectWith(fn, binding.New(target))
}

// CollectWith is Collect with a preconfigured tracker.
func CollectWith(fn *tree.Func, tracker *binding.Tracker) ([]Write, error) {
	scope, err := tracker.Bind(fn)
	if err != nil {
		return nil, err
	}
	if fn.Body == nil {
		return nil, nil
	}
	state := &walkState{tracker: tracker}
	tree.Walk(&collector{state: state, scope: scope}, fn.Body)
	if state.err != nil {
		return nil, state.err
	}
	return state.writes, nil
}

// Check evaluates p against the fields of target that fn writes. Only
// Allow and Deny are meaningful for field writes.
func Check(fn *tree.Func, target string, p policy.Policy) ([]policy.Violation, error) {
	if p.Mode != policy.Allow && p.Mode != policy.Deny {
		return nil, fmt.Errorf("mutation policy on %s: %w: %s", target, policy.ErrUnsupportedMode, p.Mode)
	}
	writes, err := Collect(fn, target)
	if err != nil {
		return nil, err
	}
	var set policy.Set
	for _, w := range writes {
		set.Evaluate(p, w.Field, w.Pos, policy.MutationNotWhitelisted, policy.MutationNotAllowed)
	}
	return set.Violations(), nil
}

type walkState struct {
	tracker *binding.Tracker
	writes  []Write
	err     error
}

// collector is a tree.Visitor carrying the scope frame of the node being
// visited. Scope-introducing nodes return a collector with a child frame,
// which tree.Walk then uses for their children only.
type collector struct {
	state *walkState
	scope *binding.Scope
}

func (c *collector) Visit(n tree.Node) tree.Visitor {
	if n == nil || c.state.err != nil {
		return nil
	}
	switch n := n.(type) {
	case *tree.Block, *tree.If, *tree.For, *tree.While:
		return c.nested(c.scope.Push())
	case *tree.Closure:
		scope := c.scope.Push()
		if err := c.state.tracker.BindParams(n.Params, scope); err != nil {
			c.state.err = err
			return nil
		}
		return c.nested(scope)
	case *tree.Local:
		// The name is in scope before its initializer is analyzed.
		c.state.tracker.Observe(n, c.scope)
	case *tree.Assign:
		for _, target := range n.Targets {
			c.record(target)
		}
	case *tree.CompoundAssign:
		c.record(n.Target)
	}
	return c
}

func (c *collector) nested(scope *binding.Scope) *collector {
	return &collector{state: c.state, scope: scope}
}

func (c *collector) record(target tree.Node) {
	fa, ok := target.(*tree.FieldAccess)
	if !ok {
		return
	}
	base, ok := fa.Base.(*tree.Path)
	if !ok {
		return
	}
	name, ok := base.Ident()
	if !ok || !c.scope.IsBound(name) {
		return
	}
	c.state.writes = append(c.state.writes, Write{Name: name, Field: fa.Field, Pos: fa.Pos})
}
