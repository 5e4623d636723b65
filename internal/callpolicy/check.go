// Package callpolicy checks which functions a body invokes against an
// allow, deny or must-call-all policy.
//
// Every call reachable by a [tree.Walk] counts: calls inside closures,
// loop bodies, unreachable branches, arguments, receivers and deferred or
// spawned calls alike. Only the final name segment is compared, so
// "pkg.Exit" and "Exit" are the same subject. Calls through values
// (f()(), fns[i]()) have no name and are invisible.
package callpolicy

import (
	"go/token"
	"go/types"

	"github.com/mpyw/fnpolicy/internal/policy"
	"github.com/mpyw/fnpolicy/internal/tree"
)

// Site is one named call in a body.
type Site struct {
	Name string
	Pos  token.Pos
	Obj  types.Object // resolved callee, nil without type information
}

// Collect returns every named call in body in walk order.
func Collect(body tree.Node) []Site {
	var sites []Site
	tree.Inspect(body, func(n tree.Node) bool {
		switch n := n.(type) {
		case *tree.Call:
			if name := n.Name(); name != "" {
				sites = append(sites, Site{Name: name, Pos: n.Pos, Obj: n.Obj})
			}
		case *tree.MethodCall:
			sites = append(sites, Site{Name: n.Method, Pos: n.Pos, Obj: n.Obj})
		}
		return true
	})
	return sites
}

// Check evaluates p against the calls in body. pos is used for CallMissing
// violations, which have no call site.
//
//	Allow        every called name outside Subjects → CallNotWhitelisted
//	Deny         every called name in Subjects      → CallNotAllowed
//	MustCallAll  every subject never called         → CallMissing
//
// Each distinct name is reported once, at its first call.
func Check(body tree.Node, p policy.Policy, pos token.Pos) []policy.Violation {
	var set policy.Set
	sites := Collect(body)

	if p.Mode == policy.MustCallAll {
		called := make(map[string]bool, len(sites))
		for _, s := range sites {
			called[s.Name] = true
		}
		for _, subject := range p.Subjects {
			if !called[subject] {
				set.Add(policy.Violation{Kind: policy.CallMissing, Subject: subject, Pos: pos})
			}
		}
		return set.Violations()
	}

	for _, s := range sites {
		set.Evaluate(p, s.Name, s.Pos, policy.CallNotWhitelisted, policy.CallNotAllowed)
	}
	return set.Violations()
}
