package inject

import (
	"fmt"
	"go/token"
	"go/types"

	"github.com/mpyw/fnpolicy/internal/binding"
	"github.com/mpyw/fnpolicy/internal/callpolicy"
	"github.com/mpyw/fnpolicy/internal/mutation"
	"github.com/mpyw/fnpolicy/internal/policy"
	"github.com/mpyw/fnpolicy/internal/tree"
)

// Protected is a guard visible from the file being analyzed.
type Protected struct {
	Fact      *GuardFact
	Qualifier string // import name of the declaring package, empty when local
}

// Expr returns the routine as written in the file: "Routine" or
// "pkg.Routine".
func (p Protected) Expr() string {
	if p.Qualifier == "" {
		return p.Fact.Routine
	}
	return p.Qualifier + "." + p.Fact.Routine
}

// Requirement is a registration a function must carry.
type Requirement struct {
	Guard  Protected
	Caller string
	Pos    token.Pos // first call or write that triggered it
}

// Statement returns the registration statement source.
func (r Requirement) Statement() string {
	stmt := fmt.Sprintf("%s(%q)", r.Guard.Expr(), r.Caller)
	if r.Guard.Fact.Kind == policy.GuardMutators {
		return "defer " + stmt
	}
	return stmt
}

// CallerRequirements returns the caller guards fn must register with: one
// per protected function fn calls without being on its allow-list. lookup
// resolves a callee object to its guard.
func CallerRequirements(fn *tree.Func, lookup func(types.Object) (Protected, bool)) []Requirement {
	if fn.Body == nil {
		return nil
	}
	var reqs []Requirement
	seen := make(map[string]bool)
	for _, site := range callpolicy.Collect(fn.Body) {
		if site.Obj == nil {
			continue
		}
		obj := site.Obj
		if f, ok := obj.(*types.Func); ok {
			obj = f.Origin()
		}
		p, ok := lookup(obj)
		if !ok || p.Fact.Kind != policy.GuardCallers || p.Fact.Allows(fn.Name) || !reachable(p) {
			continue
		}
		if seen[p.Fact.Routine] {
			continue
		}
		seen[p.Fact.Routine] = true
		reqs = append(reqs, Requirement{Guard: p, Caller: fn.Name, Pos: site.Pos})
	}
	return reqs
}

// MutatorRequirements returns the mutator guards fn must register with: one
// per protected type whose fields fn writes without being on its
// allow-list. Receivers bind only when their type is the protected one, and
// container parameters are skipped: they record no write.
func MutatorRequirements(fn *tree.Func, guards []Protected) ([]Requirement, error) {
	var reqs []Requirement
	for _, p := range guards {
		if p.Fact.Kind != policy.GuardMutators || p.Fact.Allows(fn.Name) || !reachable(p) {
			continue
		}
		target := p.Fact.Type
		if p.Qualifier != "" {
			target = p.Qualifier + "." + target
		}
		writes, err := mutation.CollectWith(fn, binding.New(target, binding.StrictReceiver(), binding.SkipContainers()))
		if err != nil {
			return nil, err
		}
		if len(writes) > 0 {
			reqs = append(reqs, Requirement{Guard: p, Caller: fn.Name, Pos: writes[0].Pos})
		}
	}
	return reqs, nil
}

// reachable reports whether the routine can be named from the file: an
// unexported routine of another package cannot.
func reachable(p Protected) bool {
	return p.Qualifier == "" || token.IsExported(p.Fact.Routine)
}
