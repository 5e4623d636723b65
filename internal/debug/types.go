// Package debug collects what the analyzers saw in a function and renders
// it for the -debug flag.
package debug

import (
	"go/token"

	"github.com/mpyw/fnpolicy/internal/callpolicy"
	"github.com/mpyw/fnpolicy/internal/mutation"
	"github.com/mpyw/fnpolicy/internal/policy"
	"github.com/mpyw/fnpolicy/internal/tree"
)

// Info contains the debug information collected for one function.
// A nil *Info records nothing.
type Info struct {
	Key        string
	Func       *tree.Func
	Calls      []callpolicy.Site
	Writes     []WriteInfo
	Required   []RequirementInfo
	Violations []policy.Violation
}

// WriteInfo groups the field writes of one tracked type.
type WriteInfo struct {
	Type   string
	Writes []mutation.Write
}

// RequirementInfo is a registration the function must carry.
type RequirementInfo struct {
	Statement string
	Pos       token.Pos
	Found     bool
}

// RecordCalls stores the call sites of the body.
func (i *Info) RecordCalls(sites []callpolicy.Site) {
	if i != nil {
		i.Calls = sites
	}
}

// RecordWrites stores the writes to typ.
func (i *Info) RecordWrites(typ string, writes []mutation.Write) {
	if i != nil {
		i.Writes = append(i.Writes, WriteInfo{Type: typ, Writes: writes})
	}
}

// RecordRequirement stores a registration requirement and whether the body
// satisfies it.
func (i *Info) RecordRequirement(stmt string, pos token.Pos, found bool) {
	if i != nil {
		i.Required = append(i.Required, RequirementInfo{Statement: stmt, Pos: pos, Found: found})
	}
}

// RecordViolations stores the static policy violations.
func (i *Info) RecordViolations(vs []policy.Violation) {
	if i != nil {
		i.Violations = append(i.Violations, vs...)
	}
}
