package inject

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mpyw/fnpolicy/internal/policy"
)

// GuardFact is exported on the object a guard protects: the *types.Func of
// a calledby function, or the *types.TypeName of a mutatedby type. It lets
// dependent packages find guards declared elsewhere.
type GuardFact struct {
	Kind    policy.GuardKind
	Routine string
	Subject string // qualified subject, as in runtime messages
	Type    string // protected type name, for Mutators
	Allowed []string
}

// AFact implements analysis.Fact.
func (*GuardFact) AFact() {}

func (f *GuardFact) String() string {
	return fmt.Sprintf("%s %s", f.Kind, strings.Join(f.Allowed, ","))
}

// NewFact returns the fact describing spec.
func NewFact(spec policy.GuardSpec) *GuardFact {
	f := &GuardFact{
		Kind:    spec.Kind,
		Routine: spec.GuardName,
		Subject: spec.QualifiedSubject(),
		Allowed: spec.AllowedCallers,
	}
	if spec.Kind == policy.GuardMutators {
		f.Type = spec.Subject
	}
	return f
}

// Allows reports whether caller is on the allow-list.
func (f *GuardFact) Allows(caller string) bool {
	return slices.Contains(f.Allowed, caller)
}
