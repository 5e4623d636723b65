package policy

import "go/token"

// GuardKind distinguishes the two caller-identity policies.
type GuardKind int

const (
	// GuardCallers protects a function: "who may call me".
	GuardCallers GuardKind = iota
	// GuardMutators protects a type: "who may mutate my fields".
	GuardMutators
)

// String returns a string representation of the GuardKind.
func (k GuardKind) String() string {
	if k == GuardMutators {
		return "mutatedby"
	}
	return "calledby"
}

// GuardSpec describes one generated guard routine.
//
// For GuardCallers, OwnerType is the receiver type of the protected method
// (empty for plain functions) and Subject is the function name. For
// GuardMutators, OwnerType and Subject are both the protected type name.
type GuardSpec struct {
	Kind           GuardKind
	OwnerType      string
	Subject        string
	GuardName      string
	AllowedCallers []string
	Pos            token.Pos
}

// QualifiedSubject returns "Owner.Subject" for methods and the bare subject
// otherwise. It is the name embedded in runtime guard messages.
func (g GuardSpec) QualifiedSubject() string {
	if g.Kind == GuardCallers && g.OwnerType != "" {
		return g.OwnerType + "." + g.Subject
	}
	return g.Subject
}
