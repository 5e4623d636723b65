// Package guard is the runtime half of fnpolicy's caller-identity policies.
//
// The fnpolicy-guard generator emits one routine per calledby function or
// mutatedby type. Each routine builds a Guard and checks the caller name
// passed at the registration site:
//
//	//fnpolicy:calledby "Allowed"
//	func (s *MyStruct) TargetFunction() { ... }
//
//	// generated
//	func MyStructTargetFunctionCallsite(caller string) {
//	    guard.New(guard.Callers, "MyStruct.TargetFunction", "Allowed").Check(caller)
//	}
//
//	func Allowed(s *MyStruct) {
//	    MyStructTargetFunctionCallsite("Allowed")   // passes
//	    s.TargetFunction()
//	}
//
// A rejected caller panics with a *RejectedError. The caller name is always
// an explicit argument; a Guard holds no state beyond its allow-list.
package guard

import (
	"fmt"
	"slices"
)

// Kind selects what a Guard protects.
type Kind int

const (
	// Callers protects a function or method.
	Callers Kind = iota
	// Mutators protects the fields of a type.
	Mutators
)

// String returns a string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case Callers:
		return "callers"
	case Mutators:
		return "mutators"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Guard checks caller names against an allow-list.
type Guard struct {
	kind    Kind
	subject string
	allowed []string
}

// New creates a Guard for subject, a function name ("MyStruct.Method") for
// Callers or a type name for Mutators.
func New(kind Kind, subject string, allowed ...string) *Guard {
	return &Guard{kind: kind, subject: subject, allowed: slices.Clone(allowed)}
}

// Allows reports whether caller is on the allow-list.
func (g *Guard) Allows(caller string) bool {
	return slices.Contains(g.allowed, caller)
}

// Check returns normally when caller is allowed and panics with a
// *RejectedError otherwise.
func (g *Guard) Check(caller string) {
	if !g.Allows(caller) {
		panic(&RejectedError{Kind: g.kind, Subject: g.subject, Caller: caller})
	}
}

// RejectedError is the panic value of a failed Check.
type RejectedError struct {
	Kind    Kind
	Subject string
	Caller  string
}

func (e *RejectedError) Error() string {
	if e.Kind == Mutators {
		return fmt.Sprintf("unauthorized function trying to mutate fields in %s: %s", e.Subject, e.Caller)
	}
	return fmt.Sprintf("unauthorized function trying to call %s: %s", e.Subject, e.Caller)
}
