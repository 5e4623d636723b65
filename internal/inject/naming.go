// Package inject implements the guard injector: it derives guard routines
// from calledby and mutatedby directives, generates their source, and
// computes which functions must register themselves with a routine.
//
// # Architecture
//
//	//fnpolicy:calledby / mutatedby
//	        │
//	        ▼
//	   Specs ──────────► GenerateFile ──► fnpolicy_guard.go  (fnpolicy-guard)
//	        │
//	        ▼
//	   GuardFact ──────► CallerRequirements / MutatorRequirements
//	   (per object)               │
//	                              ▼
//	                      FindRegistration ──► diagnostics + fixes  (analyzer)
//
// A registration is a top-level statement of the caller's body that passes
// the caller's own name to the routine:
//
//	MyStructTargetFunctionCallsite("OutsideCaller")  // calledby
//	defer MyStructMutates("OutsideMutate")           // mutatedby
package inject

import (
	"go/token"
	"unicode"
	"unicode/utf8"

	"github.com/mpyw/fnpolicy/internal/policy"
)

// RoutineName returns the name of the generated guard routine.
//
//	Callers   owner "MyStruct", subject "TargetFunction"  → MyStructTargetFunctionCallsite
//	Callers   owner "",         subject "targetFunction"  → targetFunctionCallsite
//	Callers   owner "myStruct", subject "Do"              → myStructDoCallsite
//	Mutators  subject "MyStruct"                          → MyStructMutates
//
// The routine is exported only when everything it guards is exported.
func RoutineName(kind policy.GuardKind, owner, subject string) string {
	var name string
	var exported bool
	if kind == policy.GuardMutators {
		name = subject + "Mutates"
		exported = token.IsExported(subject)
	} else {
		name = upperFirst(owner) + upperFirst(subject) + "Callsite"
		exported = token.IsExported(subject) && (owner == "" || token.IsExported(owner))
	}
	if exported {
		return upperFirst(name)
	}
	return lowerFirst(name)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
