package policy

import (
	"fmt"
	"go/token"
)

// Kind classifies a Violation.
type Kind int

const (
	// CallNotAllowed is a call to a name on a deny-list.
	CallNotAllowed Kind = iota
	// CallNotWhitelisted is a call to a name missing from an allow-list.
	CallNotWhitelisted
	// CallMissing is a must-call-all subject that was never called.
	CallMissing
	// MutationNotAllowed is a write to a field on a deny-list.
	MutationNotAllowed
	// MutationNotWhitelisted is a write to a field missing from an allow-list.
	MutationNotWhitelisted
	// TypeNotConsumed is a consumes-listed type absent from the parameters.
	TypeNotConsumed
)

// String returns a string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case CallNotAllowed:
		return "CallNotAllowed"
	case CallNotWhitelisted:
		return "CallNotWhitelisted"
	case CallMissing:
		return "CallMissing"
	case MutationNotAllowed:
		return "MutationNotAllowed"
	case MutationNotWhitelisted:
		return "MutationNotWhitelisted"
	case TypeNotConsumed:
		return "TypeNotConsumed"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Violation is a single policy breach. Pos is the first position the subject
// was observed at, or the declaration position for absence-type violations.
type Violation struct {
	Kind    Kind
	Subject string
	Pos     token.Pos
}

// Message returns a human readable description of the violation.
func (v Violation) Message() string {
	switch v.Kind {
	case CallNotAllowed:
		return fmt.Sprintf("call to forbidden function `%s`", v.Subject)
	case CallNotWhitelisted:
		return fmt.Sprintf("call to non-whitelisted function `%s`", v.Subject)
	case CallMissing:
		return fmt.Sprintf("function `%s` not called", v.Subject)
	case MutationNotAllowed:
		return fmt.Sprintf("mutation to forbidden field `%s`", v.Subject)
	case MutationNotWhitelisted:
		return fmt.Sprintf("mutation to non-whitelisted field `%s`", v.Subject)
	case TypeNotConsumed:
		return fmt.Sprintf("type `%s` is not consumed", v.Subject)
	default:
		return fmt.Sprintf("%s `%s`", v.Kind, v.Subject)
	}
}

// String implements fmt.Stringer.
func (v Violation) String() string { return v.Message() }

type violationKey struct {
	kind    Kind
	subject string
}

// Set accumulates violations, keeping one entry per (Kind, Subject) in
// insertion order. The zero value is ready to use.
type Set struct {
	seen  map[violationKey]struct{}
	items []Violation
}

// Add inserts v unless a violation of the same kind and subject exists.
func (s *Set) Add(v Violation) {
	key := violationKey{kind: v.Kind, subject: v.Subject}
	if s.seen == nil {
		s.seen = make(map[violationKey]struct{})
	}
	if _, dup := s.seen[key]; dup {
		return
	}
	s.seen[key] = struct{}{}
	s.items = append(s.items, v)
}

// Len returns the number of distinct violations.
func (s *Set) Len() int { return len(s.items) }

// Violations returns the collected violations in insertion order.
func (s *Set) Violations() []Violation {
	if len(s.items) == 0 {
		return nil
	}
	out := make([]Violation, len(s.items))
	copy(out, s.items)
	return out
}

// Evaluate checks one observed name against p and records the resulting
// violation, if any. notWhitelisted and notAllowed select between the call
// and mutation vocabularies. MustCallAll is evaluated by the caller after
// traversal, so it is a no-op here.
func (s *Set) Evaluate(p Policy, name string, pos token.Pos, notWhitelisted, notAllowed Kind) {
	switch p.Mode {
	case Allow:
		if !p.Has(name) {
			s.Add(Violation{Kind: notWhitelisted, Subject: name, Pos: pos})
		}
	case Deny:
		if p.Has(name) {
			s.Add(Violation{Kind: notAllowed, Subject: name, Pos: pos})
		}
	}
}
