// Package policy defines the policy model shared by the analyzers:
// allow/deny/must-call-all rules, the violations they produce and the
// guard specifications used for caller-identity policies.
//
// The model is deliberately free of go/ast: analyzers evaluate names they
// collected from a [tree] walk, and the directive parser produces the specs.
//
// [tree]: github.com/mpyw/fnpolicy/internal/tree
package policy

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnsupportedMode is returned when an analyzer is asked to evaluate a
// mode it has no meaning for (e.g. MustCallAll for field writes).
var ErrUnsupportedMode = errors.New("unsupported policy mode")

// =============================================================================
// Mode
// =============================================================================

// Mode selects how the subject names of a Policy are interpreted.
type Mode int

const (
	// Allow reports every collected name that is not a subject.
	Allow Mode = iota
	// Deny reports every collected name that is a subject.
	Deny
	// MustCallAll reports every subject that was never collected.
	// It does not forbid names outside the subject list.
	MustCallAll
)

// String returns a string representation of the Mode.
func (m Mode) String() string {
	switch m {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	case MustCallAll:
		return "must-call-all"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// =============================================================================
// Policy
// =============================================================================

// Policy is a named-subject rule evaluated against names collected from a
// function body.
type Policy struct {
	Subjects []string
	Mode     Mode
}

// New creates a Policy. Subjects are copied.
func New(mode Mode, subjects ...string) Policy {
	return Policy{Subjects: slices.Clone(subjects), Mode: mode}
}

// Has reports whether name is one of the policy subjects.
func (p Policy) Has(name string) bool {
	return slices.Contains(p.Subjects, name)
}

// CallSpec is the parsed form of a call list directive: `"f1", "f2"`.
type CallSpec struct {
	Names []string
	Mode  Mode
}

// Policy converts the spec to a Policy.
func (s CallSpec) Policy() Policy { return New(s.Mode, s.Names...) }

// CallName returns the name a call is matched by: the final segment of a
// qualified name, so "os.Exit" and "Exit" name the same call.
func CallName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// FieldSpec is the parsed form of a field list directive: `Type: ("f1", "f2")`.
type FieldSpec struct {
	TypeName string
	Names    []string
	Mode     Mode
}

// Policy converts the spec to a Policy over field names.
func (s FieldSpec) Policy() Policy { return New(s.Mode, s.Names...) }

// CallerSpec is the parsed form of a caller allow-list: `"caller1", "caller2"`.
type CallerSpec struct {
	Names []string
}
