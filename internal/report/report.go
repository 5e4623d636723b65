// Package report accumulates the violations of one declaration and renders
// them as a single aggregate diagnostic.
//
// A declaration either passes (no violations) or fails once, with every
// violation enumerated; the analyzers never stop at the first finding.
package report

import (
	"fmt"
	"go/token"
	"strings"

	"golang.org/x/tools/go/analysis"

	"github.com/mpyw/fnpolicy/internal/policy"
)

// Category is the diagnostic category of policy violations.
const Category = "policy"

// Report collects violations for one declaration.
type Report struct {
	decl string
	set  policy.Set
}

// New creates an empty report for the named declaration.
func New(decl string) *Report {
	return &Report{decl: decl}
}

// Add appends violations. Duplicates by kind and subject are dropped.
func (r *Report) Add(vs ...policy.Violation) {
	for _, v := range vs {
		r.set.Add(v)
	}
}

// Empty reports whether no violation was added.
func (r *Report) Empty() bool { return r.set.Len() == 0 }

// Violations returns the violations in the order they were added.
func (r *Report) Violations() []policy.Violation { return r.set.Violations() }

// Err returns nil for an empty report, otherwise an *Error.
func (r *Report) Err() error {
	if r.Empty() {
		return nil
	}
	return &Error{Decl: r.decl, Violations: r.set.Violations()}
}

// Diagnostic renders the report as one diagnostic at pos, with the
// position of each violation attached as related information.
func (r *Report) Diagnostic(pos token.Pos) analysis.Diagnostic {
	var related []analysis.RelatedInformation
	for _, v := range r.set.Violations() {
		related = append(related, analysis.RelatedInformation{Pos: v.Pos, Message: v.Message()})
	}
	var msg string
	if err := r.Err(); err != nil {
		msg = err.Error()
	}
	return analysis.Diagnostic{
		Pos:      pos,
		Category: Category,
		Message:  msg,
		Related:  related,
	}
}

// Error is the aggregate failure of one declaration.
type Error struct {
	Decl       string
	Violations []policy.Violation
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message()
	}
	return fmt.Sprintf("%s: %d policy violation(s): %s", e.Decl, len(e.Violations), strings.Join(msgs, "; "))
}
