// Package directive handles fnpolicy comment directives.
//
// # Supported Directives
//
// Function directives (doc comment of a func declaration):
//
//	//fnpolicy:calls "f1", "f2"               - may only call f1, f2
//	//fnpolicy:nocalls "f1"                   - must not call f1
//	//fnpolicy:mustcall ("f1", "f2")          - must call both f1 and f2
//	//fnpolicy:mutates MyStruct: ("a", "b")   - may only write fields a, b of MyStruct
//	//fnpolicy:nomutates MyStruct: "id"       - must not write field id of MyStruct
//	//fnpolicy:consumes "MyStruct"            - must take a MyStruct parameter
//	//fnpolicy:calledby "Caller1", "Caller2"  - only these functions may call it
//
// Type directives (doc comment of a type declaration):
//
//	//fnpolicy:mutatedby "Mutator1"           - only these functions may write its fields
//
// Anywhere:
//
//	//fnpolicy:ignore                         - suppress diagnostics (line, function or file)
//
// # Directive Placement
//
// Policy directives must be in the doc comment of the declaration they
// apply to. A space after "//" is allowed. Arguments are Go string
// literals; a list may be wrapped in parentheses.
//
// # Examples
//
//	//fnpolicy:calls "validate", "save"
//	//fnpolicy:mutates Account: "balance"
//	func (a *Account) Deposit(n int) {
//	    a.validate(n)
//	    a.balance += n
//	    a.save()
//	}
//
//	//fnpolicy:mutatedby "Deposit", "Withdraw"
//	type Account struct {
//	    balance int
//	}
package directive

import (
	"strings"
	"unicode"
)

const directivePrefix = "fnpolicy:"

// Directive names.
const (
	Calls     = "calls"
	NoCalls   = "nocalls"
	MustCall  = "mustcall"
	Mutates   = "mutates"
	NoMutates = "nomutates"
	Consumes  = "consumes"
	CalledBy  = "calledby"
	MutatedBy = "mutatedby"
	Ignore    = "ignore"
)

// split extracts the directive name and the argument text from a comment.
// offset is the byte offset of args within text.
//
//	"//fnpolicy:calls \"a\""  → ("calls", " \"a\"", 16, true)
//	"// fnpolicy:ignore"      → ("ignore", "", 18, true)
//	"// plain comment"        → ("", "", 0, false)
func split(text string) (name, args string, offset int, ok bool) {
	body := strings.TrimPrefix(text, "//")
	trimmed := strings.TrimLeftFunc(body, unicode.IsSpace)
	if !strings.HasPrefix(trimmed, directivePrefix) {
		return "", "", 0, false
	}
	start := len(text) - len(trimmed) + len(directivePrefix)
	rest := text[start:]

	end := strings.IndexFunc(rest, func(r rune) bool { return !isNameRune(r) })
	if end < 0 {
		end = len(rest)
	}
	name = rest[:end]
	if name == "" {
		return "", "", 0, false
	}
	return name, rest[end:], start + end, true
}

func isNameRune(r rune) bool {
	return r >= 'a' && r <= 'z'
}

// IsDirective reports whether a comment is any fnpolicy directive.
func IsDirective(text string) bool {
	_, _, _, ok := split(text)
	return ok
}

// IsIgnoreDirective checks if a comment is an ignore directive.
// Supports both "//fnpolicy:ignore" and "// fnpolicy:ignore", optionally
// followed by a reason.
func IsIgnoreDirective(text string) bool {
	name, _, _, ok := split(text)
	return ok && name == Ignore
}
