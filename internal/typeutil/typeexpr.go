// Package typeutil provides helpers over textual Go type expressions.
//
// Policies name types the way source code spells them ("MyStruct",
// "pkg.MyStruct"), so matching is textual: a parameter declared as
// "*MyStruct" or "MyStruct[int]" refers to "MyStruct" once pointer and
// instantiation qualifiers are stripped.
package typeutil

import (
	"go/ast"
	"go/token"
	"go/types"
	"strings"
)

// =============================================================================
// Rendering
// =============================================================================

// TypeString renders a type expression as written in source.
// Returns "" for nil.
func TypeString(expr ast.Expr) string {
	if expr == nil {
		return ""
	}
	return types.ExprString(expr)
}

// =============================================================================
// Qualifier Stripping
// =============================================================================

// BaseName strips pointer stars, enclosing parentheses and generic
// instantiation from a type expression.
//
//	"*MyStruct"        → "MyStruct"
//	"(*pkg.T)"         → "pkg.T"
//	"*List[int]"       → "List"
//	"[]MyStruct"       → "[]MyStruct" (containers are not stripped)
func BaseName(s string) string {
	s = stripIndirection(s)
	if i := strings.IndexByte(s, '['); i > 0 && strings.HasSuffix(s, "]") && isQualifiedIdent(s[:i]) {
		s = s[:i]
	}
	return s
}

// Matches reports whether the type expression s names target after
// stripping qualifiers.
func Matches(s, target string) bool {
	return target != "" && BaseName(s) == target
}

func stripIndirection(s string) string {
	s = strings.TrimSpace(s)
	for {
		switch {
		case strings.HasPrefix(s, "*"):
			s = strings.TrimSpace(s[1:])
		case strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"):
			s = strings.TrimSpace(s[1 : len(s)-1])
		default:
			return s
		}
	}
}

func isQualifiedIdent(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return false
	}
	for _, p := range parts {
		if !token.IsIdentifier(p) {
			return false
		}
	}
	return true
}

// =============================================================================
// Container Shapes
// =============================================================================

// Elements returns the element type expressions of a slice, array, map,
// channel or variadic type. ok is false for any other shape.
//
//	"[]T"         → ["T"]
//	"...*T"       → ["*T"]
//	"[4]T"        → ["T"]
//	"map[K]V"     → ["K", "V"]
//	"<-chan T"    → ["T"]
func Elements(s string) (elems []string, ok bool) {
	s = stripIndirection(s)
	switch {
	case strings.HasPrefix(s, "..."):
		return []string{s[3:]}, true
	case strings.HasPrefix(s, "map["):
		end := matchingBracket(s, 3)
		if end < 0 {
			return nil, false
		}
		return []string{s[4:end], s[end+1:]}, true
	case strings.HasPrefix(s, "["):
		end := matchingBracket(s, 0)
		if end < 0 {
			return nil, false
		}
		return []string{s[end+1:]}, true
	case strings.HasPrefix(s, "<-chan "):
		return []string{s[len("<-chan "):]}, true
	case strings.HasPrefix(s, "chan<- "):
		return []string{s[len("chan<- "):]}, true
	case strings.HasPrefix(s, "chan "):
		return []string{s[len("chan "):]}, true
	}
	return nil, false
}

// ContainsElement reports whether target occurs as an element (at any
// depth) of the container type s. A bare "T" or "*T" is not a container
// and returns false.
func ContainsElement(s, target string) bool {
	elems, ok := Elements(s)
	if !ok {
		return false
	}
	for _, e := range elems {
		if Matches(e, target) || ContainsElement(e, target) {
			return true
		}
	}
	return false
}

// matchingBracket returns the index of the ']' matching the '[' at open.
func matchingBracket(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
