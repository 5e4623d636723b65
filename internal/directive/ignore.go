package directive

import (
	"go/ast"
	"go/token"
	"slices"
)

// fileLevel is the IgnoreMap key of a file-level ignore.
const fileLevel = -1

// ignoreEntry tracks an ignore directive and whether it suppressed anything.
type ignoreEntry struct {
	pos  token.Pos
	used bool
}

// IgnoreMap tracks the lines of one file that carry ignore directives.
type IgnoreMap map[int]*ignoreEntry

// BuildIgnoreMap scans a file for ignore comments.
//
//	//fnpolicy:ignore          // line 5 → covers lines 5 and 6
//	forbidden()                // line 6 → ignored
//
//	// fnpolicy:ignore         // in the package doc → covers the whole file
//	package main
//
// File-level ignores never count as unused.
func BuildIgnoreMap(fset *token.FileSet, file *ast.File) IgnoreMap {
	m := make(IgnoreMap)
	for _, cg := range file.Comments {
		for _, c := range cg.List {
			if IsIgnoreDirective(c.Text) {
				m[fset.Position(c.Pos()).Line] = &ignoreEntry{pos: c.Pos()}
			}
		}
	}
	if file.Doc != nil {
		for _, c := range file.Doc.List {
			if IsIgnoreDirective(c.Text) {
				delete(m, fset.Position(c.Pos()).Line)
				m[fileLevel] = &ignoreEntry{pos: c.Pos(), used: true}
			}
		}
	}
	return m
}

// ShouldIgnore reports whether a diagnostic on line is suppressed, marking
// the directive responsible as used.
func (m IgnoreMap) ShouldIgnore(line int) bool {
	for _, l := range []int{fileLevel, line, line - 1} {
		if entry, ok := m[l]; ok {
			entry.used = true
			return true
		}
	}
	return false
}

// MarkUsed marks the ignore directive at line as used.
func (m IgnoreMap) MarkUsed(line int) {
	if entry, ok := m[line]; ok {
		entry.used = true
	}
}

// UnusedIgnores returns the positions of line-level ignore directives that
// suppressed nothing, in source order.
func (m IgnoreMap) UnusedIgnores() []token.Pos {
	var unused []token.Pos
	for line, entry := range m {
		if line != fileLevel && !entry.used {
			unused = append(unused, entry.pos)
		}
	}
	slices.Sort(unused)
	return unused
}

// FuncIgnore returns the line of the ignore directive in the doc comment
// of decl. A function-level ignore skips every check of that function.
func FuncIgnore(fset *token.FileSet, decl *ast.FuncDecl) (line int, ok bool) {
	if decl.Doc == nil {
		return 0, false
	}
	for _, c := range decl.Doc.List {
		if IsIgnoreDirective(c.Text) {
			return fset.Position(c.Pos()).Line, true
		}
	}
	return 0, false
}
