// Package fix provides SuggestedFix generation for missing or wrong guard
// registrations.
//
// # Fix Strategy
//
// A function that invokes a calledby-protected operation, or writes to a
// mutatedby-protected type, must carry a registration statement naming
// itself. The fix inserts the statement before the first statement of the
// body, or rewrites the caller literal of an existing one.
//
// # Example
//
//	// Before
//	func OutsideCaller(s *MyStruct) {
//	    s.TargetFunction()
//	}
//
//	// After
//	func OutsideCaller(s *MyStruct) {
//	    MyStructTargetFunctionCallsite("OutsideCaller")  // ← inserted
//	    s.TargetFunction()
//	}
//
//	// Mutators register on exit:
//	func Reset(a *Account) {
//	    defer AccountMutates("Reset")                     // ← inserted
//	    a.balance = 0
//	}
package fix

import (
	"go/ast"
	"go/token"
	"strconv"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// Generator generates SuggestedFixes for registration diagnostics.
type Generator struct {
	fset  *token.FileSet
	files map[*token.File]*ast.File // token.File -> ast.File mapping
}

// New creates a new fix Generator.
func New(pass *analysis.Pass) *Generator {
	files := make(map[*token.File]*ast.File)
	for _, f := range pass.Files {
		if tf := pass.Fset.File(f.Pos()); tf != nil {
			files[tf] = f
		}
	}
	return &Generator{
		fset:  pass.Fset,
		files: files,
	}
}

// InsertRegistration returns a fix inserting stmt as the first statement
// of decl's body. Returns nil for a body without statements.
func (g *Generator) InsertRegistration(decl *ast.FuncDecl, stmt string) []analysis.SuggestedFix {
	if decl.Body == nil || len(decl.Body.List) == 0 {
		return nil
	}
	first := decl.Body.List[0].Pos()
	indent := g.indentOf(first)

	return []analysis.SuggestedFix{
		{
			Message: "Add " + stmt,
			TextEdits: []analysis.TextEdit{{
				Pos:     first,
				End:     first,
				NewText: []byte(stmt + "\n" + indent),
			}},
		},
	}
}

// ReplaceCaller returns a fix rewriting the caller literal of an existing
// registration.
func (g *Generator) ReplaceCaller(lit *ast.BasicLit, caller string) []analysis.SuggestedFix {
	quoted := strconv.Quote(caller)
	return []analysis.SuggestedFix{
		{
			Message: "Pass " + quoted,
			TextEdits: []analysis.TextEdit{{
				Pos:     lit.Pos(),
				End:     lit.End(),
				NewText: []byte(quoted),
			}},
		},
	}
}

// =============================================================================
// AST Helper Methods
// =============================================================================

// indentOf returns the indentation of the statement at pos, assuming gofmt
// layout: one tab per enclosing block.
func (g *Generator) indentOf(pos token.Pos) string {
	file := g.findFileContaining(pos)
	if file == nil {
		return "\t"
	}
	depth := 0
	ast.Inspect(file, func(n ast.Node) bool {
		if n == nil {
			return false
		}
		if !(n.Pos() <= pos && pos < n.End()) {
			return n.Pos() <= pos
		}
		if _, ok := n.(*ast.BlockStmt); ok && n.Pos() < pos {
			depth++
		}
		return true
	})
	if depth == 0 {
		depth = 1
	}
	return strings.Repeat("\t", depth)
}

// findFileContaining finds the AST file containing the given position.
func (g *Generator) findFileContaining(pos token.Pos) *ast.File {
	tf := g.fset.File(pos)
	if tf == nil {
		return nil
	}
	return g.files[tf]
}
