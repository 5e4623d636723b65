package inject

import (
	"go/ast"
	"go/token"
	"strconv"

	"github.com/mpyw/fnpolicy/internal/policy"
)

// Registration is a registration statement found in a function body.
type Registration struct {
	Call   *ast.CallExpr
	Lit    *ast.BasicLit // nil when the argument is not a string literal
	Caller string
}

// FindRegistration returns the registration of routine among the top-level
// statements of body. Callers register with a plain call statement and
// mutators with a defer; the routine may be package-qualified.
//
// When several registrations exist, one passing want is preferred.
func FindRegistration(body *ast.BlockStmt, kind policy.GuardKind, routine, want string) (Registration, bool) {
	if body == nil {
		return Registration{}, false
	}
	var found Registration
	ok := false
	for _, stmt := range body.List {
		call := registrationCall(stmt, kind)
		if call == nil || !isRoutine(call.Fun, routine) {
			continue
		}
		reg := Registration{Call: call}
		if len(call.Args) == 1 {
			if lit, isLit := call.Args[0].(*ast.BasicLit); isLit && lit.Kind == token.STRING {
				if s, err := strconv.Unquote(lit.Value); err == nil {
					reg.Lit, reg.Caller = lit, s
				}
			}
		}
		if reg.Lit != nil && reg.Caller == want {
			return reg, true
		}
		if !ok {
			found, ok = reg, true
		}
	}
	return found, ok
}

func registrationCall(stmt ast.Stmt, kind policy.GuardKind) *ast.CallExpr {
	switch stmt := stmt.(type) {
	case *ast.ExprStmt:
		if kind == policy.GuardCallers {
			call, _ := stmt.X.(*ast.CallExpr)
			return call
		}
	case *ast.DeferStmt:
		if kind == policy.GuardMutators {
			return stmt.Call
		}
	}
	return nil
}

func isRoutine(fun ast.Expr, routine string) bool {
	switch fun := ast.Unparen(fun).(type) {
	case *ast.Ident:
		return fun.Name == routine
	case *ast.SelectorExpr:
		return fun.Sel.Name == routine
	}
	return false
}
