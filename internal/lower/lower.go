// Package lower converts go/ast function declarations into [tree] nodes.
//
// Lowering is syntax-directed. When a *types.Info is supplied it is used
// for three decisions the syntax alone cannot make:
//
//   - pkg.F is a package-qualified [tree.Path], not a field access
//   - T(x) is a type conversion, not a call
//   - F[T](x) is a generic instantiation, not an index expression
//
// and to attach the resolved callee object to calls. With a nil Info the
// conservative reading is used: selectors are field accesses or method
// calls, and only syntactic type expressions ([]byte(x), (*T)(p)) are
// recognized as conversions.
//
// # Statement Shapes
//
//	x := e, var x T = e      → Local
//	a = b                    → Assign
//	a += b, a++              → CompoundAssign
//	if / for / range         → If / While / For
//	switch, select           → Other{switch|typeswitch|select} of case Blocks
//	return, defer, go, send  → Other with the operands as children
//
// [tree]: github.com/mpyw/fnpolicy/internal/tree
package lower

import (
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"github.com/mpyw/fnpolicy/internal/tree"
	"github.com/mpyw/fnpolicy/internal/typeutil"
)

// Func lowers a function declaration. info may be nil.
func Func(decl *ast.FuncDecl, info *types.Info) *tree.Func {
	l := &lowerer{info: info}
	fn := &tree.Func{
		Name:   decl.Name.Name,
		Params: l.params(decl.Type.Params),
		Pos:    decl.Pos(),
	}
	if decl.Recv != nil && len(decl.Recv.List) > 0 {
		recv := l.params(decl.Recv)
		if len(recv) > 0 {
			r := recv[0]
			r.Pointer = isPointer(decl.Recv.List[0].Type)
			fn.Recv = &r
		}
	}
	if decl.Body != nil {
		fn.Body = l.block(decl.Body)
	}
	return fn
}

// Expr lowers a single expression. info may be nil.
func Expr(e ast.Expr, info *types.Info) tree.Node {
	l := &lowerer{info: info}
	return l.expr(e)
}

type lowerer struct {
	info *types.Info
}

// =============================================================================
// Declarations
// =============================================================================

func (l *lowerer) params(fl *ast.FieldList) []tree.Param {
	if fl == nil {
		return nil
	}
	var out []tree.Param
	for _, f := range fl.List {
		typ := typeutil.TypeString(f.Type)
		if len(f.Names) == 0 {
			out = append(out, tree.Param{Type: typ, Pos: f.Pos()})
			continue
		}
		for _, name := range f.Names {
			out = append(out, tree.Param{Name: name.Name, Type: typ, Pos: name.Pos()})
		}
	}
	return out
}

func isPointer(expr ast.Expr) bool {
	expr = ast.Unparen(expr)
	_, ok := expr.(*ast.StarExpr)
	return ok
}

// =============================================================================
// Statements
// =============================================================================

func (l *lowerer) block(b *ast.BlockStmt) *tree.Block {
	if b == nil {
		return nil
	}
	return &tree.Block{Stmts: l.stmts(b.List)}
}

func (l *lowerer) stmts(list []ast.Stmt) []tree.Node {
	var out []tree.Node
	for _, s := range list {
		if n := l.stmt(s); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (l *lowerer) stmt(s ast.Stmt) tree.Node {
	switch s := s.(type) {
	case nil:
		return nil
	case *ast.BlockStmt:
		return l.block(s)
	case *ast.ExprStmt:
		return l.expr(s.X)
	case *ast.AssignStmt:
		return l.assign(s)
	case *ast.IncDecStmt:
		return &tree.CompoundAssign{Target: l.expr(s.X), Op: s.Tok.String(), Pos: s.Pos()}
	case *ast.DeclStmt:
		return l.decl(s)
	case *ast.ReturnStmt:
		return &tree.Other{Op: "return", Children: l.exprs(s.Results)}
	case *ast.DeferStmt:
		return &tree.Other{Op: "defer", Children: []tree.Node{l.expr(s.Call)}}
	case *ast.GoStmt:
		return &tree.Other{Op: "go", Children: []tree.Node{l.expr(s.Call)}}
	case *ast.SendStmt:
		return &tree.Other{Op: "send", Children: []tree.Node{l.expr(s.Chan), l.expr(s.Value)}}
	case *ast.BranchStmt:
		return &tree.Other{Op: s.Tok.String()}
	case *ast.LabeledStmt:
		return l.stmt(s.Stmt)
	case *ast.IfStmt:
		return l.ifStmt(s)
	case *ast.ForStmt:
		if s.Init == nil && s.Post == nil {
			return &tree.While{Cond: l.expr(s.Cond), Body: l.block(s.Body)}
		}
		return &tree.For{
			Init: l.stmt(s.Init),
			Cond: l.expr(s.Cond),
			Post: l.stmt(s.Post),
			Body: l.block(s.Body),
		}
	case *ast.RangeStmt:
		return l.rangeStmt(s)
	case *ast.SwitchStmt:
		return l.switchStmt(s)
	case *ast.TypeSwitchStmt:
		return l.typeSwitchStmt(s)
	case *ast.SelectStmt:
		return l.selectStmt(s)
	case *ast.EmptyStmt, *ast.BadStmt:
		return nil
	default:
		return &tree.Other{Op: "stmt"}
	}
}

func (l *lowerer) assign(s *ast.AssignStmt) tree.Node {
	switch s.Tok {
	case token.DEFINE:
		return &tree.Local{Names: identNames(s.Lhs), Init: l.exprs(s.Rhs), Pos: s.Pos()}
	case token.ASSIGN:
		return &tree.Assign{Targets: l.exprs(s.Lhs), Values: l.exprs(s.Rhs), Pos: s.Pos()}
	default:
		var value tree.Node
		if len(s.Rhs) > 0 {
			value = l.expr(s.Rhs[0])
		}
		var target tree.Node
		if len(s.Lhs) > 0 {
			target = l.expr(s.Lhs[0])
		}
		return &tree.CompoundAssign{Target: target, Op: s.Tok.String(), Value: value, Pos: s.Pos()}
	}
}

func (l *lowerer) decl(s *ast.DeclStmt) tree.Node {
	gen, ok := s.Decl.(*ast.GenDecl)
	if !ok || (gen.Tok != token.VAR && gen.Tok != token.CONST) {
		return &tree.Other{Op: "decl"}
	}
	var locals []tree.Node
	for _, spec := range gen.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		names := make([]string, len(vs.Names))
		for i, n := range vs.Names {
			names[i] = n.Name
		}
		locals = append(locals, &tree.Local{
			Names: names,
			Type:  typeutil.TypeString(vs.Type),
			Init:  l.exprs(vs.Values),
			Pos:   vs.Pos(),
		})
	}
	if len(locals) == 1 {
		return locals[0]
	}
	return &tree.Other{Op: gen.Tok.String(), Children: locals}
}

func (l *lowerer) ifStmt(s *ast.IfStmt) *tree.If {
	n := &tree.If{
		Init: l.stmt(s.Init),
		Cond: l.expr(s.Cond),
		Then: l.block(s.Body),
	}
	switch e := s.Else.(type) {
	case *ast.IfStmt:
		n.Else = l.ifStmt(e)
	case *ast.BlockStmt:
		n.Else = l.block(e)
	}
	return n
}

func (l *lowerer) rangeStmt(s *ast.RangeStmt) tree.Node {
	var vars []ast.Expr
	for _, e := range []ast.Expr{s.Key, s.Value} {
		if e != nil {
			vars = append(vars, e)
		}
	}
	var init tree.Node
	switch {
	case len(vars) == 0:
	case s.Tok == token.DEFINE:
		init = &tree.Local{Names: identNames(vars), Pos: s.Pos()}
	default:
		init = &tree.Assign{Targets: l.exprs(vars), Pos: s.Pos()}
	}
	return &tree.For{Range: l.expr(s.X), Init: init, Body: l.block(s.Body)}
}

// switchStmt lowers to an implicit block holding the init statement and an
// Other{switch} whose children are the tag and one Block per clause. Each
// clause block starts with an Other{case} holding the case expressions.
func (l *lowerer) switchStmt(s *ast.SwitchStmt) tree.Node {
	children := []tree.Node{}
	if tag := l.expr(s.Tag); tag != nil {
		children = append(children, tag)
	}
	for _, c := range s.Body.List {
		cc, ok := c.(*ast.CaseClause)
		if !ok {
			continue
		}
		stmts := []tree.Node{&tree.Other{Op: "case", Children: l.exprs(cc.List)}}
		children = append(children, &tree.Block{Stmts: append(stmts, l.stmts(cc.Body)...)})
	}
	return implicit(l.stmt(s.Init), &tree.Other{Op: "switch", Children: children})
}

// typeSwitchStmt lowers like switchStmt. When the switch binds a name, each
// clause block starts with a Local declaring it, typed when the clause lists
// exactly one type.
func (l *lowerer) typeSwitchStmt(s *ast.TypeSwitchStmt) tree.Node {
	var (
		bound string
		subj  ast.Expr
	)
	switch a := s.Assign.(type) {
	case *ast.AssignStmt:
		if len(a.Lhs) == 1 {
			if id, ok := a.Lhs[0].(*ast.Ident); ok {
				bound = id.Name
			}
		}
		if len(a.Rhs) == 1 {
			subj = a.Rhs[0]
		}
	case *ast.ExprStmt:
		subj = a.X
	}
	if ta, ok := subj.(*ast.TypeAssertExpr); ok {
		subj = ta.X
	}

	children := []tree.Node{}
	if x := l.expr(subj); x != nil {
		children = append(children, x)
	}
	for _, c := range s.Body.List {
		cc, ok := c.(*ast.CaseClause)
		if !ok {
			continue
		}
		var stmts []tree.Node
		if bound != "" {
			local := &tree.Local{Names: []string{bound}, Pos: cc.Pos()}
			if len(cc.List) == 1 {
				local.Type = typeutil.TypeString(cc.List[0])
			}
			stmts = append(stmts, local)
		}
		children = append(children, &tree.Block{Stmts: append(stmts, l.stmts(cc.Body)...)})
	}
	return implicit(l.stmt(s.Init), &tree.Other{Op: "typeswitch", Children: children})
}

func (l *lowerer) selectStmt(s *ast.SelectStmt) tree.Node {
	children := []tree.Node{}
	for _, c := range s.Body.List {
		cc, ok := c.(*ast.CommClause)
		if !ok {
			continue
		}
		var stmts []tree.Node
		if comm := l.stmt(cc.Comm); comm != nil {
			stmts = append(stmts, comm)
		}
		children = append(children, &tree.Block{Stmts: append(stmts, l.stmts(cc.Body)...)})
	}
	return &tree.Other{Op: "select", Children: children}
}

// implicit wraps n in the scope Go opens for a statement with an init.
func implicit(init, n tree.Node) tree.Node {
	if init == nil {
		return n
	}
	return &tree.Block{Stmts: []tree.Node{init, n}, Implicit: true}
}

func identNames(exprs []ast.Expr) []string {
	names := make([]string, 0, len(exprs))
	for _, e := range exprs {
		if id, ok := e.(*ast.Ident); ok {
			names = append(names, id.Name)
		} else {
			names = append(names, "_")
		}
	}
	return names
}

// =============================================================================
// Expressions
// =============================================================================

func (l *lowerer) exprs(list []ast.Expr) []tree.Node {
	var out []tree.Node
	for _, e := range list {
		if n := l.expr(e); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (l *lowerer) expr(e ast.Expr) tree.Node {
	switch e := e.(type) {
	case nil:
		return nil
	case *ast.Ident:
		return &tree.Path{Segments: []string{e.Name}, Pos: e.Pos()}
	case *ast.ParenExpr:
		return l.expr(e.X)
	case *ast.SelectorExpr:
		if pkg, ok := l.packageName(e.X); ok {
			return &tree.Path{Segments: []string{pkg, e.Sel.Name}, Pos: e.Pos()}
		}
		return &tree.FieldAccess{Base: l.expr(e.X), Field: e.Sel.Name, Pos: e.Sel.Pos()}
	case *ast.CallExpr:
		return l.call(e)
	case *ast.CompositeLit:
		return l.composite(e)
	case *ast.FuncLit:
		return &tree.Closure{Params: l.params(e.Type.Params), Body: l.block(e.Body)}
	case *ast.UnaryExpr:
		return &tree.Other{Op: e.Op.String(), Children: []tree.Node{l.expr(e.X)}}
	case *ast.BinaryExpr:
		return &tree.Other{Op: e.Op.String(), Children: []tree.Node{l.expr(e.X), l.expr(e.Y)}}
	case *ast.StarExpr:
		return &tree.Other{Op: "*", Children: []tree.Node{l.expr(e.X)}}
	case *ast.IndexExpr:
		return &tree.Other{Op: "index", Children: l.exprs([]ast.Expr{e.X, e.Index})}
	case *ast.IndexListExpr:
		return &tree.Other{Op: "index", Children: l.exprs(append([]ast.Expr{e.X}, e.Indices...))}
	case *ast.SliceExpr:
		return &tree.Other{Op: "slice", Children: l.exprs([]ast.Expr{e.X, e.Low, e.High, e.Max})}
	case *ast.TypeAssertExpr:
		return &tree.Other{Op: "assert", Children: []tree.Node{l.expr(e.X)}}
	case *ast.KeyValueExpr:
		return &tree.Other{Op: "kv", Children: l.exprs([]ast.Expr{e.Key, e.Value})}
	case *ast.BasicLit:
		return &tree.Other{Op: "literal"}
	default:
		// Type expressions and anything without sub-expressions of interest.
		return &tree.Other{Op: "type"}
	}
}

// packageName reports whether x names an imported package.
func (l *lowerer) packageName(x ast.Expr) (string, bool) {
	id, ok := x.(*ast.Ident)
	if !ok || l.info == nil {
		return "", false
	}
	if _, ok := l.info.Uses[id].(*types.PkgName); ok {
		return id.Name, true
	}
	return "", false
}

func (l *lowerer) call(e *ast.CallExpr) tree.Node {
	fun := ast.Unparen(e.Fun)
	args := l.exprs(e.Args)

	if l.isConversion(fun) {
		return &tree.Other{Op: "conversion", Children: args}
	}
	fun = l.stripInstantiation(fun)

	if sel, ok := fun.(*ast.SelectorExpr); ok {
		if pkg, ok := l.packageName(sel.X); ok {
			return &tree.Call{
				Callee: &tree.Path{Segments: []string{pkg, sel.Sel.Name}, Pos: sel.Pos()},
				Args:   args,
				Obj:    l.use(sel.Sel),
				Pos:    e.Pos(),
			}
		}
		return &tree.MethodCall{
			Receiver: l.expr(sel.X),
			Method:   sel.Sel.Name,
			Args:     args,
			Obj:      l.use(sel.Sel),
			Pos:      sel.Sel.Pos(),
		}
	}

	call := &tree.Call{Callee: l.expr(fun), Args: args, Pos: e.Pos()}
	if id, ok := fun.(*ast.Ident); ok {
		call.Obj = l.use(id)
		if l.isBuiltin(id, "new") && len(e.Args) == 1 {
			call.Args = []tree.Node{typePath(e.Args[0])}
		}
	}
	return call
}

// isConversion reports whether fun denotes a type rather than a function.
func (l *lowerer) isConversion(fun ast.Expr) bool {
	switch fun.(type) {
	case *ast.ArrayType, *ast.MapType, *ast.ChanType, *ast.FuncType,
		*ast.InterfaceType, *ast.StructType:
		return true
	case *ast.StarExpr:
		// (*T)(x) or (*f)(x): only type information can tell them apart.
		if l.info == nil {
			return true
		}
	}
	if l.info == nil {
		return false
	}
	tv, ok := l.info.Types[fun]
	return ok && tv.IsType()
}

// stripInstantiation turns F[T] into F when F is a generic function.
// Indexing a value of function type is only legal as instantiation.
func (l *lowerer) stripInstantiation(fun ast.Expr) ast.Expr {
	if l.info == nil {
		return fun
	}
	var x ast.Expr
	switch f := fun.(type) {
	case *ast.IndexExpr:
		x = f.X
	case *ast.IndexListExpr:
		x = f.X
	default:
		return fun
	}
	if tv, ok := l.info.Types[x]; ok {
		if _, isFunc := tv.Type.Underlying().(*types.Signature); isFunc {
			return ast.Unparen(x)
		}
	}
	return fun
}

func (l *lowerer) isBuiltin(id *ast.Ident, name string) bool {
	if id.Name != name {
		return false
	}
	if l.info == nil {
		return true
	}
	_, ok := l.info.Uses[id].(*types.Builtin)
	return ok
}

func (l *lowerer) use(id *ast.Ident) types.Object {
	if l.info == nil {
		return nil
	}
	return l.info.Uses[id]
}

// composite lowers T{...}. Struct keys are field names, not expressions,
// and are dropped; map keys are kept.
func (l *lowerer) composite(e *ast.CompositeLit) tree.Node {
	var elts []tree.Node
	for _, elt := range e.Elts {
		if kv, ok := elt.(*ast.KeyValueExpr); ok {
			if _, isIdent := kv.Key.(*ast.Ident); !isIdent {
				elts = append(elts, l.expr(kv.Key))
			}
			elts = append(elts, l.expr(kv.Value))
			continue
		}
		elts = append(elts, l.expr(elt))
	}
	return &tree.Composite{Type: typeutil.TypeString(e.Type), Elts: elts, Pos: e.Pos()}
}

// typePath renders a type argument as a Path so that new(pkg.T) carries
// the type name ["pkg", "T"].
func typePath(expr ast.Expr) *tree.Path {
	text := typeutil.TypeString(expr)
	segs := []string{text}
	if i := strings.LastIndexByte(text, '.'); i > 0 && !strings.ContainsAny(text, "[]*(){} ") {
		segs = []string{text[:i], text[i+1:]}
	}
	return &tree.Path{Segments: segs, Pos: expr.Pos()}
}
