// Package internal runs the policy checks of one package.
//
// # Architecture
//
// This package serves as the bridge between the public analyzer and the
// policy engine:
//
//	┌─────────────────────────────────────────────────────────────────────────┐
//	│                         Analysis Flow                                   │
//	│                                                                         │
//	│   analyzer.go (public)                                                  │
//	│        │                                                                │
//	│        ▼                                                                │
//	│   internal/analyzer.go   ◀── You are here                               │
//	│   ┌─────────────────────────────────────────────────────────────────┐   │
//	│   │  Run()                                                          │   │
//	│   │    │                                                            │   │
//	│   │    ├── Skip generated and excluded files                        │   │
//	│   │    ├── Parse directives, export guard facts                     │   │
//	│   │    ├── Lower each function (internal/lower)                     │   │
//	│   │    ├── Call, mutation and consumes policies → report            │   │
//	│   │    ├── Guard registrations (internal/inject) → fixes            │   │
//	│   │    └── Apply ignore directives                                  │   │
//	│   └─────────────────────────────────────────────────────────────────┘   │
//	└─────────────────────────────────────────────────────────────────────────┘
//
// # Responsibilities
//
//   - Merge directive and configuration policies per function
//   - Report one aggregate diagnostic per failing function
//   - Require guard registrations in unlisted callers and mutators
//   - Handle function-level and line-level ignore directives
//   - Report unused ignore directives
package internal

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"os"
	"strconv"

	"golang.org/x/tools/go/analysis"

	"github.com/mpyw/fnpolicy/internal/binding"
	"github.com/mpyw/fnpolicy/internal/callpolicy"
	"github.com/mpyw/fnpolicy/internal/config"
	"github.com/mpyw/fnpolicy/internal/debug"
	"github.com/mpyw/fnpolicy/internal/directive"
	"github.com/mpyw/fnpolicy/internal/fix"
	"github.com/mpyw/fnpolicy/internal/inject"
	"github.com/mpyw/fnpolicy/internal/lower"
	"github.com/mpyw/fnpolicy/internal/mutation"
	"github.com/mpyw/fnpolicy/internal/policy"
	"github.com/mpyw/fnpolicy/internal/report"
	"github.com/mpyw/fnpolicy/internal/tree"
)

// =============================================================================
// Entry Point
// =============================================================================

// Run checks every function of the package.
//
// Processing flow:
//  1. Skip generated files and files excluded by the configuration
//  2. Parse directives; report malformed ones, export guard facts
//  3. For each function not covered by a function-level ignore (whose
//     guards are still declared):
//     a. evaluate call, mutation and consumes policies
//     b. require registrations for calledby and mutatedby guards
//  4. Report unused ignore directives
func Run(pass *analysis.Pass, cfg *config.Config, debugFilter string) error {
	dbg, err := debug.NewCollector(pass.Fset, debugFilter)
	if err != nil {
		return err
	}
	defer dbg.Flush(os.Stderr)

	r := &runner{
		pass:      pass,
		cfg:       cfg,
		dbg:       dbg,
		fixes:     fix.New(pass),
		callers:   make(map[types.Object]inject.Protected),
		malformed: make(map[ast.Node]bool),
		reported:  make(map[token.Pos]bool),
	}

	var files []*ast.File
	for _, file := range pass.Files {
		filename := pass.Fset.Position(file.Pos()).Filename
		if ast.IsGenerated(file) || cfg.Excluded(filename) {
			continue
		}
		files = append(files, file)
		r.ignores = append(r.ignores, directive.BuildIgnoreMap(pass.Fset, file))
	}

	for i, file := range files {
		r.declare(file, r.ignores[i])
	}
	r.collectImportedMutators()
	for i, file := range files {
		r.check(file, r.ignores[i])
	}

	// Report unused ignore directives
	for _, m := range r.ignores {
		for _, pos := range m.UnusedIgnores() {
			pass.Reportf(pos, "unused fnpolicy:ignore directive")
		}
	}
	return nil
}

// runner holds the state of one pass.
type runner struct {
	pass    *analysis.Pass
	cfg     *config.Config
	dbg     *debug.Collector
	fixes   *fix.Generator
	ignores []directive.IgnoreMap

	callers   map[types.Object]inject.Protected // local calledby guards
	mutators  []inject.Protected                // local mutatedby guards
	imported  []importedGuard                   // mutatedby guards of dependencies
	malformed map[ast.Node]bool                 // declarations with a malformed directive
	reported  map[token.Pos]bool                // deduplication of hard diagnostics
}

type importedGuard struct {
	pkg  *types.Package
	fact *inject.GuardFact
}

// =============================================================================
// Declarations
// =============================================================================

// declare parses the directives of every declaration in file, records the
// guards they declare and exports them as facts. A function-level ignore
// silences the diagnostics of the declaration but keeps its guard.
func (r *runner) declare(file *ast.File, ignores directive.IgnoreMap) {
	for _, decl := range file.Decls {
		switch decl := decl.(type) {
		case *ast.FuncDecl:
			line, ignored := directive.FuncIgnore(r.pass.Fset, decl)
			if ignored {
				ignores.MarkUsed(line)
			}
			d, err := directive.ParseFunc(decl)
			if err != nil {
				r.malformed[decl] = true
				if !ignored {
					r.reportSyntax(err, decl.Pos(), ignores)
				}
				continue
			}
			if spec, ok := inject.FuncSpec(decl, d); ok {
				r.declareGuard(spec, r.pass.TypesInfo.Defs[decl.Name], ignores, !ignored)
			}
		case *ast.GenDecl:
			if decl.Tok != token.TYPE {
				continue
			}
			for _, s := range decl.Specs {
				ts := s.(*ast.TypeSpec)
				d, err := directive.ParseType(decl, ts)
				if err != nil {
					r.reportSyntax(err, ts.Pos(), ignores)
					continue
				}
				if spec, ok := inject.TypeSpec(ts, d); ok {
					r.declareGuard(spec, r.pass.TypesInfo.Defs[ts.Name], ignores, true)
				}
			}
		}
	}
}

// declareGuard records spec and exports its fact. A missing routine is
// reported only when checkRoutine is set.
func (r *runner) declareGuard(spec policy.GuardSpec, obj types.Object, ignores directive.IgnoreMap, checkRoutine bool) {
	if checkRoutine && r.pass.Pkg.Scope().Lookup(spec.GuardName) == nil {
		r.reportAt(spec.Pos, ignores, analysis.Diagnostic{
			Pos:     spec.Pos,
			Message: fmt.Sprintf("guard routine %s is not generated; run fnpolicy-guard", spec.GuardName),
		})
	}
	if obj == nil {
		return
	}
	fact := inject.NewFact(spec)
	r.pass.ExportObjectFact(obj, fact)

	p := inject.Protected{Fact: fact}
	if spec.Kind == policy.GuardMutators {
		r.mutators = append(r.mutators, p)
	} else {
		r.callers[obj] = p
	}
}

func (r *runner) collectImportedMutators() {
	for _, of := range r.pass.AllObjectFacts() {
		fact, ok := of.Fact.(*inject.GuardFact)
		if !ok || fact.Kind != policy.GuardMutators || of.Object.Pkg() == r.pass.Pkg {
			continue
		}
		r.imported = append(r.imported, importedGuard{pkg: of.Object.Pkg(), fact: fact})
	}
}

func (r *runner) reportSyntax(err error, fallback token.Pos, ignores directive.IgnoreMap) {
	pos := fallback
	var se *directive.SyntaxError
	if errors.As(err, &se) && se.Pos.IsValid() {
		pos = se.Pos
	}
	r.reportAt(pos, ignores, analysis.Diagnostic{Pos: pos, Message: err.Error()})
}

// =============================================================================
// Functions
// =============================================================================

// check runs every function-level check in file.
func (r *runner) check(file *ast.File, ignores directive.IgnoreMap) {
	fc := &fileChecker{runner: r, file: file, ignores: ignores}
	fc.mutators = append(fc.mutators, r.mutators...)
	for _, g := range r.imported {
		if name, ok := importName(file, g.pkg); ok {
			fc.mutators = append(fc.mutators, inject.Protected{Fact: g.fact, Qualifier: name})
		}
	}

	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || r.malformed[fd] {
			continue
		}
		if _, ignored := directive.FuncIgnore(r.pass.Fset, fd); ignored {
			continue
		}
		d, err := directive.ParseFunc(fd)
		if err != nil {
			continue
		}
		fc.checkFunc(fd, d)
	}
}

// fileChecker checks the functions of one file.
type fileChecker struct {
	*runner
	file     *ast.File
	ignores  directive.IgnoreMap
	mutators []inject.Protected // mutatedby guards visible from the file
}

func (c *fileChecker) checkFunc(decl *ast.FuncDecl, d directive.FuncDirectives) {
	fn := lower.Func(decl, c.pass.TypesInfo)
	key := directive.KeyOf(decl).String()
	info := c.dbg.Begin(key, fn)
	if fn.Body != nil {
		info.RecordCalls(callpolicy.Collect(fn.Body))
	}

	rules := d.Rules.Merge(c.cfg.Rules(key))
	rep := report.New(key)

	if fn.Body != nil {
		for _, spec := range rules.Calls {
			c.add(rep, callpolicy.Check(fn.Body, spec.Policy(), decl.Name.Pos()))
		}
	}
	for _, spec := range rules.Fields {
		vs, err := mutation.Check(fn, spec.TypeName, spec.Policy())
		if err != nil {
			c.reportError(err, decl.Name.Pos())
			continue
		}
		if info != nil {
			writes, _ := mutation.Collect(fn, spec.TypeName)
			info.RecordWrites(spec.TypeName, writes)
		}
		c.add(rep, vs)
	}
	c.add(rep, callpolicy.CheckConsumes(fn, rules.Consumes))

	info.RecordViolations(rep.Violations())
	if !rep.Empty() {
		c.pass.Report(rep.Diagnostic(decl.Name.Pos()))
	}

	if fn.Body != nil {
		c.checkRegistrations(decl, fn, info)
	}
}

// add adds the violations not suppressed by a line-level ignore.
func (c *fileChecker) add(rep *report.Report, vs []policy.Violation) {
	for _, v := range vs {
		if c.ignores.ShouldIgnore(c.pass.Fset.Position(v.Pos).Line) {
			continue
		}
		rep.Add(v)
	}
}

// =============================================================================
// Guard Registrations
// =============================================================================

func (c *fileChecker) checkRegistrations(decl *ast.FuncDecl, fn *tree.Func, info *debug.Info) {
	reqs := inject.CallerRequirements(fn, c.lookup)
	mreqs, err := inject.MutatorRequirements(fn, c.mutators)
	if err != nil {
		c.reportError(err, decl.Name.Pos())
	}
	reqs = append(reqs, mreqs...)

	for _, req := range reqs {
		kind, routine := req.Guard.Fact.Kind, req.Guard.Fact.Routine
		reg, found := inject.FindRegistration(decl.Body, kind, routine, req.Caller)
		info.RecordRequirement(req.Statement(), req.Pos, found && reg.Caller == req.Caller)

		switch {
		case !found:
			verb := "calls"
			if kind == policy.GuardMutators {
				verb = "mutates fields in"
			}
			c.reportAt(req.Pos, c.ignores, analysis.Diagnostic{
				Pos: req.Pos,
				Message: fmt.Sprintf("%s %s %s without registering with %s",
					req.Caller, verb, req.Guard.Fact.Subject, routine),
				SuggestedFixes: c.fixes.InsertRegistration(decl, req.Statement()),
			})
		case reg.Lit == nil:
			c.reportAt(reg.Call.Pos(), c.ignores, analysis.Diagnostic{
				Pos:     reg.Call.Pos(),
				Message: fmt.Sprintf("%s must be passed the string literal %q", routine, req.Caller),
			})
		case reg.Caller != req.Caller:
			c.reportAt(reg.Lit.Pos(), c.ignores, analysis.Diagnostic{
				Pos:            reg.Lit.Pos(),
				Message:        fmt.Sprintf("%s registered as %q in %s", routine, reg.Caller, req.Caller),
				SuggestedFixes: c.fixes.ReplaceCaller(reg.Lit, req.Caller),
			})
		}
	}
}

// lookup resolves a callee to its calledby guard, local or imported.
func (c *fileChecker) lookup(obj types.Object) (inject.Protected, bool) {
	if p, ok := c.callers[obj]; ok {
		return p, true
	}
	if obj.Pkg() == nil || obj.Pkg() == c.pass.Pkg {
		return inject.Protected{}, false
	}
	var fact inject.GuardFact
	if !c.pass.ImportObjectFact(obj, &fact) {
		return inject.Protected{}, false
	}
	name, ok := importName(c.file, obj.Pkg())
	if !ok {
		name = obj.Pkg().Name()
	}
	return inject.Protected{Fact: &fact, Qualifier: name}, true
}

// importName returns the name pkg is imported under in file: "" for a dot
// import. Blank imports do not count.
func importName(file *ast.File, pkg *types.Package) (string, bool) {
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil || path != pkg.Path() {
			continue
		}
		if spec.Name == nil {
			return pkg.Name(), true
		}
		switch spec.Name.Name {
		case "_":
			continue
		case ".":
			return "", true
		default:
			return spec.Name.Name, true
		}
	}
	return "", false
}

// =============================================================================
// Reporting
// =============================================================================

// reportError reports a failure to analyze a function. Unsupported
// constructs are reported where they occur.
func (c *fileChecker) reportError(err error, pos token.Pos) {
	var ue *binding.UnsupportedError
	if errors.As(err, &ue) && ue.Pos.IsValid() {
		pos = ue.Pos
	}
	if c.reported[pos] {
		return
	}
	c.reported[pos] = true
	c.reportAt(pos, c.ignores, analysis.Diagnostic{Pos: pos, Message: err.Error()})
}

// reportAt reports d unless the line of pos is suppressed by an ignore
// directive.
func (r *runner) reportAt(pos token.Pos, ignores directive.IgnoreMap, d analysis.Diagnostic) {
	if ignores.ShouldIgnore(r.pass.Fset.Position(pos).Line) {
		return
	}
	r.pass.Report(d)
}
