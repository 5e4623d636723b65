package directive

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"

	"github.com/mpyw/fnpolicy/internal/policy"
	"github.com/mpyw/fnpolicy/internal/typeutil"
)

// FuncDirectives are the directives found on one function declaration.
type FuncDirectives struct {
	Rules    policy.Rules
	CalledBy *policy.CallerSpec // nil when absent
	Pos      token.Pos          // position of the calledby directive
}

// TypeDirectives are the directives found on one type declaration.
type TypeDirectives struct {
	MutatedBy *policy.CallerSpec // nil when absent
	Pos       token.Pos          // position of the mutatedby directive
}

// ParseFunc parses the policy directives in the doc comment of decl.
// The first malformed directive is returned as a *SyntaxError.
func ParseFunc(decl *ast.FuncDecl) (FuncDirectives, error) {
	var out FuncDirectives
	err := eachDirective(decl.Doc, func(name, args string, pos token.Pos) error {
		switch name {
		case Calls, NoCalls, MustCall:
			spec, err := ParseCallSpec(name, args, callMode(name))
			if err != nil {
				return err
			}
			for i, n := range spec.Names {
				spec.Names[i] = policy.CallName(n)
			}
			out.Rules.Calls = append(out.Rules.Calls, spec)
		case Mutates, NoMutates:
			mode := policy.Allow
			if name == NoMutates {
				mode = policy.Deny
			}
			spec, err := ParseFieldSpec(name, args, mode)
			if err != nil {
				return err
			}
			out.Rules.Fields = append(out.Rules.Fields, spec)
		case Consumes:
			spec, err := ParseCallSpec(name, args, policy.Allow)
			if err != nil {
				return err
			}
			out.Rules.Consumes = append(out.Rules.Consumes, spec.Names...)
		case CalledBy:
			if out.CalledBy != nil {
				return &SyntaxError{Directive: name, Msg: "duplicate directive"}
			}
			spec, err := ParseCallerSpec(name, args)
			if err != nil {
				return err
			}
			out.CalledBy, out.Pos = &spec, pos
		case MutatedBy:
			return &SyntaxError{Directive: name, Msg: "applies to type declarations, not functions"}
		case Ignore:
		default:
			return &SyntaxError{Directive: name, Msg: "unknown directive"}
		}
		return nil
	})
	return out, err
}

// ParseType parses the directives of one type spec. The doc comment of a
// single-spec declaration (type T struct{}) belongs to gen.
func ParseType(gen *ast.GenDecl, spec *ast.TypeSpec) (TypeDirectives, error) {
	doc := spec.Doc
	if doc == nil && len(gen.Specs) == 1 {
		doc = gen.Doc
	}
	var out TypeDirectives
	err := eachDirective(doc, func(name, args string, pos token.Pos) error {
		switch name {
		case MutatedBy:
			if out.MutatedBy != nil {
				return &SyntaxError{Directive: name, Msg: "duplicate directive"}
			}
			caller, err := ParseCallerSpec(name, args)
			if err != nil {
				return err
			}
			out.MutatedBy, out.Pos = &caller, pos
		case Calls, NoCalls, MustCall, Mutates, NoMutates, Consumes, CalledBy:
			return &SyntaxError{Directive: name, Msg: "applies to function declarations, not types"}
		case Ignore:
		default:
			return &SyntaxError{Directive: name, Msg: "unknown directive"}
		}
		return nil
	})
	return out, err
}

// eachDirective calls fn for every directive comment in doc. A
// *SyntaxError returned by fn gets its position resolved against the
// comment.
func eachDirective(doc *ast.CommentGroup, fn func(name, args string, pos token.Pos) error) error {
	if doc == nil {
		return nil
	}
	for _, c := range doc.List {
		name, args, offset, ok := split(c.Text)
		if !ok {
			continue
		}
		if err := fn(name, args, c.Pos()); err != nil {
			var se *SyntaxError
			if errors.As(err, &se) && !se.Pos.IsValid() {
				se.Pos = c.Pos() + token.Pos(offset+se.Offset)
			}
			return err
		}
	}
	return nil
}

func callMode(name string) policy.Mode {
	switch name {
	case NoCalls:
		return policy.Deny
	case MustCall:
		return policy.MustCallAll
	default:
		return policy.Allow
	}
}

// =============================================================================
// Function Keys
// =============================================================================

// FuncKey identifies a function declaration within a package.
type FuncKey struct {
	ReceiverType string // receiver type name without pointer or type parameters, empty for functions
	FuncName     string
}

// KeyOf returns the key of decl.
//
//	func Process()                  → "Process"
//	func (s *MyStruct) Process()    → "MyStruct.Process"
//	func (l *List[T]) Push(v T)     → "List.Push"
func KeyOf(decl *ast.FuncDecl) FuncKey {
	key := FuncKey{FuncName: decl.Name.Name}
	if decl.Recv != nil && len(decl.Recv.List) > 0 {
		key.ReceiverType = typeutil.BaseName(typeutil.TypeString(decl.Recv.List[0].Type))
	}
	return key
}

// String returns "Recv.Func" for methods and "Func" otherwise.
func (k FuncKey) String() string {
	if k.ReceiverType == "" {
		return k.FuncName
	}
	return fmt.Sprintf("%s.%s", k.ReceiverType, k.FuncName)
}
