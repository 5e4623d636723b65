package inject

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"slices"
	"strings"

	"github.com/mpyw/fnpolicy/internal/directive"
	"github.com/mpyw/fnpolicy/internal/policy"
)

// FuncSpec returns the caller guard declared by d on decl.
func FuncSpec(decl *ast.FuncDecl, d directive.FuncDirectives) (policy.GuardSpec, bool) {
	if d.CalledBy == nil {
		return policy.GuardSpec{}, false
	}
	owner := directive.KeyOf(decl).ReceiverType
	return policy.GuardSpec{
		Kind:           policy.GuardCallers,
		OwnerType:      owner,
		Subject:        decl.Name.Name,
		GuardName:      RoutineName(policy.GuardCallers, owner, decl.Name.Name),
		AllowedCallers: slices.Clone(d.CalledBy.Names),
		Pos:            d.Pos,
	}, true
}

// TypeSpec returns the mutator guard declared by d on spec.
func TypeSpec(spec *ast.TypeSpec, d directive.TypeDirectives) (policy.GuardSpec, bool) {
	if d.MutatedBy == nil {
		return policy.GuardSpec{}, false
	}
	name := spec.Name.Name
	return policy.GuardSpec{
		Kind:           policy.GuardMutators,
		OwnerType:      name,
		Subject:        name,
		GuardName:      RoutineName(policy.GuardMutators, name, name),
		AllowedCallers: slices.Clone(d.MutatedBy.Names),
		Pos:            d.Pos,
	}, true
}

// Specs returns every guard declared in files, sorted by routine name.
// Errors carry the file position of the offending directive.
func Specs(fset *token.FileSet, files []*ast.File) ([]policy.GuardSpec, error) {
	var specs []policy.GuardSpec
	for _, file := range files {
		for _, decl := range file.Decls {
			switch decl := decl.(type) {
			case *ast.FuncDecl:
				d, err := directive.ParseFunc(decl)
				if err != nil {
					return nil, positioned(fset, err)
				}
				if spec, ok := FuncSpec(decl, d); ok {
					specs = append(specs, spec)
				}
			case *ast.GenDecl:
				if decl.Tok != token.TYPE {
					continue
				}
				for _, s := range decl.Specs {
					ts := s.(*ast.TypeSpec)
					d, err := directive.ParseType(decl, ts)
					if err != nil {
						return nil, positioned(fset, err)
					}
					if spec, ok := TypeSpec(ts, d); ok {
						specs = append(specs, spec)
					}
				}
			}
		}
	}

	slices.SortFunc(specs, func(a, b policy.GuardSpec) int {
		return strings.Compare(a.GuardName, b.GuardName)
	})
	for i := 1; i < len(specs); i++ {
		if specs[i].GuardName == specs[i-1].GuardName {
			return nil, fmt.Errorf("%s: guard routine %s is already declared at %s",
				fset.Position(specs[i].Pos), specs[i].GuardName, fset.Position(specs[i-1].Pos))
		}
	}
	return specs, nil
}

func positioned(fset *token.FileSet, err error) error {
	var se *directive.SyntaxError
	if errors.As(err, &se) && se.Pos.IsValid() {
		return fmt.Errorf("%s: %w", fset.Position(se.Pos), err)
	}
	return err
}
