package inject

import (
	"bytes"
	"fmt"
	"go/ast"
	"strconv"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/mpyw/fnpolicy/internal/policy"
)

const (
	// FileName is the name of the generated guard file in each package.
	FileName = "fnpolicy_guard.go"

	// GuardPackage is the import path of the runtime guard package.
	GuardPackage = "github.com/mpyw/fnpolicy/guard"

	generatedHeader = "// Code generated by fnpolicy-guard. DO NOT EDIT."
)

// GenerateFile renders the guard routines of specs as a Go source file of
// package pkgName. The output is gofmt-formatted and depends only on the
// order of specs. Returns nil for no specs.
func GenerateFile(pkgName string, specs []policy.GuardSpec) ([]byte, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n\npackage %s\n\nimport %q\n", generatedHeader, pkgName, GuardPackage)
	for _, spec := range specs {
		writeRoutine(&buf, spec)
	}

	out, err := imports.Process(FileName, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("format %s of package %s: %w", FileName, pkgName, err)
	}
	return out, nil
}

func writeRoutine(buf *bytes.Buffer, spec policy.GuardSpec) {
	kind, verb := "guard.Callers", "calls to"
	if spec.Kind == policy.GuardMutators {
		kind, verb = "guard.Mutators", "field writes of"
	}

	args := []string{kind, strconv.Quote(spec.QualifiedSubject())}
	for _, caller := range spec.AllowedCallers {
		args = append(args, strconv.Quote(caller))
	}

	fmt.Fprintf(buf, "\n// %s guards %s %s.\n", spec.GuardName, verb, spec.QualifiedSubject())
	fmt.Fprintf(buf, "func %s(caller string) {\n", spec.GuardName)
	fmt.Fprintf(buf, "\tguard.New(%s).Check(caller)\n", strings.Join(args, ", "))
	buf.WriteString("}\n")
}

// IsGuardFile reports whether file is a guard file written by GenerateFile.
func IsGuardFile(file *ast.File) bool {
	if len(file.Comments) == 0 {
		return false
	}
	for _, c := range file.Comments[0].List {
		if c.Text == generatedHeader {
			return true
		}
	}
	return false
}
