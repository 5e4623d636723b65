package fnpolicy_test

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"

	"github.com/mpyw/fnpolicy"
	"github.com/mpyw/fnpolicy/internal/inject"
)

// TestFixWithGeneratedGuards runs the suggested fixes of the guarded
// fixture against a guard file generated from its directives rather than
// the committed one.
func TestFixWithGeneratedGuards(t *testing.T) {
	testdata := analysistest.TestData()

	// Create a temporary GOPATH with the guarded fixture and guard stub
	tmpDir := t.TempDir()
	copyDir(t, filepath.Join(testdata, "src", "guarded"), filepath.Join(tmpDir, "src", "guarded"), inject.FileName)
	copyDir(t,
		filepath.Join(testdata, "src", "github.com", "mpyw", "fnpolicy", "guard"),
		filepath.Join(tmpDir, "src", "github.com", "mpyw", "fnpolicy", "guard"),
		"",
	)

	// Generate the guard file
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filepath.Join(tmpDir, "src", "guarded", "guarded.go"), nil, parser.ParseComments)
	if err != nil {
		t.Fatal(err)
	}
	specs, err := inject.Specs(fset, []*ast.File{file})
	if err != nil {
		t.Fatal(err)
	}
	generated, err := inject.GenerateFile(file.Name.Name, specs)
	if err != nil {
		t.Fatal(err)
	}

	committed, err := os.ReadFile(filepath.Join(testdata, "src", "guarded", inject.FileName))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(generated, committed) {
		t.Errorf("committed %s is out of date.\ngot:\n%s\nwant:\n%s", inject.FileName, committed, generated)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "src", "guarded", inject.FileName), generated, 0o644); err != nil {
		t.Fatal(err)
	}

	// Run test with suggested fixes
	analysistest.RunWithSuggestedFixes(t, tmpDir, fnpolicy.Analyzer, "guarded")
}

// copyDir copies the regular files of src into dst, except skip.
func copyDir(t *testing.T, src, dst, skip string) {
	t.Helper()

	if err := os.MkdirAll(dst, 0o755); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.IsDir() || e.Name() == skip {
			continue
		}
		data, err := os.ReadFile(filepath.Join(src, e.Name()))
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dst, e.Name()), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
}
