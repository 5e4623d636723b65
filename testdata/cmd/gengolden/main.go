// Command gengolden regenerates the golden files of the suggested fixes
// tests by applying every fix the analyzer suggests.
//
// Usage (from the module root):
//
//	go run ./testdata/cmd/gengolden guarded crosspkg
package main

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/analysis/analysistest"

	"github.com/mpyw/fnpolicy"
	"github.com/mpyw/fnpolicy/internal/inject"
)

func main() {
	testdata := analysistest.TestData()
	pkgs := os.Args[1:]
	if len(pkgs) == 0 {
		pkgs = []string{"guarded"}
	}

	for _, pkg := range pkgs {
		files, err := filepath.Glob(filepath.Join(testdata, "src", pkg, "*.go"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		results := analysistest.Run(&noopT{}, testdata, fnpolicy.Analyzer, pkg)
		for _, file := range files {
			if filepath.Base(file) == inject.FileName {
				continue
			}
			fmt.Printf("Generating golden for %s/%s...\n", pkg, filepath.Base(file))
			written, err := generateGoldenFile(results, file)
			if err != nil {
				fmt.Printf("  Error: %v\n", err)
				continue
			}
			if written {
				fmt.Printf("  Created %s.golden\n", filepath.Base(file))
			} else {
				fmt.Printf("  No fixes\n")
			}
		}
	}
}

func generateGoldenFile(results []*analysistest.Result, srcPath string) (bool, error) {
	content, err := os.ReadFile(srcPath)
	if err != nil {
		return false, err
	}

	type offsetEdit struct {
		start   int
		end     int
		newText []byte
	}
	var edits []offsetEdit

	for _, result := range results {
		fset := result.Pass.Fset
		for _, diag := range result.Diagnostics {
			if !sameFile(fset, diag.Pos, srcPath) {
				continue
			}
			for _, fix := range diag.SuggestedFixes {
				for _, e := range fix.TextEdits {
					edits = append(edits, offsetEdit{
						start:   fset.Position(e.Pos).Offset,
						end:     fset.Position(e.End).Offset,
						newText: e.NewText,
					})
				}
			}
		}
	}
	if len(edits) == 0 {
		return false, nil
	}

	// Apply edits in reverse order to keep offsets valid
	sort.Slice(edits, func(i, j int) bool {
		return edits[i].start > edits[j].start
	})

	var out strings.Builder
	rest := string(content)
	var tail []string
	for _, e := range edits {
		tail = append(tail, string(e.newText)+rest[e.end:])
		rest = rest[:e.start]
	}
	out.WriteString(rest)
	for i := len(tail) - 1; i >= 0; i-- {
		out.WriteString(tail[i])
	}

	return true, os.WriteFile(srcPath+".golden", []byte(out.String()), 0o644)
}

func sameFile(fset *token.FileSet, pos token.Pos, path string) bool {
	return filepath.Base(fset.Position(pos).Filename) == filepath.Base(path)
}

type noopT struct{}

func (t *noopT) Errorf(format string, args ...any) {}
