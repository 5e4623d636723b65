package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"

	"github.com/mpyw/fnpolicy/internal/inject"
)

var (
	// errStale is returned by --check when a guard file differs from the
	// generated output.
	errStale = errors.New("guard file is out of date")

	// errNotGenerated is returned when fnpolicy_guard.go exists but was
	// not written by this command.
	errNotGenerated = errors.New("refusing to overwrite a file without the generated header")
)

// generator writes or checks the guard files of a set of packages.
type generator struct {
	logger *slog.Logger
	check  bool
}

// generate processes every package matching patterns, one goroutine per
// package. All package errors are returned joined.
func (g *generator) generate(ctx context.Context, dir string, patterns []string) error {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedFiles,
		Dir:     dir,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return fmt.Errorf("packages.Load: %w", err)
	}

	errs := make([]error, len(pkgs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, pkg := range pkgs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			errs[i] = g.generatePackage(pkg)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	return errors.Join(errs...)
}

func (g *generator) generatePackage(pkg *packages.Package) error {
	for _, e := range pkg.Errors {
		g.logger.Warn("package error", "package", pkg.PkgPath, "error", e.Msg)
	}
	if len(pkg.GoFiles) == 0 {
		return nil
	}

	// Parsed from GoFiles: the guard import of a generated file may not
	// resolve yet.
	fset := token.NewFileSet()
	files := make([]*ast.File, 0, len(pkg.GoFiles))
	for _, name := range pkg.GoFiles {
		f, err := parser.ParseFile(fset, name, nil, parser.ParseComments)
		if err != nil {
			return fmt.Errorf("%s: %w", pkg.PkgPath, err)
		}
		files = append(files, f)
	}

	specs, err := inject.Specs(fset, files)
	if err != nil {
		return fmt.Errorf("%s: %w", pkg.PkgPath, err)
	}
	path := filepath.Join(filepath.Dir(pkg.GoFiles[0]), inject.FileName)
	src, err := inject.GenerateFile(pkg.Name, specs)
	if err != nil {
		return fmt.Errorf("%s: %w", pkg.PkgPath, err)
	}

	current, err := os.ReadFile(path)
	exists := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if exists && !isGenerated(path, current) {
		return fmt.Errorf("%s: %w", path, errNotGenerated)
	}

	switch {
	case src == nil && !exists:
		g.logger.Debug("no guards", "package", pkg.PkgPath)
		return nil
	case exists && bytes.Equal(current, src):
		g.logger.Debug("up to date", "package", pkg.PkgPath, "file", path)
		return nil
	case g.check:
		return fmt.Errorf("%s: %w", path, errStale)
	case src == nil:
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
		g.logger.Info("removed", "package", pkg.PkgPath, "file", path)
		return nil
	}

	if err := os.WriteFile(path, src, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	g.logger.Info("generated", "package", pkg.PkgPath, "file", path, "routines", len(specs))
	return nil
}

// isGenerated reports whether src, the content of the guard file at path,
// carries the generated header.
func isGenerated(path string, src []byte) bool {
	f, err := parser.ParseFile(token.NewFileSet(), path, src, parser.ParseComments|parser.PackageClauseOnly)
	return err == nil && inject.IsGuardFile(f)
}
