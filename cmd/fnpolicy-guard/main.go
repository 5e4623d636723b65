// Command fnpolicy-guard generates the runtime guard routines declared by
// //fnpolicy:calledby and //fnpolicy:mutatedby directives.
//
// Usage:
//
//	fnpolicy-guard ./...
//	fnpolicy-guard --check ./...      # fail when a guard file is out of date
//	fnpolicy-guard -C path/to/module ./...
//
// For each package with guards it writes fnpolicy_guard.go next to the
// package sources; a guard file of a package without guards is removed.
// A fnpolicy_guard.go without the generated header is never touched.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// options are the command line flags.
type options struct {
	check    bool
	logLevel string
	dir      string
}

// usageError marks a command line mistake, as opposed to a generation
// failure.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command and returns the exit code: 2 for usage errors,
// 1 for generation failures.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stderr)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	var uerr *usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &uerr):
		fmt.Fprintf(stderr, "Error: %v\nRun '%s --help' for usage.\n", err, cmd.Name())
		return 2
	default:
		return 1
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "fnpolicy-guard [flags] [packages]",
		Short: "Generate fnpolicy runtime guard routines",
		Long: `fnpolicy-guard writes fnpolicy_guard.go for every package that declares
//fnpolicy:calledby or //fnpolicy:mutatedby guards. Packages default to ".".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
				return &usageError{fmt.Errorf("invalid --log-level: %w", err)}
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			if len(args) == 0 {
				args = []string{"."}
			}
			g := &generator{logger: logger, check: opts.check}
			if err := g.generate(cmd.Context(), opts.dir, args); err != nil {
				logger.Error("generation failed", "error", err)
				return err
			}
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	cmd.Flags().BoolVar(&opts.check, "check", false, "report out-of-date guard files instead of writing them")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().StringVarP(&opts.dir, "dir", "C", "", "run in this directory")
	return cmd
}
