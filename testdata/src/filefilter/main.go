// Package filefilter tests which files are analyzed.
// Generated files are skipped (see generated.go) and test files are
// analyzed like any other file (see code_test.go).
package filefilter

import "os"

//fnpolicy:nocalls "Exit"
func shutdown() { // want `shutdown: 1 policy violation\(s\): call to forbidden function .Exit.`
	os.Exit(1)
}
