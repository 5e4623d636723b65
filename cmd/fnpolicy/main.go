// Command fnpolicy verifies the policies declared on Go functions and
// types.
//
// Usage:
//
//	fnpolicy ./...
//	fnpolicy -config=fnpolicy.yaml ./...
//
// Or as a vet tool:
//
//	go vet -vettool=$(which fnpolicy) ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/mpyw/fnpolicy"
)

func main() {
	singlechecker.Main(fnpolicy.Analyzer)
}
