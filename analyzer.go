// Package fnpolicy provides a static analysis tool that verifies
// declarative policies attached to Go functions and types.
//
// Policies are written as directives in doc comments, or in a YAML
// configuration file keyed by function name:
//
//	//fnpolicy:calls "helper", "validate"        only these calls
//	//fnpolicy:nocalls "Exit"                     never these calls
//	//fnpolicy:mustcall "validate"                at least these calls
//	//fnpolicy:mutates MyStruct: ("count")        only these field writes
//	//fnpolicy:nomutates MyStruct: ("id")         never these field writes
//	//fnpolicy:consumes "MyStruct"                takes these types
//	//fnpolicy:calledby "Allowed"                 only these callers (runtime guard)
//	//fnpolicy:mutatedby "Reset"                  only these mutators (runtime guard, on types)
//
// Each function violating a policy gets one diagnostic listing every
// violation. Caller-identity policies are enforced at run time by routines
// that fnpolicy-guard generates; the analyzer makes sure every caller or
// mutator outside the allow-list registers with them, and suggests the
// registration statement as a fix.
package fnpolicy

import (
	"golang.org/x/tools/go/analysis"

	"github.com/mpyw/fnpolicy/internal"
	"github.com/mpyw/fnpolicy/internal/config"
	"github.com/mpyw/fnpolicy/internal/inject"
)

var (
	configPath  string
	debugFilter string
)

// Analyzer is the main analyzer for fnpolicy.
var Analyzer = &analysis.Analyzer{
	Name:      "fnpolicy",
	Doc:       "verifies call, mutation and caller-identity policies declared on functions and types",
	URL:       "https://github.com/mpyw/fnpolicy",
	Run:       run,
	FactTypes: []analysis.Fact{new(inject.GuardFact)},
}

func init() {
	Analyzer.Flags.StringVar(&configPath, "config", "", "path to a fnpolicy YAML configuration file")
	Analyzer.Flags.StringVar(&debugFilter, "debug", "", "dump the analysis of functions whose key (Func or Recv.Method) matches this regexp to stderr")
}

func run(pass *analysis.Pass) (any, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return nil, internal.Run(pass, cfg, debugFilter)
}
