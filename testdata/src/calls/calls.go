// Package calls tests call policies.
package calls

import (
	"fmt"
	"os"
	"strings"
)

func helper()   {}
func validate() {}
func audit()    {}

type client struct{}

func (client) Send()  {}
func (client) Close() {}

// =============================================================================
// Allow
// =============================================================================

//fnpolicy:calls "helper", "validate"
func onlyWhitelisted() {
	helper()
	validate()
}

//fnpolicy:calls "helper"
func callsOutside() { // want `callsOutside: 2 policy violation\(s\): call to non-whitelisted function .validate.; call to non-whitelisted function .Println.`
	helper()
	validate()
	validate()
	fmt.Println("x")
}

//fnpolicy:calls "helper"
func conversionsAreNotCalls(b []byte) string {
	helper()
	return string(b)
}

//fnpolicy:calls ("TrimSpace")
func builtinsAreCalls(s string) int { // want `builtinsAreCalls: 1 policy violation\(s\): call to non-whitelisted function .len.`
	return len(strings.TrimSpace(s))
}

//fnpolicy:calls "Send"
func argumentsAndClosures(c client) { // want `argumentsAndClosures: 2 policy violation\(s\): call to non-whitelisted function .Sprint.; call to non-whitelisted function .helper.`
	c.Send()
	_ = fmt.Sprint(func() int {
		helper()
		return 0
	}())
}

// =============================================================================
// Deny
// =============================================================================

//fnpolicy:nocalls "Exit"
func neverExits() { // want `neverExits: 1 policy violation\(s\): call to forbidden function .Exit.`
	defer func() {
		os.Exit(1)
	}()
	if false {
		os.Exit(2)
	}
}

//fnpolicy:nocalls "os.Exit"
func qualifiedName() { // want `qualifiedName: 1 policy violation\(s\): call to forbidden function .Exit.`
	os.Exit(1)
}

//fnpolicy:mustcall "strings.TrimSpace"
func qualifiedMustCall(s string) string {
	return strings.TrimSpace(s)
}

//fnpolicy:nocalls "Close"
func useClient(c client) { // want `useClient: 1 policy violation\(s\): call to forbidden function .Close.`
	c.Send()
	c.Close()
}

//fnpolicy:nocalls "Exit"
func callsThroughValue(fns []func()) {
	exit := os.Exit
	_ = exit
	fns[0]()
}

// =============================================================================
// Must call
// =============================================================================

//fnpolicy:mustcall "validate", "audit"
func mustValidate() { // want `mustValidate: 1 policy violation\(s\): function .audit. not called`
	if false {
		validate()
	}
	helper()
}

//fnpolicy:mustcall "validate"
func validatesInLoop(items []string) {
	for range items {
		validate()
	}
}

// =============================================================================
// Combined
// =============================================================================

//fnpolicy:calls "helper", "validate"
//fnpolicy:nocalls "validate"
//fnpolicy:mustcall "audit"
func combined() { // want `combined: 2 policy violation\(s\): call to forbidden function .validate.; function .audit. not called`
	helper()
	validate()
}

//fnpolicy:consumes "client", "Builder"
func consumes(c client) { // want `consumes: 1 policy violation\(s\): type .Builder. is not consumed`
	c.Send()
}

//fnpolicy:consumes "strings.Builder"
func consumesPointer(b *strings.Builder) {
	_ = b
}

// =============================================================================
// Ignore
// =============================================================================

//fnpolicy:nocalls "Exit"
func ignoredLine() {
	//fnpolicy:ignore
	os.Exit(1)
}

//fnpolicy:ignore
//fnpolicy:nocalls "Exit"
func ignoredFunc() {
	os.Exit(1)
}

func unusedIgnore() {
	//fnpolicy:ignore // want "unused fnpolicy:ignore directive"
	helper()
}
