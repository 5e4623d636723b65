// Package malformed tests directive syntax errors.
package malformed

//fnpolicy:nocalls "panic", // want `malformed fnpolicy:nocalls directive: expected string literal after ","`
func trailingComma() {
	panic("not analyzed")
}

type Counter struct {
	n int
}

//fnpolicy:mutates Counter ("n") // want `malformed fnpolicy:mutates directive: missing colon after type name, found "\("`
func missingColon(c *Counter) {
	c.n = 1
}

//fnpolicy:calls ("a", "b" // want `malformed fnpolicy:calls directive: unterminated list`
func unterminated() {}

//fnpolicy:calls exit // want `malformed fnpolicy:calls directive: expected string literal, found exit`
func bareIdent() {}

//fnpolicy:frobnicate "x" // want `malformed fnpolicy:frobnicate directive: unknown directive`
func unknown() {}

//fnpolicy:mutatedby "Open" // want `malformed fnpolicy:mutatedby directive: applies to type declarations, not functions`
func misplacedMutatedBy() {}

//fnpolicy:calledby "a"
//fnpolicy:calledby "b" // want `malformed fnpolicy:calledby directive: duplicate directive`
func duplicate() {}

//fnpolicy:calls "helper" // want `malformed fnpolicy:calls directive: applies to function declarations, not types`
type misplacedCalls struct{}

//fnpolicy:nomutates Counter: ("n")
func valid(c *Counter) { // want `valid: 1 policy violation\(s\): mutation to forbidden field .n.`
	c.n = 2
}
