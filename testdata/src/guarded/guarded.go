// Package guarded tests calledby and mutatedby guards within one package.
package guarded

//fnpolicy:mutatedby "AllowedMutate", "NewMyStruct"
type MyStruct struct { // want MyStruct:"mutatedby AllowedMutate,NewMyStruct"
	count int
	name  string
	Label string
}

func NewMyStruct(name string) *MyStruct {
	s := &MyStruct{}
	s.name = name
	return s
}

//fnpolicy:calledby "Allowed", "AllowedMutate"
func (s *MyStruct) TargetFunction() int { // want TargetFunction:"calledby Allowed,AllowedMutate"
	return s.count
}

// =============================================================================
// Callers
// =============================================================================

func Allowed(s *MyStruct) int {
	return s.TargetFunction()
}

func OutsideCaller(s *MyStruct) int {
	MyStructTargetFunctionCallsite("OutsideCaller")
	return s.TargetFunction()
}

func MissingRegistration(s *MyStruct) int {
	return s.TargetFunction() // want `MissingRegistration calls MyStruct.TargetFunction without registering with MyStructTargetFunctionCallsite`
}

func WrongLiteral(s *MyStruct) int {
	MyStructTargetFunctionCallsite("Allowed") // want `MyStructTargetFunctionCallsite registered as "Allowed" in WrongLiteral`
	return s.TargetFunction()
}

func NonLiteral(s *MyStruct) int {
	name := "NonLiteral"
	MyStructTargetFunctionCallsite(name) // want `MyStructTargetFunctionCallsite must be passed the string literal "NonLiteral"`
	return s.TargetFunction()
}

func InClosure(s *MyStruct) func() int {
	run := func() int {
		return s.TargetFunction() // want `InClosure calls MyStruct.TargetFunction without registering with MyStructTargetFunctionCallsite`
	}
	return run
}

func CalledTwice(s *MyStruct) int {
	n := s.TargetFunction() // want `CalledTwice calls MyStruct.TargetFunction without registering`
	return n + s.TargetFunction()
}

// =============================================================================
// Mutators
// =============================================================================

func AllowedMutate(s *MyStruct) {
	s.count++
	s.TargetFunction()
}

func OutsideMutate(s *MyStruct) {
	defer MyStructMutates("OutsideMutate")
	s.count = 0
}

func MissingMutatorRegistration(s *MyStruct) {
	s.count = 0 // want `MissingMutatorRegistration mutates fields in MyStruct without registering with MyStructMutates`
	s.name = ""
}

func Rename(s *MyStruct, name string) {
	defer MyStructMutates("Other") // want `MyStructMutates registered as "Other" in Rename`
	s.name = name
}

func Fresh() *MyStruct {
	s := NewMyStruct("fresh")
	s.Label = "new" // want `Fresh mutates fields in MyStruct without registering with MyStructMutates`
	return s
}

type other struct {
	n int
}

func (o *other) bump(s *MyStruct) int {
	o.n++
	return s.count
}

func readOnly(s *MyStruct) string {
	if s.name == "" {
		return s.Label
	}
	return s.name
}

//fnpolicy:ignore
func ignoredMutation(s *MyStruct) {
	s.count = -1
}

func ignoredLine(s *MyStruct) {
	//fnpolicy:ignore
	s.count = -2
}

func count(ss []*MyStruct) int {
	return len(ss)
}
