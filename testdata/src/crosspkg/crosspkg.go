// Package crosspkg tests guards declared in an imported package.
package crosspkg

import g "guarded"

func UseTarget(s *g.MyStruct) int {
	return s.TargetFunction() // want `UseTarget calls MyStruct.TargetFunction without registering with MyStructTargetFunctionCallsite`
}

func Registered(s *g.MyStruct) int {
	g.MyStructTargetFunctionCallsite("Registered")
	return s.TargetFunction()
}

func Allowed(s *g.MyStruct) int {
	return s.TargetFunction()
}

func Relabel(s *g.MyStruct, label string) {
	s.Label = label // want `Relabel mutates fields in MyStruct without registering with MyStructMutates`
}

func RelabelRegistered(s *g.MyStruct, label string) {
	defer g.MyStructMutates("RelabelRegistered")
	s.Label = label
}

func RelabelFresh() *g.MyStruct {
	s := g.NewMyStruct("fresh")
	s.Label = "fresh" // want `RelabelFresh mutates fields in MyStruct without registering with MyStructMutates`
	return s
}

type local struct {
	Label string
}

func relabelLocal(l *local) {
	l.Label = "local"
}

func Count(ss []*g.MyStruct) int {
	return len(ss)
}
