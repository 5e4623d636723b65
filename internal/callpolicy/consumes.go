package callpolicy

import (
	"github.com/mpyw/fnpolicy/internal/policy"
	"github.com/mpyw/fnpolicy/internal/tree"
	"github.com/mpyw/fnpolicy/internal/typeutil"
)

// CheckConsumes reports every type in types that none of fn's parameters
// (receiver included) is declared with. Pointers and instantiation are
// stripped before comparing.
func CheckConsumes(fn *tree.Func, types []string) []policy.Violation {
	params := fn.Params
	if fn.Recv != nil {
		params = append([]tree.Param{*fn.Recv}, params...)
	}

	var set policy.Set
	for _, want := range types {
		found := false
		for _, p := range params {
			if typeutil.Matches(p.Type, want) {
				found = true
				break
			}
		}
		if !found {
			set.Add(policy.Violation{Kind: policy.TypeNotConsumed, Subject: want, Pos: fn.Pos})
		}
	}
	return set.Violations()
}
