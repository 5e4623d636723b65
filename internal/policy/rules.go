package policy

import "slices"

// Rules are the static policies attached to one function, from directives
// and from the configuration file.
type Rules struct {
	Calls    []CallSpec
	Fields   []FieldSpec
	Consumes []string
}

// Merge returns the union of r and o. Rules are never overridden: a
// function with both a directive and a config entry is checked against
// both.
func (r Rules) Merge(o Rules) Rules {
	return Rules{
		Calls:    slices.Concat(r.Calls, o.Calls),
		Fields:   slices.Concat(r.Fields, o.Fields),
		Consumes: slices.Concat(r.Consumes, o.Consumes),
	}
}
