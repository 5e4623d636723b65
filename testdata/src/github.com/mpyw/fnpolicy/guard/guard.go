// Package guard is a stub of the runtime guard package for testing purposes.
package guard

// Kind selects what a Guard protects.
type Kind int

const (
	Callers Kind = iota
	Mutators
)

// Guard checks caller names against an allow-list.
type Guard struct {
	allowed []string
}

// New creates a Guard.
func New(kind Kind, subject string, allowed ...string) *Guard {
	return &Guard{allowed: allowed}
}

// Check panics unless caller is allowed.
func (g *Guard) Check(caller string) {
	for _, a := range g.allowed {
		if a == caller {
			return
		}
	}
	panic("unauthorized caller: " + caller)
}
