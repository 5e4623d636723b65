// Package mutates tests field mutation policies.
package mutates

type Counter struct {
	count int
	hits  int
	id    string
}

type label struct {
	id string
}

func NewCounter() *Counter { return &Counter{} }

//fnpolicy:mutates Counter: ("count")
func (c *Counter) Inc() {
	c.count++
	_ = c.id
}

//fnpolicy:mutates Counter: ("count")
func (c *Counter) Reset() { // want `Reset: 2 policy violation\(s\): mutation to non-whitelisted field .hits.; mutation to non-whitelisted field .id.`
	c.count = 0
	c.hits = 0
	c.id = ""
	c.hits = 1
}

//fnpolicy:nomutates Counter: ("id")
func rebuild(c *Counter) { // want `rebuild: 1 policy violation\(s\): mutation to forbidden field .id.`
	c.count = 1
	fresh := NewCounter()
	fresh.id = "x"
}

//fnpolicy:nomutates Counter: ("id")
func literals() { // want `literals: 1 policy violation\(s\): mutation to forbidden field .id.`
	var a Counter
	a.count = 1
	b := &Counter{}
	b.id = "b"
	n := new(Counter)
	n.hits++
}

//fnpolicy:nomutates Counter: ("id")
func shadowed(c *Counter) {
	c.count = 1
	{
		c := label{}
		c.id = "block local"
	}
	func(c *label) {
		c.id = "closure parameter"
	}(&label{})
	for _, c := range []label{{}} {
		c.id = "range variable"
	}
}

//fnpolicy:nomutates Counter: ("id")
func inClosure() { // want `inClosure: 1 policy violation\(s\): mutation to forbidden field .id.`
	run := func() {
		c := &Counter{}
		c.id = "x"
	}
	run()
}

//fnpolicy:nomutates Counter: ("id")
func reads(c *Counter) string {
	if c.id == "" {
		return c.id
	}
	other := label{}
	other.id = c.id
	return other.id
}

//fnpolicy:mutates Counter: ("count")
func resetAll(cs []*Counter) { // want `unsupported construct: parameter cs \[\]\*Counter holds Counter as a container element`
	for _, c := range cs {
		c.count = 0
	}
}

//fnpolicy:mutates Counter: ()
func (c *Counter) frozen() { // want `frozen: 1 policy violation\(s\): mutation to non-whitelisted field .count.`
	c.count--
}
