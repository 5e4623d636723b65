// Package configured tests policies loaded from a configuration file.
package configured

import "os"

type Store struct {
	saved bool
	dirty bool
}

func (s *Store) Save() { // want `Store.Save: 2 policy violation\(s\): call to forbidden function .Exit.; mutation to non-whitelisted field .dirty.`
	s.saved = true
	s.dirty = false
	if !s.saved {
		os.Exit(1)
	}
}

func Process() { // want `Process: 2 policy violation\(s\): call to non-whitelisted function .audit.; function .validate. not called`
	helper()
	audit()
}

// Directive rules come before configured ones.
//
//fnpolicy:calls "helper"
func Reset() { // want `Reset: 2 policy violation\(s\): call to non-whitelisted function .Exit.; call to forbidden function .Exit.`
	helper()
	os.Exit(0)
}

// Unconfigured functions are not checked.
func Other() {
	os.Exit(2)
}

func validate() {}
func helper() {}
func audit() {}
