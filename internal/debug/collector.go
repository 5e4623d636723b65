package debug

import (
	"fmt"
	"go/token"
	"io"
	"regexp"

	"github.com/mpyw/fnpolicy/internal/tree"
)

// Collector gathers Info for the functions whose key matches a filter.
// A Collector without a filter is disabled and hands out nil *Info.
type Collector struct {
	filter *regexp.Regexp
	fset   *token.FileSet
	infos  []*Info
}

// NewCollector creates a Collector. An empty filter disables collection.
func NewCollector(fset *token.FileSet, filter string) (*Collector, error) {
	c := &Collector{fset: fset}
	if filter == "" {
		return c, nil
	}
	re, err := regexp.Compile(filter)
	if err != nil {
		return nil, fmt.Errorf("invalid debug filter regex: %w", err)
	}
	c.filter = re
	return c, nil
}

// Begin starts collecting for the function identified by key, or returns
// nil when the function is not selected.
func (c *Collector) Begin(key string, fn *tree.Func) *Info {
	if c == nil || c.filter == nil || !c.filter.MatchString(key) {
		return nil
	}
	info := &Info{Key: key, Func: fn}
	c.infos = append(c.infos, info)
	return info
}

// Flush writes every collected Info to w in collection order and resets
// the collector.
func (c *Collector) Flush(w io.Writer) {
	if c == nil {
		return
	}
	for _, info := range c.infos {
		fmt.Fprintf(w, "\n=== Debug output for %s ===\n", info.Key)
		fmt.Fprint(w, Format(info, c.fset))
	}
	c.infos = nil
}
