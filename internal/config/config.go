// Package config loads the fnpolicy configuration file.
//
// The file attaches the same policies as the source directives to
// functions named by key, and excludes files from analysis:
//
//	exclude: ["*_mock.go"]
//	functions:
//	  "MyStruct.Process":
//	    calls: [helper]
//	    nocalls: [os.Exit]
//	    mustcall: [validate]
//	    mutates: {MyStruct: [count]}
//	    nomutates: {MyStruct: [id]}
//	    consumes: [MyStruct]
//
// Policies from the file are merged with directive policies, never
// substituted for them.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"go/token"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/mpyw/fnpolicy/internal/policy"
)

// Config is the root of the configuration file.
type Config struct {
	// Exclude lists base-name globs of files to skip, like generated files.
	Exclude []string `yaml:"exclude" json:"exclude,omitempty" validate:"dive,required,glob" jsonschema:"description=Base-name globs of files to skip"`
	// Functions maps "Func" or "Recv.Method" to its policies.
	Functions map[string]FunctionConfig `yaml:"functions" json:"functions,omitempty" validate:"dive,keys,funckey,endkeys" jsonschema:"description=Policies keyed by Func or Recv.Method"`
}

// FunctionConfig holds the policies of one function.
type FunctionConfig struct {
	Calls     []string            `yaml:"calls" json:"calls,omitempty" validate:"dive,required"`
	NoCalls   []string            `yaml:"nocalls" json:"nocalls,omitempty" validate:"dive,required"`
	MustCall  []string            `yaml:"mustcall" json:"mustcall,omitempty" validate:"dive,required"`
	Mutates   map[string][]string `yaml:"mutates" json:"mutates,omitempty" validate:"dive,keys,required,endkeys,min=1"`
	NoMutates map[string][]string `yaml:"nomutates" json:"nomutates,omitempty" validate:"dive,keys,required,endkeys,min=1"`
	Consumes  []string            `yaml:"consumes" json:"consumes,omitempty" validate:"dive,required"`
}

// validate is shared; validator instances cache struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("funckey", func(fl validator.FieldLevel) bool {
		return isFuncKey(fl.Field().String())
	})
	_ = v.RegisterValidation("glob", func(fl validator.FieldLevel) bool {
		_, err := filepath.Match(fl.Field().String(), "x")
		return err == nil
	})
	return v
}

// isFuncKey reports whether key has the form "Func" or "Recv.Func".
func isFuncKey(key string) bool {
	parts := strings.Split(key, ".")
	if len(parts) > 2 {
		return false
	}
	for _, p := range parts {
		if !token.IsIdentifier(p) {
			return false
		}
	}
	return true
}

// =============================================================================
// Loading
// =============================================================================

type entry struct {
	once sync.Once
	cfg  *Config
	err  error
}

// cache holds one entry per path; analysis passes of every package share
// the parsed file.
var cache sync.Map

// Load reads and validates the file at path. An empty path yields a nil
// *Config, which has no policies and excludes nothing. Results are cached
// per path for the life of the process.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}
	v, _ := cache.LoadOrStore(path, &entry{})
	e := v.(*entry)
	e.once.Do(func() {
		e.cfg, e.err = load(path)
	})
	return e.cfg, e.err
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes and validates data. name is used in error messages.
// Unknown keys are errors.
func Parse(name string, data []byte) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unmarshal %s: %w", name, err)
	}
	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("validate %s: %w", name, err)
	}
	return &c, nil
}

// =============================================================================
// Queries
// =============================================================================

// Rules returns the policies configured for key ("Func" or
// "Recv.Method"). Call names compare by their final segment, so "os.Exit"
// is stored as "Exit".
func (c *Config) Rules(key string) policy.Rules {
	if c == nil {
		return policy.Rules{}
	}
	fc, ok := c.Functions[key]
	if !ok {
		return policy.Rules{}
	}

	var r policy.Rules
	for _, list := range []struct {
		names []string
		mode  policy.Mode
	}{
		{fc.Calls, policy.Allow},
		{fc.NoCalls, policy.Deny},
		{fc.MustCall, policy.MustCallAll},
	} {
		if len(list.names) == 0 {
			continue
		}
		names := make([]string, len(list.names))
		for i, n := range list.names {
			names[i] = policy.CallName(n)
		}
		r.Calls = append(r.Calls, policy.CallSpec{Names: names, Mode: list.mode})
	}
	r.Fields = append(r.Fields, fieldSpecs(fc.Mutates, policy.Allow)...)
	r.Fields = append(r.Fields, fieldSpecs(fc.NoMutates, policy.Deny)...)
	r.Consumes = slices.Clone(fc.Consumes)
	return r
}

// fieldSpecs converts a type→fields map, ordered by type name.
func fieldSpecs(m map[string][]string, mode policy.Mode) []policy.FieldSpec {
	var specs []policy.FieldSpec
	for _, typ := range slices.Sorted(maps.Keys(m)) {
		specs = append(specs, policy.FieldSpec{TypeName: typ, Names: slices.Clone(m[typ]), Mode: mode})
	}
	return specs
}

// Excluded reports whether the base name of filename matches an exclude
// glob.
func (c *Config) Excluded(filename string) bool {
	if c == nil {
		return false
	}
	base := filepath.Base(filename)
	for _, pattern := range c.Exclude {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// =============================================================================
// Schema
// =============================================================================

// Schema returns the JSON schema of the configuration file.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
	}
	out, err := json.MarshalIndent(reflector.Reflect(&Config{}), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return out, nil
}
