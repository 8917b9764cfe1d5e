package hdl

import (
	"fmt"
	"strings"
)

// Binding is one name/value pair of a module declaration.
type Binding struct {
	Name  string
	Value any
}

// Bind returns a Binding.
func Bind(name string, val any) Binding { return Binding{Name: name, Value: val} }

// Decl is a declarative module body: a flat, ordered list of bindings.
//
// Bindings whose names start with "_" are scratch values and are dropped;
// names starting with "__" are reserved and dropped the same way. All
// others are assigned with Module.Set in order.
type Decl struct {
	Name     string
	Bases    []string // must be empty: modules cannot extend other modules
	Bindings []Binding
	Source   SourceInfo // zero means the caller of Define
}

// Define builds a Module from d.
//
//	inv, err := hdl.Define(hdl.Decl{
//		Name: "Inv",
//		Bindings: []hdl.Binding{
//			hdl.Bind("i", hdl.Input()),
//			hdl.Bind("o", hdl.Output()),
//			hdl.Bind("_w", 4), // dropped
//		},
//	})
func Define(d Decl) (*Module, error) {
	if len(d.Bases) > 0 {
		return nil, fmt.Errorf("%w: module %s inherits from %s",
			ErrSubtypingDisallowed, displayName(d.Name), strings.Join(d.Bases, ", "))
	}

	si := d.Source
	if si.IsZero() {
		si = callerSourceInfo(1)
	}
	m := newModule(d.Name, si, nil)

	for _, b := range d.Bindings {
		if isInternal(b.Name) {
			continue
		}
		if err := m.Set(b.Name, b.Value); err != nil {
			return nil, fmt.Errorf("module %s, binding %q: %w", displayName(d.Name), b.Name, err)
		}
	}
	return m, nil
}
