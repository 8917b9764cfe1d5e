// Package ast provides format-agnostic types for parsed hardware
// definitions: modules, external modules and bundles.
package ast

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/hdl21/hdl21/hdl"
)

// Pos is a source location.
type Pos struct {
	File string
	Line int // 1-based, 0 if unknown
}

// File is the parsed content of one definition file.
type File struct {
	Path      string
	Modules   []*ModuleDef
	Externals []*ExternalDef
	Bundles   []*BundleDef
}

// Names returns every module and external module name defined in the file,
// in declaration order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Modules)+len(f.Externals))
	for _, e := range f.Externals {
		names = append(names, e.Name)
	}
	for _, m := range f.Modules {
		names = append(names, m.Name)
	}
	return names
}

// ModuleDef is a module body: an ordered list of items.
type ModuleDef struct {
	Name    string
	Extends []string // rejected at lowering
	Items   []Item
	Pos     Pos
}

// References returns the names of everything the module depends on:
// instance targets and bundle definitions, without duplicates.
func (m *ModuleDef) References() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(name string) {
		if _, ok := seen[name]; ok || name == "" {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, item := range m.Items {
		switch it := item.(type) {
		case *InstanceDef:
			add(it.Of)
			add(it.Bundle)
		case *BundleInstDef:
			add(it.Of)
		}
	}
	return out
}

// Item is one entry of a module body. Implementations: *SignalDef,
// *InstanceDef, *BundleInstDef and *PrivateDef.
type Item interface {
	ItemName() string
	ItemPos() Pos
}

// SignalDef declares a signal or port.
type SignalDef struct {
	Name      string
	Width     int
	Port      bool
	Direction hdl.PortDir
	Desc      string
	Pos       Pos
}

// InstanceDef declares an instance, instance array (Count > 0) or
// instance bundle (Bundle != "").
type InstanceDef struct {
	Name        string
	Of          string
	Params      cty.Value // null when absent
	Count       int
	Bundle      string
	Connections []Connection
	Pos         Pos
}

// BundleInstDef declares a bundle instance.
type BundleInstDef struct {
	Name string
	Of   string
	Port bool
	Pos  Pos
}

// PrivateDef is a "_"-prefixed binding. It is never attached to a module.
type PrivateDef struct {
	Name  string
	Value cty.Value
	Pos   Pos
}

func (d *SignalDef) ItemName() string     { return d.Name }
func (d *SignalDef) ItemPos() Pos         { return d.Pos }
func (d *InstanceDef) ItemName() string   { return d.Name }
func (d *InstanceDef) ItemPos() Pos       { return d.Pos }
func (d *BundleInstDef) ItemName() string { return d.Name }
func (d *BundleInstDef) ItemPos() Pos     { return d.Pos }
func (d *PrivateDef) ItemName() string    { return d.Name }
func (d *PrivateDef) ItemPos() Pos        { return d.Pos }

// Connection binds an instance port to one or more references. More than
// one reference forms a concatenation, first reference least significant.
type Connection struct {
	Port string
	Refs []Ref
	Pos  Pos
}

// Ref names a signal, optionally narrowed by successive indices:
// "d", "d[3]", "d[2:6][0]".
type Ref struct {
	Signal  string
	Indices []hdl.Index
}

// ExternalDef declares an external module.
type ExternalDef struct {
	Name   string
	Desc   string
	Domain string
	Params string // "none", "dict", or "" for the default
	Ports  []*SignalDef
	Pos    Pos
}

// BundleDef declares a bundle.
type BundleDef struct {
	Name    string
	Signals []*SignalDef
	Pos     Pos
}
