package main

import (
	"fmt"
	"strings"

	"github.com/hdl21/hdl21"
	"github.com/hdl21/hdl21/hdl"
)

// DumpOutput is the top-level output for the dump command.
type DumpOutput struct {
	Bundles     []BundleJSON     `json:"bundles,omitempty" yaml:"bundles,omitempty"`
	Externals   []ExternalJSON   `json:"externals,omitempty" yaml:"externals,omitempty"`
	Modules     []ModuleJSON     `json:"modules,omitempty" yaml:"modules,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// ModuleJSON holds the serializable form of a Module.
type ModuleJSON struct {
	Name      string           `json:"name" yaml:"name"`
	QualName  string           `json:"qualName,omitempty" yaml:"qualName,omitempty"`
	Source    string           `json:"source,omitempty" yaml:"source,omitempty"`
	Ports     []SignalJSON     `json:"ports,omitempty" yaml:"ports,omitempty"`
	Signals   []SignalJSON     `json:"signals,omitempty" yaml:"signals,omitempty"`
	Bundles   []BundleInstJSON `json:"bundles,omitempty" yaml:"bundles,omitempty"`
	Instances []InstanceJSON   `json:"instances,omitempty" yaml:"instances,omitempty"`
}

// SignalJSON holds a port or internal signal.
type SignalJSON struct {
	Name      string `json:"name" yaml:"name"`
	Width     int    `json:"width" yaml:"width"`
	Direction string `json:"direction,omitempty" yaml:"direction,omitempty"`
	Desc      string `json:"desc,omitempty" yaml:"desc,omitempty"`
}

// BundleInstJSON holds a bundle instance.
type BundleInstJSON struct {
	Name string `json:"name" yaml:"name"`
	Of   string `json:"of" yaml:"of"`
	Port bool   `json:"port,omitempty" yaml:"port,omitempty"`
}

// InstanceJSON holds an instance, instance array or instance bundle.
type InstanceJSON struct {
	Name        string           `json:"name" yaml:"name"`
	Kind        string           `json:"kind" yaml:"kind"`
	Of          string           `json:"of" yaml:"of"`
	N           int              `json:"n,omitempty" yaml:"n,omitempty"`
	Bundle      string           `json:"bundle,omitempty" yaml:"bundle,omitempty"`
	Params      any              `json:"params,omitempty" yaml:"params,omitempty"`
	Connections []ConnectionJSON `json:"connections,omitempty" yaml:"connections,omitempty"`
}

// ConnectionJSON holds one port connection, written as it would be in a
// definition file.
type ConnectionJSON struct {
	Port  string `json:"port" yaml:"port"`
	Value string `json:"value" yaml:"value"`
	Width int    `json:"width,omitempty" yaml:"width,omitempty"`
}

// ExternalJSON holds an external module.
type ExternalJSON struct {
	Name   string       `json:"name" yaml:"name"`
	Desc   string       `json:"desc,omitempty" yaml:"desc,omitempty"`
	Domain string       `json:"domain,omitempty" yaml:"domain,omitempty"`
	Params string       `json:"params,omitempty" yaml:"params,omitempty"`
	Ports  []SignalJSON `json:"ports,omitempty" yaml:"ports,omitempty"`
}

// BundleJSON holds a bundle definition.
type BundleJSON struct {
	Name    string       `json:"name" yaml:"name"`
	Signals []SignalJSON `json:"signals" yaml:"signals"`
}

// DiagnosticJSON holds a load diagnostic.
type DiagnosticJSON struct {
	Severity string `json:"severity" yaml:"severity"`
	Code     string `json:"code" yaml:"code"`
	File     string `json:"file,omitempty" yaml:"file,omitempty"`
	Line     int    `json:"line,omitempty" yaml:"line,omitempty"`
	Message  string `json:"message" yaml:"message"`
}

// buildDump converts the selected definitions of design. An empty names
// selects everything.
func buildDump(design *hdl21.Design, names []string) DumpOutput {
	want := func(name string) bool {
		if len(names) == 0 {
			return true
		}
		for _, n := range names {
			if n == name {
				return true
			}
		}
		return false
	}

	var out DumpOutput
	for _, b := range design.Bundles() {
		if want(b.Name()) {
			out.Bundles = append(out.Bundles, BundleJSON{Name: b.Name(), Signals: signalsJSON(b.Signals().Values())})
		}
	}
	for _, e := range design.Externals() {
		if want(e.Name()) {
			out.Externals = append(out.Externals, externalJSON(e))
		}
	}
	for _, m := range design.Modules() {
		if want(m.Name()) {
			out.Modules = append(out.Modules, moduleJSON(m))
		}
	}
	for _, d := range design.Diagnostics() {
		out.Diagnostics = append(out.Diagnostics, DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code,
			File:     d.File,
			Line:     d.Line,
			Message:  d.Message,
		})
	}
	return out
}

func moduleJSON(m *hdl.Module) ModuleJSON {
	mj := ModuleJSON{
		Name:     m.Name(),
		QualName: m.QualName(),
		Ports:    signalsJSON(m.Ports().Values()),
		Signals:  signalsJSON(m.Signals().Values()),
	}
	if si := m.SourceInfo(); !si.IsZero() {
		mj.Source = fmt.Sprintf("%s:%d", si.File, si.Line)
	}
	for name, b := range m.Bundles().All() {
		mj.Bundles = append(mj.Bundles, BundleInstJSON{Name: name, Of: b.Of().Name(), Port: b.IsPort()})
	}

	// Namespace order keeps instances of all three kinds in definition order.
	for name, attr := range m.Namespace().All() {
		switch a := attr.(type) {
		case *hdl.Instance:
			ij := InstanceJSON{Name: name, Kind: "instance", Of: a.Of().Name(), Params: callParams(a.Of())}
			ij.Connections = connectionsJSON(a.Connections())
			mj.Instances = append(mj.Instances, ij)
		case *hdl.InstanceArray:
			ij := InstanceJSON{Name: name, Kind: "array", Of: a.Of().Name(), N: a.N(), Params: callParams(a.Of())}
			ij.Connections = connectionsJSON(a.Connections())
			mj.Instances = append(mj.Instances, ij)
		case *hdl.InstanceBundle:
			mj.Instances = append(mj.Instances, InstanceJSON{
				Name:   name,
				Kind:   "bundle",
				Of:     a.Of().Name(),
				Bundle: a.Bundle().Name(),
				Params: callParams(a.Of()),
			})
		}
	}
	return mj
}

func externalJSON(e *hdl.ExternalModule) ExternalJSON {
	ej := ExternalJSON{
		Name:   e.Name(),
		Desc:   e.Desc(),
		Domain: e.Domain(),
		Ports:  signalsJSON(e.PortList()),
	}
	if t := e.Params(); t != nil {
		ej.Params = t.String()
	}
	return ej
}

func signalsJSON(signals []*hdl.Signal) []SignalJSON {
	var out []SignalJSON
	for _, s := range signals {
		sj := SignalJSON{Name: s.Name(), Width: s.Width(), Desc: s.Desc()}
		if s.Direction() != hdl.DirNone {
			sj.Direction = s.Direction().String()
		}
		out = append(out, sj)
	}
	return out
}

func connectionsJSON(conns *hdl.Collection[hdl.Connectable]) []ConnectionJSON {
	var out []ConnectionJSON
	for port, c := range conns.All() {
		cj := ConnectionJSON{Port: port, Value: refString(c)}
		if w, err := connectableWidth(c); err == nil {
			cj.Width = w
		}
		out = append(out, cj)
	}
	return out
}

// callParams returns the parameter value of an external module call, or
// nil for modules and parameterless calls.
func callParams(of hdl.Instantiable) any {
	call, ok := of.(*hdl.ExternalModuleCall)
	if !ok {
		return nil
	}
	if _, none := call.Params().(hdl.NoParams); none {
		return nil
	}
	return call.Params()
}

// refString renders c in reference syntax: "d", "d[2:6]" or
// "{d[4:8], d[0:4]}".
func refString(c hdl.Connectable) string {
	switch v := c.(type) {
	case *hdl.Signal:
		return v.Name()
	case *hdl.Slice:
		return refString(v.Parent()) + "[" + v.Selection().String() + "]"
	case *hdl.Concat:
		parts := v.Parts()
		strs := make([]string, len(parts))
		for i, p := range parts {
			strs[i] = refString(p)
		}
		return "{" + strings.Join(strs, ", ") + "}"
	}
	return c.String()
}

func connectableWidth(c hdl.Connectable) (int, error) {
	switch v := c.(type) {
	case *hdl.Signal:
		return v.Width(), nil
	case *hdl.Slice:
		return v.Width()
	case *hdl.Concat:
		return v.Width()
	}
	return 0, nil
}
