// Package parser reads HCL definition files into ast.Files.
//
// A file holds any number of module, external_module and bundle blocks.
// Module bodies keep their declaration order; private "_"-prefixed
// attributes are recorded but never become attributes of the module.
package parser

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/hdl21/hdl21/hdl"
	"github.com/hdl21/hdl21/internal/ast"
	"github.com/hdl21/hdl21/internal/types"
)

// Parser converts HCL source into definitions. A Parser holds no per-file
// state and may be shared between goroutines.
type Parser struct {
	types.Logger
}

// New returns a Parser. Pass nil for logger to disable logging.
func New(logger *slog.Logger) *Parser {
	return &Parser{Logger: types.Logger{L: logger}}
}

type signalAttrs struct {
	Width     *int    `hcl:"width,optional"`
	Direction *string `hcl:"direction,optional"`
	Desc      *string `hcl:"desc,optional"`
}

type signalBlock struct {
	Name      string  `hcl:"name,label"`
	Width     *int    `hcl:"width,optional"`
	Direction *string `hcl:"direction,optional"`
	Desc      *string `hcl:"desc,optional"`
}

type bundleInstAttrs struct {
	Of   string `hcl:"of"`
	Port *bool  `hcl:"port,optional"`
}

type instanceAttrs struct {
	Of      string         `hcl:"of"`
	Params  hcl.Expression `hcl:"params,optional"`
	Count   *int           `hcl:"count,optional"`
	Bundle  *string        `hcl:"bundle,optional"`
	Connect hcl.Expression `hcl:"connect,optional"`
}

type externalAttrs struct {
	Desc   *string        `hcl:"desc,optional"`
	Domain *string        `hcl:"domain,optional"`
	Params *string        `hcl:"params,optional"`
	Ports  []*signalBlock `hcl:"port,block"`
}

type bundleAttrs struct {
	Signals []*signalBlock `hcl:"signal,block"`
}

// Parse parses one file. Warnings reported by HCL are returned as
// diagnostics; any error-severity problem fails the whole file.
func (p *Parser) Parse(src []byte, filename string) (*ast.File, []types.Diagnostic, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", filename, diags)
	}
	body, ok := f.Body.(*hclsyntax.Body)
	if !ok {
		return nil, nil, fmt.Errorf("failed to parse %s: unexpected body type %T", filename, f.Body)
	}

	out := &ast.File{Path: filename}
	for _, attr := range sortedAttributes(body) {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unexpected top-level attribute",
			Detail:   fmt.Sprintf("%q is not allowed here; definitions are module, external_module or bundle blocks.", attr.Name),
			Subject:  attr.NameRange.Ptr(),
		})
	}

	for _, block := range body.Blocks {
		name, labelDiags := singleLabel(block)
		diags = append(diags, labelDiags...)
		if labelDiags.HasErrors() {
			continue
		}

		switch block.Type {
		case "module":
			def, d := p.parseModule(name, block)
			diags = append(diags, d...)
			out.Modules = append(out.Modules, def)
		case "external_module":
			def, d := p.parseExternal(name, block)
			diags = append(diags, d...)
			out.Externals = append(out.Externals, def)
		case "bundle":
			def, d := p.parseBundle(name, block)
			diags = append(diags, d...)
			out.Bundles = append(out.Bundles, def)
		default:
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unsupported block type",
				Detail:   fmt.Sprintf("Blocks of type %q are not expected here.", block.Type),
				Subject:  block.TypeRange.Ptr(),
			})
		}
	}

	if diags.HasErrors() {
		return nil, nil, fmt.Errorf("failed to decode %s: %w", filename, diags)
	}

	p.Log(slog.LevelDebug, "parsed file",
		slog.String("file", filename),
		slog.Int("modules", len(out.Modules)),
		slog.Int("externals", len(out.Externals)),
		slog.Int("bundles", len(out.Bundles)))
	return out, warnings(diags, filename), nil
}

func (p *Parser) parseModule(name string, block *hclsyntax.Block) (*ast.ModuleDef, hcl.Diagnostics) {
	def := &ast.ModuleDef{Name: name, Pos: pos(block.DefRange())}
	var diags hcl.Diagnostics

	type entry struct {
		offset int
		item   ast.Item
	}
	var entries []entry

	for _, attr := range sortedAttributes(block.Body) {
		switch {
		case attr.Name == "extends":
			bases, d := stringList(attr.Expr)
			diags = append(diags, d...)
			def.Extends = append(def.Extends, bases...)
		case isPrivate(attr.Name):
			val, d := attr.Expr.Value(nil)
			diags = append(diags, d...)
			entries = append(entries, entry{attr.SrcRange.Start.Byte, &ast.PrivateDef{
				Name:  attr.Name,
				Value: val,
				Pos:   pos(attr.SrcRange),
			}})
		default:
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unsupported argument",
				Detail:   fmt.Sprintf("An argument named %q is not expected in module %s. Signals, ports and instances are declared as blocks; names starting with \"_\" are private.", attr.Name, name),
				Subject:  attr.NameRange.Ptr(),
			})
		}
	}

	for _, inner := range block.Body.Blocks {
		itemName, d := singleLabel(inner)
		diags = append(diags, d...)
		if d.HasErrors() {
			continue
		}

		var item ast.Item
		switch inner.Type {
		case "signal", "port", "input", "output", "inout":
			item, d = parseSignal(itemName, inner)
		case "instance":
			item, d = parseInstance(itemName, inner)
		case "bundle":
			item, d = parseBundleInst(itemName, inner)
		default:
			d = hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Unsupported block type",
				Detail:   fmt.Sprintf("Blocks of type %q are not expected in a module.", inner.Type),
				Subject:  inner.TypeRange.Ptr(),
			}}
		}
		diags = append(diags, d...)
		if item != nil && !d.HasErrors() {
			entries = append(entries, entry{inner.TypeRange.Start.Byte, item})
		}
	}

	slices.SortStableFunc(entries, func(a, b entry) int { return a.offset - b.offset })
	for _, e := range entries {
		def.Items = append(def.Items, e.item)
		if p.TraceEnabled() {
			p.Trace("module item",
				slog.String("module", name),
				slog.String("item", e.item.ItemName()),
				slog.String("kind", fmt.Sprintf("%T", e.item)))
		}
	}
	return def, diags
}

func parseSignal(name string, block *hclsyntax.Block) (*ast.SignalDef, hcl.Diagnostics) {
	var attrs signalAttrs
	diags := gohcl.DecodeBody(block.Body, nil, &attrs)
	if diags.HasErrors() {
		return nil, diags
	}

	def := &ast.SignalDef{Name: name, Width: 1, Pos: pos(block.DefRange())}
	switch block.Type {
	case "port":
		def.Port = true
	case "input":
		def.Port, def.Direction = true, hdl.DirInput
	case "output":
		def.Port, def.Direction = true, hdl.DirOutput
	case "inout":
		def.Port, def.Direction = true, hdl.DirInout
	}

	d := fillSignal(def, attrs.Width, attrs.Direction, attrs.Desc, block.Body.SrcRange)
	diags = append(diags, d...)
	if block.Type != "signal" && block.Type != "port" && attrs.Direction != nil {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Redundant direction",
			Detail:   fmt.Sprintf("The direction of %s %q is given by its block type.", block.Type, name),
			Subject:  block.TypeRange.Ptr(),
		})
	}
	return def, diags
}

// fillSignal applies the optional signal attributes shared by every
// signal-like block.
func fillSignal(def *ast.SignalDef, width *int, direction, desc *string, rng hcl.Range) hcl.Diagnostics {
	var diags hcl.Diagnostics
	if width != nil {
		if *width < 0 {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid width",
				Detail:   fmt.Sprintf("Signal %q has negative width %d.", def.Name, *width),
				Subject:  rng.Ptr(),
			})
		}
		def.Width = *width
	}
	if direction != nil {
		dir, ok := hdl.ParsePortDir(*direction)
		if !ok {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid direction",
				Detail:   fmt.Sprintf("Direction %q of %q must be one of input, output, inout or none.", *direction, def.Name),
				Subject:  rng.Ptr(),
			})
		}
		def.Direction = dir
		if dir != hdl.DirNone {
			def.Port = true
		}
	}
	if desc != nil {
		def.Desc = *desc
	}
	return diags
}

func parseBundleInst(name string, block *hclsyntax.Block) (*ast.BundleInstDef, hcl.Diagnostics) {
	var attrs bundleInstAttrs
	diags := gohcl.DecodeBody(block.Body, nil, &attrs)
	if diags.HasErrors() {
		return nil, diags
	}
	def := &ast.BundleInstDef{Name: name, Of: attrs.Of, Pos: pos(block.DefRange())}
	if attrs.Port != nil {
		def.Port = *attrs.Port
	}
	return def, diags
}

func parseInstance(name string, block *hclsyntax.Block) (*ast.InstanceDef, hcl.Diagnostics) {
	var attrs instanceAttrs
	diags := gohcl.DecodeBody(block.Body, nil, &attrs)
	if diags.HasErrors() {
		return nil, diags
	}

	def := &ast.InstanceDef{Name: name, Of: attrs.Of, Pos: pos(block.DefRange())}
	if attrs.Count != nil {
		def.Count = *attrs.Count
		if def.Count < 1 {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid count",
				Detail:   fmt.Sprintf("Instance %q must have a count of at least 1.", name),
				Subject:  block.DefRange().Ptr(),
			})
		}
	}
	if attrs.Bundle != nil {
		def.Bundle = *attrs.Bundle
		if def.Count > 0 {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Conflicting instance arguments",
				Detail:   fmt.Sprintf("Instance %q cannot set both count and bundle.", name),
				Subject:  block.DefRange().Ptr(),
			})
		}
	}

	params, d := attrs.Params.Value(nil)
	diags = append(diags, d...)
	def.Params = params

	conns, d := parseConnections(attrs.Connect)
	diags = append(diags, d...)
	def.Connections = conns
	return def, diags
}

// parseConnections reads a connect object. Each value is a reference, a
// quoted reference string, or a list of those forming a concatenation.
func parseConnections(expr hcl.Expression) ([]ast.Connection, hcl.Diagnostics) {
	if val, diags := expr.Value(nil); !diags.HasErrors() && val.IsNull() {
		return nil, nil
	}

	pairs, diags := hcl.ExprMap(expr)
	if diags.HasErrors() {
		return nil, diags
	}

	var conns []ast.Connection
	seen := make(map[string]bool, len(pairs))
	for _, pair := range pairs {
		key, d := pair.Key.Value(nil)
		diags = append(diags, d...)
		if d.HasErrors() {
			continue
		}
		key, err := convert.Convert(key, cty.String)
		if err != nil || key.IsNull() {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid port name",
				Detail:   "Connection keys must be port names.",
				Subject:  pair.Key.Range().Ptr(),
			})
			continue
		}
		port := key.AsString()
		if seen[port] {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate connection",
				Detail:   fmt.Sprintf("Port %q is connected more than once.", port),
				Subject:  pair.Key.Range().Ptr(),
			})
			continue
		}
		seen[port] = true

		refs, d := parseRefs(pair.Value)
		diags = append(diags, d...)
		conns = append(conns, ast.Connection{Port: port, Refs: refs, Pos: pos(pair.Value.Range())})
	}
	return conns, diags
}

func parseRefs(expr hcl.Expression) ([]ast.Ref, hcl.Diagnostics) {
	elems, listDiags := hcl.ExprList(expr)
	if listDiags.HasErrors() {
		ref, diags := parseRefExpr(expr)
		if diags.HasErrors() {
			return nil, diags
		}
		return []ast.Ref{ref}, nil
	}

	if len(elems) == 0 {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Empty concatenation",
			Detail:   "A list of references must have at least one element.",
			Subject:  expr.Range().Ptr(),
		}}
	}
	var refs []ast.Ref
	var diags hcl.Diagnostics
	for _, elem := range elems {
		ref, d := parseRefExpr(elem)
		diags = append(diags, d...)
		refs = append(refs, ref)
	}
	return refs, diags
}

// parseRefExpr accepts a bare traversal (s, s[3]) or a string ("s[2:6]").
func parseRefExpr(expr hcl.Expression) (ast.Ref, hcl.Diagnostics) {
	if trav, diags := hcl.AbsTraversalForExpr(expr); !diags.HasErrors() {
		return refFromTraversal(trav)
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return ast.Ref{}, diags
	}
	if val.IsNull() || !val.Type().Equals(cty.String) {
		return ast.Ref{}, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid reference",
			Detail:   "A connection must be a signal reference such as s, s[3] or \"s[2:6]\".",
			Subject:  expr.Range().Ptr(),
		}}
	}
	ref, err := ParseRef(val.AsString())
	if err != nil {
		return ast.Ref{}, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid reference",
			Detail:   err.Error(),
			Subject:  expr.Range().Ptr(),
		}}
	}
	return ref, nil
}

func refFromTraversal(trav hcl.Traversal) (ast.Ref, hcl.Diagnostics) {
	ref := ast.Ref{Signal: trav.RootName()}
	for _, step := range trav[1:] {
		idx, ok := step.(hcl.TraverseIndex)
		if !ok || !idx.Key.Type().Equals(cty.Number) || !idx.Key.IsKnown() || idx.Key.IsNull() {
			return ast.Ref{}, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid reference",
				Detail:   fmt.Sprintf("Only integer indices may follow %q; quote slices such as \"%s[2:6]\".", ref.Signal, ref.Signal),
				Subject:  step.SourceRange().Ptr(),
			}}
		}
		bf := idx.Key.AsBigFloat()
		i, acc := bf.Int64()
		if !bf.IsInt() || acc != 0 {
			return ast.Ref{}, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid index",
				Detail:   "Indices must be whole numbers.",
				Subject:  step.SourceRange().Ptr(),
			}}
		}
		ref.Indices = append(ref.Indices, hdl.IntIndex(int(i)))
	}
	return ref, nil
}

func (p *Parser) parseExternal(name string, block *hclsyntax.Block) (*ast.ExternalDef, hcl.Diagnostics) {
	var attrs externalAttrs
	diags := gohcl.DecodeBody(block.Body, nil, &attrs)
	def := &ast.ExternalDef{Name: name, Pos: pos(block.DefRange())}
	if diags.HasErrors() {
		return def, diags
	}
	if attrs.Desc != nil {
		def.Desc = *attrs.Desc
	}
	if attrs.Domain != nil {
		def.Domain = *attrs.Domain
	}
	if attrs.Params != nil {
		def.Params = *attrs.Params
	}
	for _, sb := range attrs.Ports {
		port := &ast.SignalDef{Name: sb.Name, Width: 1, Port: true, Pos: def.Pos}
		diags = append(diags, fillSignal(port, sb.Width, sb.Direction, sb.Desc, block.Body.SrcRange)...)
		def.Ports = append(def.Ports, port)
	}
	p.Trace("external module", slog.String("name", name), slog.Int("ports", len(def.Ports)))
	return def, diags
}

func (p *Parser) parseBundle(name string, block *hclsyntax.Block) (*ast.BundleDef, hcl.Diagnostics) {
	var attrs bundleAttrs
	diags := gohcl.DecodeBody(block.Body, nil, &attrs)
	def := &ast.BundleDef{Name: name, Pos: pos(block.DefRange())}
	if diags.HasErrors() {
		return def, diags
	}
	for _, sb := range attrs.Signals {
		sig := &ast.SignalDef{Name: sb.Name, Width: 1, Pos: def.Pos}
		diags = append(diags, fillSignal(sig, sb.Width, sb.Direction, sb.Desc, block.Body.SrcRange)...)
		def.Signals = append(def.Signals, sig)
	}
	p.Trace("bundle", slog.String("name", name), slog.Int("signals", len(def.Signals)))
	return def, diags
}

func singleLabel(block *hclsyntax.Block) (string, hcl.Diagnostics) {
	if len(block.Labels) != 1 {
		return "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Missing name",
			Detail:   fmt.Sprintf("A %s block must have exactly one label: its name.", block.Type),
			Subject:  block.TypeRange.Ptr(),
		}}
	}
	return block.Labels[0], nil
}

// stringList reads a string or a list of strings.
func stringList(expr hcl.Expression) ([]string, hcl.Diagnostics) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.Type().Equals(cty.String) {
		return []string{val.AsString()}, nil
	}
	list, err := convert.Convert(val, cty.List(cty.String))
	if err != nil || list.IsNull() {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid value",
			Detail:   "A string or a list of strings is required.",
			Subject:  expr.Range().Ptr(),
		}}
	}
	var out []string
	for _, v := range list.AsValueSlice() {
		out = append(out, v.AsString())
	}
	return out, nil
}

func sortedAttributes(body *hclsyntax.Body) []*hclsyntax.Attribute {
	attrs := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, a := range body.Attributes {
		attrs = append(attrs, a)
	}
	slices.SortFunc(attrs, func(a, b *hclsyntax.Attribute) int {
		return a.SrcRange.Start.Byte - b.SrcRange.Start.Byte
	})
	return attrs
}

func isPrivate(name string) bool { return len(name) > 0 && name[0] == '_' }

func pos(r hcl.Range) ast.Pos { return ast.Pos{File: r.Filename, Line: r.Start.Line} }

func warnings(diags hcl.Diagnostics, filename string) []types.Diagnostic {
	var out []types.Diagnostic
	for _, d := range diags {
		if d.Severity != hcl.DiagWarning {
			continue
		}
		td := types.Diagnostic{
			Severity: types.SeverityWarning,
			Code:     types.DiagHCL,
			Message:  d.Summary,
			File:     filename,
		}
		if d.Detail != "" {
			td.Message += ": " + d.Detail
		}
		if d.Subject != nil {
			td.Line = d.Subject.Start.Line
		}
		out = append(out, td)
	}
	return out
}
