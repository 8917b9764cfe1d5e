package lower

import (
	"maps"
	"reflect"

	"github.com/hdl21/hdl21/hdl"
	"github.com/hdl21/hdl21/internal/ast"
	"github.com/hdl21/hdl21/internal/graph"
	"github.com/hdl21/hdl21/internal/types"
)

// lowerContext holds state shared by the lowering phases.
type lowerContext struct {
	types.Logger

	roots      []string
	paramTypes map[string]reflect.Type
	fallback   reflect.Type
	diags      *types.Collector

	// Registered definitions. Modules and external modules share the
	// names map; bundles have their own namespace.
	names     map[string]graph.Symbol
	modules   map[string]*ast.ModuleDef
	externals map[string]*ast.ExternalDef
	bundles   map[string]*ast.BundleDef

	// undefined records unresolved references per referring symbol. They
	// only fail lowering if the referrer is reachable.
	undefined map[graph.Symbol][]unresolvedRef

	lib *hdl.Library
}

type unresolvedRef struct {
	kind graph.Kind
	name string
	pos  ast.Pos
}

func newLowerContext(cfg Config) *lowerContext {
	paramTypes := map[string]reflect.Type{
		"":     reflect.TypeFor[hdl.NoParams](),
		"none": reflect.TypeFor[hdl.NoParams](),
		"dict": reflect.TypeFor[hdl.Dict](),
	}
	maps.Copy(paramTypes, cfg.ParamTypes)

	diags := cfg.Diagnostics
	if diags == nil {
		diags = &types.Collector{Config: types.DefaultConfig()}
	}
	return &lowerContext{
		Logger:     types.Logger{L: cfg.Logger},
		roots:      cfg.Roots,
		paramTypes: paramTypes,
		fallback:   cfg.FallbackParamType,
		diags:      diags,
		names:      make(map[string]graph.Symbol),
		modules:    make(map[string]*ast.ModuleDef),
		externals:  make(map[string]*ast.ExternalDef),
		bundles:    make(map[string]*ast.BundleDef),
		undefined:  make(map[graph.Symbol][]unresolvedRef),
		lib:        hdl.NewLibrary(),
	}
}

func (c *lowerContext) emit(sev types.Severity, code string, pos ast.Pos, msg string) {
	c.diags.Add(types.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		File:     pos.File,
		Line:     pos.Line,
	})
}

// sourceInfo never returns a zero SourceInfo, so definitions built here
// are never attributed to Go code.
func sourceInfo(pos ast.Pos) hdl.SourceInfo {
	if pos.File == "" {
		pos.File = "<input>"
	}
	return hdl.SourceInfo{File: pos.File, Line: pos.Line}
}
