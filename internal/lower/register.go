package lower

import (
	"fmt"
	"log/slog"

	"github.com/hdl21/hdl21/internal/ast"
	"github.com/hdl21/hdl21/internal/graph"
	"github.com/hdl21/hdl21/internal/types"
)

// registerDefinitions indexes every definition by name. The first
// definition of a name wins; later ones are reported and dropped.
func registerDefinitions(ctx *lowerContext, files []*ast.File) {
	for _, f := range files {
		for _, b := range f.Bundles {
			if prev, ok := ctx.bundles[b.Name]; ok {
				ctx.duplicate(graph.KindBundle, b.Name, b.Pos, prev.Pos)
				continue
			}
			ctx.bundles[b.Name] = b
		}
		for _, e := range f.Externals {
			if ctx.claim(graph.Symbol{Kind: graph.KindExternal, Name: e.Name}, e.Pos) {
				ctx.externals[e.Name] = e
			}
		}
		for _, m := range f.Modules {
			if ctx.claim(graph.Symbol{Kind: graph.KindModule, Name: m.Name}, m.Pos) {
				ctx.modules[m.Name] = m
			}
		}
		ctx.Trace("registered file", slog.String("file", f.Path))
	}
}

// claim reserves a name in the shared module namespace.
func (c *lowerContext) claim(sym graph.Symbol, pos ast.Pos) bool {
	if prev, ok := c.names[sym.Name]; ok {
		c.duplicate(sym.Kind, sym.Name, pos, c.definitionPos(prev))
		return false
	}
	c.names[sym.Name] = sym
	return true
}

func (c *lowerContext) definitionPos(sym graph.Symbol) ast.Pos {
	switch sym.Kind {
	case graph.KindModule:
		return c.modules[sym.Name].Pos
	case graph.KindExternal:
		return c.externals[sym.Name].Pos
	case graph.KindBundle:
		return c.bundles[sym.Name].Pos
	}
	return ast.Pos{}
}

func (c *lowerContext) duplicate(kind graph.Kind, name string, pos, prev ast.Pos) {
	c.emit(types.SeverityWarning, types.DiagDuplicateDefinition, pos,
		fmt.Sprintf("%s %s is already defined at %s:%d; this definition is ignored",
			kind, name, prev.File, prev.Line))
}
