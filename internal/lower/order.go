package lower

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hdl21/hdl21/internal/ast"
	"github.com/hdl21/hdl21/internal/graph"
)

// orderDefinitions returns the symbols to build, dependencies first.
func orderDefinitions(ctx *lowerContext) ([]graph.Symbol, error) {
	g := buildGraph(ctx)

	if len(ctx.roots) > 0 {
		roots := make([]graph.Symbol, 0, len(ctx.roots))
		for _, name := range ctx.roots {
			sym, ok := ctx.names[name]
			if !ok {
				return nil, fmt.Errorf("%w: module %s", ErrUndefined, name)
			}
			roots = append(roots, sym)
		}
		g = subgraph(g, g.Reachable(roots...))
		ctx.Log(slog.LevelDebug, "restricted to roots",
			slog.Any("roots", ctx.roots), slog.Int("definitions", g.Len()))
	}

	order, cycles := g.ResolutionOrder()
	for _, sym := range order {
		if refs := ctx.undefined[sym]; len(refs) > 0 {
			r := refs[0]
			return nil, fmt.Errorf("%w: %s:%d: %s refers to %s %s",
				ErrUndefined, r.pos.File, r.pos.Line, sym, r.kind, r.name)
		}
	}
	if len(cycles) > 0 {
		cycle := cycles[0]
		names := make([]string, len(cycle))
		for i, sym := range cycle {
			names[i] = sym.Name
		}
		return nil, fmt.Errorf("%w: %s", ErrHierarchyCycle, strings.Join(names, ", "))
	}
	return order, nil
}

func buildGraph(ctx *lowerContext) *graph.Graph {
	g := graph.New()
	for name := range ctx.bundles {
		g.AddNode(graph.Symbol{Kind: graph.KindBundle, Name: name})
	}
	for _, sym := range ctx.names {
		g.AddNode(sym)
	}

	for name, def := range ctx.modules {
		from := graph.Symbol{Kind: graph.KindModule, Name: name}
		for _, item := range def.Items {
			switch it := item.(type) {
			case *ast.InstanceDef:
				if to, ok := ctx.names[it.Of]; ok {
					g.AddEdge(from, to)
				} else {
					ctx.unresolved(from, graph.KindModule, it.Of, it.Pos)
				}
				if it.Bundle != "" {
					ctx.bundleEdge(g, from, it.Bundle, it.Pos)
				}
			case *ast.BundleInstDef:
				ctx.bundleEdge(g, from, it.Of, it.Pos)
			}
		}
	}
	return g
}

func (c *lowerContext) bundleEdge(g *graph.Graph, from graph.Symbol, name string, pos ast.Pos) {
	if _, ok := c.bundles[name]; !ok {
		c.unresolved(from, graph.KindBundle, name, pos)
		return
	}
	g.AddEdge(from, graph.Symbol{Kind: graph.KindBundle, Name: name})
}

func (c *lowerContext) unresolved(from graph.Symbol, kind graph.Kind, name string, pos ast.Pos) {
	c.undefined[from] = append(c.undefined[from], unresolvedRef{kind: kind, name: name, pos: pos})
}

// subgraph returns the part of g induced by keep.
func subgraph(g *graph.Graph, keep []graph.Symbol) *graph.Graph {
	sub := graph.New()
	for _, sym := range keep {
		sub.AddNode(sym)
		for _, dep := range g.Dependencies(sym) {
			sub.AddEdge(sym, dep)
		}
	}
	return sub
}
