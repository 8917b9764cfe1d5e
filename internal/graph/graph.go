// Package graph provides the definition dependency graph used to order
// lowering: a module must be built after everything it instantiates.
package graph

import (
	"cmp"
	"slices"
)

// Kind distinguishes the definition namespaces.
type Kind int

const (
	KindBundle Kind = iota
	KindExternal
	KindModule
)

func (k Kind) String() string {
	switch k {
	case KindBundle:
		return "bundle"
	case KindExternal:
		return "external_module"
	case KindModule:
		return "module"
	}
	return "unknown"
}

// Symbol uniquely identifies a definition.
type Symbol struct {
	Kind Kind
	Name string
}

func (s Symbol) String() string { return s.Kind.String() + " " + s.Name }

// Graph is a dependency graph of symbols with forward edges.
type Graph struct {
	nodes map[Symbol]struct{}
	edges map[Symbol][]Symbol
}

// New returns a graph with no nodes or edges.
func New() *Graph {
	return &Graph{
		nodes: make(map[Symbol]struct{}),
		edges: make(map[Symbol][]Symbol),
	}
}

// AddNode registers a symbol. Duplicate calls are no-ops.
func (g *Graph) AddNode(sym Symbol) {
	g.nodes[sym] = struct{}{}
}

// AddEdge records that "from" depends on "to", meaning "to" must be
// lowered before "from". Missing nodes are created implicitly.
// Duplicate edges are ignored.
func (g *Graph) AddEdge(from, to Symbol) {
	g.nodes[from] = struct{}{}
	g.nodes[to] = struct{}{}

	if slices.Contains(g.edges[from], to) {
		return
	}
	g.edges[from] = append(g.edges[from], to)
}

// Dependencies returns the symbols that sym depends on (forward edges).
func (g *Graph) Dependencies(sym Symbol) []Symbol {
	return g.edges[sym]
}

// HasNode reports whether the symbol exists in the graph.
func (g *Graph) HasNode(sym Symbol) bool {
	_, ok := g.nodes[sym]
	return ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Reachable returns the roots and everything they transitively depend on,
// sorted. Roots not in the graph are ignored.
func (g *Graph) Reachable(roots ...Symbol) []Symbol {
	seen := make(map[Symbol]struct{})
	var visit func(sym Symbol)
	visit = func(sym Symbol) {
		if _, ok := seen[sym]; ok {
			return
		}
		seen[sym] = struct{}{}
		for _, dep := range g.edges[sym] {
			visit(dep)
		}
	}
	for _, r := range roots {
		if g.HasNode(r) {
			visit(r)
		}
	}

	out := make([]Symbol, 0, len(seen))
	for sym := range seen {
		out = append(out, sym)
	}
	slices.SortFunc(out, compareSymbols)
	return out
}

// ResolutionOrder returns symbols ordered so that dependencies come before
// dependents, using Tarjan's algorithm. Strongly connected components with
// more than one node (or a single node with a self-loop) are reported as
// cycles and excluded from the resolution order.
func (g *Graph) ResolutionOrder() (order []Symbol, cycles [][]Symbol) {
	var (
		index    int
		stack    []Symbol
		onStack  = make(map[Symbol]bool)
		indices  = make(map[Symbol]int)
		lowlinks = make(map[Symbol]int)
	)

	var strongConnect func(sym Symbol)
	strongConnect = func(sym Symbol) {
		indices[sym] = index
		lowlinks[sym] = index
		index++
		stack = append(stack, sym)
		onStack[sym] = true

		for _, dep := range g.edges[sym] {
			if _, visited := indices[dep]; !visited {
				strongConnect(dep)
				lowlinks[sym] = min(lowlinks[sym], lowlinks[dep])
			} else if onStack[dep] {
				lowlinks[sym] = min(lowlinks[sym], indices[dep])
			}
		}

		if lowlinks[sym] == indices[sym] {
			var scc []Symbol
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == sym {
					break
				}
			}
			if len(scc) > 1 {
				slices.SortFunc(scc, compareSymbols)
				cycles = append(cycles, scc)
			} else if slices.Contains(g.edges[scc[0]], scc[0]) {
				cycles = append(cycles, scc)
			} else {
				order = append(order, scc[0])
			}
		}
	}

	sorted := make([]Symbol, 0, len(g.nodes))
	for sym := range g.nodes {
		sorted = append(sorted, sym)
	}
	slices.SortFunc(sorted, compareSymbols)

	for _, sym := range sorted {
		if _, visited := indices[sym]; !visited {
			strongConnect(sym)
		}
	}

	return order, cycles
}

func compareSymbols(a, b Symbol) int {
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}
