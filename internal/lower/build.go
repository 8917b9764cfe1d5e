package lower

import (
	"fmt"
	"log/slog"

	"github.com/hdl21/hdl21/hdl"
	"github.com/hdl21/hdl21/internal/ast"
	"github.com/hdl21/hdl21/internal/graph"
	"github.com/hdl21/hdl21/internal/types"
)

func buildDefinition(ctx *lowerContext, sym graph.Symbol) error {
	switch sym.Kind {
	case graph.KindBundle:
		return buildBundle(ctx, ctx.bundles[sym.Name])
	case graph.KindExternal:
		return buildExternal(ctx, ctx.externals[sym.Name])
	case graph.KindModule:
		return buildModule(ctx, ctx.modules[sym.Name])
	}
	return fmt.Errorf("unexpected definition kind %v", sym.Kind)
}

func buildBundle(ctx *lowerContext, def *ast.BundleDef) error {
	signals := make([]*hdl.Signal, len(def.Signals))
	for i, s := range def.Signals {
		signals[i] = newSignal(s, hdl.Named(s.Name))
	}
	b, err := hdl.NewBundle(def.Name, signals...)
	if err != nil {
		return fmt.Errorf("%s:%d: %w", def.Pos.File, def.Pos.Line, err)
	}
	ctx.Trace("built bundle", slog.String("name", def.Name), slog.Int("width", b.Width()))
	return ctx.lib.AddBundle(b)
}

func buildExternal(ctx *lowerContext, def *ast.ExternalDef) error {
	paramType, ok := ctx.paramTypes[def.Params]
	if !ok && ctx.fallback != nil {
		paramType, ok = ctx.fallback, true
		ctx.emit(types.SeverityWarning, types.DiagUnknownParamType, def.Pos,
			fmt.Sprintf("external module %s: parameter type %q is not registered; using %s",
				def.Name, def.Params, paramType))
	}
	if !ok {
		return fmt.Errorf("%w: %s:%d: %q for external module %s",
			ErrUnknownParamType, def.Pos.File, def.Pos.Line, def.Params, def.Name)
	}

	ports := make([]*hdl.Signal, len(def.Ports))
	for i, p := range def.Ports {
		ports[i] = newSignal(p, hdl.Named(p.Name), hdl.WithVisibility(hdl.VisPort))
	}
	e, err := hdl.NewExternalModule(def.Name, ports,
		hdl.WithParamType(paramType),
		hdl.WithDesc(def.Desc),
		hdl.WithDomain(def.Domain),
		hdl.WithExternalSource(sourceInfo(def.Pos)))
	if err != nil {
		return fmt.Errorf("%s:%d: %w", def.Pos.File, def.Pos.Line, err)
	}
	ctx.Trace("built external module", slog.String("name", def.Name),
		slog.String("params", paramType.String()))
	return ctx.lib.AddExternal(e)
}

// pendingInstance is an instance whose connections are made once every
// signal of its module exists.
type pendingInstance struct {
	def  *ast.InstanceDef
	attr hdl.Attr
	of   hdl.Instantiable
}

func buildModule(ctx *lowerContext, def *ast.ModuleDef) error {
	var bindings []hdl.Binding
	var pending []pendingInstance

	for _, item := range def.Items {
		switch it := item.(type) {
		case *ast.SignalDef:
			bindings = append(bindings, hdl.Bind(it.Name, newSignal(it)))
		case *ast.BundleInstDef:
			bindings = append(bindings, hdl.Bind(it.Name, hdl.NewBundleInstance(ctx.lib.Bundle(it.Of), it.Port)))
		case *ast.InstanceDef:
			of, err := ctx.instantiable(it)
			if err != nil {
				return err
			}
			var attr hdl.Attr
			switch {
			case it.Count > 0:
				attr = hdl.NewInstanceArray(of, it.Count)
			case it.Bundle != "":
				if len(it.Connections) > 0 {
					return fmt.Errorf("%s:%d: instance bundle %s cannot have connections",
						it.Pos.File, it.Pos.Line, it.Name)
				}
				attr = hdl.NewInstanceBundle(of, ctx.lib.Bundle(it.Bundle))
			default:
				attr = hdl.NewInstance(of)
			}
			bindings = append(bindings, hdl.Bind(it.Name, attr))
			pending = append(pending, pendingInstance{def: it, attr: attr, of: of})
		case *ast.PrivateDef:
			bindings = append(bindings, hdl.Bind(it.Name, it.Value))
			ctx.emit(types.SeverityInfo, types.DiagPrivateBinding, it.Pos,
				fmt.Sprintf("%s is private to module %s and is not an attribute", it.Name, def.Name))
		}
	}

	m, err := hdl.Define(hdl.Decl{
		Name:     def.Name,
		Bases:    def.Extends,
		Bindings: bindings,
		Source:   sourceInfo(def.Pos),
	})
	if err != nil {
		return fmt.Errorf("%s:%d: %w", def.Pos.File, def.Pos.Line, err)
	}

	for _, p := range pending {
		if err := connectInstance(ctx, m, p); err != nil {
			return err
		}
	}

	ctx.Trace("built module", slog.String("name", def.Name),
		slog.Int("ports", m.Ports().Len()),
		slog.Int("signals", m.Signals().Len()),
		slog.Int("instances", m.Instances().Len()+m.InstArrays().Len()+m.InstBundles().Len()))
	return ctx.lib.AddModule(m)
}

// instantiable returns what def instantiates: a built module, or a call
// of a built external module with def's parameters.
func (c *lowerContext) instantiable(def *ast.InstanceDef) (hdl.Instantiable, error) {
	if m := c.lib.Module(def.Of); m != nil {
		if !def.Params.IsNull() {
			return nil, fmt.Errorf("%w: %s:%d: instance %s of %s",
				ErrModuleParams, def.Pos.File, def.Pos.Line, def.Name, def.Of)
		}
		return m, nil
	}
	if e := c.lib.External(def.Of); e != nil {
		call, err := e.Call(def.Params)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: instance %s: %w", def.Pos.File, def.Pos.Line, def.Name, err)
		}
		return call, nil
	}
	return nil, fmt.Errorf("%w: %s:%d: instance %s of %s",
		ErrUndefined, def.Pos.File, def.Pos.Line, def.Name, def.Of)
}

func newSignal(def *ast.SignalDef, extra ...hdl.SignalOption) *hdl.Signal {
	opts := []hdl.SignalOption{hdl.Width(def.Width)}
	if def.Desc != "" {
		opts = append(opts, hdl.Desc(def.Desc))
	}
	if def.Port {
		opts = append(opts, hdl.WithVisibility(hdl.VisPort))
	}
	if def.Direction != hdl.DirNone {
		opts = append(opts, hdl.WithDirection(def.Direction))
	}
	return hdl.NewSignal(append(opts, extra...)...)
}
