package lower

import (
	"fmt"
	"log/slog"

	"github.com/hdl21/hdl21/hdl"
	"github.com/hdl21/hdl21/internal/ast"
	"github.com/hdl21/hdl21/internal/types"
)

// connector is implemented by *hdl.Instance and *hdl.InstanceArray.
type connector interface {
	Connections() *hdl.Collection[hdl.Connectable]
}

// targetPorts returns the signal ports of an instantiable.
func targetPorts(of hdl.Instantiable) *hdl.Collection[*hdl.Signal] {
	switch t := of.(type) {
	case *hdl.Module:
		return t.Ports()
	case *hdl.ExternalModuleCall:
		return t.Ports()
	}
	return nil
}

func connectInstance(ctx *lowerContext, m *hdl.Module, p pendingInstance) error {
	ports := targetPorts(p.of)
	n := 1
	if arr, ok := p.attr.(*hdl.InstanceArray); ok {
		n = arr.N()
	}

	for _, conn := range p.def.Connections {
		c, err := resolveConnection(m, conn)
		if err != nil {
			return fmt.Errorf("%s:%d: instance %s, port %s: %w",
				conn.Pos.File, conn.Pos.Line, p.def.Name, conn.Port, err)
		}
		width, err := connectableWidth(c)
		if err != nil {
			return fmt.Errorf("%s:%d: instance %s, port %s: %w",
				conn.Pos.File, conn.Pos.Line, p.def.Name, conn.Port, err)
		}

		switch inst := p.attr.(type) {
		case *hdl.Instance:
			inst.Connect(conn.Port, c)
		case *hdl.InstanceArray:
			inst.Connect(conn.Port, c)
		}

		port, ok := ports.Get(conn.Port)
		if !ok {
			ctx.emit(types.SeverityError, types.DiagUnknownPort, conn.Pos,
				fmt.Sprintf("%s has no port %s (instance %s in module %s)",
					p.of.Name(), conn.Port, p.def.Name, m.Name()))
			continue
		}
		if width != port.Width() && width != port.Width()*n {
			ctx.emit(types.SeverityWarning, types.DiagWidthMismatch, conn.Pos,
				fmt.Sprintf("port %s of %s is %d bits wide, connected to %d bits (instance %s in module %s)",
					conn.Port, p.of.Name(), port.Width(), width, p.def.Name, m.Name()))
		}
		if ctx.TraceEnabled() {
			ctx.Trace("connected port",
				slog.String("module", m.Name()),
				slog.String("instance", p.def.Name),
				slog.String("port", conn.Port),
				slog.String("to", c.String()))
		}
	}

	inst, ok := p.attr.(connector)
	if !ok {
		return nil
	}
	for name := range ports.All() {
		if !inst.Connections().Has(name) {
			ctx.emit(types.SeverityInfo, types.DiagUnconnectedPort, p.def.Pos,
				fmt.Sprintf("port %s of instance %s in module %s is unconnected", name, p.def.Name, m.Name()))
		}
	}
	return nil
}

// resolveConnection turns references into a Connectable. More than one
// reference forms a Concat.
func resolveConnection(m *hdl.Module, conn ast.Connection) (hdl.Connectable, error) {
	if len(conn.Refs) == 1 {
		return resolveRef(m, conn.Refs[0])
	}
	parts := make([]hdl.Connectable, len(conn.Refs))
	for i, ref := range conn.Refs {
		c, err := resolveRef(m, ref)
		if err != nil {
			return nil, err
		}
		parts[i] = c
	}
	return hdl.NewConcat(parts...)
}

func resolveRef(m *hdl.Module, ref ast.Ref) (hdl.Connectable, error) {
	sig, ok := m.Get(ref.Signal).(*hdl.Signal)
	if !ok {
		return nil, fmt.Errorf("%w: %s in module %s", ErrUnknownSignal, ref.Signal, m.Name())
	}
	var cur hdl.Sliceable = sig
	for _, idx := range ref.Indices {
		switch i := idx.(type) {
		case hdl.IntIndex:
			cur = cur.Index(int(i))
		case hdl.RangeIndex:
			cur = cur.Slice(i)
		default:
			return nil, fmt.Errorf("%w: %v", hdl.ErrInvalidIndex, idx)
		}
	}
	return cur, nil
}

// connectableWidth returns the width of c, resolving any slices.
func connectableWidth(c hdl.Connectable) (int, error) {
	switch v := c.(type) {
	case *hdl.Signal:
		return v.Width(), nil
	case *hdl.Slice:
		return v.Width()
	case *hdl.Concat:
		return v.Width()
	}
	return 0, fmt.Errorf("%w: %v", hdl.ErrNotSliceable, c)
}
