// Package lower turns parsed definitions into an hdl.Library.
//
// # Lowering Phases
//
// Lowering executes the following phases in order:
//
//  1. Registration: index definitions by name; later duplicates are dropped
//  2. Ordering: build the dependency graph, restrict it to the requested
//     roots and order it so every definition follows its dependencies
//  3. Building: construct bundles, external modules and modules in order,
//     connecting each module's instances as it is built
//
// Structural problems (undefined references, hierarchy cycles, invalid
// values) are returned as errors. Softer issues are recorded as
// diagnostics.
package lower

import (
	"errors"
	"log/slog"
	"reflect"

	"github.com/hdl21/hdl21/hdl"
	"github.com/hdl21/hdl21/internal/ast"
	"github.com/hdl21/hdl21/internal/types"
)

var (
	// ErrUndefined is returned when a reachable definition refers to a
	// module, external module or bundle that no file defines.
	ErrUndefined = errors.New("undefined reference")

	// ErrHierarchyCycle is returned when modules instantiate each other.
	ErrHierarchyCycle = errors.New("module hierarchy cycle")

	// ErrUnknownParamType is returned when an external module names a
	// parameter type that was not registered.
	ErrUnknownParamType = errors.New("unknown parameter type")

	// ErrUnknownSignal is returned when a connection names something that
	// is not a signal of the enclosing module.
	ErrUnknownSignal = errors.New("unknown signal")

	// ErrModuleParams is returned when parameters are given to an instance
	// of a module rather than an external module.
	ErrModuleParams = errors.New("modules take no parameters")
)

// Config controls lowering.
type Config struct {
	// Logger receives phase and per-item logs. Nil disables logging.
	Logger *slog.Logger

	// ParamTypes maps the names used in external_module params attributes
	// to Go parameter types. "none" and "dict" are always available.
	ParamTypes map[string]reflect.Type

	// FallbackParamType, when set, stands in for parameter type names not
	// in ParamTypes. Each substitution is reported as a warning.
	FallbackParamType reflect.Type

	// Roots restricts lowering to these modules and external modules and
	// everything they depend on. Empty means everything.
	Roots []string

	// Diagnostics receives non-fatal findings. Nil discards them.
	Diagnostics *types.Collector
}

// Lower builds a Library from files. Definitions are added to the
// Library dependencies first.
func Lower(files []*ast.File, cfg Config) (*hdl.Library, error) {
	ctx := newLowerContext(cfg)

	ctx.Log(slog.LevelDebug, "starting phase", slog.String("phase", "register"))
	registerDefinitions(ctx, files)
	ctx.Log(slog.LevelDebug, "phase complete", slog.String("phase", "register"),
		slog.Int("modules", len(ctx.modules)),
		slog.Int("externals", len(ctx.externals)),
		slog.Int("bundles", len(ctx.bundles)))

	ctx.Log(slog.LevelDebug, "starting phase", slog.String("phase", "order"))
	order, err := orderDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	ctx.Log(slog.LevelDebug, "phase complete", slog.String("phase", "order"),
		slog.Int("definitions", len(order)))

	ctx.Log(slog.LevelDebug, "starting phase", slog.String("phase", "build"))
	for _, sym := range order {
		if err := buildDefinition(ctx, sym); err != nil {
			return nil, err
		}
	}

	ctx.Log(slog.LevelInfo, "lowering complete",
		slog.Int("definitions", ctx.lib.Len()),
		slog.Int("bundles", len(ctx.lib.Bundles())))
	return ctx.lib, nil
}
