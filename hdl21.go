// Package hdl21 loads hardware definitions written in HCL into an
// hdl.Library of Modules, ExternalModules and Bundles.
//
// A definition file holds any number of blocks:
//
//	external_module "nmos" {
//	  params = "mos"
//	  port "d" {}
//	  port "g" {}
//	  port "s" {}
//	  port "b" {}
//	}
//
//	module "Inv" {
//	  input "i" {}
//	  output "o" {}
//	  signal "vss" {}
//	  instance "n" {
//	    of      = "nmos"
//	    params  = { w = 1 }
//	    connect = { d = o, g = i, s = vss, b = vss }
//	  }
//	}
//
// Building Modules directly in Go needs only the hdl package.
package hdl21

import (
	"context"
	"errors"
	"log/slog"
	"reflect"

	"github.com/hdl21/hdl21/hdl"
	"github.com/hdl21/hdl21/internal/types"
)

// ErrNoSources is returned when Load is called with no sources.
var ErrNoSources = errors.New("no definition sources provided")

// ErrDiagnosticThreshold is returned when a diagnostic reaches the
// configured failure severity.
var ErrDiagnosticThreshold = errors.New("diagnostic threshold reached")

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (bindings, connections, ports).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = types.LevelTrace

// Design is the result of loading: a Library plus the diagnostics
// reported while building it.
type Design struct {
	*hdl.Library
	diagnostics []Diagnostic
}

// Diagnostics returns the non-fatal issues found while loading.
func (d *Design) Diagnostics() []Diagnostic { return d.diagnostics }

// LoadOption configures Load and LoadModules.
type LoadOption func(*loadConfig)

type loadConfig struct {
	logger            *slog.Logger
	systemPaths       bool
	noHeuristic       bool
	paramTypes        map[string]reflect.Type
	fallbackParamType reflect.Type
	diagConfig        DiagnosticConfig
}

// WithLogger sets the logger for debug/trace output.
// If not set, no logging occurs (zero overhead).
func WithLogger(logger *slog.Logger) LoadOption {
	return func(c *loadConfig) { c.logger = logger }
}

// WithParamType registers a parameter type under name, for external
// modules declaring params = "<name>". t must be a struct type whose
// fields carry cty tags, or hdl.Dict.
func WithParamType(name string, t reflect.Type) LoadOption {
	return func(c *loadConfig) {
		if c.paramTypes == nil {
			c.paramTypes = make(map[string]reflect.Type)
		}
		c.paramTypes[name] = t
	}
}

// WithFallbackParamType sets the parameter type used for external
// modules whose params name was never registered with WithParamType.
// Tools loading arbitrary files typically pass hdl.Dict here.
func WithFallbackParamType(t reflect.Type) LoadOption {
	return func(c *loadConfig) { c.fallbackParamType = t }
}

// WithDiagnosticConfig sets diagnostic filtering and the failure threshold.
func WithDiagnosticConfig(cfg DiagnosticConfig) LoadOption {
	return func(c *loadConfig) { c.diagConfig = cfg }
}

// WithStrict fails loading on warnings as well as errors.
func WithStrict() LoadOption {
	return func(c *loadConfig) { c.diagConfig = types.StrictConfig() }
}

// WithNoHeuristic disables the content check that skips files not
// looking like definition files.
func WithNoHeuristic() LoadOption {
	return func(c *loadConfig) { c.noHeuristic = true }
}

// Load loads every definition from the given source.
// Use Multi() to combine multiple sources.
//
// Example:
//
//	design, err := hdl21.Load(ctx,
//	    hdl21.MustDirTree("./cells"),
//	    hdl21.WithParamType("mos", reflect.TypeFor[MosParams]()),
//	    hdl21.WithLogger(slog.Default()),
//	)
func Load(ctx context.Context, source Source, opts ...LoadOption) (*Design, error) {
	return loadFromSources(ctx, source, nil, opts)
}

// LoadModules loads specific modules by name, along with everything they
// instantiate. Files are found by name first: a module Foo is looked up
// in Foo.hcl. Names no file is named after are found by scanning every
// file.
//
// Example:
//
//	design, err := hdl21.LoadModules(ctx, []string{"Top"}, hdl21.MustDir("./rtl"))
func LoadModules(ctx context.Context, names []string, source Source, opts ...LoadOption) (*Design, error) {
	if names == nil {
		names = []string{}
	}
	return loadFromSources(ctx, source, names, opts)
}

// loadFromSources is the internal implementation.
// If names is nil, loads everything from sources.
// If names is non-nil, loads only those definitions plus dependencies.
func loadFromSources(ctx context.Context, source Source, names []string, opts []LoadOption) (*Design, error) {
	cfg := loadConfig{diagConfig: types.DefaultConfig()}
	for _, opt := range opts {
		opt(&cfg)
	}

	var sources []Source
	if source != nil {
		sources = append(sources, source)
	}
	if cfg.systemPaths {
		sources = append(sources, discoverSystemSources(types.Logger{L: cfg.logger})...)
	}
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	if names != nil {
		return loadModulesByName(ctx, sources, names, cfg)
	}
	return loadAllModules(ctx, sources, cfg)
}
