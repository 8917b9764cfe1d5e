package hdl

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/zclconf/go-cty/cty"
)

// NoParams is the parameter type of ExternalModules that take none.
type NoParams struct{}

// Dict is the untyped parameter type: any string-keyed values.
type Dict = map[string]any

var (
	noParamsType = reflect.TypeFor[NoParams]()
	dictType     = reflect.TypeFor[Dict]()
)

// ExternalModule wraps a circuit defined outside this package, such as an
// existing netlist or a technology primitive. Unlike a Module it carries a
// parameter type; values are checked against it when the ExternalModule
// is called.
type ExternalModule struct {
	name       string
	portList   []*Signal
	ports      *Collection[*Signal]
	paramType  reflect.Type
	desc       string
	domain     string
	sourceInfo SourceInfo
	importPath []string
}

// ExternalOption configures an ExternalModule.
type ExternalOption func(*ExternalModule)

// WithParamType sets the parameter type: a struct type, or Dict.
// The default is NoParams.
func WithParamType(t reflect.Type) ExternalOption {
	return func(e *ExternalModule) { e.paramType = t }
}

// WithDesc sets a description.
func WithDesc(desc string) ExternalOption {
	return func(e *ExternalModule) { e.desc = desc }
}

// WithDomain sets the domain name used to reference the module on export.
func WithDomain(domain string) ExternalOption {
	return func(e *ExternalModule) { e.domain = domain }
}

// WithExternalSource overrides the caller-derived definition site.
func WithExternalSource(si SourceInfo) ExternalOption {
	return func(e *ExternalModule) { e.sourceInfo = si }
}

// NewExternalModule validates and returns an ExternalModule. Every port
// must be named, unique and port-visible; their order is kept for export.
func NewExternalModule(name string, ports []*Signal, opts ...ExternalOption) (*ExternalModule, error) {
	e := &ExternalModule{
		name:       name,
		portList:   slices.Clone(ports),
		ports:      newCollection[*Signal](),
		paramType:  noParamsType,
		sourceInfo: callerSourceInfo(1),
	}
	for _, opt := range opts {
		opt(e)
	}

	if !isParamClass(e.paramType) && e.paramType != dictType {
		return nil, fmt.Errorf("%w: %v for ExternalModule %s; param types must be structs or hdl.Dict",
			ErrInvalidParamType, e.paramType, displayName(name))
	}
	for _, p := range e.portList {
		switch {
		case p == nil || p.name == "":
			return nil, fmt.Errorf("%w: unnamed port %v on %s", ErrInvalidPort, p, displayName(name))
		case p.vis != VisPort:
			return nil, fmt.Errorf("%w: %s on %s must have port visibility", ErrInvalidPort, p.name, displayName(name))
		case e.ports.Has(p.name):
			return nil, fmt.Errorf("%w: duplicate port %s on %s", ErrInvalidPort, p.name, displayName(name))
		}
		e.ports.put(p.name, p)
	}
	return e, nil
}

func isParamClass(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Struct
}

// Name returns the module name, used directly on export.
func (e *ExternalModule) Name() string { return e.name }

// PortList returns the ports in declaration order.
func (e *ExternalModule) PortList() []*Signal { return slices.Clone(e.portList) }

// Ports returns the ports keyed by name.
func (e *ExternalModule) Ports() *Collection[*Signal] { return e.ports }

// Params returns the parameter type.
func (e *ExternalModule) Params() reflect.Type { return e.paramType }

// Desc returns the description, or "".
func (e *ExternalModule) Desc() string { return e.desc }

// Domain returns the export domain, or "".
func (e *ExternalModule) Domain() string { return e.domain }

// SourceInfo returns the definition site.
func (e *ExternalModule) SourceInfo() SourceInfo { return e.sourceInfo }

// ImportPath returns the path set by an importer, or nil.
func (e *ExternalModule) ImportPath() []string { return slices.Clone(e.importPath) }

// SetImportPath records that e was produced by import.
func (e *ExternalModule) SetImportPath(path ...string) {
	e.importPath = slices.Clone(path)
	if e.importPath == nil {
		e.importPath = []string{}
	}
}

// QualName returns the path-qualified name.
func (e *ExternalModule) QualName() string {
	return qualName(e.name, e.importPath, e.sourceInfo)
}

// Key returns the QualName for use as a map key. It fails if unnamed.
func (e *ExternalModule) Key() (string, error) {
	if e.name == "" {
		return "", fmt.Errorf("%w: cannot key unnamed ExternalModule", ErrUnnamedEntity)
	}
	return e.QualName(), nil
}

// Equal reports whether e and other have the same qualified name.
func (e *ExternalModule) Equal(other *ExternalModule) (bool, error) {
	if e == nil || other == nil {
		return e == other, nil
	}
	if e.name == "" || other.name == "" {
		return false, fmt.Errorf("%w: cannot compare unnamed ExternalModules", ErrUnnamedEntity)
	}
	return e.QualName() == other.QualName(), nil
}

// Call pairs e with parameter values. params may be:
//   - nil, for the parameter type's defaults;
//   - a cty object, converted with BuildParams;
//   - a value of exactly the parameter type.
func (e *ExternalModule) Call(params any) (*ExternalModuleCall, error) {
	switch p := params.(type) {
	case nil:
		params = defaultParams(e.paramType)
	case cty.Value:
		v, err := BuildParams(e.paramType, p)
		if err != nil {
			return nil, fmt.Errorf("ExternalModule %s: %w", displayName(e.name), err)
		}
		params = v
	}
	return NewExternalModuleCall(e, params)
}

func (e *ExternalModule) String() string {
	return "ExternalModule(name=" + displayName(e.name) + ")"
}

// ExternalModuleCall is an ExternalModule paired with its parameter
// values. It is instantiable.
type ExternalModuleCall struct {
	module *ExternalModule
	params any
}

// NewExternalModuleCall pairs module with params, whose dynamic type must
// be exactly the module's parameter type.
func NewExternalModuleCall(module *ExternalModule, params any) (*ExternalModuleCall, error) {
	if module == nil {
		return nil, fmt.Errorf("%w: nil ExternalModule", ErrInvalidParams)
	}
	if got := reflect.TypeOf(params); got != module.paramType {
		return nil, fmt.Errorf("%w: %v for ExternalModule %s, must be %v",
			ErrParamTypeMismatch, got, displayName(module.name), module.paramType)
	}
	return &ExternalModuleCall{module: module, params: params}, nil
}

// Module returns the called ExternalModule.
func (c *ExternalModuleCall) Module() *ExternalModule { return c.module }

// Params returns the parameter values.
func (c *ExternalModuleCall) Params() any { return c.params }

// Name returns the ExternalModule name.
func (c *ExternalModuleCall) Name() string { return c.module.name }

// Ports returns the ExternalModule ports.
func (c *ExternalModuleCall) Ports() *Collection[*Signal] { return c.module.ports }

func (c *ExternalModuleCall) instantiable() {}

func (c *ExternalModuleCall) String() string {
	return fmt.Sprintf("ExternalModuleCall(module=%s, params=%+v)", displayName(c.module.name), c.params)
}
