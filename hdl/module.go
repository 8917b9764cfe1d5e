package hdl

import (
	"fmt"
	"slices"
	"strings"
)

// Module is the central element of hardware reuse: a named, static
// combination of Signals, Instances of other Modules, and Bundles.
//
// Modules hold no behavior and no parameters. Attributes are added with
// Add, AddNamed or Set and are never removed.
type Module struct {
	name string

	ports       *Collection[*Signal]
	signals     *Collection[*Signal]
	instances   *Collection[*Instance]
	instarrays  *Collection[*InstanceArray]
	instbundles *Collection[*InstanceBundle]
	bundles     *Collection[*BundleInstance]
	namespace   *Collection[Attr] // union of all of the above

	private    map[string]any // "_"-prefixed scratch values, outside the namespace
	sourceInfo SourceInfo
	importPath []string
	updated    bool // set on every change, cleared by whoever caches derived data
}

// ModuleOption configures a Module at construction.
type ModuleOption func(*Module)

// WithSourceInfo overrides the caller-derived definition site.
func WithSourceInfo(si SourceInfo) ModuleOption {
	return func(m *Module) { m.sourceInfo = si }
}

// NewModule returns an empty Module. The calling package is recorded as
// the defining context. An empty name creates an anonymous Module, which
// cannot be compared or used as a key until named.
func NewModule(name string, opts ...ModuleOption) *Module {
	return newModule(name, callerSourceInfo(1), opts)
}

func newModule(name string, si SourceInfo, opts []ModuleOption) *Module {
	m := &Module{
		name:        name,
		ports:       newCollection[*Signal](),
		signals:     newCollection[*Signal](),
		instances:   newCollection[*Instance](),
		instarrays:  newCollection[*InstanceArray](),
		instbundles: newCollection[*InstanceBundle](),
		bundles:     newCollection[*BundleInstance](),
		namespace:   newCollection[Attr](),
		private:     make(map[string]any),
		sourceInfo:  si,
		updated:     true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name returns the module name, or "" if anonymous.
func (m *Module) Name() string { return m.name }

// SetName renames the Module.
func (m *Module) SetName(name string) {
	m.name = name
	m.updated = true
}

func (m *Module) instantiable() {}

// Ports returns the port-visible Signals.
func (m *Module) Ports() *Collection[*Signal] { return m.ports }

// Signals returns the internal Signals.
func (m *Module) Signals() *Collection[*Signal] { return m.signals }

// Instances returns the Instances.
func (m *Module) Instances() *Collection[*Instance] { return m.instances }

// InstArrays returns the InstanceArrays.
func (m *Module) InstArrays() *Collection[*InstanceArray] { return m.instarrays }

// InstBundles returns the InstanceBundles.
func (m *Module) InstBundles() *Collection[*InstanceBundle] { return m.instbundles }

// Bundles returns the BundleInstances.
func (m *Module) Bundles() *Collection[*BundleInstance] { return m.bundles }

// Namespace returns every attribute, keyed by name.
func (m *Module) Namespace() *Collection[Attr] { return m.namespace }

// BundlePorts returns the port-exposed BundleInstances in declaration order.
func (m *Module) BundlePorts() []*BundleInstance {
	var out []*BundleInstance
	for _, b := range m.bundles.All() {
		if b.port {
			out = append(out, b)
		}
	}
	return out
}

// Add adds val, named by its own Name. It returns val as an Attr so calls
// can be chained into connections.
func (m *Module) Add(val any) (Attr, error) {
	return m.add(val, "")
}

// AddNamed adds val under name. Exactly one of name and val's own name
// must be set; this allows names that are not valid identifiers.
func (m *Module) AddNamed(name string, val any) (Attr, error) {
	return m.add(val, name)
}

func (m *Module) add(val any, name string) (Attr, error) {
	attr, err := m.assertAttr(val)
	if err != nil {
		return nil, err
	}

	switch own := attr.Name(); {
	case name == "" && own == "":
		return nil, fmt.Errorf("%w: anonymous attribute %v cannot be added to %v", ErrNamingConflict, attr, m)
	case name != "" && own != "":
		return nil, fmt.Errorf("%w: %v with conflicting names %q and %q cannot be added to %v",
			ErrNamingConflict, attr, name, own, m)
	case name == "":
		name = own
	}
	if isProtected(name) {
		return nil, fmt.Errorf("%w: %q of %v", ErrProtectedAttribute, name, m)
	}

	if err := m.insert(attr, name); err != nil {
		return nil, err
	}
	return attr, nil
}

// Get returns the attribute named name, or nil. Only the namespace is
// consulted.
func (m *Module) Get(name string) Attr {
	attr, _ := m.namespace.Get(name)
	return attr
}

// Set assigns val to key, in the manner of an attribute assignment:
//   - keys starting with "_" store val as private scratch data, outside
//     the namespace;
//   - the collection names (ports, signals, ...) are rejected;
//   - "name" renames the Module and requires a string;
//   - anything else is classified and added under key. val must be
//     unnamed or already named key.
//
// An empty key is rejected.
func (m *Module) Set(key string, val any) error {
	if key == "" {
		return fmt.Errorf("%w: cannot assign %v to an empty key of %v", ErrNamingConflict, val, m)
	}
	if isInternal(key) {
		m.private[key] = val
		return nil
	}
	if isProtected(key) {
		return fmt.Errorf("%w: cannot overwrite %q of %v", ErrProtectedAttribute, key, m)
	}
	if key == "name" {
		name, ok := val.(string)
		if !ok {
			return fmt.Errorf("%w: module name must be a string, got %T", ErrInvalidAttributeType, val)
		}
		m.SetName(name)
		return nil
	}

	attr, err := m.assertAttr(val)
	if err != nil {
		return err
	}
	if own := attr.Name(); own != "" && own != key {
		return fmt.Errorf("%w: %v already named %q cannot be assigned to %q of %v",
			ErrConflictingName, attr, own, key, m)
	}
	return m.insert(attr, key)
}

// Lookup resolves key the way attribute access does. Private keys read
// the scratch store only. Other keys consult the namespace first and then
// the Module's own fields (name, ports, signals, ...).
func (m *Module) Lookup(key string) (any, bool) {
	if isInternal(key) {
		v, ok := m.private[key]
		return v, ok
	}
	if attr, ok := m.namespace.Get(key); ok {
		return attr, true
	}
	switch key {
	case "name":
		return m.name, true
	case "ports":
		return m.ports, true
	case "signals":
		return m.signals, true
	case "instances":
		return m.instances, true
	case "instarrays":
		return m.instarrays, true
	case "instbundles":
		return m.instbundles, true
	case "bundles":
		return m.bundles, true
	case "namespace":
		return m.namespace, true
	}
	return nil, false
}

// Delete always fails: removing attributes would require unwinding every
// reference to them.
func (m *Module) Delete(key string) error {
	return fmt.Errorf("%w: cannot delete attribute %q of %v", ErrUnsupported, key, m)
}

// Updated reports whether the Module changed since MarkCached was last called.
func (m *Module) Updated() bool { return m.updated }

// MarkCached clears the Updated flag. Call it after computing data derived
// from the Module's current contents.
func (m *Module) MarkCached() { m.updated = false }

// SourceInfo returns the definition site.
func (m *Module) SourceInfo() SourceInfo { return m.sourceInfo }

// ImportPath returns the path set by an importer, or nil.
func (m *Module) ImportPath() []string { return slices.Clone(m.importPath) }

// SetImportPath records that the Module was produced by import. The path
// takes priority over the definition site in QualName.
func (m *Module) SetImportPath(path ...string) {
	m.importPath = slices.Clone(path)
	if m.importPath == nil {
		m.importPath = []string{}
	}
}

// QualName returns the path-qualified name, or "" for an anonymous Module
// that was not imported.
func (m *Module) QualName() string {
	return qualName(m.name, m.importPath, m.sourceInfo)
}

// Key returns the QualName for use as a map key during export. It fails
// for anonymous Modules.
func (m *Module) Key() (string, error) {
	if m.name == "" {
		return "", fmt.Errorf("%w: cannot key unnamed %v", ErrUnnamedEntity, m)
	}
	return m.QualName(), nil
}

// Equal reports whether m and other have the same qualified name. It fails
// if either is anonymous. A nil operand equals only another nil.
func (m *Module) Equal(other *Module) (bool, error) {
	if m == nil || other == nil {
		return m == other, nil
	}
	if m.name == "" || other.name == "" {
		return false, fmt.Errorf("%w: cannot compare unnamed modules %v and %v", ErrUnnamedEntity, m, other)
	}
	return m.QualName() == other.QualName(), nil
}

func (m *Module) String() string {
	if m.name != "" {
		return "Module(name=" + m.name + ")"
	}
	return "Module(_anon_)"
}

// protectedNames are the Module's own fields, which attributes may not shadow.
var protectedNames = []string{
	"ports",
	"signals",
	"instances",
	"instarrays",
	"instbundles",
	"bundles",
	"namespace",
	"add",
	"get",
}

func isProtected(key string) bool { return slices.Contains(protectedNames, key) }

func isInternal(key string) bool { return strings.HasPrefix(key, "_") }
