package hdl

import (
	"fmt"
	"slices"
)

// Library is a name-indexed set of definitions: Modules, ExternalModules
// and Bundles, as produced by a loader.
type Library struct {
	modules   *Collection[*Module]
	externals *Collection[*ExternalModule]
	bundles   *Collection[*Bundle]
	order     []string
}

// NewLibrary returns an empty Library.
func NewLibrary() *Library {
	return &Library{
		modules:   newCollection[*Module](),
		externals: newCollection[*ExternalModule](),
		bundles:   newCollection[*Bundle](),
	}
}

// AddModule adds m. Module and ExternalModule names share one namespace.
func (l *Library) AddModule(m *Module) error {
	if err := l.checkName(m.name); err != nil {
		return err
	}
	l.modules.put(m.name, m)
	l.order = append(l.order, m.name)
	return nil
}

// AddExternal adds e.
func (l *Library) AddExternal(e *ExternalModule) error {
	if err := l.checkName(e.name); err != nil {
		return err
	}
	l.externals.put(e.name, e)
	l.order = append(l.order, e.name)
	return nil
}

// AddBundle adds b. Bundle names are separate from module names.
func (l *Library) AddBundle(b *Bundle) error {
	if b.name == "" {
		return fmt.Errorf("%w: bundle", ErrUnnamedEntity)
	}
	if l.bundles.Has(b.name) {
		return fmt.Errorf("%w: bundle %s already defined", ErrDuplicateAttribute, b.name)
	}
	l.bundles.put(b.name, b)
	return nil
}

func (l *Library) checkName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: library entries must be named", ErrUnnamedEntity)
	}
	if l.modules.Has(name) || l.externals.Has(name) {
		return fmt.Errorf("%w: %s already defined", ErrDuplicateAttribute, name)
	}
	return nil
}

// Module returns the Module named name, or nil.
func (l *Library) Module(name string) *Module {
	m, _ := l.modules.Get(name)
	return m
}

// External returns the ExternalModule named name, or nil.
func (l *Library) External(name string) *ExternalModule {
	e, _ := l.externals.Get(name)
	return e
}

// Bundle returns the Bundle named name, or nil.
func (l *Library) Bundle(name string) *Bundle {
	b, _ := l.bundles.Get(name)
	return b
}

// Modules returns all Modules in the order they were added.
func (l *Library) Modules() []*Module { return l.modules.Values() }

// Externals returns all ExternalModules in the order they were added.
func (l *Library) Externals() []*ExternalModule { return l.externals.Values() }

// Bundles returns all Bundles in the order they were added.
func (l *Library) Bundles() []*Bundle { return l.bundles.Values() }

// Order returns Module and ExternalModule names in the order they were
// added. Loaders add definitions before anything that instantiates them.
func (l *Library) Order() []string { return slices.Clone(l.order) }

// Len returns the number of Modules and ExternalModules.
func (l *Library) Len() int { return len(l.order) }
