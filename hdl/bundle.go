package hdl

import "fmt"

// Bundle is a named, structured group of Signals. A Bundle is a definition;
// Modules hold BundleInstances of it.
type Bundle struct {
	name    string
	signals *Collection[*Signal]
}

// NewBundle returns a Bundle of the given Signals, which must be named
// and distinct.
func NewBundle(name string, signals ...*Signal) (*Bundle, error) {
	b := &Bundle{name: name, signals: newCollection[*Signal]()}
	for _, s := range signals {
		if s == nil || s.name == "" {
			return nil, fmt.Errorf("%w: unnamed signal in bundle %s", ErrInvalidBundle, displayName(name))
		}
		if b.signals.Has(s.name) {
			return nil, fmt.Errorf("%w: duplicate signal %s in bundle %s", ErrInvalidBundle, s.name, displayName(name))
		}
		b.signals.put(s.name, s)
	}
	return b, nil
}

// Name returns the Bundle name.
func (b *Bundle) Name() string { return b.name }

// Signals returns the Bundle's Signals in declaration order.
func (b *Bundle) Signals() *Collection[*Signal] { return b.signals }

// Width returns the total width of all Signals.
func (b *Bundle) Width() int {
	total := 0
	for _, s := range b.signals.All() {
		total += s.width
	}
	return total
}

func (b *Bundle) String() string { return fmt.Sprintf("Bundle(name=%s)", displayName(b.name)) }

// BundleInstance is an instance of a Bundle held by a Module. Port
// BundleInstances are part of the Module's interface.
type BundleInstance struct {
	attrBase
	of   *Bundle
	port bool
}

// NewBundleInstance returns an unnamed instance of of.
func NewBundleInstance(of *Bundle, port bool) *BundleInstance {
	return &BundleInstance{of: of, port: port}
}

// Kind returns KindBundleInstance.
func (bi *BundleInstance) Kind() AttrKind { return KindBundleInstance }

// Of returns the Bundle definition.
func (bi *BundleInstance) Of() *Bundle { return bi.of }

// IsPort reports whether the instance is part of the Module interface.
func (bi *BundleInstance) IsPort() bool { return bi.port }

func (bi *BundleInstance) String() string {
	of := "_anon_"
	if bi.of != nil {
		of = displayName(bi.of.name)
	}
	return fmt.Sprintf("BundleInstance(name=%s, of=%s)", displayName(bi.name), of)
}
