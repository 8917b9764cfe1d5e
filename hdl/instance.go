package hdl

import "fmt"

// Instantiable is a blueprint an Instance can be made of: a *Module or an
// *ExternalModuleCall.
type Instantiable interface {
	Name() string
	instantiable()
}

// instBase holds the target and port connections shared by Instance and
// InstanceArray.
type instBase struct {
	attrBase
	of    Instantiable
	conns *Collection[Connectable]
}

// Of returns the instantiated blueprint.
func (b *instBase) Of() Instantiable { return b.of }

// Connections returns port connections in the order they were made.
func (b *instBase) Connections() *Collection[Connectable] { return b.conns }

func (b *instBase) connect(owner Attr, port string, c Connectable) {
	if isNilConnectable(c) {
		return
	}
	b.conns.put(port, c)
	c.uses().addPort(owner, port)
}

// Instance is a single instantiation of a Module or ExternalModule.
type Instance struct {
	instBase
}

// NewInstance returns an unnamed, unconnected Instance of of.
func NewInstance(of Instantiable) *Instance {
	return &Instance{instBase{of: of, conns: newCollection[Connectable]()}}
}

// Kind returns KindInstance.
func (i *Instance) Kind() AttrKind { return KindInstance }

// Connect connects port to c and returns i for chaining. Reconnecting a
// port replaces the earlier connection; a nil c is ignored.
func (i *Instance) Connect(port string, c Connectable) *Instance {
	i.connect(i, port, c)
	return i
}

func (i *Instance) String() string {
	return fmt.Sprintf("Instance(name=%s, of=%s)", displayName(i.name), targetName(i.of))
}

// InstanceArray is n parallel instantiations of the same blueprint.
type InstanceArray struct {
	instBase
	n int
}

// NewInstanceArray returns an unnamed array of n instances of of.
func NewInstanceArray(of Instantiable, n int) *InstanceArray {
	return &InstanceArray{
		instBase: instBase{of: of, conns: newCollection[Connectable]()},
		n:        n,
	}
}

// Kind returns KindInstanceArray.
func (a *InstanceArray) Kind() AttrKind { return KindInstanceArray }

// N returns the array size.
func (a *InstanceArray) N() int { return a.n }

// Connect connects port to c and returns a for chaining.
func (a *InstanceArray) Connect(port string, c Connectable) *InstanceArray {
	a.connect(a, port, c)
	return a
}

func (a *InstanceArray) String() string {
	return fmt.Sprintf("InstanceArray(name=%s, of=%s, n=%d)", displayName(a.name), targetName(a.of), a.n)
}

// InstanceBundle is a group of instances of one blueprint, one per Signal
// of a Bundle.
type InstanceBundle struct {
	attrBase
	of     Instantiable
	bundle *Bundle
}

// NewInstanceBundle returns an unnamed InstanceBundle.
func NewInstanceBundle(of Instantiable, bundle *Bundle) *InstanceBundle {
	return &InstanceBundle{of: of, bundle: bundle}
}

// Kind returns KindInstanceBundle.
func (b *InstanceBundle) Kind() AttrKind { return KindInstanceBundle }

// Of returns the instantiated blueprint.
func (b *InstanceBundle) Of() Instantiable { return b.of }

// Bundle returns the Bundle the instances are mapped over.
func (b *InstanceBundle) Bundle() *Bundle { return b.bundle }

func (b *InstanceBundle) String() string {
	return fmt.Sprintf("InstanceBundle(name=%s, of=%s)", displayName(b.name), targetName(b.of))
}

func displayName(name string) string {
	if name == "" {
		return "_anon_"
	}
	return name
}

func targetName(of Instantiable) string {
	if of == nil {
		return "_anon_"
	}
	return displayName(of.Name())
}
