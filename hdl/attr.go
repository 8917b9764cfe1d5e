package hdl

import "weak"

// AttrKind identifies the variant of a module attribute.
type AttrKind int

const (
	KindSignal AttrKind = iota
	KindInstance
	KindInstanceArray
	KindInstanceBundle
	KindBundleInstance
)

var attrKindNames = [...]string{
	KindSignal:         "Signal",
	KindInstance:       "Instance",
	KindInstanceArray:  "InstanceArray",
	KindInstanceBundle: "InstanceBundle",
	KindBundleInstance: "BundleInstance",
}

func (k AttrKind) String() string {
	if k >= 0 && int(k) < len(attrKindNames) {
		return attrKindNames[k]
	}
	return "AttrKind(?)"
}

// Attr is a value storable on a Module. The set of implementations is
// closed: *Signal, *Instance, *InstanceArray, *InstanceBundle and
// *BundleInstance.
type Attr interface {
	// Name returns the attribute name, or "" if not yet named.
	Name() string
	// Kind returns the attribute variant.
	Kind() AttrKind
	// Parent returns the Module the attribute was most recently added to,
	// or nil. The reference is non-owning.
	Parent() *Module

	setName(name string)
	setParent(m *Module)
}

// attrBase holds the fields shared by every Attr.
type attrBase struct {
	name   string
	parent weak.Pointer[Module]
}

func (a *attrBase) Name() string { return a.name }

func (a *attrBase) Parent() *Module { return a.parent.Value() }

func (a *attrBase) setName(name string) { a.name = name }

// setParent overwrites any previous owner. Attributes copied between
// Modules simply follow the most recent one.
func (a *attrBase) setParent(m *Module) { a.parent = weak.Make(m) }
