package hdl

import "weak"

// Connectable is a value that can be connected to an instance port:
// *Signal, *Slice or *Concat.
type Connectable interface {
	String() string
	bitWidth() (int, error)
	uses() *usage
}

// Sliceable is a Connectable that can be indexed into a Slice.
type Sliceable interface {
	Connectable
	Index(i int) *Slice
	Slice(r RangeIndex) *Slice
}

// PortRef identifies an instance port a Connectable is connected to.
type PortRef struct {
	Instance Attr // *Instance or *InstanceArray
	Port     string
}

type portUse struct {
	inst weak.Pointer[Instance]
	arr  weak.Pointer[InstanceArray]
	port string
}

func (p portUse) ref() (PortRef, bool) {
	if inst := p.inst.Value(); inst != nil {
		return PortRef{Instance: inst, Port: p.port}, true
	}
	if arr := p.arr.Value(); arr != nil {
		return PortRef{Instance: arr, Port: p.port}, true
	}
	return PortRef{}, false
}

// usage records what refers to a Connectable. All references are weak:
// they never keep the referrer alive and are dropped once it is collected.
type usage struct {
	slices  []weak.Pointer[Slice]
	concats []weak.Pointer[Concat]
	ports   []portUse
}

// Slices returns the live Slices taken over this value.
func (u *usage) Slices() []*Slice {
	return live(&u.slices)
}

// Concats returns the live Concats that include this value.
func (u *usage) Concats() []*Concat {
	return live(&u.concats)
}

// ConnectedPorts returns the instance ports this value is connected to.
func (u *usage) ConnectedPorts() []PortRef {
	kept := u.ports[:0]
	var refs []PortRef
	for _, p := range u.ports {
		if r, ok := p.ref(); ok {
			refs = append(refs, r)
			kept = append(kept, p)
		}
	}
	u.ports = kept
	return refs
}

func (u *usage) addSlice(s *Slice)   { u.slices = append(u.slices, weak.Make(s)) }
func (u *usage) addConcat(c *Concat) { u.concats = append(u.concats, weak.Make(c)) }

func (u *usage) addPort(owner Attr, port string) {
	switch o := owner.(type) {
	case *Instance:
		u.ports = append(u.ports, portUse{inst: weak.Make(o), port: port})
	case *InstanceArray:
		u.ports = append(u.ports, portUse{arr: weak.Make(o), port: port})
	}
}

// live returns the non-collected targets of ptrs, compacting ptrs in place.
func live[T any](ptrs *[]weak.Pointer[T]) []*T {
	kept := (*ptrs)[:0]
	var out []*T
	for _, p := range *ptrs {
		if v := p.Value(); v != nil {
			out = append(out, v)
			kept = append(kept, p)
		}
	}
	*ptrs = kept
	return out
}
