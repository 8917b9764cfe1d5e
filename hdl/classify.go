package hdl

import "fmt"

// validAttrTypes lists the attribute variants, for error messages.
const validAttrTypes = "Signal, Instance, InstanceArray, InstanceBundle, BundleInstance"

// IsAttr reports whether val can be stored on a Module.
func IsAttr(val any) bool {
	switch v := val.(type) {
	case *Signal:
		return v != nil
	case *Instance:
		return v != nil
	case *InstanceArray:
		return v != nil
	case *InstanceBundle:
		return v != nil
	case *BundleInstance:
		return v != nil
	}
	return false
}

// assertAttr returns val as an Attr, or an ErrInvalidAttributeType error
// explaining the likely mix-up.
func (m *Module) assertAttr(val any) (Attr, error) {
	if !IsAttr(val) {
		return nil, m.attrTypeError(val)
	}
	return val.(Attr), nil
}

func (m *Module) attrTypeError(val any) error {
	switch v := val.(type) {
	case *ExternalModule:
		return fmt.Errorf("%w: cannot add ExternalModule %s to Module %s; did you mean to make an Instance by calling it, once for params and once for connections, first?",
			ErrInvalidAttributeType, displayName(v.name), displayName(m.name))
	case *Bundle:
		return fmt.Errorf("%w: cannot add Bundle %s to Module %s; did you mean to make a BundleInstance of it first?",
			ErrInvalidAttributeType, displayName(v.name), displayName(m.name))
	case *Module:
		return fmt.Errorf("%w: cannot add Module %s to Module %s; did you mean to make an Instance by calling it to connect it first?",
			ErrInvalidAttributeType, displayName(v.name), displayName(m.name))
	case *ExternalModuleCall:
		return fmt.Errorf("%w: cannot add ExternalModuleCall %v to Module %s; did you mean to make an Instance by calling it to connect it first?",
			ErrInvalidAttributeType, v, displayName(m.name))
	}
	return fmt.Errorf("%w: %v of type %T for %v; valid Module attributes are of types: %s",
		ErrInvalidAttributeType, val, val, m, validAttrTypes)
}

// insert sorts attr into exactly one typed collection and the namespace,
// names it, and points it back at m.
func (m *Module) insert(attr Attr, name string) error {
	if m.namespace.Has(name) {
		return fmt.Errorf("%w: %q already bound in %v", ErrDuplicateAttribute, name, m)
	}

	switch a := attr.(type) {
	case *Signal:
		if a.vis == VisPort {
			m.ports.put(name, a)
		} else {
			m.signals.put(name, a)
		}
	case *Instance:
		m.instances.put(name, a)
	case *InstanceArray:
		m.instarrays.put(name, a)
	case *InstanceBundle:
		m.instbundles.put(name, a)
	case *BundleInstance:
		m.bundles.put(name, a)
	default:
		// Unreachable while callers go through assertAttr.
		return m.attrTypeError(attr)
	}

	attr.setName(name)
	m.namespace.put(name, attr)
	attr.setParent(m)
	m.updated = true
	return nil
}
