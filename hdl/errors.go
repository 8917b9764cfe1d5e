package hdl

import "errors"

// Attribute and container errors.
var (
	// ErrInvalidAttributeType is returned when a value offered to a Module
	// is not a Signal, Instance, InstanceArray, InstanceBundle or BundleInstance.
	ErrInvalidAttributeType = errors.New("invalid module attribute type")

	// ErrNamingConflict is returned by Add when both or neither of the
	// value's name and the explicit name are set, and by Set for an empty
	// key.
	ErrNamingConflict = errors.New("naming conflict")

	// ErrConflictingName is returned by Set when the value already carries
	// a name different from the key it is assigned to.
	ErrConflictingName = errors.New("conflicting name")

	// ErrProtectedAttribute is returned when assigning to one of the
	// Module's own collection names.
	ErrProtectedAttribute = errors.New("protected attribute")

	// ErrDuplicateAttribute is returned when a name is already bound in
	// the Module namespace. Modules are append-only.
	ErrDuplicateAttribute = errors.New("duplicate attribute")

	// ErrUnnamedEntity is returned when equality or a key is requested for
	// a Module or ExternalModule without a name.
	ErrUnnamedEntity = errors.New("unnamed entity")

	// ErrUnsupported is returned for attribute deletion.
	ErrUnsupported = errors.New("unsupported operation")

	// ErrSubtypingDisallowed is returned when a module declaration names
	// base definitions.
	ErrSubtypingDisallowed = errors.New("module subtyping is not supported")
)

// ExternalModule errors.
var (
	ErrInvalidParamType  = errors.New("invalid parameter type")
	ErrParamTypeMismatch = errors.New("parameter type mismatch")
	ErrInvalidParams     = errors.New("invalid parameters")
	ErrInvalidPort       = errors.New("invalid port")
)

// Slice errors.
var (
	ErrOutOfBounds   = errors.New("index out of bounds")
	ErrZeroStep      = errors.New("slice step cannot be zero")
	ErrNotSliceable  = errors.New("value is not sliceable")
	ErrInvalidIndex  = errors.New("invalid index expression")
	ErrEmptyConcat   = errors.New("concatenation has no parts")
	ErrInvalidBundle = errors.New("invalid bundle")
)
