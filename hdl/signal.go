package hdl

import (
	"fmt"
	"strings"
)

// Visibility marks whether a Signal is part of a Module's interface.
type Visibility int

const (
	VisInternal Visibility = iota
	VisPort
)

func (v Visibility) String() string {
	if v == VisPort {
		return "port"
	}
	return "internal"
}

// PortDir is the direction of a port Signal.
type PortDir int

const (
	DirNone PortDir = iota
	DirInput
	DirOutput
	DirInout
)

var portDirNames = [...]string{
	DirNone:   "none",
	DirInput:  "input",
	DirOutput: "output",
	DirInout:  "inout",
}

func (d PortDir) String() string {
	if d >= 0 && int(d) < len(portDirNames) {
		return portDirNames[d]
	}
	return "PortDir(?)"
}

// ParsePortDir parses a direction name as printed by PortDir.String.
// The empty string parses as DirNone.
func ParsePortDir(s string) (PortDir, bool) {
	if s == "" {
		return DirNone, true
	}
	for i, name := range portDirNames {
		if strings.EqualFold(s, name) {
			return PortDir(i), true
		}
	}
	return DirNone, false
}

// Signal is a named bit-vector. Port-visible Signals form a Module's
// interface; all others are internal wiring.
type Signal struct {
	attrBase
	usage
	width int
	vis   Visibility
	dir   PortDir
	desc  string
}

// SignalOption configures a Signal at construction.
type SignalOption func(*Signal)

// Named sets the Signal name. Unnamed Signals take their name from the
// key they are assigned to on a Module.
func Named(name string) SignalOption {
	return func(s *Signal) { s.name = name }
}

// Width sets the Signal width. It panics if w is negative.
func Width(w int) SignalOption {
	if w < 0 {
		panic(fmt.Sprintf("hdl: negative signal width %d", w))
	}
	return func(s *Signal) { s.width = w }
}

// Desc sets a free-form description.
func Desc(desc string) SignalOption {
	return func(s *Signal) { s.desc = desc }
}

// WithVisibility sets the Signal visibility.
func WithVisibility(v Visibility) SignalOption {
	return func(s *Signal) { s.vis = v }
}

// WithDirection sets the port direction. Setting a direction other than
// DirNone also makes the Signal a port.
func WithDirection(d PortDir) SignalOption {
	return func(s *Signal) {
		s.dir = d
		if d != DirNone {
			s.vis = VisPort
		}
	}
}

// NewSignal returns an internal Signal of width 1 unless configured otherwise.
func NewSignal(opts ...SignalOption) *Signal {
	s := &Signal{width: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Input returns an input port.
func Input(opts ...SignalOption) *Signal { return newPort(DirInput, opts) }

// Output returns an output port.
func Output(opts ...SignalOption) *Signal { return newPort(DirOutput, opts) }

// Inout returns a bidirectional port.
func Inout(opts ...SignalOption) *Signal { return newPort(DirInout, opts) }

// NewPort returns a port without a direction.
func NewPort(opts ...SignalOption) *Signal { return newPort(DirNone, opts) }

func newPort(dir PortDir, opts []SignalOption) *Signal {
	s := &Signal{width: 1, vis: VisPort, dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Kind returns KindSignal.
func (s *Signal) Kind() AttrKind { return KindSignal }

// Width returns the number of bits.
func (s *Signal) Width() int { return s.width }

// Visibility returns whether this Signal is a port.
func (s *Signal) Visibility() Visibility { return s.vis }

// IsPort reports whether the Signal has Port visibility.
func (s *Signal) IsPort() bool { return s.vis == VisPort }

// Direction returns the port direction.
func (s *Signal) Direction() PortDir { return s.dir }

// Desc returns the description, or "".
func (s *Signal) Desc() string { return s.desc }

// Index returns the single-bit Slice at i. Bounds are checked when the
// Slice is resolved.
func (s *Signal) Index(i int) *Slice { return newSlice(s, IntIndex(i)) }

// Slice returns the Slice selected by r.
func (s *Signal) Slice(r RangeIndex) *Slice { return newSlice(s, r) }

func (s *Signal) String() string {
	name := s.name
	if name == "" {
		name = "_anon_"
	}
	return fmt.Sprintf("Signal(name=%s, width=%d)", name, s.width)
}

func (s *Signal) bitWidth() (int, error) { return s.width, nil }
func (s *Signal) uses() *usage           { return &s.usage }
