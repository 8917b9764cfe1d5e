package hdl

import (
	"fmt"
	"slices"
	"strings"
)

// Concat is the bitwise concatenation of its parts, first part least
// significant.
type Concat struct {
	usage
	parts []Connectable
}

// NewConcat concatenates parts. Each part records the Concat as a user.
func NewConcat(parts ...Connectable) (*Concat, error) {
	if len(parts) == 0 {
		return nil, ErrEmptyConcat
	}
	for i, p := range parts {
		if isNilConnectable(p) {
			return nil, fmt.Errorf("%w: nil part %d in concatenation", ErrNotSliceable, i)
		}
	}
	c := &Concat{parts: slices.Clone(parts)}
	for _, p := range c.parts {
		p.uses().addConcat(c)
	}
	return c, nil
}

// Parts returns the concatenated values in order.
func (c *Concat) Parts() []Connectable { return slices.Clone(c.parts) }

// Width returns the sum of the part widths.
func (c *Concat) Width() (int, error) {
	total := 0
	for _, p := range c.parts {
		w, err := p.bitWidth()
		if err != nil {
			return 0, err
		}
		total += w
	}
	return total, nil
}

// Index returns a single-bit Slice of the concatenation.
func (c *Concat) Index(i int) *Slice { return newSlice(c, IntIndex(i)) }

// Slice returns a sub-range of the concatenation.
func (c *Concat) Slice(r RangeIndex) *Slice { return newSlice(c, r) }

func (c *Concat) String() string {
	names := make([]string, len(c.parts))
	for i, p := range c.parts {
		names[i] = p.String()
	}
	return "Concat(" + strings.Join(names, ", ") + ")"
}

func (c *Concat) bitWidth() (int, error) { return c.Width() }
func (c *Concat) uses() *usage           { return &c.usage }

func isNilConnectable(c Connectable) bool {
	switch v := c.(type) {
	case nil:
		return true
	case *Signal:
		return v == nil
	case *Slice:
		return v == nil
	case *Concat:
		return v == nil
	}
	return false
}
