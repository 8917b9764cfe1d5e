package hdl

import (
	"fmt"
	"strconv"
	"strings"
)

// Index is the argument of a square-bracket access: an IntIndex or a
// RangeIndex.
type Index interface {
	String() string
	isIndex()
}

// IntIndex selects a single bit. Negative values count from the top.
type IntIndex int

func (IntIndex) isIndex() {}

func (i IntIndex) String() string { return strconv.Itoa(int(i)) }

// RangeIndex is a start:stop:step selection. Start is inclusive and stop
// exclusive; any of the three may be omitted.
type RangeIndex struct {
	start, stop, step          int
	hasStart, hasStop, hasStep bool
}

func (RangeIndex) isIndex() {}

// Span returns the full range, equivalent to [:].
func Span() RangeIndex { return RangeIndex{} }

// Range returns the range [start:stop].
func Range(start, stop int) RangeIndex {
	return Span().From(start).To(stop)
}

// From returns a copy of r with the given start.
func (r RangeIndex) From(start int) RangeIndex {
	r.start, r.hasStart = start, true
	return r
}

// To returns a copy of r with the given stop.
func (r RangeIndex) To(stop int) RangeIndex {
	r.stop, r.hasStop = stop, true
	return r
}

// By returns a copy of r with the given step.
func (r RangeIndex) By(step int) RangeIndex {
	r.step, r.hasStep = step, true
	return r
}

// Start returns the start bound and whether it was given.
func (r RangeIndex) Start() (int, bool) { return r.start, r.hasStart }

// Stop returns the stop bound and whether it was given.
func (r RangeIndex) Stop() (int, bool) { return r.stop, r.hasStop }

// Step returns the step and whether it was given.
func (r RangeIndex) Step() (int, bool) { return r.step, r.hasStep }

func (r RangeIndex) String() string {
	var b strings.Builder
	if r.hasStart {
		b.WriteString(strconv.Itoa(r.start))
	}
	b.WriteByte(':')
	if r.hasStop {
		b.WriteString(strconv.Itoa(r.stop))
	}
	if r.hasStep {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(r.step))
	}
	return b.String()
}

// ParseIndex parses the text between square brackets: "3", "-1", "2:6",
// ":4", "::-1" or "6:2:-1".
func ParseIndex(s string) (Index, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty index", ErrInvalidIndex)
	}
	parts := strings.Split(s, ":")
	if len(parts) == 1 {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidIndex, s)
		}
		return IntIndex(n), nil
	}
	if len(parts) > 3 {
		return nil, fmt.Errorf("%w: too many ':' in %q", ErrInvalidIndex, s)
	}

	r := Span()
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: bad bound %q in %q", ErrInvalidIndex, part, s)
		}
		switch i {
		case 0:
			r = r.From(n)
		case 1:
			r = r.To(n)
		case 2:
			r = r.By(n)
		}
	}
	return r, nil
}
