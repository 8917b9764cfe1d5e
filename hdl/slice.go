package hdl

import "fmt"

// Slice is a by-index reference into a Signal, Concat or another Slice.
//
// A Slice is compared by identity: two Slices over the same parent and
// index are distinct values. Its bounds are resolved on first access and
// cached; the parent's width must not change after Slices over it exist.
type Slice struct {
	usage
	parent Sliceable
	index  Index
	inner  *SliceInner
}

// SliceInner holds the resolved bounds of a Slice.
type SliceInner struct {
	Top   int // exclusive
	Bot   int // inclusive
	Step  int // as requested; zero when absent
	Width int
}

// NewSlice returns an unresolved Slice of parent selected by idx.
func NewSlice(parent Sliceable, idx Index) (*Slice, error) {
	if isNilConnectable(parent) {
		return nil, fmt.Errorf("%w: nil parent", ErrNotSliceable)
	}
	if idx == nil {
		return nil, fmt.Errorf("%w: nil index into %v", ErrInvalidIndex, parent)
	}
	return newSlice(parent, idx), nil
}

func newSlice(parent Sliceable, idx Index) *Slice {
	s := &Slice{parent: parent, index: idx}
	parent.uses().addSlice(s)
	return s
}

// Parent returns the sliced value.
func (s *Slice) Parent() Sliceable { return s.parent }

// Selection returns the index as requested.
func (s *Slice) Selection() Index { return s.index }

// Resolved reports whether the bounds have been computed.
func (s *Slice) Resolved() bool { return s.inner != nil }

// Inner returns the resolved bounds, computing them on first call. Later
// calls return the same *SliceInner.
func (s *Slice) Inner() (*SliceInner, error) {
	if s.inner != nil {
		return s.inner, nil
	}
	width, err := s.parent.bitWidth()
	if err != nil {
		return nil, err
	}
	inner, err := Resolve(s.index, width)
	if err != nil {
		return nil, fmt.Errorf("%w (index %s into %v)", err, s.index, s.parent)
	}
	s.inner = &inner
	return s.inner, nil
}

// Top returns the exclusive top bound.
func (s *Slice) Top() (int, error) {
	in, err := s.Inner()
	if err != nil {
		return 0, err
	}
	return in.Top, nil
}

// Bot returns the inclusive bottom bound.
func (s *Slice) Bot() (int, error) {
	in, err := s.Inner()
	if err != nil {
		return 0, err
	}
	return in.Bot, nil
}

// Step returns the requested step, zero if none was given.
func (s *Slice) Step() (int, error) {
	in, err := s.Inner()
	if err != nil {
		return 0, err
	}
	return in.Step, nil
}

// Width returns the number of selected bits.
func (s *Slice) Width() (int, error) {
	in, err := s.Inner()
	if err != nil {
		return 0, err
	}
	return in.Width, nil
}

// Index returns a single-bit Slice of this Slice.
func (s *Slice) Index(i int) *Slice { return newSlice(s, IntIndex(i)) }

// Slice returns a sub-range of this Slice.
func (s *Slice) Slice(r RangeIndex) *Slice { return newSlice(s, r) }

func (s *Slice) String() string {
	return fmt.Sprintf("Slice(parent=%v, index=%s)", s.parent, s.index)
}

func (s *Slice) bitWidth() (int, error) { return s.Width() }
func (s *Slice) uses() *usage           { return &s.usage }

// Resolve computes concrete bounds for idx over a value of the given width.
//
// An IntIndex i selects [i, i+1); negative i counts from the top. Ranges
// follow sequence-slice conventions: bounds are clamped to [0, width], and
// the span is trimmed to a whole number of steps so that
// Width == (Top-Bot)/|Step| exactly. For negative steps Top is derived from
// the (inclusive) start and Bot from the (exclusive) stop.
//
// Clamping is deliberate: over width 8, Range(2, 20) resolves to width 6,
// never to a width past the end of the value.
func Resolve(idx Index, width int) (SliceInner, error) {
	switch ix := idx.(type) {
	case IntIndex:
		i := int(ix)
		if i < 0 {
			i += width
		}
		if i < 0 || i >= width {
			return SliceInner{}, fmt.Errorf("%w: index %d for width %d", ErrOutOfBounds, int(ix), width)
		}
		return SliceInner{Top: i + 1, Bot: i, Width: 1}, nil

	case RangeIndex:
		return resolveRange(ix, width)
	}
	return SliceInner{}, fmt.Errorf("%w: %v", ErrInvalidIndex, idx)
}

func resolveRange(r RangeIndex, width int) (SliceInner, error) {
	step := 1
	if r.hasStep {
		step = r.step
	}
	if step == 0 {
		return SliceInner{}, ErrZeroStep
	}

	var top, bot int
	if step < 0 {
		// start is inclusive and stop exclusive, so both shift up by one.
		top = width
		if r.hasStart {
			top = r.start + 1
			if r.start < 0 {
				top += width
			}
		}
		if r.hasStop {
			bot = r.stop + 1
			if r.stop < 0 {
				bot += width
			}
		}
		top, bot = clampSpan(top, bot, width)
		bot += (top - bot) % -step
	} else {
		top = width
		if r.hasStop {
			top = r.stop
			if r.stop < 0 {
				top += width
			}
		}
		if r.hasStart {
			bot = r.start
			if r.start < 0 {
				bot += width
			}
		}
		top, bot = clampSpan(top, bot, width)
		top -= (top - bot) % step
	}

	return SliceInner{
		Top:   top,
		Bot:   bot,
		Step:  r.step,
		Width: (top - bot) / abs(step),
	}, nil
}

// clampSpan limits both bounds to [0, width] and collapses inverted spans
// to empty ones, so top-bot is never negative.
func clampSpan(top, bot, width int) (int, int) {
	top = min(max(top, 0), width)
	bot = min(max(bot, 0), width)
	if top < bot {
		return bot, bot
	}
	return top, bot
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
