package hdl

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		idx   Index
		width int
		want  SliceInner
	}{
		{"int", IntIndex(3), 8, SliceInner{Top: 4, Bot: 3, Width: 1}},
		{"int zero", IntIndex(0), 8, SliceInner{Top: 1, Bot: 0, Width: 1}},
		{"int negative", IntIndex(-1), 8, SliceInner{Top: 8, Bot: 7, Width: 1}},
		{"int most negative", IntIndex(-8), 8, SliceInner{Top: 1, Bot: 0, Width: 1}},
		{"range", Range(2, 6), 8, SliceInner{Top: 6, Bot: 2, Width: 4}},
		{"full span", Span(), 8, SliceInner{Top: 8, Bot: 0, Width: 8}},
		{"open start", Span().To(4), 8, SliceInner{Top: 4, Bot: 0, Width: 4}},
		{"open stop", Span().From(5), 8, SliceInner{Top: 8, Bot: 5, Width: 3}},
		{"negative start", Range(-3, 8), 8, SliceInner{Top: 8, Bot: 5, Width: 3}},
		{"negative stop", Range(0, -2), 8, SliceInner{Top: 6, Bot: 0, Width: 6}},
		{"stop clamped", Range(0, 100), 8, SliceInner{Top: 8, Bot: 0, Width: 8}},
		{"start clamped", Range(-100, 2), 8, SliceInner{Top: 2, Bot: 0, Width: 2}},
		{"stop past end", Range(2, 20), 8, SliceInner{Top: 8, Bot: 2, Width: 6}},
		{"inverted is empty", Range(6, 2), 8, SliceInner{Top: 6, Bot: 6, Width: 0}},
		{"step two", Span().By(2), 8, SliceInner{Top: 8, Bot: 0, Step: 2, Width: 4}},
		{"reverse", Span().By(-1), 8, SliceInner{Top: 8, Bot: 0, Step: -1, Width: 8}},
		{"reverse range", Span().From(6).To(2).By(-1), 8, SliceInner{Top: 7, Bot: 3, Step: -1, Width: 4}},
		{"reverse step two", Span().From(7).To(1).By(-2), 8, SliceInner{Top: 8, Bot: 2, Step: -2, Width: 3}},
		{"reverse to start", Span().From(3).By(-1), 8, SliceInner{Top: 4, Bot: 0, Step: -1, Width: 4}},
		{"empty parent", Span(), 0, SliceInner{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.idx, tt.width)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got.Top, got.Bot)
		})
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name  string
		idx   Index
		width int
		want  error
	}{
		{"int at width", IntIndex(8), 8, ErrOutOfBounds},
		{"int above width", IntIndex(20), 8, ErrOutOfBounds},
		{"int below negative width", IntIndex(-9), 8, ErrOutOfBounds},
		{"int into empty", IntIndex(0), 0, ErrOutOfBounds},
		{"zero step", Span().By(0), 8, ErrZeroStep},
		{"nil index", nil, 8, ErrInvalidIndex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.idx, tt.width)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSliceLazyResolution(t *testing.T) {
	sig := NewSignal(Named("d"), Width(8))
	s := sig.Slice(Range(2, 6))
	require.False(t, s.Resolved())

	w, err := s.Width()
	require.NoError(t, err)
	require.Equal(t, 4, w)
	require.True(t, s.Resolved())

	first, err := s.Inner()
	require.NoError(t, err)
	second, err := s.Inner()
	require.NoError(t, err)
	require.Same(t, first, second)

	top, err := s.Top()
	require.NoError(t, err)
	bot, err := s.Bot()
	require.NoError(t, err)
	step, err := s.Step()
	require.NoError(t, err)
	require.Equal(t, []int{6, 2, 0}, []int{top, bot, step})
}

func TestSliceIdentity(t *testing.T) {
	sig := NewSignal(Named("d"), Width(8))
	a := sig.Index(0)
	b := sig.Index(0)
	require.NotSame(t, a, b)

	seen := map[*Slice]bool{a: true}
	require.False(t, seen[b])
}

func TestSliceOutOfBounds(t *testing.T) {
	sig := NewSignal(Named("d"), Width(8))
	s := sig.Index(8)

	_, err := s.Width()
	require.ErrorIs(t, err, ErrOutOfBounds)
	require.False(t, s.Resolved())
}

func TestNestedSlice(t *testing.T) {
	sig := NewSignal(Named("d"), Width(8))
	mid := sig.Slice(Range(2, 6))
	top := mid.Index(-1)

	w, err := top.Width()
	require.NoError(t, err)
	require.Equal(t, 1, w)

	in, err := top.Inner()
	require.NoError(t, err)
	require.Equal(t, 3, in.Bot)

	_, err = mid.Index(4).Width()
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestNewSlice(t *testing.T) {
	sig := NewSignal(Named("d"), Width(4))

	s, err := NewSlice(sig, IntIndex(1))
	require.NoError(t, err)
	require.Same(t, sig, s.Parent())
	require.Equal(t, IntIndex(1), s.Selection())

	_, err = NewSlice(nil, IntIndex(0))
	require.ErrorIs(t, err, ErrNotSliceable)

	var nilSig *Signal
	_, err = NewSlice(nilSig, IntIndex(0))
	require.ErrorIs(t, err, ErrNotSliceable)

	_, err = NewSlice(sig, nil)
	require.ErrorIs(t, err, ErrInvalidIndex)
}

func TestSliceUsage(t *testing.T) {
	sig := NewSignal(Named("d"), Width(4))
	s := sig.Index(0)
	sub := s.Index(0)

	require.Equal(t, []*Slice{s}, sig.Slices())
	require.Equal(t, []*Slice{sub}, s.Slices())
	runtime.KeepAlive(sub)
}

func TestSliceString(t *testing.T) {
	sig := NewSignal(Named("d"), Width(8))
	require.Equal(t, "Slice(parent=Signal(name=d, width=8), index=2:6)", sig.Slice(Range(2, 6)).String())
	require.Equal(t, "Slice(parent=Signal(name=d, width=8), index=-1)", sig.Index(-1).String())
}
