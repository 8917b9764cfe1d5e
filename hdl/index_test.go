package hdl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIndex(t *testing.T) {
	tests := []struct {
		in   string
		want Index
	}{
		{"3", IntIndex(3)},
		{"-1", IntIndex(-1)},
		{" 2 ", IntIndex(2)},
		{"2:6", Range(2, 6)},
		{":4", Span().To(4)},
		{"5:", Span().From(5)},
		{":", Span()},
		{"::-1", Span().By(-1)},
		{"6:2:-1", Span().From(6).To(2).By(-1)},
		{"::2", Span().By(2)},
		{"1 : 3", Range(1, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseIndex(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseIndexErrors(t *testing.T) {
	for _, in := range []string{"", "  ", "a", "1:b", "1:2:3:4", "1.5"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseIndex(in)
			require.ErrorIs(t, err, ErrInvalidIndex)
		})
	}
}

func TestIndexString(t *testing.T) {
	tests := []struct {
		idx  Index
		want string
	}{
		{IntIndex(-2), "-2"},
		{Span(), ":"},
		{Range(2, 6), "2:6"},
		{Span().To(3), ":3"},
		{Span().By(-1), "::-1"},
		{Span().From(6).To(2).By(-1), "6:2:-1"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.idx.String())
	}

	// Every printed index parses back to itself.
	for _, tt := range tests {
		got, err := ParseIndex(tt.want)
		require.NoError(t, err)
		require.Equal(t, tt.idx, got)
	}
}

func TestRangeAccessors(t *testing.T) {
	r := Span().From(1).By(2)

	start, ok := r.Start()
	require.True(t, ok)
	require.Equal(t, 1, start)

	_, ok = r.Stop()
	require.False(t, ok)

	step, ok := r.Step()
	require.True(t, ok)
	require.Equal(t, 2, step)
}
