package hdl

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestBuildParamsStruct(t *testing.T) {
	typ := reflect.TypeFor[mosParams]()

	tests := []struct {
		name string
		in   cty.Value
		want mosParams
	}{
		{"null", cty.NullVal(cty.DynamicPseudoType), mosParams{}},
		{"empty", cty.EmptyObjectVal, mosParams{}},
		{"partial", cty.ObjectVal(map[string]cty.Value{"w": cty.NumberIntVal(2)}), mosParams{W: 2}},
		{"full", cty.ObjectVal(map[string]cty.Value{
			"w":  cty.NumberIntVal(2),
			"l":  cty.NumberFloatVal(0.15),
			"nf": cty.NumberIntVal(4),
		}), mosParams{W: 2, L: 0.15, Nf: 4}},
		{"string converts", cty.ObjectVal(map[string]cty.Value{"nf": cty.StringVal("3")}), mosParams{Nf: 3}},
		{"map", cty.MapVal(map[string]cty.Value{"w": cty.NumberIntVal(5)}), mosParams{W: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildParams(typ, tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestBuildParamsErrors(t *testing.T) {
	typ := reflect.TypeFor[mosParams]()

	tests := []struct {
		name string
		typ  reflect.Type
		in   cty.Value
		want error
	}{
		{"unknown attribute", typ, cty.ObjectVal(map[string]cty.Value{"x": cty.NumberIntVal(1)}), ErrInvalidParams},
		{"wrong type", typ, cty.ObjectVal(map[string]cty.Value{"w": cty.StringVal("wide")}), ErrInvalidParams},
		{"fractional int", typ, cty.ObjectVal(map[string]cty.Value{"w": cty.NumberFloatVal(1.5)}), ErrInvalidParams},
		{"not an object", typ, cty.StringVal("w=1"), ErrInvalidParams},
		{"unknown value", typ, cty.UnknownVal(cty.EmptyObject), ErrInvalidParams},
		{"dict nested", dictType, cty.ObjectVal(map[string]cty.Value{
			"l": cty.ListVal([]cty.Value{cty.NumberIntVal(1)}),
		}), ErrInvalidParams},
		{"bad type", reflect.TypeFor[string](), cty.EmptyObjectVal, ErrInvalidParamType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildParams(tt.typ, tt.in)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuildParamsNoParams(t *testing.T) {
	got, err := BuildParams(noParamsType, cty.EmptyObjectVal)
	require.NoError(t, err)
	require.Equal(t, NoParams{}, got)

	_, err = BuildParams(noParamsType, cty.ObjectVal(map[string]cty.Value{"w": cty.NumberIntVal(1)}))
	require.ErrorIs(t, err, ErrInvalidParams)
}

func TestCallFieldlessParams(t *testing.T) {
	ext, err := NewExternalModule("e", nil)
	require.NoError(t, err)

	call, err := ext.Call(cty.EmptyObjectVal)
	require.NoError(t, err)
	require.Equal(t, NoParams{}, call.Params())

	type empty struct{}
	got, err := BuildParams(reflect.TypeFor[empty](), cty.EmptyObjectVal)
	require.NoError(t, err)
	require.Equal(t, empty{}, got)
}
