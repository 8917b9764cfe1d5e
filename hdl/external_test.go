package hdl

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type mosParams struct {
	W  int     `cty:"w"`
	L  float64 `cty:"l"`
	Nf int     `cty:"nf"`
}

func mosPorts() []*Signal {
	return []*Signal{
		Inout(Named("d")),
		Inout(Named("g")),
		Inout(Named("s")),
		Inout(Named("b")),
	}
}

func TestNewExternalModule(t *testing.T) {
	nmos, err := NewExternalModule("nmos", mosPorts(),
		WithParamType(reflect.TypeFor[mosParams]()),
		WithDesc("n-channel device"),
		WithDomain("pdk"),
	)
	require.NoError(t, err)

	require.Equal(t, "nmos", nmos.Name())
	require.Equal(t, "n-channel device", nmos.Desc())
	require.Equal(t, "pdk", nmos.Domain())
	require.Equal(t, reflect.TypeFor[mosParams](), nmos.Params())
	require.Equal(t, []string{"d", "g", "s", "b"}, nmos.Ports().Names())
	require.Len(t, nmos.PortList(), 4)
	require.Equal(t, "github.com/hdl21/hdl21/hdl.nmos", nmos.QualName())
}

func TestNewExternalModuleDefaults(t *testing.T) {
	ext, err := NewExternalModule("cap", nil)
	require.NoError(t, err)
	require.Equal(t, reflect.TypeFor[NoParams](), ext.Params())

	call, err := ext.Call(nil)
	require.NoError(t, err)
	require.Equal(t, NoParams{}, call.Params())
}

func TestNewExternalModuleErrors(t *testing.T) {
	tests := []struct {
		name  string
		ports []*Signal
		opts  []ExternalOption
		want  error
	}{
		{"int params", nil, []ExternalOption{WithParamType(reflect.TypeFor[int]())}, ErrInvalidParamType},
		{"pointer params", nil, []ExternalOption{WithParamType(reflect.TypeFor[*mosParams]())}, ErrInvalidParamType},
		{"nil params", nil, []ExternalOption{WithParamType(nil)}, ErrInvalidParamType},
		{"unnamed port", []*Signal{Input()}, nil, ErrInvalidPort},
		{"nil port", []*Signal{nil}, nil, ErrInvalidPort},
		{"internal signal", []*Signal{NewSignal(Named("x"))}, nil, ErrInvalidPort},
		{"duplicate port", []*Signal{Input(Named("a")), Output(Named("a"))}, nil, ErrInvalidPort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExternalModule("ext", tt.ports, tt.opts...)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExternalModuleCall(t *testing.T) {
	nmos, err := NewExternalModule("nmos", mosPorts(), WithParamType(reflect.TypeFor[mosParams]()))
	require.NoError(t, err)

	call, err := nmos.Call(mosParams{W: 2, Nf: 1})
	require.NoError(t, err)
	require.Same(t, nmos, call.Module())
	require.Equal(t, mosParams{W: 2, Nf: 1}, call.Params())
	require.Equal(t, "nmos", call.Name())
	require.Same(t, nmos.Ports(), call.Ports())

	call, err = nmos.Call(nil)
	require.NoError(t, err)
	require.Equal(t, mosParams{}, call.Params())

	call, err = nmos.Call(cty.ObjectVal(map[string]cty.Value{"w": cty.NumberIntVal(8)}))
	require.NoError(t, err)
	require.Equal(t, mosParams{W: 8}, call.Params())
}

func TestExternalModuleCallMismatch(t *testing.T) {
	nmos, err := NewExternalModule("nmos", mosPorts(), WithParamType(reflect.TypeFor[mosParams]()))
	require.NoError(t, err)

	for _, params := range []any{
		&mosParams{},
		NoParams{},
		Dict{"w": 1},
		3,
	} {
		_, err := nmos.Call(params)
		require.ErrorIs(t, err, ErrParamTypeMismatch, "%T", params)

		_, err = NewExternalModuleCall(nmos, params)
		require.ErrorIs(t, err, ErrParamTypeMismatch, "%T", params)
	}

	_, err = NewExternalModuleCall(nil, NoParams{})
	require.ErrorIs(t, err, ErrInvalidParams)
}

func TestExternalModuleCallInstance(t *testing.T) {
	nmos, err := NewExternalModule("nmos", mosPorts(), WithParamType(reflect.TypeFor[mosParams]()))
	require.NoError(t, err)
	call, err := nmos.Call(mosParams{W: 1})
	require.NoError(t, err)

	m := NewModule("Top")
	vdd := NewSignal()
	require.NoError(t, m.Set("vdd", vdd))
	inst := NewInstance(call).Connect("d", vdd).Connect("b", vdd)
	require.NoError(t, m.Set("n0", inst))

	require.Same(t, call, inst.Of())
	require.Equal(t, "Instance(name=n0, of=nmos)", inst.String())
}

func TestExternalModuleDictParams(t *testing.T) {
	res, err := NewExternalModule("res", []*Signal{Inout(Named("p")), Inout(Named("n"))},
		WithParamType(reflect.TypeFor[Dict]()))
	require.NoError(t, err)

	call, err := res.Call(nil)
	require.NoError(t, err)
	require.Equal(t, Dict{}, call.Params())

	call, err = res.Call(cty.ObjectVal(map[string]cty.Value{
		"r":     cty.NumberIntVal(1000),
		"tc":    cty.NumberFloatVal(0.5),
		"model": cty.StringVal("rppoly"),
		"hot":   cty.True,
	}))
	require.NoError(t, err)
	require.Equal(t, Dict{"r": int64(1000), "tc": 0.5, "model": "rppoly", "hot": true}, call.Params())

	call, err = res.Call(Dict{"r": 10})
	require.NoError(t, err)
	require.Equal(t, Dict{"r": 10}, call.Params())
}

func TestExternalModuleEquality(t *testing.T) {
	a, err := NewExternalModule("inv", nil)
	require.NoError(t, err)
	b, err := NewExternalModule("inv", nil)
	require.NoError(t, err)
	anon, err := NewExternalModule("", nil)
	require.NoError(t, err)

	eq, err := a.Equal(b)
	require.NoError(t, err)
	require.True(t, eq)

	_, err = a.Equal(anon)
	require.ErrorIs(t, err, ErrUnnamedEntity)
	eq, err = a.Equal(nil)
	require.NoError(t, err)
	require.False(t, eq)
	_, err = anon.Key()
	require.ErrorIs(t, err, ErrUnnamedEntity)

	b.SetImportPath("lib", "inv")
	eq, err = a.Equal(b)
	require.NoError(t, err)
	require.False(t, eq)

	key, err := b.Key()
	require.NoError(t, err)
	require.Equal(t, "lib.inv", key)
}
