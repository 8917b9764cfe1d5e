package hdl21

import (
	"bytes"
	"context"
	"log/slog"
	"maps"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdl21/hdl21/hdl"
	"github.com/hdl21/hdl21/internal/testutil"
)

type mosParams struct {
	W  int     `cty:"w"`
	L  float64 `cty:"l"`
	Nf int     `cty:"nf"`
}

var withMos = WithParamType("mos", reflect.TypeFor[mosParams]())

func TestLoadAll(t *testing.T) {
	root := testutil.WriteTree(t, testutil.Library())

	design, err := Load(context.Background(), MustDir(root), withMos)
	require.NoError(t, err)

	assert.Equal(t, []string{"nmos", "pmos", "res", "Inv", "Buf", "Reg", "Swap"}, design.Order())
	require.NotNil(t, design.Module("Buf"))
	require.Len(t, design.Diagnostics(), 1)
	assert.Equal(t, DiagPrivateBinding, design.Diagnostics()[0].Code)

	inv := design.Module("Inv")
	assert.Equal(t, "Inv", inv.QualName())
	assert.Contains(t, inv.SourceInfo().File, "cells.hcl")
}

func TestLoadFS(t *testing.T) {
	src := FS("lib", testutil.MapFS(testutil.Library()))
	design, err := Load(context.Background(), src, withMos)
	require.NoError(t, err)
	assert.Equal(t, 7, design.Len())
	assert.Equal(t, "lib:devices.hcl", design.External("nmos").SourceInfo().File)
}

func TestLoadNoSources(t *testing.T) {
	_, err := Load(context.Background(), nil)
	require.ErrorIs(t, err, ErrNoSources)

	_, err = LoadModules(context.Background(), []string{"Inv"}, nil)
	require.ErrorIs(t, err, ErrNoSources)
}

func TestLoadUnknownParamType(t *testing.T) {
	src := FS("lib", testutil.MapFS(testutil.Library()))
	_, err := Load(context.Background(), src)
	require.ErrorIs(t, err, ErrUnknownParamType)
}

func TestLoadFallbackParamType(t *testing.T) {
	src := FS("lib", testutil.MapFS(testutil.Library()))
	dict := WithFallbackParamType(reflect.TypeFor[hdl.Dict]())

	design, err := Load(context.Background(), src, dict)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[hdl.Dict](), design.External("nmos").Params())

	var codes []string
	for _, d := range design.Diagnostics() {
		codes = append(codes, d.Code)
	}
	assert.Equal(t, []string{DiagUnknownParamType, DiagUnknownParamType, DiagPrivateBinding}, codes)

	p, _ := design.Module("Inv").Instances().Get("p")
	call := p.Of().(*hdl.ExternalModuleCall)
	assert.IsType(t, hdl.Dict{}, call.Params())

	_, err = Load(context.Background(), src, dict, WithStrict())
	require.ErrorIs(t, err, ErrDiagnosticThreshold)
}

func TestLoadParseError(t *testing.T) {
	files := testutil.Library()
	files["broken.hcl"] = `module "Broken" {`
	_, err := Load(context.Background(), FS("lib", testutil.MapFS(files)), withMos)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lib:broken.hcl")
}

func TestLoadHeuristic(t *testing.T) {
	files := map[string]string{
		"Top.hcl":   `module "Top" {}`,
		"stray.hcl": `x = [`,
	}
	design, err := Load(context.Background(), FS("lib", testutil.MapFS(files)))
	require.NoError(t, err, "files without definitions are skipped")
	assert.Equal(t, []string{"Top"}, design.Order())

	_, err = Load(context.Background(), FS("lib", testutil.MapFS(files)), WithNoHeuristic())
	require.Error(t, err)
}

func TestLoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, FS("lib", testutil.MapFS(testutil.Library())), withMos)
	require.ErrorIs(t, err, context.Canceled)

	_, err = LoadModules(ctx, []string{"Inv"}, FS("lib", testutil.MapFS(testutil.Library())), withMos)
	require.ErrorIs(t, err, context.Canceled)
}

// perFile splits the fixtures one definition per file, named after it.
var perFile = map[string]string{
	"Supplies.hcl": `bundle "Supplies" {
  signal "vdd" {}
  signal "vss" {}
}`,
	"nmos.hcl": `external_module "nmos" {
  params = "mos"
  port "d" {}
  port "g" {}
  port "s" {}
  port "b" {}
}`,
	"pmos.hcl": `external_module "pmos" {
  params = "mos"
  port "d" {}
  port "g" {}
  port "s" {}
  port "b" {}
}`,
	"Inv.hcl": `module "Inv" {
  input "i" {}
  output "o" {}
  bundle "pwr" {
    of   = "Supplies"
    port = true
  }
  signal "vdd" {}
  signal "vss" {}
  instance "p" {
    of      = "pmos"
    connect = { d = o, g = i, s = vdd, b = vdd }
  }
  instance "n" {
    of      = "nmos"
    connect = { d = o, g = i, s = vss, b = vss }
  }
}`,
	"Buf.hcl": `module "Buf" {
  input "i" {}
  output "o" {}
  signal "mid" {}
  instance "stages" {
    of      = "Inv"
    count   = 2
    connect = { i = [i, mid], o = [mid, o] }
  }
}`,
	"Broken.hcl": `module "Broken" {`,
}

func TestLoadModulesByName(t *testing.T) {
	root := testutil.WriteTree(t, perFile)

	design, err := LoadModules(context.Background(), []string{"Buf"}, MustDir(root), withMos)
	require.NoError(t, err, "Broken.hcl is never read")
	assert.Equal(t, []string{"nmos", "pmos", "Inv", "Buf"}, design.Order())
	assert.NotNil(t, design.Bundle("Supplies"))
	assert.Empty(t, design.Diagnostics())

	design, err = LoadModules(context.Background(), []string{"pmos"}, MustDir(root), withMos)
	require.NoError(t, err)
	assert.Equal(t, []string{"pmos"}, design.Order())

	design, err = LoadModules(context.Background(), []string{}, MustDir(root))
	require.NoError(t, err)
	assert.Zero(t, design.Len())
}

func TestLoadModulesFallbackScan(t *testing.T) {
	// cells.hcl is not named after anything it defines.
	src := FS("lib", testutil.MapFS(testutil.Library()))

	design, err := LoadModules(context.Background(), []string{"Swap"}, src, withMos)
	require.NoError(t, err)
	assert.Equal(t, []string{"Reg", "Swap"}, design.Order())
	assert.Empty(t, design.Bundles())
}

func TestLoadModulesUndefined(t *testing.T) {
	files := maps.Clone(perFile)
	root := testutil.WriteTree(t, files)

	// The fallback scan reads every file, including the broken one.
	_, err := LoadModules(context.Background(), []string{"Ghost"}, MustDir(root), withMos)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Broken.hcl")

	delete(files, "Broken.hcl")
	root = testutil.WriteTree(t, files)
	_, err = LoadModules(context.Background(), []string{"Ghost"}, MustDir(root), withMos)
	require.ErrorIs(t, err, ErrUndefined)
}

func TestLoadDiagnosticThreshold(t *testing.T) {
	files := map[string]string{"top.hcl": `
module "Leaf" {
  input "a" { width = 4 }
}
module "Top" {
  signal "s" { width = 2 }
  instance "x" {
    of      = "Leaf"
    connect = { a = s }
  }
}`}

	design, err := Load(context.Background(), FS("t", testutil.MapFS(files)))
	require.NoError(t, err)
	require.Len(t, design.Diagnostics(), 1)
	d := design.Diagnostics()[0]
	assert.Equal(t, DiagWidthMismatch, d.Code)
	assert.Equal(t, SeverityWarning, d.Severity)
	assert.Equal(t, "t:top.hcl", d.File)

	_, err = Load(context.Background(), FS("t", testutil.MapFS(files)), WithStrict())
	require.ErrorIs(t, err, ErrDiagnosticThreshold)
	assert.Contains(t, err.Error(), "[warning] t:top.hcl:9")

	cfg := StrictDiagnosticConfig()
	cfg.Ignore = []string{"width-*"}
	design, err = Load(context.Background(), FS("t", testutil.MapFS(files)), WithDiagnosticConfig(cfg))
	require.NoError(t, err)
	assert.Empty(t, design.Diagnostics())
}

func TestLoadLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: LevelTrace}))

	_, err := Load(context.Background(), FS("lib", testutil.MapFS(testutil.Library())), withMos, WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "parallel loading")
	assert.Contains(t, out, "component=parser")
	assert.Contains(t, out, "component=lower")
	assert.Contains(t, out, "lowering complete")
	assert.Contains(t, out, "connected port")
}

func TestDesignModulesAreUsable(t *testing.T) {
	design, err := Load(context.Background(), FS("lib", testutil.MapFS(testutil.Library())), withMos)
	require.NoError(t, err)

	// Loaded modules can be extended in Go.
	top := hdl.NewModule("Top")
	in, err := top.Add(hdl.Input(hdl.Named("in")))
	require.NoError(t, err)
	out, err := top.Add(hdl.Output(hdl.Named("out")))
	require.NoError(t, err)
	buf := hdl.NewInstance(design.Module("Buf")).
		Connect("i", in.(*hdl.Signal)).
		Connect("o", out.(*hdl.Signal))
	require.NoError(t, top.Set("buf", buf))

	assert.Len(t, in.(*hdl.Signal).ConnectedPorts(), 1)
}
