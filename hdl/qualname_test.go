package hdl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFuncPackage(t *testing.T) {
	tests := []struct {
		fn   string
		want string
	}{
		{"main.main", "main"},
		{"github.com/a/b.F", "github.com/a/b"},
		{"github.com/a/b.(*T).M", "github.com/a/b"},
		{"github.com/a/b.init.func1", "github.com/a/b"},
		{"github.com/a/b.v2.F", "github.com/a/b"},
		{"nodot", "nodot"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, funcPackage(tt.fn), tt.fn)
	}
}

func TestQualName(t *testing.T) {
	si := SourceInfo{Package: "example.com/cells", File: "cells.go", Line: 1}

	tests := []struct {
		name       string
		modName    string
		importPath []string
		si         SourceInfo
		want       string
	}{
		{"package", "Inv", nil, si, "example.com/cells.Inv"},
		{"file", "Inv", nil, SourceInfo{File: "a.hcl"}, "Inv"},
		{"import wins", "Inv", []string{"pdk", "Inv"}, si, "pdk.Inv"},
		{"import on anonymous", "", []string{"pdk", "X"}, si, "pdk.X"},
		{"anonymous", "", nil, si, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, qualName(tt.modName, tt.importPath, tt.si))
		})
	}
}

func TestCallerSourceInfo(t *testing.T) {
	si := callerSourceInfo(0)
	require.Equal(t, "github.com/hdl21/hdl21/hdl", si.Package)
	require.Contains(t, si.File, "qualname_test.go")
	require.False(t, si.IsZero())
	require.True(t, SourceInfo{}.IsZero())
}
