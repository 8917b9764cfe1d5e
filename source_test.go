package hdl21

import (
	"io"
	"io/fs"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdl21/hdl21/internal/testutil"
)

var sourceTree = map[string]string{
	"Inv.hcl":          `module "Inv" {}`,
	"notes.txt":        "not a definition",
	"lib/Buf.hcl":      `module "Buf" {}`,
	"lib/deep/Nor.HCL": `module "Nor" {}`,
	"other/Inv.hcl":    `module "Inv2" {}`,
}

func readSource(t *testing.T, r io.ReadCloser) string {
	t.Helper()
	defer r.Close()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(b)
}

func TestDirErrors(t *testing.T) {
	_, err := Dir("/this/path/does/not/exist/at/all")
	require.Error(t, err)

	root := testutil.WriteTree(t, sourceTree)
	_, err = Dir(filepath.Join(root, "Inv.hcl"))
	require.Error(t, err, "Dir with a file path should fail")

	_, err = DirTree(filepath.Join(root, "Inv.hcl"))
	require.Error(t, err, "DirTree with a file path should fail")

	assert.Panics(t, func() { MustDir("/this/path/does/not/exist") })
	assert.Panics(t, func() { MustDirTree("/this/path/does/not/exist") })
}

func TestDirSource(t *testing.T) {
	root := testutil.WriteTree(t, sourceTree)
	src := MustDir(root)

	r, path, err := src.Find("Inv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Inv.hcl"), path)
	assert.Equal(t, `module "Inv" {}`, readSource(t, r))

	_, _, err = src.Find("Buf")
	assert.ErrorIs(t, err, fs.ErrNotExist, "Dir does not recurse")

	files, err := src.ListFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "Inv.hcl")}, files)

	r, err = src.Open(files[0])
	require.NoError(t, err)
	r.Close()

	_, err = src.Open(filepath.Join(root, "lib", "Buf.hcl"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestDirSourceExtensions(t *testing.T) {
	root := testutil.WriteTree(t, sourceTree)
	src := MustDir(root, WithExtensions(".txt"))

	_, path, err := src.Find("notes")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "notes.txt"), path)

	_, _, err = src.Find("Inv")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestDirTreeSource(t *testing.T) {
	root := testutil.WriteTree(t, sourceTree)
	src := MustDirTree(root)

	_, path, err := src.Find("Buf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "lib", "Buf.hcl"), path)

	_, path, err = src.Find("Nor")
	require.NoError(t, err, "extensions match case-insensitively")
	assert.Equal(t, filepath.Join(root, "lib", "deep", "Nor.HCL"), path)

	// First match in walk order wins.
	_, path, err = src.Find("Inv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Inv.hcl"), path)

	files, err := src.ListFiles()
	require.NoError(t, err)
	assert.Len(t, files, 4, "files shadowed in the index are still listed")

	r, err := src.Open(filepath.Join(root, "other", "Inv.hcl"))
	require.NoError(t, err)
	assert.Equal(t, `module "Inv2" {}`, readSource(t, r))

	_, err = src.Open("/elsewhere/x.hcl")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFSSource(t *testing.T) {
	src := FS("cells", testutil.MapFS(sourceTree))

	r, path, err := src.Find("Buf")
	require.NoError(t, err)
	assert.Equal(t, "cells:lib/Buf.hcl", path)
	assert.Equal(t, `module "Buf" {}`, readSource(t, r))

	_, _, err = src.Find("notes")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	files, err := src.ListFiles()
	require.NoError(t, err)
	slices.Sort(files)
	assert.Equal(t, []string{
		"cells:Inv.hcl",
		"cells:lib/Buf.hcl",
		"cells:lib/deep/Nor.HCL",
		"cells:other/Inv.hcl",
	}, files)

	r, err = src.Open("cells:other/Inv.hcl")
	require.NoError(t, err)
	assert.Equal(t, `module "Inv2" {}`, readSource(t, r))

	_, err = src.Open("pdk:other/Inv.hcl")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMultiSource(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{"Top.hcl": `module "Top" {}`})
	src := Multi(
		MustDir(root),
		FS("cells", testutil.MapFS(sourceTree)),
	)

	_, path, err := src.Find("Top")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Top.hcl"), path)

	_, path, err = src.Find("Buf")
	require.NoError(t, err)
	assert.Equal(t, "cells:lib/Buf.hcl", path)

	_, _, err = src.Find("Missing")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	files, err := src.ListFiles()
	require.NoError(t, err)
	assert.Len(t, files, 5)

	for _, f := range files {
		r, err := src.Open(f)
		require.NoError(t, err, f)
		r.Close()
	}
	_, err = src.Open("nowhere:x.hcl")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestDefinitionNameFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/a/b/Inv.hcl", "Inv"},
		{"Top.HCL", "Top"},
		{"lib/noext", "noext"},
		{"x.tar.hcl", "x.tar"},
	}
	for _, tt := range tests {
		if got := definitionNameFromPath(tt.path); got != tt.want {
			t.Errorf("definitionNameFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
