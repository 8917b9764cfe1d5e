// Package testutil provides shared HCL fixtures and helpers for writing
// them to disk or an in-memory filesystem.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

// Devices defines the transistor externals and a bundle.
const Devices = `
external_module "nmos" {
  desc   = "n-channel transistor"
  domain = "pdk"
  params = "mos"

  port "d" {}
  port "g" {}
  port "s" {}
  port "b" {}
}

external_module "pmos" {
  desc   = "p-channel transistor"
  domain = "pdk"
  params = "mos"

  port "d" {}
  port "g" {}
  port "s" {}
  port "b" {}
}

external_module "res" {
  params = "dict"

  port "p" {}
  port "n" {}
}

bundle "Supplies" {
  signal "vdd" {}
  signal "vss" {}
}
`

// Cells defines an inverter and a buffer built from it.
const Cells = `
module "Inv" {
  input "i" {}
  output "o" {}
  bundle "pwr" {
    of   = "Supplies"
    port = true
  }
  signal "vdd" {}
  signal "vss" {}

  _note = "scratch"

  instance "p" {
    of      = "pmos"
    params  = { w = 2, l = 0.15 }
    connect = { d = o, g = i, s = vdd, b = vdd }
  }
  instance "n" {
    of      = "nmos"
    params  = { w = 1, l = 0.15 }
    connect = { d = o, g = i, s = vss, b = vss }
  }
}

module "Buf" {
  input "i" {}
  output "o" {}
  signal "mid" {}

  instance "stages" {
    of      = "Inv"
    count   = 2
    connect = { i = [i, mid], o = [mid, o] }
  }
}
`

// Bus defines a module with wide ports and sliced connections.
const Bus = `
module "Reg" {
  input "d" { width = 8 }
  output "q" { width = 8 }
}

module "Swap" {
  input "a" { width = 8 }
  output "y" { width = 8 }

  instance "lo" {
    of      = "Reg"
    connect = { d = ["a[4:8]", "a[0:4]"], q = "y[::-1]" }
  }
}
`

// Library maps file names to the standard fixture files.
func Library() map[string]string {
	return map[string]string{
		"devices.hcl": Devices,
		"cells.hcl":   Cells,
		"bus.hcl":     Bus,
	}
}

// WriteTree writes files (relative path to content) under a fresh
// temporary directory and returns the directory.
func WriteTree(t testing.TB, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

// MapFS returns files as an in-memory filesystem.
func MapFS(files map[string]string) fstest.MapFS {
	fsys := make(fstest.MapFS, len(files))
	for rel, content := range files {
		fsys[rel] = &fstest.MapFile{Data: []byte(content), Mode: 0o644}
	}
	return fsys
}
