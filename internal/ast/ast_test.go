package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModuleReferences(t *testing.T) {
	m := &ModuleDef{
		Name: "Top",
		Items: []Item{
			&SignalDef{Name: "a"},
			&InstanceDef{Name: "u0", Of: "Buf"},
			&InstanceDef{Name: "u1", Of: "Buf"},
			&InstanceDef{Name: "ib", Of: "Inv", Bundle: "Bus"},
			&BundleInstDef{Name: "b", Of: "Bus"},
			&PrivateDef{Name: "_x"},
		},
	}
	require.Equal(t, []string{"Buf", "Inv", "Bus"}, m.References())
}

func TestFileNames(t *testing.T) {
	f := &File{
		Modules:   []*ModuleDef{{Name: "Inv"}, {Name: "Buf"}},
		Externals: []*ExternalDef{{Name: "nmos"}},
		Bundles:   []*BundleDef{{Name: "Bus"}},
	}
	require.Equal(t, []string{"nmos", "Inv", "Buf"}, f.Names())
}
