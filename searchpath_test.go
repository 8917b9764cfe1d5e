package hdl21

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/hdl21/hdl21/internal/types"
)

func TestParseConfigLine(t *testing.T) {
	tests := []struct {
		line   string
		wantOp pathOp
		want   []string
		wantOk bool
	}{
		// Replace
		{"modules /usr/share/hdl21/modules", pathReplace, []string{"/usr/share/hdl21/modules"}, true},
		{"modules /a:/b:/c", pathReplace, []string{"/a", "/b", "/c"}, true},
		// Append (+ prefix on value)
		{"modules +/extra/cells", pathAppend, []string{"/extra/cells"}, true},
		{"modules +/a:/b", pathAppend, []string{"/a", "/b"}, true},
		// Prepend (- prefix on value)
		{"modules -/first/cells", pathPrepend, []string{"/first/cells"}, true},
		// Append (+modules directive)
		{"+modules /extra", pathAppend, []string{"/extra"}, true},
		// Prepend (-modules directive)
		{"-modules /first", pathPrepend, []string{"/first"}, true},
		// Whitespace variations
		{"  modules  /path  ", pathReplace, []string{"/path"}, true},
		{"modules\t/path", pathReplace, []string{"/path"}, true},
		// Not a modules line
		{"pdk sky130", 0, nil, false},
		{"module /one", 0, nil, false},
		// Comments and blanks
		{"# modules /foo", 0, nil, false},
		{"", 0, nil, false},
		{"  ", 0, nil, false},
		// No value
		{"modules", 0, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			op, dirs, ok := parseConfigLine(tt.line)
			if ok != tt.wantOk {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOk)
			}
			if !ok {
				return
			}
			if op != tt.wantOp {
				t.Errorf("op = %v, want %v", op, tt.wantOp)
			}
			if !slices.Equal(dirs, tt.want) {
				t.Errorf("dirs = %v, want %v", dirs, tt.want)
			}
		})
	}
}

func TestApplyOp(t *testing.T) {
	current := []string{"/default"}

	tests := []struct {
		name string
		op   pathOp
		dirs []string
		want []string
	}{
		{"replace", pathReplace, []string{"/new"}, []string{"/new"}},
		{"append", pathAppend, []string{"/extra"}, []string{"/default", "/extra"}},
		{"prepend", pathPrepend, []string{"/first"}, []string{"/first", "/default"}},
		{"append multiple", pathAppend, []string{"/a", "/b"}, []string{"/default", "/a", "/b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyOp(tt.op, tt.dirs, slices.Clone(current))
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	current := []string{"/default/cells"}

	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"replace", "/new/cells", []string{"/new/cells"}},
		{"replace multiple", "/a:/b", []string{"/a", "/b"}},
		{"append", "+/extra/cells", []string{"/default/cells", "/extra/cells"}},
		{"append multiple", "+/a:/b", []string{"/default/cells", "/a", "/b"}},
		{"prepend", "-/first/cells", []string{"/first/cells", "/default/cells"}},
		{"prepend multiple", "-/a:/b", []string{"/a", "/b", "/default/cells"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyEnv(tt.value, slices.Clone(current))
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDedup(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"no dups", []string{"/a", "/b", "/c"}, []string{"/a", "/b", "/c"}},
		{"with dups", []string{"/a", "/b", "/a", "/c", "/b"}, []string{"/a", "/b", "/c"}},
		{"all same", []string{"/a", "/a", "/a"}, []string{"/a"}},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dedup(tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterExistingDirs(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "exists")
	if err := os.Mkdir(existing, 0o755); err != nil {
		t.Fatal(err)
	}

	filePath := filepath.Join(dir, "afile")
	if err := os.WriteFile(filePath, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := filterExistingDirs([]string{existing, filepath.Join(dir, "missing"), filePath, "/nonexistent"})
	want := []string{existing}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestApplyConfigFile(t *testing.T) {
	dir := t.TempDir()
	confPath := filepath.Join(dir, "config")
	if err := os.WriteFile(confPath, []byte("# Comment\nmodules /base/cells\n+modules /extra/cells\npdk ignored\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := applyConfigFile(confPath, []string{"/original"}, parseConfigLine, types.Logger{})
	want := []string{"/base/cells", "/extra/cells"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestApplyConfigFilePrepend(t *testing.T) {
	dir := t.TempDir()
	confPath := filepath.Join(dir, "config")
	if err := os.WriteFile(confPath, []byte("-modules /first\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := applyConfigFile(confPath, []string{"/default"}, parseConfigLine, types.Logger{})
	want := []string{"/first", "/default"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestApplyConfigFileMissing(t *testing.T) {
	current := []string{"/keep"}
	got := applyConfigFile("/nonexistent/file", current, parseConfigLine, types.Logger{})
	if !slices.Equal(got, current) {
		t.Errorf("missing config should return current paths unchanged, got %v", got)
	}
}

func TestSplitPaths(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"/a:/b:/c", []string{"/a", "/b", "/c"}},
		{"/single", []string{"/single"}},
		{"", nil},
		{":/a", []string{"/a"}},          // leading empty segment skipped
		{"/a:", []string{"/a"}},          // trailing empty segment skipped
		{"/a::/b", []string{"/a", "/b"}}, // double colon, empty segment skipped
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := splitPaths(tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiscoverSystemPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	userDir := filepath.Join(home, ".hdl21", "modules")
	extra := filepath.Join(home, "extra")
	for _, d := range []string{userDir, extra} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	t.Setenv(PathEnv, "-"+extra)
	got := discoverSystemPaths(types.Logger{})
	if len(got) < 2 || got[0] != extra || got[1] != userDir {
		t.Errorf("got %v, want [%s %s ...]", got, extra, userDir)
	}

	t.Setenv(PathEnv, extra)
	got = SystemPaths()
	if !slices.Equal(got, []string{extra}) {
		t.Errorf("replace: got %v, want [%s]", got, extra)
	}
}
