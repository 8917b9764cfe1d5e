package hdl

import (
	"runtime"
	"strings"
)

// SourceInfo records where a Module or ExternalModule was defined.
type SourceInfo struct {
	// Package is the Go import path of the defining package, or "" for
	// definitions made outside Go code (e.g. loaded from files).
	Package string
	File    string
	Line    int
}

// IsZero reports whether no source information was recorded.
func (si SourceInfo) IsZero() bool { return si == SourceInfo{} }

// callerSourceInfo describes the caller skip frames above its own caller.
func callerSourceInfo(skip int) SourceInfo {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return SourceInfo{}
	}
	si := SourceInfo{File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		si.Package = funcPackage(fn.Name())
	}
	return si
}

// funcPackage extracts the import path from a fully qualified function
// name such as "github.com/a/b.(*T).M" or "main.main".
func funcPackage(fn string) string {
	slash := strings.LastIndexByte(fn, '/')
	dot := strings.IndexByte(fn[slash+1:], '.')
	if dot < 0 {
		return fn
	}
	return fn[:slash+1+dot]
}

// qualName returns the path-qualified name used for equality, hashing and
// export keys:
//   - the dot-joined import path, if the definition was imported;
//   - "" if unnamed;
//   - the bare name, if defined outside Go code;
//   - otherwise the defining package path, a dot, and the name.
func qualName(name string, importPath []string, si SourceInfo) string {
	if importPath != nil {
		return strings.Join(importPath, ".")
	}
	if name == "" {
		return ""
	}
	if si.Package == "" {
		return name
	}
	return si.Package + "." + name
}
