package hdl21

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"github.com/hdl21/hdl21/hdl"
	"github.com/hdl21/hdl21/internal/ast"
	"github.com/hdl21/hdl21/internal/lower"
	"github.com/hdl21/hdl21/internal/parser"
	"github.com/hdl21/hdl21/internal/types"
)

func componentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("component", component))
}

// fileEntry is a listed file and the source that can open it.
type fileEntry struct {
	src  Source
	path string
}

type parseResult struct {
	file  *ast.File
	diags []types.Diagnostic
	err   error
}

// loadAllModules parses every file from sources in parallel and lowers
// the lot.
func loadAllModules(ctx context.Context, sources []Source, cfg loadConfig) (*Design, error) {
	logger := types.Logger{L: cfg.logger}

	var entries []fileEntry
	for _, src := range sources {
		files, err := src.ListFiles()
		if err != nil {
			return nil, err
		}
		slices.Sort(files)
		for _, f := range files {
			entries = append(entries, fileEntry{src: src, path: f})
		}
	}

	logger.Log(slog.LevelInfo, "parallel loading", slog.Int("files", len(entries)))
	files, diags, err := parseFiles(ctx, entries, cfg)
	if err != nil {
		return nil, err
	}
	logger.Log(slog.LevelInfo, "parallel loading complete", slog.Int("files", len(files)))

	return lowerDesign(files, diags, nil, cfg)
}

// parseFiles parses entries concurrently. Results keep the order of
// entries; files rejected by the content heuristic are skipped.
func parseFiles(ctx context.Context, entries []fileEntry, cfg loadConfig) ([]*ast.File, []types.Diagnostic, error) {
	results := make([]parseResult, len(entries))
	p := parser.New(componentLogger(cfg.logger, "parser"))
	heuristic := defaultHeuristic()
	heuristic.enabled = !cfg.noHeuristic

	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.NumCPU())

	for i, entry := range entries {
		wg.Add(1)
		go func() {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}

			content, err := readAll(entry.src.Open(entry.path))
			if err != nil {
				results[i].err = fmt.Errorf("reading %s: %w", entry.path, err)
				return
			}
			if !heuristic.looksLikeDefinitions(content) {
				return
			}
			results[i].file, results[i].diags, results[i].err = p.Parse(content, entry.path)
		}()
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, nil, ctx.Err()
	}

	var (
		files []*ast.File
		diags []types.Diagnostic
		errs  []error
	)
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		if r.file != nil {
			files = append(files, r.file)
			diags = append(diags, r.diags...)
		}
	}
	return files, diags, errors.Join(errs...)
}

// loadModulesByName loads the files defining names and, recursively,
// everything they refer to. Names with no file of their own trigger a
// full scan of the remaining files.
func loadModulesByName(ctx context.Context, sources []Source, names []string, cfg loadConfig) (*Design, error) {
	logger := types.Logger{L: cfg.logger}
	if len(names) == 0 {
		return &Design{Library: hdl.NewLibrary()}, nil
	}

	heuristic := defaultHeuristic()
	heuristic.enabled = !cfg.noHeuristic
	p := parser.New(componentLogger(cfg.logger, "parser"))

	var (
		files   []*ast.File
		diags   []types.Diagnostic
		missing []string
		parsed  = make(map[string]struct{})
		defined = make(map[string]struct{})
	)
	addFile := func(f *ast.File, d []types.Diagnostic) {
		files = append(files, f)
		diags = append(diags, d...)
		for _, name := range f.Names() {
			defined[name] = struct{}{}
		}
		for _, b := range f.Bundles {
			defined[b.Name] = struct{}{}
		}
	}

	var loadOne func(name string) error
	loadOne = func(name string) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, ok := defined[name]; ok {
			return nil
		}

		content, path, err := findContent(sources, name)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			logger.Log(slog.LevelDebug, "definition file not found", slog.String("name", name))
			missing = append(missing, name)
			return nil
		}
		if _, seen := parsed[path]; seen {
			missing = append(missing, name)
			return nil
		}
		parsed[path] = struct{}{}

		if !heuristic.looksLikeDefinitions(content) {
			logger.Log(slog.LevelDebug, "content rejected by heuristic",
				slog.String("name", name), slog.String("path", path))
			missing = append(missing, name)
			return nil
		}

		f, d, err := p.Parse(content, path)
		if err != nil {
			return err
		}
		addFile(f, d)
		if _, ok := defined[name]; !ok {
			missing = append(missing, name)
		}

		for _, m := range f.Modules {
			for _, ref := range m.References() {
				if err := loadOne(ref); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for _, name := range names {
		if err := loadOne(name); err != nil {
			return nil, err
		}
	}

	missing = slices.DeleteFunc(missing, func(name string) bool {
		_, ok := defined[name]
		return ok
	})
	if len(missing) > 0 {
		logger.Log(slog.LevelDebug, "scanning all files for unfound names", slog.Any("names", missing))

		var rest []fileEntry
		for _, src := range sources {
			listed, err := src.ListFiles()
			if err != nil {
				return nil, err
			}
			slices.Sort(listed)
			for _, path := range listed {
				if _, seen := parsed[path]; !seen {
					rest = append(rest, fileEntry{src: src, path: path})
				}
			}
		}
		more, moreDiags, err := parseFiles(ctx, rest, cfg)
		if err != nil {
			return nil, err
		}
		for _, f := range more {
			addFile(f, nil)
		}
		diags = append(diags, moreDiags...)
	}

	return lowerDesign(files, diags, names, cfg)
}

// lowerDesign lowers files and applies the diagnostic threshold.
func lowerDesign(files []*ast.File, diags []types.Diagnostic, roots []string, cfg loadConfig) (*Design, error) {
	collector := &types.Collector{Config: cfg.diagConfig}
	for _, d := range diags {
		collector.Add(d)
	}

	lib, err := lower.Lower(files, lower.Config{
		Logger:            componentLogger(cfg.logger, "lower"),
		ParamTypes:        cfg.paramTypes,
		FallbackParamType: cfg.fallbackParamType,
		Roots:             roots,
		Diagnostics:       collector,
	})
	if err != nil {
		return nil, err
	}
	if d, failed := collector.Failed(); failed {
		return nil, fmt.Errorf("%w: %s", ErrDiagnosticThreshold, d)
	}
	return &Design{Library: lib, diagnostics: collector.Diagnostics()}, nil
}

func findContent(sources []Source, name string) ([]byte, string, error) {
	for _, src := range sources {
		r, path, err := src.Find(name)
		if err == nil {
			content, err := readAll(r, nil)
			if err != nil {
				return nil, path, err
			}
			return content, path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, path, err
		}
	}
	return nil, "", fs.ErrNotExist
}

func readAll(r io.ReadCloser, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	defer r.Close() //nolint:errcheck // read-only
	return io.ReadAll(r)
}

var (
	sigModule = []byte("module")
	sigBundle = []byte("bundle")
)

type heuristicConfig struct {
	enabled         bool
	binaryCheckSize int
	maxProbeSize    int
}

func defaultHeuristic() heuristicConfig {
	return heuristicConfig{
		enabled:         true,
		binaryCheckSize: 1024,
		maxProbeSize:    128 * 1024,
	}
}

// looksLikeDefinitions rejects binary content and text mentioning no
// definition block type.
func (h *heuristicConfig) looksLikeDefinitions(content []byte) bool {
	if !h.enabled {
		return true
	}
	if len(content) == 0 {
		return false
	}

	checkLen := min(h.binaryCheckSize, len(content))
	if bytes.IndexByte(content[:checkLen], 0) >= 0 {
		return false
	}

	probe := content[:min(h.maxProbeSize, len(content))]
	return bytes.Contains(probe, sigModule) || bytes.Contains(probe, sigBundle)
}
