package hdl21

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hdl21/hdl21/internal/types"
)

// PathEnv names the environment variable holding extra definition
// directories, separated by the OS path list separator. A leading "+"
// appends them to the configured directories and a leading "-" prepends
// them; otherwise they replace the configured directories.
const PathEnv = "HDL21PATH"

// WithSystemPaths enables discovery of definition directories from
// configuration files, HDL21PATH and the default locations.
// Discovered paths are appended after any explicit source, serving as fallback.
// When source is nil and WithSystemPaths is set, system paths alone are sufficient.
func WithSystemPaths() LoadOption {
	return func(c *loadConfig) { c.systemPaths = true }
}

// SystemPaths returns the definition directories WithSystemPaths would
// search, in order, keeping only directories that exist.
func SystemPaths() []string {
	return discoverSystemPaths(types.Logger{})
}

type pathOp int

const (
	pathReplace pathOp = iota
	pathAppend
	pathPrepend
)

// discoverSystemSources returns Sources for all discovered system definition directories.
func discoverSystemSources(logger types.Logger) []Source {
	dirs := discoverSystemPaths(logger)
	var sources []Source
	for _, d := range dirs {
		if src, err := Dir(d); err == nil {
			sources = append(sources, src)
		}
	}
	return sources
}

// discoverSystemPaths returns definition directories, deduplicated and
// filtered to directories that exist.
func discoverSystemPaths(logger types.Logger) []string {
	paths := defaultPaths()
	for _, cf := range configFiles() {
		paths = applyConfigFile(cf, paths, parseConfigLine, logger)
	}
	if v := os.Getenv(PathEnv); v != "" {
		paths = applyEnv(v, paths)
	}
	paths = filterExistingDirs(dedup(paths))
	logger.Log(slog.LevelDebug, "system paths", slog.Any("paths", paths))
	return paths
}

func defaultPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".hdl21", "modules"))
	}
	paths = append(paths,
		"/usr/local/share/hdl21/modules",
		"/usr/share/hdl21/modules",
	)
	return paths
}

func configFiles() []string {
	files := []string{"/etc/hdl21.conf"}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files, filepath.Join(home, ".hdl21", "config"))
	}
	return files
}

// parseConfigLine parses a single config line for modules directives.
// Supports both "modules +/path" (prefix on value) and "+modules /path" (prefix on directive).
func parseConfigLine(line string) (pathOp, []string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' {
		return 0, nil, false
	}

	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, nil, false
	}

	directive := fields[0]
	value := fields[1]

	switch directive {
	case "modules":
		if rest, ok := strings.CutPrefix(value, "+"); ok {
			return pathAppend, splitPaths(rest), true
		}
		if rest, ok := strings.CutPrefix(value, "-"); ok {
			return pathPrepend, splitPaths(rest), true
		}
		return pathReplace, splitPaths(value), true
	case "+modules":
		return pathAppend, splitPaths(value), true
	case "-modules":
		return pathPrepend, splitPaths(value), true
	default:
		return 0, nil, false
	}
}

func applyEnv(value string, current []string) []string {
	if rest, ok := strings.CutPrefix(value, "+"); ok {
		return applyOp(pathAppend, splitPaths(rest), current)
	}
	if rest, ok := strings.CutPrefix(value, "-"); ok {
		return applyOp(pathPrepend, splitPaths(rest), current)
	}
	return splitPaths(value)
}

func applyOp(op pathOp, dirs, current []string) []string {
	switch op {
	case pathAppend:
		return append(current, dirs...)
	case pathPrepend:
		return append(dirs, current...)
	default:
		return dirs
	}
}

func applyConfigFile(path string, current []string, parseLine func(string) (pathOp, []string, bool), logger types.Logger) []string {
	f, err := os.Open(path)
	if err != nil {
		return current
	}
	defer f.Close() //nolint:errcheck // best-effort config file read

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		op, dirs, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		current = applyOp(op, dirs, current)
	}
	if err := scanner.Err(); err != nil {
		logger.Log(slog.LevelDebug, "error reading config file", slog.String("path", path), slog.Any("error", err))
	}
	return current
}

func splitPaths(s string) []string {
	if s == "" {
		return nil
	}
	var result []string
	for _, p := range filepath.SplitList(s) {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func dedup(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	var result []string
	for _, p := range paths {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			result = append(result, p)
		}
	}
	return result
}

func filterExistingDirs(paths []string) []string {
	var result []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err == nil && info.IsDir() {
			result = append(result, p)
		}
	}
	return result
}
