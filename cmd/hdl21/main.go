// Command hdl21 loads, inspects and dumps hardware definitions.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"runtime/debug"

	"github.com/hdl21/hdl21"
	"github.com/hdl21/hdl21/cmd/internal/cliutil"
	"github.com/hdl21/hdl21/hdl"
)

// Exit codes.
const (
	exitOK              = 0 // success
	exitError           = 1 // user error or load failure
	exitStrictViolation = 2 // strict mode found warnings
)

const usage = `hdl21 - hardware definition loader and query tool

Usage:
  hdl21 <command> [options] [arguments]

Commands:
  load    Load definitions and report diagnostics
  list    List available definition files
  dump    Output modules as JSON or YAML
  slice   Resolve a slice against a width or a module signal
  diff    Compare the definitions found on two paths
  paths   Show definition search paths
  version Show version

Common options:
  -p, --path PATH     Add definition search path (repeatable)
  -o, --output FILE   Write output to FILE instead of stdout
  -v, --verbose       Enable debug logging
  -vv                 Enable trace logging (implies -v)
  -h, --help          Show help

Examples:
  hdl21 load -p ./cells Inv
  hdl21 dump -p ./cells --format yaml Buf
  hdl21 slice --width 8 "::-1"
  hdl21 slice -p ./cells -m Swap "a[4:8]"
  hdl21 diff ./old ./new
  hdl21 paths
`

type cli struct {
	cliutil.Flags
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags, cmd, cmdArgs := cliutil.ParseArgs(args)
	c := &cli{Flags: flags}

	if c.HelpFlag && cmd == "" {
		_, _ = fmt.Fprint(os.Stdout, usage)
		return exitOK
	}
	if cmd == "" {
		_, _ = fmt.Fprint(os.Stderr, usage)
		return exitError
	}

	switch cmd {
	case "load":
		return c.cmdLoad(cmdArgs)
	case "list":
		return c.cmdList(cmdArgs)
	case "dump":
		return c.cmdDump(cmdArgs)
	case "slice":
		return c.cmdSlice(cmdArgs)
	case "diff":
		return c.cmdDiff(cmdArgs)
	case "paths":
		return c.cmdPaths(cmdArgs)
	case "version":
		printVersion()
		return exitOK
	case "help":
		_, _ = fmt.Fprint(os.Stdout, usage)
		return exitOK
	default:
		_, _ = fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		_, _ = fmt.Fprint(os.Stderr, usage)
		return exitError
	}
}

func (c *cli) setupLogger() *slog.Logger {
	if c.Verbose == 0 {
		return nil
	}
	level := slog.LevelDebug
	if c.Verbose >= 2 {
		level = hdl21.LevelTrace
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// buildSource returns a DirTree per -p path combined with Multi.
// It returns (nil, true) when no explicit paths are set, meaning
// WithSystemPaths should be used instead.
func buildSource(paths []string) (hdl21.Source, bool, error) {
	if len(paths) == 0 {
		return nil, true, nil
	}
	var sources []hdl21.Source
	for _, p := range paths {
		if src, err := hdl21.DirTree(p); err == nil {
			sources = append(sources, src)
		} else {
			fmt.Fprintf(os.Stderr, "warning: cannot access path %s: %v\n", p, err)
		}
	}
	if len(sources) == 0 {
		return nil, false, hdl21.ErrNoSources
	}
	if len(sources) == 1 {
		return sources[0], false, nil
	}
	return hdl21.Multi(sources...), false, nil
}

// load loads names (everything when names is empty) from paths, or from
// the system search path when paths is empty.
func (c *cli) load(paths, names []string, extraOpts ...hdl21.LoadOption) (*hdl21.Design, error) {
	src, useSystem, err := buildSource(paths)
	if err != nil {
		return nil, err
	}
	// No Go parameter types are registered here; params load as Dict.
	opts := []hdl21.LoadOption{hdl21.WithFallbackParamType(reflect.TypeFor[hdl.Dict]())}
	if useSystem {
		opts = append(opts, hdl21.WithSystemPaths())
	}
	if logger := c.setupLogger(); logger != nil {
		opts = append(opts, hdl21.WithLogger(logger))
	}
	opts = append(opts, extraOpts...)

	ctx := context.Background()
	if len(names) > 0 {
		return hdl21.LoadModules(ctx, names, src, opts...)
	}
	return hdl21.Load(ctx, src, opts...)
}

func printVersion() {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}
	fmt.Printf("hdl21 %s\n", version)
}

func printError(format string, args ...any) {
	cliutil.PrintError(format, args...)
}
