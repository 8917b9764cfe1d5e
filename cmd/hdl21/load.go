package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hdl21/hdl21"
)

const loadUsage = `hdl21 load - Load definitions and report diagnostics

Usage:
  hdl21 load [options] [NAME...]

Loads the named modules and everything they instantiate, or every
definition when no names are given.

Options:
  --strict    Fail on warnings as well as errors
  --stats     Show per-module statistics
  -h, --help  Show help

Examples:
  hdl21 load -p ./cells
  hdl21 load -p ./cells Buf
  hdl21 load -p ./cells --strict --stats Buf
  hdl21 load -vv -p ./cells Buf        # Trace logging
`

func (c *cli) cmdLoad(args []string) int {
	fs := flag.NewFlagSet("load", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, loadUsage) }

	strict := fs.Bool("strict", false, "fail on warnings")
	stats := fs.Bool("stats", false, "show detailed statistics")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, loadUsage)
		return exitOK
	}

	var opts []hdl21.LoadOption
	if *strict {
		opts = append(opts, hdl21.WithStrict())
	}
	design, err := c.load(c.Paths, fs.Args(), opts...)
	if err != nil {
		if *strict && errors.Is(err, hdl21.ErrDiagnosticThreshold) {
			printError("%v", err)
			return exitStrictViolation
		}
		printError("failed to load: %v", err)
		return exitError
	}

	w := os.Stdout
	fmt.Fprintf(w, "Loaded %d definitions (%d modules, %d external modules, %d bundles)\n",
		design.Len()+len(design.Bundles()), len(design.Modules()), len(design.Externals()), len(design.Bundles()))
	if *stats {
		printStats(w, design)
	}
	if diags := design.Diagnostics(); len(diags) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Diagnostics:")
		for _, d := range diags {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}
	return exitOK
}

func printStats(w io.Writer, design *hdl21.Design) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Modules:")
	for _, m := range design.Modules() {
		fmt.Fprintf(w, "  %-16s %2d ports  %2d signals  %2d instances  %2d arrays  %2d bundles\n",
			m.Name(), m.Ports().Len(), m.Signals().Len(), m.Instances().Len(),
			m.InstArrays().Len(), m.Bundles().Len())
	}
}
