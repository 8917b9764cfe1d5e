package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hdl21/hdl21/cmd/internal/cliutil"
)

const dumpUsage = `hdl21 dump - Output modules as JSON or YAML

Usage:
  hdl21 dump [options] [NAME...]

Dumps the named definitions, or every definition when no names are
given. Instance connections are written in reference syntax.

Options:
  --format FMT    Output format: json (default) or yaml
  --compact       Minified JSON (no indentation)
  --deps          Also dump everything the named modules instantiate
  -h, --help      Show help

Examples:
  hdl21 dump -p ./cells Inv
  hdl21 dump -p ./cells --deps --format yaml Buf
  hdl21 dump -p ./cells --compact | jq '.modules[].name'
`

func (c *cli) cmdDump(args []string) int {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, dumpUsage) }

	formatFlag := fs.String("format", "json", "output format")
	compact := fs.Bool("compact", false, "minified JSON")
	deps := fs.Bool("deps", false, "include dependencies")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, dumpUsage)
		return exitOK
	}

	format, err := cliutil.ParseFormat(*formatFlag)
	if err != nil {
		printError("%v", err)
		return exitError
	}

	names := fs.Args()
	design, err := c.load(c.Paths, names)
	if err != nil {
		printError("failed to load: %v", err)
		return exitError
	}

	selected := names
	if *deps {
		selected = nil
	}
	out := buildDump(design, selected)

	w, cleanup, err := cliutil.GetOutput(c.OutputFile)
	if err != nil {
		printError("%v", err)
		return exitError
	}
	defer cleanup()

	if err := cliutil.Write(w, out, format, *compact); err != nil {
		printError("encoding %s: %v", format, err)
		return exitError
	}
	return exitOK
}
