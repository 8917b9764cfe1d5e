package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hdl21/hdl21"
)

const pathsUsage = `hdl21 paths - Show definition search paths

Usage:
  hdl21 paths [options]

Shows the search paths that would be used. When -p paths are specified,
shows those. Otherwise shows the system paths built from the defaults,
the config files and $HDL21PATH.

Options:
  -h, --help   Show help

Examples:
  hdl21 paths
  HDL21PATH=+./cells hdl21 paths
`

func (c *cli) cmdPaths(args []string) int {
	fs := flag.NewFlagSet("paths", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, pathsUsage) }

	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, pathsUsage)
		return exitOK
	}

	paths := c.Paths
	if len(paths) == 0 {
		paths = hdl21.SystemPaths()
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "no search paths found")
		return exitOK
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	return exitOK
}
