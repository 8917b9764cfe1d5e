package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hdl21/hdl21"
)

const listUsage = `hdl21 list - List available definition files

Usage:
  hdl21 list [options]

Lists the definition files found on the configured sources without
parsing them. Each is shown by the name LoadModules would look it up by.

Options:
  --count      Print only the file count
  --json       Output as JSON array
  --files      Print file paths instead of names
  -h, --help   Show help

Examples:
  hdl21 list -p ./cells
  hdl21 list -p ./cells --count
  hdl21 list -p ./cells --json
`

func (c *cli) cmdList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, listUsage) }

	count := fs.Bool("count", false, "print only file count")
	jsonOut := fs.Bool("json", false, "output as JSON array")
	files := fs.Bool("files", false, "print file paths")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, listUsage)
		return exitOK
	}

	paths := c.Paths
	if len(paths) == 0 {
		paths = hdl21.SystemPaths()
	}
	src, _, err := buildSource(paths)
	if err != nil || src == nil {
		printError("no sources available")
		return exitError
	}

	listed, err := src.ListFiles()
	if err != nil {
		printError("listing files: %v", err)
		return exitError
	}

	out := listed
	if !*files {
		out = make([]string, 0, len(listed))
		for _, p := range listed {
			out = append(out, fileStem(p))
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)

	if *count {
		fmt.Println(len(out))
		return exitOK
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			printError("encoding JSON: %v", err)
			return exitError
		}
		return exitOK
	}
	for _, name := range out {
		fmt.Println(name)
	}
	return exitOK
}

// fileStem returns the base name of p without its extension.
func fileStem(p string) string {
	if i := strings.LastIndexByte(p, ':'); i >= 0 {
		p = p[i+1:]
	}
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
