package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/hdl21/hdl21/cmd/internal/cliutil"
)

const diffUsage = `hdl21 diff - Compare the definitions found on two paths

Usage:
  hdl21 diff [options] PATH_A PATH_B [NAME...]

Loads each path on its own, dumps the named definitions (or everything)
as YAML and prints a unified diff of the two dumps. Source locations and
diagnostics are left out of the comparison.

Options:
  --context N    Lines of context (default 3)
  --exit-code    Exit with status 2 when the dumps differ
  -h, --help     Show help

Examples:
  hdl21 diff ./cells-v1 ./cells-v2
  hdl21 diff --exit-code ./old ./new Inv Buf
`

func (c *cli) cmdDiff(args []string) int {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, diffUsage) }

	ctxLines := fs.Int("context", 3, "lines of context")
	exitCode := fs.Bool("exit-code", false, "exit 2 on differences")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, diffUsage)
		return exitOK
	}
	if fs.NArg() < 2 {
		printError("expected two paths")
		fmt.Fprint(os.Stderr, diffUsage)
		return exitError
	}
	pathA, pathB, names := fs.Arg(0), fs.Arg(1), fs.Args()[2:]

	a, err := c.dumpText(pathA, names)
	if err != nil {
		printError("%s: %v", pathA, err)
		return exitError
	}
	b, err := c.dumpText(pathB, names)
	if err != nil {
		printError("%s: %v", pathB, err)
		return exitError
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: pathA,
		ToFile:   pathB,
		Context:  *ctxLines,
	})
	if err != nil {
		printError("%v", err)
		return exitError
	}
	if text == "" {
		return exitOK
	}

	w, cleanup, err := cliutil.GetOutput(c.OutputFile)
	if err != nil {
		printError("%v", err)
		return exitError
	}
	defer cleanup()
	_, _ = fmt.Fprint(w, text)

	if *exitCode {
		return exitStrictViolation
	}
	return exitOK
}

// dumpText loads path on its own and returns the location-independent
// YAML dump of names.
func (c *cli) dumpText(path string, names []string) (string, error) {
	design, err := c.load([]string{path}, names)
	if err != nil {
		return "", err
	}
	out := buildDump(design, names)
	out.Diagnostics = nil
	for i := range out.Modules {
		out.Modules[i].Source = ""
	}
	data, err := cliutil.Marshal(out, cliutil.FormatYAML, false)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
