package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hdl21/hdl21/cmd/internal/cliutil"
	"github.com/hdl21/hdl21/hdl"
	"github.com/hdl21/hdl21/internal/parser"
)

const sliceUsage = `hdl21 slice - Resolve a slice

Usage:
  hdl21 slice --width N INDEX
  hdl21 slice [options] -m MODULE REF

The first form resolves a bare index ("3", "-1", "2:6", "::-1") against
a value of width N. The second resolves a signal reference such as
"d[7:0:-1][0]" against a signal of a loaded module.

Options:
  --width N       Width to resolve INDEX against
  -m, --module M  Module holding the referenced signal
  --format FMT    Output format: text (default), json or yaml
  -h, --help      Show help

Examples:
  hdl21 slice --width 8 "::-1"
  hdl21 slice -p ./cells -m Swap "a[4:8]"
`

// SliceJSON holds the resolved bounds of a slice.
type SliceJSON struct {
	Ref   string `json:"ref" yaml:"ref"`
	Top   int    `json:"top" yaml:"top"`
	Bot   int    `json:"bot" yaml:"bot"`
	Step  int    `json:"step,omitempty" yaml:"step,omitempty"`
	Width int    `json:"width" yaml:"width"`
}

func (c *cli) cmdSlice(args []string) int {
	fs := flag.NewFlagSet("slice", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, sliceUsage) }

	width := fs.Int("width", -1, "width to resolve against")
	module := fs.String("m", "", "module holding the signal")
	fs.StringVar(module, "module", "", "module holding the signal")
	formatFlag := fs.String("format", "text", "output format")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, sliceUsage)
		return exitOK
	}
	if fs.NArg() != 1 {
		printError("expected exactly one INDEX or REF")
		fmt.Fprint(os.Stderr, sliceUsage)
		return exitError
	}
	arg := fs.Arg(0)

	var (
		res SliceJSON
		err error
	)
	switch {
	case *module != "":
		res, err = c.resolveRef(*module, arg)
	case *width >= 0:
		res, err = resolveIndex(arg, *width)
	default:
		printError("one of --width or -m is required")
		return exitError
	}
	if err != nil {
		printError("%v", err)
		return exitError
	}

	if *formatFlag == "text" {
		printSlice(os.Stdout, res)
		return exitOK
	}
	format, err := cliutil.ParseFormat(*formatFlag)
	if err != nil {
		printError("%v", err)
		return exitError
	}
	if err := cliutil.Write(os.Stdout, res, format, false); err != nil {
		printError("%v", err)
		return exitError
	}
	return exitOK
}

func resolveIndex(s string, width int) (SliceJSON, error) {
	idx, err := hdl.ParseIndex(s)
	if err != nil {
		return SliceJSON{}, err
	}
	inner, err := hdl.Resolve(idx, width)
	if err != nil {
		return SliceJSON{}, err
	}
	return sliceJSON(fmt.Sprintf("[%s] of width %d", idx, width), &inner), nil
}

func (c *cli) resolveRef(module, s string) (SliceJSON, error) {
	ref, err := parser.ParseRef(s)
	if err != nil {
		return SliceJSON{}, err
	}
	design, err := c.load(c.Paths, []string{module})
	if err != nil {
		return SliceJSON{}, err
	}
	m := design.Module(module)
	if m == nil {
		return SliceJSON{}, fmt.Errorf("%s is not a module", module)
	}
	sig, ok := m.Get(ref.Signal).(*hdl.Signal)
	if !ok {
		return SliceJSON{}, fmt.Errorf("module %s has no signal %q", module, ref.Signal)
	}
	if len(ref.Indices) == 0 {
		w := sig.Width()
		return SliceJSON{Ref: sig.Name(), Top: w, Bot: 0, Width: w}, nil
	}

	var cur hdl.Sliceable = sig
	var last *hdl.Slice
	for _, idx := range ref.Indices {
		if last, err = hdl.NewSlice(cur, idx); err != nil {
			return SliceJSON{}, err
		}
		cur = last
	}
	inner, err := last.Inner()
	if err != nil {
		return SliceJSON{}, err
	}
	return sliceJSON(refString(last), inner), nil
}

func sliceJSON(ref string, inner *hdl.SliceInner) SliceJSON {
	return SliceJSON{Ref: ref, Top: inner.Top, Bot: inner.Bot, Step: inner.Step, Width: inner.Width}
}

func printSlice(w io.Writer, s SliceJSON) {
	fmt.Fprintf(w, "%s\n", s.Ref)
	fmt.Fprintf(w, "  top:   %d\n", s.Top)
	fmt.Fprintf(w, "  bot:   %d\n", s.Bot)
	if s.Step != 0 {
		fmt.Fprintf(w, "  step:  %d\n", s.Step)
	}
	fmt.Fprintf(w, "  width: %d\n", s.Width)
}
