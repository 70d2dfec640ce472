// Copyright © 2020 The Pea Authors under an MIT-style license.

// Dync compiles Dynamite source files and reports diagnostics.
//
// Usage:
//
//	dync [flags] <source dir or file>
//
// Settings may also be given in a TOML file with -config;
// flags override the file.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/dynamite-lang/dynamite/ast"
	"github.com/dynamite-lang/dynamite/diag"
	"github.com/dynamite-lang/dynamite/loc"
	"github.com/dynamite-lang/dynamite/mod"
	"github.com/dynamite-lang/dynamite/parse"
	"github.com/dynamite-lang/dynamite/types"
	"github.com/eaburns/peggy/peg"
	"github.com/fatih/color"
	"github.com/naoina/toml"
)

// config holds the settings of a run.
// TOML keys are the field names.
type config struct {
	// WordSize is the target word size in bytes, 4 or 8.
	WordSize int
	// Emit is what to print for each unit: "", "tokens", or "ast".
	Emit string
	// Tree prints the syntax failure tree of each unit.
	Tree  bool
	Trace bool
	Debug bool
	// Color is "auto", "always", or "never".
	Color string
}

var defaultConfig = config{WordSize: 8, Color: "auto"}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

func loadConfig(file string, cfg *config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run runs the compiler and returns the exit status.
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("dync", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var (
		configFile = flags.String("config", "", "TOML configuration file")
		emit       = flags.String("emit", "", "print the tokens or ast of each file")
		tree       = flags.Bool("tree", false, "print the syntax failure tree")
		trace      = flags.Bool("trace", false, "enable parser tracing")
		debug      = flags.Bool("debug", false, "panic on internal errors")
		wordSize   = flags.Int("wordsize", 8, "target word size in bytes (4 or 8)")
		colorMode  = flags.String("color", "auto", "color diagnostics: auto, always, or never")
	)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: dync [flags] <source dir or file>\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return 2
	}

	cfg := defaultConfig
	if *configFile != "" {
		if err := loadConfig(*configFile, &cfg); err != nil {
			fmt.Fprintf(stderr, "failed to load config: %s\n", err)
			return 1
		}
	}
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "emit":
			cfg.Emit = *emit
		case "tree":
			cfg.Tree = *tree
		case "trace":
			cfg.Trace = *trace
		case "debug":
			cfg.Debug = *debug
		case "wordsize":
			cfg.WordSize = *wordSize
		case "color":
			cfg.Color = *colorMode
		}
	})
	if err := checkConfig(cfg); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	m, err := mod.Load(flags.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "failed to load module: %s\n", err)
		return 1
	}
	units, files, err := m.Compile(parse.Config{
		Sizes: types.Sizes{WordSize: cfg.WordSize},
		Trace: cfg.Trace,
		Debug: cfg.Debug,
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	pr := newPrinter(stderr, files, cfg.Color)
	status := 0
	for _, u := range units {
		emitUnit(stdout, u, cfg)
		if cfg.Tree && len(u.Fail.Kids) > 0 {
			fmt.Fprintln(stdout, u.SyntaxError())
			peg.PrettyWrite(stdout, u.Fail)
			fmt.Fprintln(stdout, "")
		}
		for _, d := range u.Diags.Sorted() {
			pr.print(d)
		}
		if u.Diags.HasErrors() {
			status = 1
		}
	}
	return status
}

func checkConfig(cfg config) error {
	switch {
	case cfg.WordSize != 4 && cfg.WordSize != 8:
		return fmt.Errorf("bad word size %d: must be 4 or 8", cfg.WordSize)
	case cfg.Emit != "" && cfg.Emit != "tokens" && cfg.Emit != "ast":
		return fmt.Errorf("bad -emit %q: must be tokens or ast", cfg.Emit)
	case cfg.Color != "auto" && cfg.Color != "always" && cfg.Color != "never":
		return fmt.Errorf("bad -color %q: must be auto, always, or never", cfg.Color)
	}
	return nil
}

func emitUnit(w io.Writer, u *parse.Unit, cfg config) {
	switch cfg.Emit {
	case "tokens":
		for _, tok := range u.Tokens {
			fmt.Fprintf(w, "%#v\n", tok)
		}
	case "ast":
		fmt.Fprint(w, ast.Dump(u.Program))
	}
}

// A printer writes diagnostics with the source line they refer to.
type printer struct {
	w     io.Writer
	files loc.Files
	sev   map[diag.Severity]*color.Color
	loc   *color.Color
	note  *color.Color
}

func newPrinter(w io.Writer, files loc.Files, mode string) *printer {
	p := &printer{
		w:     w,
		files: files,
		sev: map[diag.Severity]*color.Color{
			diag.Error:    color.New(color.FgRed, color.Bold),
			diag.Warning:  color.New(color.FgYellow, color.Bold),
			diag.Internal: color.New(color.FgMagenta, color.Bold),
		},
		loc:  color.New(color.Bold),
		note: color.New(color.FgCyan),
	}
	all := []*color.Color{p.loc, p.note}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		switch mode {
		case "always":
			c.EnableColor()
		case "never":
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) print(d diag.Diagnostic) {
	p.loc.Fprintf(p.w, "%s: ", d.Loc)
	p.sev[d.Severity].Fprintf(p.w, "%s: ", d.Severity)
	fmt.Fprintln(p.w, d.Msg)
	if line, ok := p.files.Line(d.Loc.Path, d.Loc.Line); ok && line != "" {
		fmt.Fprintf(p.w, "    %s\n", line)
	}
	for _, n := range d.Notes {
		p.note.Fprintf(p.w, "\tnote: ")
		fmt.Fprintln(p.w, n)
	}
}
