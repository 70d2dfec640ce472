// Copyright © 2020 The Pea Authors under an MIT-style license.

// Command dynamite parses Dynamite source files, or standard input,
// and pretty-prints the AST of each definition.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dynamite-lang/dynamite/parse"
	"github.com/eaburns/peggy/peg"
	"github.com/eaburns/pretty"
)

func main() {
	pretty.Indent = "    "

	var units []*parse.Unit
	if len(os.Args) == 1 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			die(nil, err)
		}
		units = append(units, parse.Compile("", string(data), parse.Config{}))
	} else {
		for _, file := range os.Args[1:] {
			data, err := os.ReadFile(file)
			if err != nil {
				die(nil, err)
			}
			units = append(units, parse.Compile(file, string(data), parse.Config{}))
		}
	}

	for _, u := range units {
		if u.Diags.HasErrors() {
			die(u, errors.Join(u.Diags.Errors()...))
		}
		for _, d := range u.Program.Defs {
			fmt.Printf("%s:%d\n", u.Path, d.GetPos().Line)
			pretty.Print(d)
			fmt.Println("")
		}
	}
	fmt.Println("")
}

func die(u *parse.Unit, err error) {
	if u != nil && len(u.Fail.Kids) > 0 {
		peg.PrettyWrite(os.Stdout, u.Fail)
		fmt.Println("")
	}
	fmt.Println(err)
	os.Exit(1)
}
