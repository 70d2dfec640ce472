// Copyright © 2020 The Pea Authors under an MIT-style license.

// Package mdtest extracts test cases from Markdown documents.
//
// A test case starts at a heading "Test: name".
// It has exactly one input fence, with language dy (a program)
// or dy-expr (an expression),
// followed by one or more expectation fences,
// with language ast, diag, or tokens.
// Fences without a language are commentary and are ignored.
package mdtest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Input fence languages.
const (
	Program = "dy"
	Expr    = "dy-expr"
)

// Expectation fence languages.
const (
	AST    = "ast"
	Diag   = "diag"
	Tokens = "tokens"
)

// A Case is a single test case.
type Case struct {
	// File is the path of the Markdown document, if read from a file.
	File string
	// Name is the heading text after "Test: ".
	Name string
	// Line is the line of the heading.
	Line int
	// Lang is Program or Expr.
	Lang  string
	Input string
	// Expect are the expectation fences in document order.
	Expect []Expect
}

// An Expect is the content of an expectation fence.
type Expect struct {
	Lang string
	Text string
	Line int
}

// Want returns the text of the first expectation with the language.
func (c *Case) Want(lang string) (string, bool) {
	for _, e := range c.Expect {
		if e.Lang == lang {
			return e.Text, true
		}
	}
	return "", false
}

// Extract returns the test cases of a Markdown document.
func Extract(src []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	var cases []Case
	var cur *Case
	finish := func() error {
		if cur == nil {
			return nil
		}
		switch {
		case cur.Lang == "":
			return fmt.Errorf("line %d: test %q has no input fence", cur.Line, cur.Name)
		case len(cur.Expect) == 0:
			return fmt.Errorf("line %d: test %q has no expectation fences", cur.Line, cur.Name)
		}
		cases = append(cases, *cur)
		return nil
	}
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			h := nodeText(n, src)
			if !strings.HasPrefix(h, "Test: ") {
				return ast.WalkSkipChildren, nil
			}
			if err := finish(); err != nil {
				return ast.WalkStop, err
			}
			cur = &Case{Name: strings.TrimPrefix(h, "Test: "), Line: lineOf(n, src)}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			lang := string(n.Language(src))
			line := lineOf(n, src)
			switch {
			case lang == "":
				return ast.WalkContinue, nil
			case cur == nil:
				return ast.WalkStop, fmt.Errorf("line %d: %s fence outside of a test", line, lang)
			case lang == Program || lang == Expr:
				if cur.Lang != "" {
					return ast.WalkStop, fmt.Errorf("line %d: test %q has multiple input fences", line, cur.Name)
				}
				cur.Lang = lang
				cur.Input = fenceText(n, src)
			case lang == AST || lang == Diag || lang == Tokens:
				if cur.Lang == "" {
					return ast.WalkStop, fmt.Errorf("line %d: %s fence before the input of test %q", line, lang, cur.Name)
				}
				cur.Expect = append(cur.Expect, Expect{
					Lang: lang,
					Text: strings.TrimRight(fenceText(n, src), "\n"),
					Line: line,
				})
			default:
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language %q in test %q", line, lang, cur.Name)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return cases, nil
}

// ReadFiles returns the test cases of all files matching the glob,
// in file name order.
func ReadFiles(glob string) ([]Case, error) {
	paths, err := filepath.Glob(glob)
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	var cases []Case
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		cs, err := Extract(src)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		for i := range cs {
			cs[i].File = path
		}
		cases = append(cases, cs...)
	}
	return cases, nil
}

func nodeText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceText(n *ast.FencedCodeBlock, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.String()
}

// lineOf returns the 1-based line of the node's first text line.
// For a fence this is the first line of its content.
func lineOf(n ast.Node, src []byte) int {
	if n.Lines().Len() == 0 {
		return 1
	}
	return bytes.Count(src[:n.Lines().At(0).Start], []byte("\n")) + 1
}
