// Copyright © 2020 The Pea Authors under an MIT-style license.

// Package diag defines the diagnostics reported by the compiler front end.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dynamite-lang/dynamite/loc"
)

// Severity classifies a diagnostic.
type Severity int

const (
	// Error is a problem with the input that prevents code generation.
	Error Severity = iota
	// Warning is a suspicious construct that does not prevent code generation.
	Warning
	// Internal is a broken compiler invariant, not a problem with the input.
	Internal
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Internal:
		return "internal error"
	default:
		panic(fmt.Sprintf("impossible severity %d", int(s)))
	}
}

// A Sink receives diagnostics.
// Reporting never stops compilation.
type Sink interface {
	Report(sev Severity, line int, msg string)
}

// A Noter is implemented by Sinks that can attach notes
// to the most recently reported diagnostic.
type Noter interface {
	Note(f string, vs ...interface{})
}

// A Diagnostic is a single reported problem.
type Diagnostic struct {
	Loc      loc.Loc
	Severity Severity
	Msg      string
	Notes    []string
}

func (d *Diagnostic) Error() string {
	var s strings.Builder
	s.WriteString(d.Loc.String())
	s.WriteString(": ")
	s.WriteString(d.Severity.String())
	s.WriteString(": ")
	s.WriteString(d.Msg)
	for _, n := range d.Notes {
		s.WriteString("\n\t")
		s.WriteString(n)
	}
	return s.String()
}

// A List is a Sink that records diagnostics for a single file.
type List struct {
	Path  string
	Diags []Diagnostic
}

// Report implements Sink.
func (l *List) Report(sev Severity, line int, msg string) {
	l.Diags = append(l.Diags, Diagnostic{
		Loc:      loc.Loc{Path: l.Path, Line: line},
		Severity: sev,
		Msg:      msg,
	})
}

// Note adds a note to the most recently reported diagnostic.
func (l *List) Note(f string, vs ...interface{}) {
	if len(l.Diags) == 0 {
		return
	}
	d := &l.Diags[len(l.Diags)-1]
	d.Notes = append(d.Notes, fmt.Sprintf(f, vs...))
}

// Count returns the number of diagnostics with the given severity.
func (l *List) Count(sev Severity) int {
	var n int
	for i := range l.Diags {
		if l.Diags[i].Severity == sev {
			n++
		}
	}
	return n
}

// HasErrors returns whether any Error or Internal diagnostic was reported.
func (l *List) HasErrors() bool {
	return l.Count(Error) > 0 || l.Count(Internal) > 0
}

// Sorted returns the diagnostics ordered by line,
// with exact duplicates removed.
// The sort is stable, so diagnostics on the same line
// stay in the order they were reported.
func (l *List) Sorted() []Diagnostic {
	if len(l.Diags) == 0 {
		return nil
	}
	ds := make([]Diagnostic, len(l.Diags))
	copy(ds, l.Diags)
	sort.SliceStable(ds, func(i, j int) bool {
		switch di, dj := ds[i].Loc, ds[j].Loc; {
		case di.Path == dj.Path:
			return di.Line < dj.Line
		default:
			return di.Path < dj.Path
		}
	})
	dedup := []Diagnostic{ds[0]}
	for _, d := range ds[1:] {
		p := &dedup[len(dedup)-1]
		if d.Loc != p.Loc || d.Msg != p.Msg || d.Severity != p.Severity {
			dedup = append(dedup, d)
		}
	}
	return dedup
}

// Errors returns the sorted diagnostics as errors.
func (l *List) Errors() []error {
	var errs []error
	ds := l.Sorted()
	for i := range ds {
		errs = append(errs, &ds[i])
	}
	return errs
}

// Discard is a Sink that drops every diagnostic.
var Discard Sink = discard{}

type discard struct{}

func (discard) Report(Severity, int, string) {}
