// Copyright © 2020 The Pea Authors under an MIT-style license.

// Package loc has routines for tracking file locations.
package loc

import (
	"fmt"
	"sort"
)

// A Pos is the source line of a node or token.
type Pos struct {
	Line int
}

// GetPos returns itself.
// This is useful so that Pos can be embedded in a struct
// and that struct can implement interface{GetPos() Pos}.
func (p Pos) GetPos() Pos { return p }

// A Loc describes a file location.
type Loc struct {
	Path string
	Line int
}

func (l Loc) String() string {
	switch {
	case l.Path == "":
		return fmt.Sprintf("%d", l.Line)
	case l.Line <= 0:
		return l.Path
	default:
		return fmt.Sprintf("%s:%d", l.Path, l.Line)
	}
}

// Files tracks line offsets within a set of files.
type Files []File

// A File is a single file in a Files.
type File struct {
	Path  string
	Text  string
	Lines []int // byte offset of the last byte of each line break
}

// Add adds a new file to the set given its path and text.
// A line break is \n, \r\n, or a lone \r.
func (fs *Files) Add(path, text string) {
	var lines []int
	for i := 0; i < len(text); i++ {
		switch {
		case text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n':
			i++
			lines = append(lines, i)
		case text[i] == '\n' || text[i] == '\r':
			lines = append(lines, i)
		}
	}
	*fs = append(*fs, File{Path: path, Text: text, Lines: lines})
}

// Find returns the file with the given path or nil.
func (fs Files) Find(path string) *File {
	for i := range fs {
		if fs[i].Path == path {
			return &fs[i]
		}
	}
	return nil
}

// Line returns the text of the 1-based line n of the file at path,
// without its line terminator.
// The second result is false if there is no such line.
func (fs Files) Line(path string, n int) (string, bool) {
	f := fs.Find(path)
	if f == nil || n < 1 || n > len(f.Lines)+1 {
		return "", false
	}
	start := 0
	if n > 1 {
		start = f.Lines[n-2] + 1
	}
	end := len(f.Text)
	if n <= len(f.Lines) {
		end = f.Lines[n-1]
	}
	if end > start && f.Text[end-1] == '\r' {
		end--
	}
	return f.Text[start:end], true
}

// Loc returns the Loc of a byte offset in the file at path.
func (fs Files) Loc(path string, offs int) Loc {
	f := fs.Find(path)
	if f == nil || offs < 0 || offs > len(f.Text) {
		return Loc{Path: path}
	}
	line := sort.SearchInts(f.Lines, offs) + 1
	return Loc{Path: path, Line: line}
}
