// Copyright © 2020 The Pea Authors under an MIT-style license.

// Package mod loads and compiles the source files of a module.
//
// A module is either a single .dy file
// or a directory of .dy files.
// Each file is a separate compilation unit
// with its own symbol tables.
package mod

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dynamite-lang/dynamite/loc"
	"github.com/dynamite-lang/dynamite/parse"
)

// Ext is the file extension of source files.
const Ext = ".dy"

// A Mod contains information about the source for a single module.
type Mod struct {
	// SrcPath is the source file path.
	// This is path to the source file or directory of the module.
	SrcPath string
	// SrcDir may differ from SrcPath
	// if the module is given as a .dy file, not a directory.
	SrcDir string
	// SrcFiles contains the source file paths in alphabetical order.
	SrcFiles []string
}

// Load returns a *Mod loaded from srcPath.
// srcPath may be either a .dy source file or a directory of .dy source files.
func Load(srcPath string) (*Mod, error) {
	srcPath, err := realPath(srcPath)
	if err != nil {
		return nil, err
	}
	srcFiles, srcDir, err := srcFiles(srcPath)
	if err != nil {
		return nil, err
	}
	return &Mod{SrcPath: srcPath, SrcDir: srcDir, SrcFiles: srcFiles}, nil
}

func realPath(dir string) (string, error) {
	switch dir {
	case string([]rune{filepath.Separator}):
		return dir, nil
	case ".":
		return os.Getwd()
	default:
		base := filepath.Base(dir)
		dir, err := realPath(filepath.Dir(dir))
		if err != nil {
			return "", err
		}
		switch base {
		case ".":
			return dir, nil
		case "..":
			return filepath.Dir(dir), nil
		default:
			return filepath.Join(dir, base), nil
		}
	}
}

func srcFiles(srcPath string) ([]string, string, error) {
	srcFile, err := os.Open(srcPath)
	if err != nil {
		return nil, "", err
	}
	defer srcFile.Close()
	stat, err := srcFile.Stat()
	if err != nil {
		return nil, "", err
	}
	if !stat.IsDir() {
		return []string{srcPath}, filepath.Dir(srcPath), nil
	}
	finfos, err := srcFile.Readdir(-1)
	if err != nil {
		return nil, "", err
	}
	var paths []string
	for _, finfo := range finfos {
		if finfo.IsDir() || !strings.HasSuffix(finfo.Name(), Ext) {
			continue
		}
		paths = append(paths, filepath.Join(srcPath, finfo.Name()))
	}
	sort.Strings(paths)
	return paths, srcPath, nil
}

// Compile compiles each source file of the module in order.
// The returned Files hold the text of every file read,
// for printing source lines with diagnostics.
//
// The error is non-nil only if a file could not be read;
// problems in the source are reported in each Unit's Diags.
func (m *Mod) Compile(cfg parse.Config) ([]*parse.Unit, loc.Files, error) {
	var (
		units []*parse.Unit
		files loc.Files
	)
	for _, path := range m.SrcFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		text := string(data)
		files.Add(m.relPath(path), text)
		units = append(units, parse.Compile(m.relPath(path), text, cfg))
	}
	return units, files, nil
}

// relPath returns path relative to the working directory if possible.
func (m *Mod) relPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
