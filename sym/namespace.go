// Copyright © 2020 The Pea Authors under an MIT-style license.

package sym

import "strings"

// Namespaces records the namespace paths that have been entered.
// The zero value is empty.
type Namespaces struct {
	paths [][]string
	seen  map[string]bool
}

// JoinPath returns the source spelling of a namespace path.
func JoinPath(path []string) string { return strings.Join(path, "::") }

// Enter records that the path has been entered.
// It returns whether this is the first time.
func (n *Namespaces) Enter(path []string) bool {
	key := JoinPath(path)
	if n.seen[key] {
		return false
	}
	if n.seen == nil {
		n.seen = make(map[string]bool)
	}
	n.seen[key] = true
	n.paths = append(n.paths, append([]string(nil), path...))
	return true
}

// Exists returns whether the path has been entered.
func (n *Namespaces) Exists(path []string) bool { return n.seen[JoinPath(path)] }

// Paths returns the entered paths in the order first entered.
func (n *Namespaces) Paths() [][]string { return n.paths }

// Reset forgets all paths.
func (n *Namespaces) Reset() {
	n.paths = nil
	n.seen = nil
}

// Tables are the symbol tables of one compilation unit.
type Tables struct {
	Scopes     Scopes
	Funcs      Funcs
	Namespaces Namespaces
}

// New returns new, empty tables.
func New() *Tables { return new(Tables) }

// Reset empties all of the tables.
func (t *Tables) Reset() {
	t.Scopes.Reset()
	t.Funcs.Reset()
	t.Namespaces.Reset()
}
