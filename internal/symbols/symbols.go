// Package symbols implements name resolution: it walks an hir.File and
// records, for every identifier reference, which declaration it binds
// to -- a flat per-unit symbol table, no modules, no imports beyond the
// declared extern surface.
package symbols

import "corec/internal/ids"

// Def is what a name resolves to: the NodeID of its declaration, and
// whether that declaration is an extern function (never mangled, always
// callable regardless of visibility).
type Def struct {
	Target   ids.NodeID
	External bool
}

// Map is the resolved symbol table for one unit: a flat mapping from
// every identifier-reference NodeID to the Def it binds to.
type Map struct {
	refs map[ids.NodeID]Def
}

// NewMap returns an empty Map ready for Resolve to populate.
func NewMap() *Map {
	return &Map{refs: make(map[ids.NodeID]Def)}
}

// Bind records that the reference node refID resolves to def.
func (m *Map) Bind(refID ids.NodeID, def Def) {
	m.refs[refID] = def
}

// Lookup returns what refID was resolved to, if anything.
func (m *Map) Lookup(refID ids.NodeID) (Def, bool) {
	d, ok := m.refs[refID]
	return d, ok
}

// Len returns the number of resolved references.
func (m *Map) Len() int { return len(m.refs) }
