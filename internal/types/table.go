package types

import "corec/internal/ids"

// Table maps every HIR node to the type inference assigned it. It
// enforces three invariants end to end:
//
//	I1: every node reachable from a function body has an entry once
//	    inference for that function completes.
//	I2: no entry is KindUnresolved once validation runs.
//	I3: a node's type only ever moves from Unresolved to a concrete
//	    type, never back -- Set panics on any attempted regression.
type Table struct {
	entries map[ids.NodeID]Type
}

// NewTable returns an empty Table ready for inference to populate.
func NewTable() *Table {
	return &Table{entries: make(map[ids.NodeID]Type)}
}

// Set records t as id's type. Overwriting an existing entry with
// KindUnresolved is rejected -- that would violate I3.
func (t *Table) Set(id ids.NodeID, ty Type) {
	if existing, ok := t.entries[id]; ok && !existing.IsUnresolved() && ty.IsUnresolved() {
		panic("types: attempted to regress a resolved node back to Unresolved")
	}
	t.entries[id] = ty
}

// Get returns id's type and whether it has been assigned one at all.
func (t *Table) Get(id ids.NodeID) (Type, bool) {
	ty, ok := t.entries[id]
	return ty, ok
}

// MustGet panics if id has no entry; callers use it once I1 is known to
// hold, i.e. anywhere downstream of a completed inference pass.
func (t *Table) MustGet(id ids.NodeID) Type {
	ty, ok := t.entries[id]
	if !ok {
		panic("types: node has no recorded type")
	}
	return ty
}

// Len returns the number of nodes with a recorded type.
func (t *Table) Len() int { return len(t.entries) }

// AllResolved reports whether every recorded entry is non-Unresolved,
// i.e. whether I2 currently holds.
func (t *Table) AllResolved() bool {
	for _, ty := range t.entries {
		if ty.IsUnresolved() {
			return false
		}
	}
	return true
}

// Unresolved returns the NodeIDs still carrying the sentinel type, for
// validation to report as errors.
func (t *Table) Unresolved() []ids.NodeID {
	var out []ids.NodeID
	for id, ty := range t.entries {
		if ty.IsUnresolved() {
			out = append(out, id)
		}
	}
	return out
}
