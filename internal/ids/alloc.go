// Package ids mints the NodeID values that key every cross-pass table
// (types.Table, symbols.Map). The compiler lowers every unit with one
// process-wide Allocator so identity is unique across units.
package ids

import "sync/atomic"

// NodeID uniquely identifies one HIR node for the lifetime of a
// compilation. IDs are never reused, even across failed passes.
type NodeID uint64

// Allocator hands out strictly increasing NodeIDs. The zero value is
// ready to use and is safe for concurrent use by multiple units sharing
// one global counter.
type Allocator struct {
	next atomic.Uint64
}

// Next returns a fresh NodeID. ID 0 is never issued, so the zero value
// of NodeID can serve as "no node" where that's useful.
func (a *Allocator) Next() NodeID {
	return NodeID(a.next.Add(1))
}
