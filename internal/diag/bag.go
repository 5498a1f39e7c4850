package diag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// Bag holds the diagnostics collected while compiling one unit.
type Bag struct {
	items   []*Diagnostic
	maximum uint16
}

// NewBag creates a Bag that accepts at most maximum diagnostics; further
// Add calls report overflow and are dropped.
func NewBag(maximum int) *Bag {
	capped, err := safecast.Conv[uint16](maximum)
	if err != nil {
		panic(fmt.Errorf("diagnostic bag maximum overflow: %w", err))
	}
	return &Bag{items: make([]*Diagnostic, 0, capped), maximum: capped}
}

// Add appends d, returning false if the bag's capacity was already
// reached.
func (b *Bag) Add(d *Diagnostic) bool {
	if d == nil {
		return false
	}
	if len(b.items) >= int(b.maximum) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors reports whether any item has SevError or above.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity >= SevError {
			return true
		}
	}
	return false
}

// Items returns the collected diagnostics in insertion order.
func (b *Bag) Items() []*Diagnostic { return b.items }

// Len returns the number of collected diagnostics.
func (b *Bag) Len() int { return len(b.items) }

// Sort orders diagnostics by file, then by start offset, stable for ties.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		a, c := b.items[i].Primary, b.items[j].Primary
		if a.File != c.File {
			return a.File < c.File
		}
		return a.Start < c.Start
	})
}
