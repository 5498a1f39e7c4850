// Package driver orchestrates compile_unit across every unit in a
// multi-unit invocation. One unit is one single-threaded pass sequence;
// the driver's only job is fanning that sequence out across units and
// collecting results without letting one unit's failure cancel its
// siblings.
package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"corec/internal/compiler"
	"corec/internal/diag"
	"corec/internal/observ"
	"corec/internal/source"
)

// UnitInput names one compilation unit, the sources it's built from, and
// the kind of artifact it produces. A manifest's units can mix
// Executable and ModulePack kinds in one invocation, so the kind travels
// with the unit rather than being fixed for the whole run.
type UnitInput struct {
	Name    string
	Sources []compiler.Source
	Build   compiler.BuildKind
}

// UnitResult is what one unit produced: its object (nil on failure) and
// every diagnostic collected while compiling it. FileSet resolves every
// span in Bag and is non-nil whenever Err is nil. Timer records the
// phase breakdown for this unit alone -- one Timer per unit, since units
// compile concurrently and a shared Timer would race.
type UnitResult struct {
	Name    string
	Object  *compiler.Object
	Bag     *diag.Bag
	FileSet *source.FileSet
	Timer   *observ.Timer
	Err     error
}

// Result aggregates every unit's outcome, in the order units were
// given.
type Result struct {
	Units []UnitResult
}

// HasErrors reports whether any unit failed -- either via a returned
// error or via diagnostics reaching SevError or above.
func (r *Result) HasErrors() bool {
	for _, u := range r.Units {
		if u.Err != nil {
			return true
		}
		if u.Bag != nil && u.Bag.HasErrors() {
			return true
		}
	}
	return false
}

// CompileUnits compiles every unit concurrently, one goroutine per unit,
// bounded by GOMAXPROCS through errgroup.SetLimit. A failing unit's
// error is recorded in its own UnitResult; it never cancels sibling
// units, matching the rest of a multi-unit invocation continuing to
// completion independently. If events is non-nil, CompileUnits reports
// each unit's progress on it and closes it once every unit has
// finished; pass nil to skip progress reporting entirely.
func CompileUnits(ctx context.Context, units []UnitInput, target compiler.TargetSpec, events chan<- Event) *Result {
	results := make([]UnitResult, len(units))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(max(1, runtime.GOMAXPROCS(0)))

	for i, u := range units {
		i, u := i, u
		g.Go(func() error {
			report(events, u.Name, StatusWorking)
			timer := observ.NewTimer()
			obj, bag, fset, err := compiler.CompileUnitTimed(u.Name, u.Sources, target, u.Build, timer)
			results[i] = UnitResult{Name: u.Name, Object: obj, Bag: bag, FileSet: fset, Timer: timer, Err: err}
			if err != nil || (bag != nil && bag.HasErrors()) {
				report(events, u.Name, StatusError)
			} else {
				report(events, u.Name, StatusDone)
			}
			return nil
		})
	}
	_ = g.Wait()
	if events != nil {
		close(events)
	}

	return &Result{Units: results}
}

func report(events chan<- Event, unit string, status Status) {
	if events == nil {
		return
	}
	events <- Event{Unit: unit, Status: status}
}
