package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"corec/internal/compiler"
	"corec/internal/driver"
	"corec/internal/ui"
)

// runBuildWithUI drives driver.CompileUnits while a Bubble Tea progress
// model renders its events, matching the same producer/consumer split
// used for any other long-running build: the compile runs on its own
// goroutine and the UI only ever reads from the event channel.
func runBuildWithUI(ctx context.Context, title string, units []driver.UnitInput, target compiler.TargetSpec) *driver.Result {
	events := make(chan driver.Event, 256)
	resultCh := make(chan *driver.Result, 1)

	names := make([]string, len(units))
	for i, u := range units {
		names[i] = u.Name
	}

	go func() {
		resultCh <- driver.CompileUnits(ctx, units, target, events)
	}()

	model := ui.NewProgressModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, _ = program.Run()

	return <-resultCh
}
