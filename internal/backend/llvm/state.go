package llvm

import "fmt"

// emitState tracks where a funcEmitter currently is relative to the
// function it's building, so attempting to append a non-terminator
// instruction after a block has already been terminated is caught here
// instead of producing malformed IR.
type emitState uint8

const (
	stateNoFunction emitState = iota
	stateInEntry
	stateInBlock
	stateTerminated
)

// internalError reports a state-machine violation -- these indicate a
// bug in the emitter itself, not in the program being compiled, so they
// surface as diag.BackendInternal.
type internalError struct {
	msg string
}

func (e *internalError) Error() string { return e.msg }

func errInternal(format string, args ...any) error {
	return &internalError{msg: fmt.Sprintf(format, args...)}
}
