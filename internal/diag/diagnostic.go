package diag

import "corec/internal/source"

// Note attaches auxiliary context (a secondary span + message) to a
// Diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic captures a single compiler-reported issue.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}
