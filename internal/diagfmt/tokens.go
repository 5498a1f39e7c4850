package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"corec/internal/source"
	"corec/internal/token"
)

// TokenOutput is one token's JSON-serializable shape.
type TokenOutput struct {
	Kind string      `json:"kind"`
	Text string      `json:"text,omitempty"`
	Span source.Span `json:"span"`
}

// FormatTokensPretty writes one line per token: its index, kind, text
// (if any), and source coordinates.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		start, end := fs.Resolve(tok.Span)
		if _, err := fmt.Fprintf(w, "%3d: %-15s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Text != "" {
			if _, err := fmt.Fprintf(w, " %q", tok.Text); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, " at %d:%d-%d:%d\n", start.Line, start.Col, end.Line, end.Col); err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON writes tokens as a JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, TokenOutput{Kind: tok.Kind.String(), Text: tok.Text, Span: tok.Span})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
