// Package diagfmt renders a diag.Bag as the one-diagnostic-per-fatal-
// error report a unit's failures surface as: path, source coordinates,
// a severity-coded message, and a caret-underlined line of context.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"corec/internal/diag"
	"corec/internal/source"
)

const tabWidth = 8

// visualWidthUpTo computes the on-screen column a byte offset falls at,
// accounting for tabs and double-width runes so the caret underline
// lines up under genuinely variable-width source text.
func visualWidthUpTo(s string, byteCol uint32, tab int) int {
	if byteCol <= 1 {
		return 0
	}
	bytePos, visualPos := 0, 0
	for _, r := range s {
		if bytePos >= int(byteCol-1) {
			break
		}
		if r == '\t' {
			visualPos = (visualPos + tab) / tab * tab
		} else {
			visualPos += runewidth.RuneWidth(r)
		}
		bytePos += len(string(r))
	}
	return visualPos
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}

// Pretty writes bag's diagnostics to w in source order (call bag.Sort
// first). Each entry gets a "path:line:col: SEVERITY CODE: message"
// header, opts.Context lines of source context (at least one) on each
// side of the primary line with a caret underline under the primary
// span, and any attached notes rendered the same way.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	errorColor := color.New(color.FgRed, color.Bold)
	warningColor := color.New(color.FgYellow, color.Bold)
	infoColor := color.New(color.FgCyan, color.Bold)
	pathColor := color.New(color.FgWhite, color.Bold)
	codeColor := color.New(color.FgMagenta)
	lineNumColor := color.New(color.FgBlue)
	underlineColor := color.New(color.FgRed, color.Bold)

	prev := color.NoColor
	defer func() { color.NoColor = prev }()
	color.NoColor = !opts.Color

	context := int(opts.Context)
	if context <= 0 {
		context = 1
	}

	for idx, d := range bag.Items() {
		if idx > 0 {
			fmt.Fprintln(w)
		}
		printEntry(w, d.Severity, d.Code, d.Message, d.Primary, fs, opts.PathMode, context,
			errorColor, warningColor, infoColor, pathColor, codeColor, lineNumColor, underlineColor)
		for _, n := range d.Notes {
			fmt.Fprintln(w)
			printEntry(w, diag.SevInfo, diag.UnknownCode, n.Msg, n.Span, fs, opts.PathMode, context,
				errorColor, warningColor, infoColor, pathColor, codeColor, lineNumColor, underlineColor)
		}
	}
}

func printEntry(
	w io.Writer,
	sev diag.Severity,
	code diag.Code,
	message string,
	span source.Span,
	fs *source.FileSet,
	pathMode PathMode,
	context int,
	errorColor, warningColor, infoColor, pathColor, codeColor, lineNumColor, underlineColor *color.Color,
) {
	f := fs.Get(span.File)
	if f == nil {
		fmt.Fprintf(w, "%s %s: %s\n", sev, code.ID(), message)
		return
	}
	start, end := fs.Resolve(span)

	var sevColored string
	switch sev {
	case diag.SevError:
		sevColored = errorColor.Sprint(sev.String())
	case diag.SevWarning:
		sevColored = warningColor.Sprint(sev.String())
	default:
		sevColored = infoColor.Sprint(sev.String())
	}

	header := fmt.Sprintf("%s:%d:%d: %s", formatPath(f, fs, pathMode), start.Line, start.Col, sevColored)
	if code != diag.UnknownCode {
		header += " " + codeColor.Sprint(code.ID())
	}
	fmt.Fprintf(w, "%s: %s\n", pathColor.Sprint(header), message)

	totalLines, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("diagfmt: total lines overflow: %w", err))
	}
	totalLines++

	ctx32, err := safecast.Conv[uint32](context)
	if err != nil {
		panic(fmt.Errorf("diagfmt: context overflow: %w", err))
	}

	startLine := uint32(1)
	if start.Line > ctx32 {
		startLine = start.Line - ctx32
	}
	endLine := min(start.Line+ctx32, totalLines)

	if startLine > 1 {
		fmt.Fprintln(w, "...")
	}
	lineNumWidth := max(len(fmt.Sprintf("%d", endLine)), 3)

	for lineNum := startLine; lineNum <= endLine; lineNum++ {
		lineText := f.GetLine(lineNum)
		gutter := fmt.Sprintf("%s | ", lineNumColor.Sprint(fmt.Sprintf("%*d", lineNumWidth, lineNum)))
		gutterLen := lineNumWidth + 3
		fmt.Fprintf(w, "%s%s\n", gutter, lineText)

		if lineNum != start.Line {
			continue
		}
		startCol, endCol := start.Col, end.Col
		if end.Line > start.Line {
			lineLen, err := safecast.Conv[uint32](len(lineText))
			if err != nil {
				panic(fmt.Errorf("diagfmt: line length overflow: %w", err))
			}
			endCol = lineLen + 1
		}
		visualStart := visualWidthUpTo(lineText, startCol, tabWidth)
		visualEnd := visualWidthUpTo(lineText, endCol, tabWidth)

		var underline strings.Builder
		for range gutterLen {
			underline.WriteByte(' ')
		}
		for range visualStart {
			underline.WriteByte(' ')
		}
		spanLen := visualEnd - visualStart
		if spanLen <= 0 {
			underline.WriteByte('^')
		} else {
			underline.WriteByte('^')
			for range spanLen - 1 {
				underline.WriteByte('~')
			}
		}
		fmt.Fprintln(w, underlineColor.Sprint(underline.String()))
	}
}
