package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is plain text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is indented JSON output.
	FormatJSON OutputFormat = "json"
)

// ParseFormat validates a --output flag value.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (expected text or json)", s)
	}
}

// Printer writes command results and status lines.
type Printer struct {
	out    io.Writer
	format OutputFormat

	success *color.Color
	warn    *color.Color
	fail    *color.Color
	heading *color.Color
}

// NewPrinter creates a printer writing to w. A nil w means os.Stdout.
// Colors follow color.NoColor, which is set when w is not a terminal.
func NewPrinter(w io.Writer, format OutputFormat) *Printer {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = FormatText
	}
	return &Printer{
		out:     w,
		format:  format,
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		fail:    color.New(color.FgRed, color.Bold),
		heading: color.New(color.FgCyan, color.Bold),
	}
}

// Format returns the printer's output format.
func (p *Printer) Format() OutputFormat {
	return p.format
}

// Print writes data in the printer's format. Text output uses the value's
// String method when it has one.
func (p *Printer) Print(data any) error {
	if p.format == FormatJSON {
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	if s, ok := data.(fmt.Stringer); ok {
		_, err := fmt.Fprintln(p.out, s.String())
		return err
	}
	_, err := fmt.Fprintf(p.out, "%v\n", data)
	return err
}

// Heading writes a section title. It is suppressed in JSON mode.
func (p *Printer) Heading(format string, args ...any) {
	if p.format == FormatJSON {
		return
	}
	p.heading.Fprintf(p.out, format+"\n", args...)
}

// Field writes an aligned "name: value" line. It is suppressed in JSON mode.
func (p *Printer) Field(name string, value any) {
	if p.format == FormatJSON {
		return
	}
	fmt.Fprintf(p.out, "  %-16s %v\n", name+":", value)
}

// Success writes a ✓ status line. It is suppressed in JSON mode.
func (p *Printer) Success(format string, args ...any) {
	if p.format == FormatJSON {
		return
	}
	p.success.Fprintf(p.out, "✓ "+format+"\n", args...)
}

// Warn writes a ! status line. It is suppressed in JSON mode.
func (p *Printer) Warn(format string, args ...any) {
	if p.format == FormatJSON {
		return
	}
	p.warn.Fprintf(p.out, "! "+format+"\n", args...)
}

// Fail writes a ✗ status line in every mode.
func (p *Printer) Fail(format string, args ...any) {
	p.fail.Fprintf(p.out, "✗ "+format+"\n", args...)
}
