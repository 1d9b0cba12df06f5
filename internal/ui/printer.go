package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Printer writes UI components. Results go to out, diagnostics to errOut.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	width  int
}

// NewPrinter creates a Printer. Nil writers default to stdout and stderr.
func NewPrinter(out, errOut io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Printer{
		out:    out,
		errOut: errOut,
		width:  GetTerminalWidth(out),
	}
}

// Width returns the terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Out returns the result writer
func (p *Printer) Out() io.Writer {
	return p.out
}

// Err returns the diagnostics writer
func (p *Printer) Err() io.Writer {
	return p.errOut
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Status writes a one-line progress note to the diagnostics stream
func (p *Printer) Status(format string, args ...any) {
	_, _ = fmt.Fprintln(p.errOut, ProgressLabelStyle.Render(fmt.Sprintf(format, args...)))
}

// PrintHeader prints a command header box to the diagnostics stream
func (p *Printer) PrintHeader(h *Header) {
	_, _ = fmt.Fprintln(p.errOut, h.SetWidth(p.width).Render())
}

// PrintResult prints a result box
func (p *Printer) PrintResult(r *Result) {
	p.Println(r.SetWidth(p.width).Render())
}

// PrintError prints a failure box to the diagnostics stream
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	_, _ = fmt.Fprintln(p.errOut, NewFailureResult(title, err, troubleshooting).SetWidth(p.width).Render())
}

// PrintTrace prints a trace box to the diagnostics stream
func (p *Printer) PrintTrace(t *Trace) {
	_, _ = fmt.Fprintln(p.errOut, t.SetWidth(p.width).Render())
}

// PrintJSON writes v as indented JSON
func (p *Printer) PrintJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	_, err = fmt.Fprintln(p.out, string(data))
	return err
}
