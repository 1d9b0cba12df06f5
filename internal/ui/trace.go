package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Trace is a muted box of raw diagnostic lines shown in verbose mode
type Trace struct {
	Title    string
	Lines    []string
	Width    int
	MaxLines int // 0 = unlimited
}

// NewTrace creates a trace box
func NewTrace(title string, lines ...string) *Trace {
	return &Trace{Title: title, Lines: lines, Width: MaxContentWidth}
}

// SetWidth sets the terminal width for responsive rendering
func (t *Trace) SetWidth(width int) *Trace {
	t.Width = width
	return t
}

// SetMaxLines limits the number of lines displayed
func (t *Trace) SetMaxLines(max int) *Trace {
	t.MaxLines = max
	return t
}

// Render returns the styled trace box as a string
func (t *Trace) Render() string {
	width := t.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	lines := t.Lines
	if t.MaxLines > 0 && len(lines) > t.MaxLines {
		hidden := len(lines) - t.MaxLines
		lines = append(lines[:t.MaxLines:t.MaxLines], fmt.Sprintf("... (%d more)", hidden))
	}

	inner := lipgloss.JoinVertical(lipgloss.Left,
		TraceTitleStyle.Render(t.Title),
		"",
		TraceContentStyle.Render(strings.Join(lines, "\n")),
	)

	boxWidth := width - 4
	if boxWidth < 40 {
		boxWidth = 40
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(boxWidth).
		Padding(0, 1).
		MarginLeft(2).
		Render(inner)
}

// String implements fmt.Stringer
func (t *Trace) String() string {
	return t.Render()
}

// ErrorTrace lists an error chain, outermost first, indenting each cause
func ErrorTrace(chain []string) *Trace {
	lines := make([]string, 0, len(chain))
	for i, msg := range chain {
		prefix := strings.Repeat("  ", i)
		if i > 0 {
			prefix += "└─ "
		}
		lines = append(lines, prefix+msg)
	}
	return NewTrace("Error trace", lines...)
}
