package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
)

// ScanProgress draws a single progress line for a discovery sweep. It is
// redrawn in place with a carriage return and cleared by Finish.
type ScanProgress struct {
	mu      sync.Mutex
	out     io.Writer
	bar     progress.Model
	total   int
	done    int
	found   int
	started time.Time
	drawn   bool
}

// NewScanProgress creates a progress line writing to out
func NewScanProgress(out io.Writer, total int) *ScanProgress {
	barWidth := GetTerminalWidth(out) - 50
	if barWidth < 20 {
		barWidth = 20
	}
	if barWidth > 50 {
		barWidth = 50
	}

	return &ScanProgress{
		out: out,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(barWidth),
		),
		total:   total,
		started: time.Now(),
	}
}

// Update records progress and redraws the line
func (p *ScanProgress) Update(done, found int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done = done
	p.found = found
	_, _ = fmt.Fprint(p.out, "\r"+p.line())
	p.drawn = true
}

// Finish clears the progress line
func (p *ScanProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.drawn {
		_, _ = fmt.Fprint(p.out, "\r\033[K")
		p.drawn = false
	}
}

// Percent returns the completed fraction in 0-1
func (p *ScanProgress) Percent() float64 {
	if p.total <= 0 {
		return 1
	}
	pct := float64(p.done) / float64(p.total)
	if pct > 1 {
		pct = 1
	}
	return pct
}

func (p *ScanProgress) line() string {
	return fmt.Sprintf("%s %s %d/%d hosts  %s found  %s",
		ProgressLabelStyle.Render("Scanning"),
		p.bar.ViewAs(p.Percent()),
		p.done, p.total,
		countLabel(p.found, "device"),
		time.Since(p.started).Round(100*time.Millisecond),
	)
}
