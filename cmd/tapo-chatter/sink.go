package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tapo-chatter/tapo-chatter/internal/apperr"
	"github.com/tapo-chatter/tapo-chatter/internal/events"
	"github.com/tapo-chatter/tapo-chatter/internal/ui"
)

// progressSink draws the scan progress line on a terminal
type progressSink struct {
	out io.Writer
	bar *ui.ScanProgress
}

func newProgressSink(out io.Writer) *progressSink {
	return &progressSink{out: out}
}

func (s *progressSink) Emit(e events.Event) {
	switch e.Kind {
	case events.ScanStarted:
		s.bar = ui.NewScanProgress(s.out, e.Total)
		s.bar.Update(0, 0)
	case events.ProbeCompleted, events.DeviceFound:
		if s.bar != nil {
			s.bar.Update(e.Done, e.Found)
		}
	case events.ScanFinished:
		if s.bar != nil {
			s.bar.Finish()
		}
	}
}

// failureCollector keeps per-host classification failures for verbose output
type failureCollector struct {
	mu       sync.Mutex
	failures []string
}

func (c *failureCollector) Emit(e events.Event) {
	if e.Kind != events.ClassificationFailed {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = append(c.failures, fmt.Sprintf("%s: %v", e.Host, e.Err))
}

func (c *failureCollector) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.failures...)
}

// plainMonitorSink prints every monitor tick as a table. Failures are only
// printed when reportFailures is set; otherwise the caller reports them.
type plainMonitorSink struct {
	printer        *ui.Printer
	host           string
	reportFailures bool
}

func (s *plainMonitorSink) Emit(e events.Event) {
	switch e.Kind {
	case events.Snapshot:
		s.printer.Println("")
		s.printer.Println(ui.FooterStyle.Render(
			fmt.Sprintf("Hub %s at %s", s.host, e.Time.Format(time.TimeOnly))))
		s.printer.Println(ui.ChildTable(e.Children))

	case events.HubUnreachable, events.TickFailed:
		if !s.reportFailures {
			return
		}
		title := "Monitor update failed"
		if e.Kind == events.HubUnreachable {
			title = fmt.Sprintf("Cannot reach hub %s", s.host)
		}
		s.printer.PrintError(title, e.Err, apperr.Troubleshooting(e.Err))
	}
}
