// Package events carries progress and results from the discovery engine and
// hub monitor to whatever renders them.
package events

import (
	"time"

	"github.com/tapo-chatter/tapo-chatter/internal/device"
)

// Kind identifies an event
type Kind int

const (
	ScanStarted Kind = iota
	ProbeCompleted
	DeviceFound
	ClassificationFailed
	ScanFinished
	HubUnreachable
	TickFailed
	Snapshot
)

// String returns the event name used in logs
func (k Kind) String() string {
	switch k {
	case ScanStarted:
		return "scan_started"
	case ProbeCompleted:
		return "probe_completed"
	case DeviceFound:
		return "device_found"
	case ClassificationFailed:
		return "classification_failed"
	case ScanFinished:
		return "scan_finished"
	case HubUnreachable:
		return "hub_unreachable"
	case TickFailed:
		return "tick_failed"
	case Snapshot:
		return "snapshot"
	default:
		return "unknown"
	}
}

// Event is a single notification. Only the fields relevant to Kind are set.
type Event struct {
	Kind Kind
	Time time.Time

	Host      string
	Reachable bool
	Elapsed   time.Duration

	Device   *device.Record
	Children []device.ChildRecord
	Err      error

	// Scan progress and totals
	Subnet      string
	Total       int
	Done        int
	Live        int
	Found       int
	Interrupted bool
}

// Sink receives events. Emit may be called from multiple goroutines.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(Event)

// Emit calls f(e)
func (f SinkFunc) Emit(e Event) { f(e) }

type nop struct{}

func (nop) Emit(Event) {}

// Nop returns a sink that discards every event
func Nop() Sink { return nop{} }

type multi []Sink

func (m multi) Emit(e Event) {
	for _, s := range m {
		s.Emit(e)
	}
}

// Multi fans events out to every non-nil sink in order
func Multi(sinks ...Sink) Sink {
	var m multi
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	if len(m) == 0 {
		return Nop()
	}
	if len(m) == 1 {
		return m[0]
	}
	return m
}

// OrNop returns s, or a no-op sink when s is nil
func OrNop(s Sink) Sink {
	if s == nil {
		return Nop()
	}
	return s
}
