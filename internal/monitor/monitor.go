// Package monitor polls a single hub on a fixed interval and reports the
// normalized state of its child devices.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/tapo-chatter/tapo-chatter/internal/apperr"
	"github.com/tapo-chatter/tapo-chatter/internal/device"
	"github.com/tapo-chatter/tapo-chatter/internal/events"
	"github.com/tapo-chatter/tapo-chatter/internal/probe"
	"github.com/tapo-chatter/tapo-chatter/internal/tapo"
)

const (
	// DefaultInterval between ticks
	DefaultInterval = 10 * time.Second

	// DefaultProbeTimeout bounds the connectivity check before each tick
	DefaultProbeTimeout = 2 * time.Second
)

// Prober checks hub connectivity
type Prober interface {
	Probe(ctx context.Context, host string) probe.Result
}

// Options configures the monitor loop
type Options struct {
	// Host is the hub address
	Host string

	// Interval between ticks
	Interval time.Duration

	// Port used for the connectivity check
	Port int

	// ProbeTimeout bounds the connectivity check
	ProbeTimeout time.Duration

	// Once runs a single tick and returns its error
	Once bool

	// Location for child timestamps (default time.Local)
	Location *time.Location
}

// Monitor re-queries a hub's children until its context is canceled
type Monitor struct {
	Client      tapo.Client
	Credentials tapo.Credentials
	Options     Options

	Prober Prober
	Sink   events.Sink

	// session is reused across ticks and dropped after a failure
	session tapo.Session
}

// New creates a monitor with the default prober
func New(client tapo.Client, creds tapo.Credentials, opts Options) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Port <= 0 {
		opts.Port = probe.DefaultPort
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = DefaultProbeTimeout
	}

	p := probe.NewProber()
	p.Port = opts.Port
	p.Timeout = opts.ProbeTimeout

	return &Monitor{
		Client:      client,
		Credentials: creds,
		Options:     opts,
		Prober:      p,
		Sink:        events.Nop(),
	}
}

// Run ticks until ctx is canceled. Per-tick failures are reported to the
// sink and do not stop the loop. In Once mode the single tick's error is
// returned. Cancellation is not an error.
func (m *Monitor) Run(ctx context.Context) error {
	if m.Options.Host == "" {
		return apperr.NewUsageError("--ip", "no hub address given", "--ip 192.168.1.100")
	}
	interval := m.Options.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		err := m.Tick(ctx)
		if m.Options.Once {
			return err
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// Tick performs one connectivity check and child refresh
func (m *Monitor) Tick(ctx context.Context) error {
	host := m.Options.Host
	sink := events.OrNop(m.Sink)

	fail := func(err error) error {
		if ctx.Err() != nil {
			return nil
		}
		sink.Emit(events.Event{Kind: events.TickFailed, Time: time.Now(), Host: host, Err: err})
		return err
	}

	res := m.Prober.Probe(ctx, host)
	if !res.Reachable {
		if ctx.Err() != nil {
			return nil
		}
		sink.Emit(events.Event{Kind: events.HubUnreachable, Time: time.Now(), Host: host, Elapsed: res.Elapsed, Err: res.Err})
		return fmt.Errorf("cannot reach hub %s: %w", host, res.Err)
	}

	if m.session == nil {
		if m.Client == nil {
			return fail(apperr.NewScanFatalError("no device-control client configured", nil))
		}
		session, err := m.Client.Login(ctx, m.Credentials)
		if err != nil {
			return fail(apperr.NewScanFatalError("failed to establish a device-control session", err))
		}
		m.session = session
	}

	hub, err := m.session.Hub(ctx, host)
	if err != nil {
		m.session = nil
		return fail(apperr.NewScanFatalError(fmt.Sprintf("failed to initialize hub %s", host), err))
	}

	children, err := hub.Children(ctx)
	if err != nil {
		m.session = nil
		return fail(apperr.NewScanFatalError(fmt.Sprintf("failed to get child devices from %s", host), err))
	}

	opts := device.ChildOptions{Location: m.Options.Location}
	records := make([]device.ChildRecord, 0, len(children))
	for _, child := range children {
		records = append(records, device.NormalizeChild(child, opts))
	}

	sink.Emit(events.Event{Kind: events.Snapshot, Time: time.Now(), Host: host, Children: records})
	return nil
}
