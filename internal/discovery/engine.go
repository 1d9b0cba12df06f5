package discovery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tapo-chatter/tapo-chatter/internal/apperr"
	"github.com/tapo-chatter/tapo-chatter/internal/device"
	"github.com/tapo-chatter/tapo-chatter/internal/events"
	"github.com/tapo-chatter/tapo-chatter/internal/probe"
	"github.com/tapo-chatter/tapo-chatter/internal/tapo"
)

const (
	// DefaultConcurrency is the number of probes in flight at once
	DefaultConcurrency = 20

	// DefaultTimeout bounds each probe
	DefaultTimeout = probe.DefaultTimeout
)

// HostProber checks whether a host is reachable
type HostProber interface {
	Probe(ctx context.Context, host string) probe.Result
}

// Options configures a discovery pass. Zero values select the defaults.
type Options struct {
	// Subnet is the first three octets, e.g. "192.168.1". Empty derives it from the local machine.
	Subnet string

	// Start and End bound the swept octets, inclusive. Both zero selects 1-254
	// unless RangeSet is true.
	Start int
	End   int

	// RangeSet marks Start and End as given, so 0-0 sweeps octet 0 only
	RangeSet bool

	// Concurrency is the maximum number of probes in flight
	Concurrency int

	// Timeout bounds each probe
	Timeout time.Duration

	// StopAfter ends the scan once this many devices are found; 0 scans the whole range
	StopAfter int

	// Port probed on every host
	Port int

	// WithChildren fetches child devices of discovered hubs
	WithChildren bool
}

// Result is the outcome of a discovery pass
type Result struct {
	Subnet string

	// Devices in the order their probes completed
	Devices []device.Record

	Probed    int
	Reachable int

	// Interrupted is set when the context was canceled before the range was exhausted
	Interrupted bool

	// StoppedEarly is set when StopAfter was reached
	StoppedEarly bool

	Elapsed time.Duration
}

// Engine sweeps an address range for Tapo devices
type Engine struct {
	Client      tapo.Client
	Credentials tapo.Credentials
	Options     Options

	Prober     HostProber
	Classifier HostClassifier
	Sink       events.Sink
}

// NewEngine creates an engine with the default prober and classifier
func NewEngine(client tapo.Client, creds tapo.Credentials, opts Options) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		Client:      client,
		Credentials: creds,
		Options:     opts,
		Prober:      defaultProber(opts),
		Classifier:  &Classifier{WithChildren: opts.WithChildren},
		Sink:        events.Nop(),
	}
}

func defaultProber(opts Options) *probe.Prober {
	p := probe.NewProber()
	p.Port = opts.Port
	p.Timeout = opts.Timeout
	return p
}

func (o Options) withDefaults() Options {
	if !o.RangeSet && o.Start == 0 && o.End == 0 {
		o.Start, o.End = DefaultStart, DefaultEnd
	}
	if o.Concurrency == 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Port == 0 {
		o.Port = probe.DefaultPort
	}
	return o
}

// Validate reports usage errors in the options
func (o Options) Validate() error {
	if err := ValidateRange(o.Start, o.End); err != nil {
		return err
	}
	if o.Concurrency < 1 {
		return apperr.NewUsageError("--limit",
			fmt.Sprintf("concurrency must be at least 1 (got %d)", o.Concurrency), "--limit 20")
	}
	if o.Timeout < 0 {
		return apperr.NewUsageError("--timeout", "timeout must be positive", "--timeout 0.5")
	}
	if o.StopAfter < 0 {
		return apperr.NewUsageError("--num-devices",
			fmt.Sprintf("stop-after must not be negative (got %d)", o.StopAfter), "--num-devices 1")
	}
	if o.Subnet != "" {
		return ValidateSubnet(o.Subnet)
	}
	return nil
}

// outcome is what a worker reports for one target
type outcome struct {
	target  Target
	probe   probe.Result
	record  *device.Record
	failure error
}

// Run performs one discovery pass. Usage errors and scan-fatal errors are
// returned before any probe is sent. Cancellation returns the partial result
// with Interrupted set and a nil error.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	opts := e.Options.withDefaults()
	sink := events.OrNop(e.Sink)

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	subnet := opts.Subnet
	if subnet == "" {
		local, err := LocalSubnet(ctx)
		if err != nil {
			return nil, apperr.NewScanFatalError("could not determine the local subnet, pass --subnet", err)
		}
		subnet = local
	}

	targets, err := Targets(subnet, opts.Start, opts.End)
	if err != nil {
		return nil, err
	}

	if e.Client == nil {
		return nil, apperr.NewScanFatalError("no device-control client configured", nil)
	}
	session, err := e.Client.Login(ctx, e.Credentials)
	if err != nil {
		if ctx.Err() != nil {
			return &Result{Subnet: subnet, Interrupted: true, Elapsed: time.Since(start)}, nil
		}
		return nil, apperr.NewScanFatalError("failed to establish a device-control session", err)
	}

	var prober HostProber = defaultProber(opts)
	if e.Prober != nil {
		prober = e.Prober
	}
	var classifier HostClassifier = &Classifier{WithChildren: opts.WithChildren}
	if e.Classifier != nil {
		classifier = e.Classifier
	}

	result := &Result{Subnet: subnet}
	sink.Emit(events.Event{Kind: events.ScanStarted, Time: time.Now(), Subnet: subnet, Total: len(targets)})

	scanCtx, cancel := context.WithCancel(ctx)
	targetCh := make(chan Target)
	// Buffered so workers never block once the collector has returned early
	outcomeCh := make(chan outcome, len(targets))
	stop := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < opts.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			work(scanCtx, prober, classifier, session, stop, targetCh, outcomeCh)
		}()
	}

	go func() {
		defer close(targetCh)
		for _, t := range targets {
			select {
			case <-stop:
				return
			case <-scanCtx.Done():
				return
			case targetCh <- t:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomeCh)
		cancel()
	}()

	collect(ctx, opts, result, len(targets), stop, cancel, outcomeCh, sink)

	result.Elapsed = time.Since(start)
	sink.Emit(events.Event{
		Kind:        events.ScanFinished,
		Time:        time.Now(),
		Subnet:      subnet,
		Total:       len(targets),
		Done:        result.Probed,
		Live:        result.Reachable,
		Found:       len(result.Devices),
		Elapsed:     result.Elapsed,
		Interrupted: result.Interrupted,
	})

	return result, nil
}

// collect is the single writer of result. It returns when the range is
// exhausted, StopAfter is reached or ctx is canceled.
func collect(ctx context.Context, opts Options, result *Result, total int,
	stop chan struct{}, cancel context.CancelFunc, outcomeCh <-chan outcome, sink events.Sink) {

	for {
		select {
		case <-ctx.Done():
			result.Interrupted = true
			close(stop)
			cancel()
			return

		case out, ok := <-outcomeCh:
			if !ok {
				// Workers also drain early when ctx is canceled
				result.Interrupted = ctx.Err() != nil
				return
			}

			result.Probed++
			if out.probe.Reachable {
				result.Reachable++
			}

			addr := out.target.Addr()
			sink.Emit(events.Event{
				Kind:      events.ProbeCompleted,
				Time:      time.Now(),
				Host:      addr,
				Reachable: out.probe.Reachable,
				Elapsed:   out.probe.Elapsed,
				Err:       out.probe.Err,
				Total:     total,
				Done:      result.Probed,
				Found:     len(result.Devices),
			})

			if out.failure != nil {
				sink.Emit(events.Event{Kind: events.ClassificationFailed, Time: time.Now(), Host: addr, Err: out.failure})
			}

			if out.record == nil {
				continue
			}

			result.Devices = append(result.Devices, *out.record)
			sink.Emit(events.Event{
				Kind:   events.DeviceFound,
				Time:   time.Now(),
				Host:   addr,
				Device: out.record,
				Total:  total,
				Done:   result.Probed,
				Found:  len(result.Devices),
			})

			if opts.StopAfter > 0 && len(result.Devices) >= opts.StopAfter {
				result.StoppedEarly = true
				close(stop)
				return
			}
		}
	}
}

// work probes targets until targetCh closes or the scan stops. A stopped
// worker drops the target it just received without probing it.
func work(ctx context.Context, prober HostProber, classifier HostClassifier, session tapo.Session,
	stop <-chan struct{}, targetCh <-chan Target, outcomeCh chan<- outcome) {

	for t := range targetCh {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		default:
		}

		addr := t.Addr()
		out := outcome{target: t, probe: prober.Probe(ctx, addr)}

		if out.probe.Reachable {
			rec, err := classifier.Classify(ctx, session, addr)
			if err != nil {
				out.failure = err
			} else {
				out.record = rec
			}
		}

		outcomeCh <- out
	}
}
