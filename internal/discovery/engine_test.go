package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tapo-chatter/tapo-chatter/internal/apperr"
	"github.com/tapo-chatter/tapo-chatter/internal/device"
	"github.com/tapo-chatter/tapo-chatter/internal/events"
	"github.com/tapo-chatter/tapo-chatter/internal/probe"
	"github.com/tapo-chatter/tapo-chatter/internal/tapo"
)

type proberFunc func(ctx context.Context, host string) probe.Result

func (f proberFunc) Probe(ctx context.Context, host string) probe.Result { return f(ctx, host) }

type classifierFunc func(ctx context.Context, session tapo.Session, host string) (*device.Record, error)

func (f classifierFunc) Classify(ctx context.Context, session tapo.Session, host string) (*device.Record, error) {
	return f(ctx, session, host)
}

var testCreds = tapo.Credentials{Username: "me@example.com", Password: "pw"}

// newTestEngine wires an engine to a mock client that logs in successfully
func newTestEngine(t *testing.T, opts Options, prober HostProber, classifier HostClassifier) *Engine {
	t.Helper()

	ctrl := gomock.NewController(t)
	client := tapo.NewMockClient(ctrl)
	client.EXPECT().Login(gomock.Any(), testCreds).Return(tapo.NewMockSession(ctrl), nil)

	e := NewEngine(client, testCreds, opts)
	e.Prober = prober
	e.Classifier = classifier
	return e
}

func octet(host string) int {
	var o int
	fmt.Sscanf(host[strings.LastIndex(host, ".")+1:], "%d", &o)
	return o
}

func unreachable(host string) probe.Result {
	return probe.Result{Host: host, Err: errors.New("refused")}
}

func record(host string) *device.Record {
	rec := device.NewRecord(host, map[string]any{"nickname": host, "model": "P110"})
	return &rec
}

func addresses(recs []device.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.IPAddress
	}
	return out
}

func TestRun_ProbesEveryTarget(t *testing.T) {
	tests := []struct {
		start, end, concurrency int
	}{
		{0, 0, 1},
		{0, 2, 2},
		{1, 1, 1},
		{1, 3, 20},
		{10, 40, 4},
		{1, 254, 20},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d-%d/%d", tt.start, tt.end, tt.concurrency), func(t *testing.T) {
			var probes, inFlight, maxInFlight, classified atomic.Int32
			prober := proberFunc(func(_ context.Context, host string) probe.Result {
				probes.Add(1)
				n := inFlight.Add(1)
				for {
					m := maxInFlight.Load()
					if n <= m || maxInFlight.CompareAndSwap(m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				inFlight.Add(-1)
				return unreachable(host)
			})

			e := newTestEngine(t, Options{
				Subnet:      "10.1.2",
				Start:       tt.start,
				End:         tt.end,
				RangeSet:    true,
				Concurrency: tt.concurrency,
			}, prober, classifierFunc(func(context.Context, tapo.Session, string) (*device.Record, error) {
				classified.Add(1)
				return nil, nil
			}))

			res, err := e.Run(context.Background())
			require.NoError(t, err)

			want := tt.end - tt.start + 1
			assert.Equal(t, int32(want), probes.Load())
			assert.Equal(t, want, res.Probed)
			assert.LessOrEqual(t, maxInFlight.Load(), int32(tt.concurrency))
			assert.Equal(t, int32(0), classified.Load())
			assert.Empty(t, res.Devices)
			assert.False(t, res.Interrupted)
			assert.False(t, res.StoppedEarly)
		})
	}
}

func TestRun_RangeDefaults(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantProbe int
	}{
		{"unset range sweeps 1-254", Options{Subnet: "10.0.0"}, 254},
		{"explicit 0-0 sweeps one host", Options{Subnet: "10.0.0", RangeSet: true}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var probes atomic.Int32
			var first atomic.Value
			e := newTestEngine(t, tt.opts, proberFunc(func(_ context.Context, host string) probe.Result {
				if probes.Add(1) == 1 {
					first.Store(host)
				}
				return unreachable(host)
			}), classifierFunc(func(context.Context, tapo.Session, string) (*device.Record, error) {
				return nil, nil
			}))

			res, err := e.Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, int32(tt.wantProbe), probes.Load())
			assert.Equal(t, tt.wantProbe, res.Probed)
			if tt.wantProbe == 1 {
				assert.Equal(t, "10.0.0.0", first.Load())
			}
		})
	}
}

func TestRun_AllUnreachable(t *testing.T) {
	var classified atomic.Int32
	e := newTestEngine(t, Options{Subnet: "192.168.1", Start: 1, End: 3},
		proberFunc(func(_ context.Context, host string) probe.Result { return unreachable(host) }),
		classifierFunc(func(context.Context, tapo.Session, string) (*device.Record, error) {
			classified.Add(1)
			return nil, nil
		}))

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Devices)
	assert.Equal(t, 3, res.Probed)
	assert.Equal(t, 0, res.Reachable)
	assert.Equal(t, int32(0), classified.Load())
}

func TestRun_OnlyClassifiedHostsRecorded(t *testing.T) {
	e := newTestEngine(t, Options{Subnet: "192.168.1", Start: 1, End: 10},
		proberFunc(func(_ context.Context, host string) probe.Result {
			return probe.Result{Host: host, Reachable: octet(host)%2 == 0}
		}),
		classifierFunc(func(_ context.Context, _ tapo.Session, host string) (*device.Record, error) {
			if octet(host) == 4 {
				return nil, apperr.NewClassificationError(host, errors.New("not tapo"))
			}
			return record(host), nil
		}))

	var failures []string
	var mu sync.Mutex
	e.Sink = events.SinkFunc(func(ev events.Event) {
		if ev.Kind == events.ClassificationFailed {
			mu.Lock()
			failures = append(failures, ev.Host)
			mu.Unlock()
		}
	})

	res, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"192.168.1.2", "192.168.1.6", "192.168.1.8", "192.168.1.10"},
		addresses(res.Devices))
	assert.Equal(t, 5, res.Reachable)
	assert.Equal(t, []string{"192.168.1.4"}, failures)
}

func TestRun_StopAfterKeepsCompletionOrder(t *testing.T) {
	prober := proberFunc(func(_ context.Context, host string) probe.Result {
		switch octet(host) {
		case 5:
			return probe.Result{Host: host, Reachable: true}
		case 17:
			time.Sleep(30 * time.Millisecond)
			return probe.Result{Host: host, Reachable: true}
		case 3, 100:
			time.Sleep(400 * time.Millisecond)
			return probe.Result{Host: host, Reachable: true}
		default:
			return unreachable(host)
		}
	})

	e := newTestEngine(t, Options{
		Subnet:      "192.168.1",
		Start:       1,
		End:         254,
		Concurrency: 20,
		StopAfter:   2,
	}, prober, classifierFunc(func(_ context.Context, _ tapo.Session, host string) (*device.Record, error) {
		return record(host), nil
	}))

	start := time.Now()
	res, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"192.168.1.5", "192.168.1.17"}, addresses(res.Devices))
	assert.True(t, res.StoppedEarly)
	assert.False(t, res.Interrupted)
	assert.Less(t, time.Since(start), 350*time.Millisecond, "returns without waiting for in-flight probes")
}

func TestRun_StopAfterHaltsAdmission(t *testing.T) {
	var probes atomic.Int32
	prober := proberFunc(func(_ context.Context, host string) probe.Result {
		probes.Add(1)
		time.Sleep(5 * time.Millisecond)
		return probe.Result{Host: host, Reachable: true}
	})

	const concurrency = 4
	e := newTestEngine(t, Options{
		Subnet:      "10.0.0",
		Start:       1,
		End:         254,
		Concurrency: concurrency,
		StopAfter:   1,
	}, prober, classifierFunc(func(_ context.Context, _ tapo.Session, host string) (*device.Record, error) {
		return record(host), nil
	}))

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Devices, 1)

	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, probes.Load(), int32(1+2*concurrency))
}

func TestRun_StopAfterMoreThanAvailable(t *testing.T) {
	e := newTestEngine(t, Options{Subnet: "10.0.0", Start: 1, End: 20, StopAfter: 5},
		proberFunc(func(_ context.Context, host string) probe.Result {
			return probe.Result{Host: host, Reachable: octet(host) <= 3}
		}),
		classifierFunc(func(_ context.Context, _ tapo.Session, host string) (*device.Record, error) {
			return record(host), nil
		}))

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Devices, 3)
	assert.False(t, res.StoppedEarly)
	assert.Equal(t, 20, res.Probed)
}

func TestRun_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	prober := proberFunc(func(ctx context.Context, host string) probe.Result {
		if octet(host) <= 2 {
			return probe.Result{Host: host, Reachable: true}
		}
		<-ctx.Done()
		return probe.Result{Host: host, Err: ctx.Err()}
	})

	e := newTestEngine(t, Options{Subnet: "10.0.0", Start: 1, End: 254, Concurrency: 2}, prober,
		classifierFunc(func(_ context.Context, _ tapo.Session, host string) (*device.Record, error) {
			return record(host), nil
		}))
	e.Sink = events.SinkFunc(func(ev events.Event) {
		if ev.Kind == events.DeviceFound && ev.Found == 2 {
			cancel()
		}
	})

	done := make(chan struct{})
	var res *Result
	var err error
	go func() {
		defer close(done)
		res, err = e.Run(ctx)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	require.NoError(t, err)
	assert.True(t, res.Interrupted)
	assert.ElementsMatch(t, []string{"10.0.0.1", "10.0.0.2"}, addresses(res.Devices))
	assert.Less(t, res.Probed, 254)
}

func TestRun_LoginFailureIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := tapo.NewMockClient(ctrl)
	client.EXPECT().Login(gomock.Any(), testCreds).Return(nil, errors.New("invalid credentials"))

	var probes atomic.Int32
	e := NewEngine(client, testCreds, Options{Subnet: "10.0.0"})
	e.Prober = proberFunc(func(_ context.Context, host string) probe.Result {
		probes.Add(1)
		return unreachable(host)
	})

	res, err := e.Run(context.Background())
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, apperr.IsScanFatalError(err))
	assert.ErrorContains(t, err, "invalid credentials")
	assert.Equal(t, int32(0), probes.Load())
}

func TestRun_UsageErrorsBeforeLogin(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"reversed range", Options{Subnet: "10.0.0", Start: 9, End: 3}},
		{"bad subnet", Options{Subnet: "10.0"}},
		{"negative stop after", Options{Subnet: "10.0.0", StopAfter: -1}},
		{"negative concurrency", Options{Subnet: "10.0.0", Concurrency: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := tapo.NewMockClient(ctrl)
			client.EXPECT().Login(gomock.Any(), gomock.Any()).Times(0)

			_, err := NewEngine(client, testCreds, tt.opts).Run(context.Background())
			require.Error(t, err)
			assert.True(t, apperr.IsUsageError(err))
		})
	}
}

func TestRun_EmitsProgress(t *testing.T) {
	e := newTestEngine(t, Options{Subnet: "10.0.0", Start: 1, End: 5},
		proberFunc(func(_ context.Context, host string) probe.Result {
			return probe.Result{Host: host, Reachable: octet(host) == 3}
		}),
		classifierFunc(func(_ context.Context, _ tapo.Session, host string) (*device.Record, error) {
			return record(host), nil
		}))

	var kinds []events.Kind
	var last events.Event
	e.Sink = events.SinkFunc(func(ev events.Event) {
		kinds = append(kinds, ev.Kind)
		last = ev
	})

	_, err := e.Run(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, kinds)
	assert.Equal(t, events.ScanStarted, kinds[0])
	assert.Equal(t, events.ScanFinished, last.Kind)
	assert.Equal(t, 5, last.Done)
	assert.Equal(t, 1, last.Found)
	assert.Equal(t, 1, last.Live)

	var probed, found int
	for _, k := range kinds {
		switch k {
		case events.ProbeCompleted:
			probed++
		case events.DeviceFound:
			found++
		}
	}
	assert.Equal(t, 5, probed)
	assert.Equal(t, 1, found)
}
