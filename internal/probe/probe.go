package probe

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/tapo-chatter/tapo-chatter/internal/apperr"
)

const (
	// DefaultPort is the HTTP port Tapo devices listen on
	DefaultPort = 80

	// DefaultTimeout bounds a single connection attempt
	DefaultTimeout = 500 * time.Millisecond
)

// Dialer opens network connections. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Result is the outcome of one probe
type Result struct {
	Host      string
	Reachable bool
	Elapsed   time.Duration
	// Err is the classified probe failure, nil when reachable
	Err error
}

// Prober performs bounded-timeout TCP connection checks
type Prober struct {
	// Port to connect to
	Port int

	// Timeout is the maximum time for one connection attempt
	Timeout time.Duration

	// Dialer used to connect (default *net.Dialer)
	Dialer Dialer
}

// NewProber creates a prober with default settings
func NewProber() *Prober {
	return &Prober{
		Port:    DefaultPort,
		Timeout: DefaultTimeout,
		Dialer:  &net.Dialer{},
	}
}

// Probe attempts a connection to host and reports the outcome
func (p *Prober) Probe(ctx context.Context, host string) Result {
	start := time.Now()

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	port := p.Port
	if port <= 0 {
		port = DefaultPort
	}
	dialer := p.Dialer
	if dialer == nil {
		dialer = &net.Dialer{}
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := dialer.DialContext(dialCtx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return Result{
			Host:    host,
			Elapsed: time.Since(start),
			Err:     apperr.ClassifyNetworkError(err, host),
		}
	}
	defer conn.Close()

	return Result{
		Host:      host,
		Reachable: true,
		Elapsed:   time.Since(start),
	}
}

// Reachable reports whether host accepts connections
func (p *Prober) Reachable(ctx context.Context, host string) bool {
	return p.Probe(ctx, host).Reachable
}

// Reachable probes host:port once with the given timeout
func Reachable(ctx context.Context, host string, port int, timeout time.Duration) bool {
	p := &Prober{Port: port, Timeout: timeout, Dialer: &net.Dialer{}}
	return p.Reachable(ctx, host)
}
