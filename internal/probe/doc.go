// Package probe checks whether a host accepts TCP connections on a port.
//
// A probe never fails: any transport error (refused, unreachable, timeout,
// DNS failure) reports the host as unreachable. The classified cause is kept
// on the Result for debug logging only.
//
//	p := probe.NewProber()
//	p.Timeout = 500 * time.Millisecond
//	if p.Reachable(ctx, "192.168.1.100") {
//	    ...
//	}
package probe
