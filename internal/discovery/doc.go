// Package discovery finds Tapo devices by sweeping an IPv4 /24 range.
//
// # Discovery Process
//
// The discovery process works as follows:
//  1. Resolves the subnet (given, or derived from the local machine)
//  2. Logs in to the device-control service once; a failure aborts the scan
//  3. Feeds one target per octet to a fixed pool of workers
//  4. Each worker probes its target and classifies it if it is reachable
//  5. The caller collects records in completion order, stopping early once
//     the requested number of devices has been found
//
// # Usage Example
//
//	engine := discovery.NewEngine(client, creds, discovery.Options{
//	    Subnet:    "192.168.1",
//	    StopAfter: 1,
//	})
//	result, err := engine.Run(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, rec := range result.Devices {
//	    fmt.Printf("Found: %s at %s\n", rec.DeviceInfo.Nickname, rec.IPAddress)
//	}
//
// # Ordering
//
// Records are returned in the order their probes completed, not in numeric
// address order.
//
// # Cancellation
//
// Canceling the context stops admission of new targets, cancels in-flight
// dials and returns the records found so far with Result.Interrupted set.
// Cancellation is not an error.
package discovery
