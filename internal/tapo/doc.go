// Package tapo defines the device-control capability used to authenticate
// against the Tapo service and query hubs and devices.
//
// The wire protocol is not implemented here. Implementations register a
// Driver by name, the same way database/sql drivers do, and the CLI opens
// one with Open:
//
//	import _ "example.com/tapo-driver" // registers "klap"
//
//	client, err := tapo.Open("klap")
//	session, err := client.Login(ctx, tapo.Credentials{Username: u, Password: p})
//	hub, err := session.Hub(ctx, "192.168.1.100")
//	children, err := hub.Children(ctx)
//
// # Payloads
//
// Devices answer with heterogeneous shapes depending on firmware and driver.
// A Payload is either an AttributeBag (flat, already decoded attributes) or a
// NestedMapping (the raw response, usually wrapped in "result"). Fields
// flattens both into a single map so callers never probe shapes themselves.
package tapo
