package tapo

//go:generate mockgen -destination=mock_tapo.go -package=tapo github.com/tapo-chatter/tapo-chatter/internal/tapo Client,Session,Device,Hub

import "context"

// Credentials are the Tapo cloud account credentials
type Credentials struct {
	Username string
	Password string
}

// Client establishes authenticated sessions
type Client interface {
	// Login authenticates with the vendor service. A failure here is fatal for a scan.
	Login(ctx context.Context, creds Credentials) (Session, error)
}

// Session is an authenticated handle used to reach individual hosts
type Session interface {
	// Hub opens host as a hub (H100 and compatible)
	Hub(ctx context.Context, host string) (Hub, error)
	// Device opens host as a generic device (plug, bulb, strip)
	Device(ctx context.Context, host string) (Device, error)
}

// Device is a single addressable Tapo device
type Device interface {
	// Info returns the device information payload
	Info(ctx context.Context) (Payload, error)
}

// Hub is a device that relays queries to paired child devices
type Hub interface {
	Device
	// Children returns the child device list. Implementations holding a raw
	// response can build it with ExtractChildren.
	Children(ctx context.Context) ([]Child, error)
}
