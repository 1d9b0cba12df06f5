package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tapo-chatter/tapo-chatter/internal/apperr"
	"github.com/tapo-chatter/tapo-chatter/internal/device"
	"github.com/tapo-chatter/tapo-chatter/internal/logging"
	"github.com/tapo-chatter/tapo-chatter/internal/tapo"
)

// HostClassifier turns a reachable host into a device record
type HostClassifier interface {
	Classify(ctx context.Context, session tapo.Session, host string) (*device.Record, error)
}

// Classifier identifies Tapo hubs and devices through an authenticated session
type Classifier struct {
	// WithChildren fetches child devices of hubs
	WithChildren bool

	// Location for child timestamps (default time.Local)
	Location *time.Location
}

var _ HostClassifier = (*Classifier)(nil)

// Classify tries host as a hub first and as a generic device second. If
// neither works the host is not a Tapo device and a classification error is
// returned.
func (c *Classifier) Classify(ctx context.Context, session tapo.Session, host string) (*device.Record, error) {
	rec, hubErr := c.classifyHub(ctx, session, host)
	if hubErr == nil {
		return rec, nil
	}

	rec, devErr := classifyDevice(ctx, session, host)
	if devErr == nil {
		return rec, nil
	}

	return nil, apperr.NewClassificationError(host, errors.Join(hubErr, devErr))
}

func (c *Classifier) classifyHub(ctx context.Context, session tapo.Session, host string) (*device.Record, error) {
	hub, err := session.Hub(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("hub handshake: %w", err)
	}

	payload, err := hub.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("hub info: %w", err)
	}

	rec := device.NewRecord(host, tapo.Fields(payload))

	if c.WithChildren {
		children, err := hub.Children(ctx)
		if err != nil {
			logging.Debug("Failed to fetch hub children", zap.String("host", host), zap.Error(err))
		} else {
			opts := device.ChildOptions{Location: c.Location}
			for _, child := range children {
				rec.Children = append(rec.Children, device.NormalizeChild(child, opts))
			}
		}
	}

	return &rec, nil
}

func classifyDevice(ctx context.Context, session tapo.Session, host string) (*device.Record, error) {
	dev, err := session.Device(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("device handshake: %w", err)
	}

	payload, err := dev.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("device info: %w", err)
	}

	rec := device.NewRecord(host, tapo.Fields(payload))
	return &rec, nil
}
