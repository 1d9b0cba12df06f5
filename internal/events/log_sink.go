package events

import (
	"go.uber.org/zap"

	"github.com/tapo-chatter/tapo-chatter/internal/logging"
)

type logSink struct{}

// Log returns a sink that writes every event through the global logger.
// Probe results are logged at debug level since most of a sweep fails.
func Log() Sink { return logSink{} }

func (logSink) Emit(e Event) {
	switch e.Kind {
	case ScanStarted:
		logging.Info("Scan started",
			zap.String("subnet", e.Subnet),
			zap.Int("targets", e.Total),
		)

	case ProbeCompleted:
		logging.LogProbe(e.Host, e.Reachable, e.Elapsed, e.Err)

	case DeviceFound:
		model := ""
		if e.Device != nil {
			model = e.Device.DeviceInfo.Model
		}
		logging.LogClassification(e.Host, model, nil)

	case ClassificationFailed:
		logging.LogClassification(e.Host, "", e.Err)

	case ScanFinished:
		logging.LogScanSummary(e.Subnet, e.Done, e.Live, e.Found, e.Elapsed, e.Interrupted)

	case HubUnreachable:
		logging.Warn("Hub unreachable", zap.String("host", e.Host))

	case TickFailed:
		logging.LogMonitorTick(e.Host, 0, e.Err)

	case Snapshot:
		logging.LogMonitorTick(e.Host, len(e.Children), nil)
	}
}
