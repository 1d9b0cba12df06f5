package device

import (
	"strings"
	"time"

	"github.com/tapo-chatter/tapo-chatter/internal/tapo"
)

// TimestampLayout is the format used for last_onboarded
const TimestampLayout = "2006-01-02 15:04:05"

// ParamKeys lists the parameters every child record carries
var ParamKeys = []string{
	"battery_state",
	"motion_status",
	"contact_status",
	"hw_ver",
	"jamming_rssi",
	"last_onboarded",
	"mac",
	"region",
	"report_interval",
	"signal_level",
}

// ChildRecord is a normalized hub child device
type ChildRecord struct {
	Nickname      string            `json:"nickname"`
	DeviceID      string            `json:"device_id"`
	DeviceType    string            `json:"device_type"`
	Status        int               `json:"status"`
	RSSI          string            `json:"rssi"`
	SignalQuality string            `json:"signal_quality"`
	Params        map[string]string `json:"params"`
}

// ChildOptions tunes child normalization
type ChildOptions struct {
	// Location for last_onboarded timestamps (default time.Local)
	Location *time.Location
}

// NormalizeChild builds a ChildRecord. Identity fields come from the child's
// attributes. Params come from its data mapping; if the data cannot be decoded
// every param is "N/A" while the identity fields remain populated.
func NormalizeChild(child tapo.Child, opts ChildOptions) ChildRecord {
	attrs := map[string]any(child.Attributes)
	if attrs == nil {
		attrs = map[string]any{}
	}

	kind, _ := deviceKind(attrs)
	if kind == "" {
		kind = Unknown
	}

	status := 0
	if StatusFromFields(attrs).Up() {
		status = 1
	}

	data, err := child.DataMap()
	if err != nil {
		data = nil
	}

	return ChildRecord{
		Nickname:      stringField(attrs, "nickname", Unknown),
		DeviceID:      stringField(attrs, "device_id", Unknown),
		DeviceType:    kind,
		Status:        status,
		RSSI:          stringField(attrs, "rssi", NotAvailable),
		SignalQuality: ParseSignalLevel(attrs["signal_level"]).Quality(),
		Params:        normalizeParams(data, opts.location()),
	}
}

func normalizeParams(data map[string]any, loc *time.Location) map[string]string {
	params := make(map[string]string, len(ParamKeys))
	for _, key := range ParamKeys {
		params[key] = NotAvailable
	}
	if data == nil {
		return params
	}

	for _, key := range ParamKeys {
		if key == "last_onboarded" {
			params[key] = formatTimestamp(data[key], loc)
			continue
		}
		params[key] = stringField(data, key, NotAvailable)
	}
	return params
}

func formatTimestamp(v any, loc *time.Location) string {
	secs, ok := number(v)
	if !ok || secs <= 0 {
		return NotAvailable
	}
	return time.Unix(int64(secs), 0).In(loc).Format(TimestampLayout)
}

func (o ChildOptions) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

// Details summarizes the interesting params of a child for display
func (c ChildRecord) Details() string {
	labels := []struct{ key, label string }{
		{"battery_state", "Battery"},
		{"motion_status", "Motion"},
		{"contact_status", "Contact"},
		{"signal_level", "Signal"},
	}

	var parts []string
	for _, l := range labels {
		if v := c.Params[l.key]; v != "" && v != NotAvailable {
			parts = append(parts, l.label+": "+v)
		}
	}
	if len(parts) == 0 {
		return "No additional info"
	}
	return strings.Join(parts, ", ")
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToUpper(s), strings.ToUpper(substr))
}
