package device

// Record is a normalized snapshot of one discovered device
type Record struct {
	IPAddress  string        `json:"ip_address"`
	DeviceInfo Info          `json:"device_info"`
	Children   []ChildRecord `json:"children,omitempty"`
}

// Info holds the semantic fields of a device
type Info struct {
	Nickname      string      `json:"nickname"`
	Model         string      `json:"model"`
	Type          string      `json:"type"`
	MAC           string      `json:"mac"`
	SignalLevel   SignalLevel `json:"signal_level"`
	SignalQuality string      `json:"signal_quality"`
	Status        Status      `json:"status"`
	DeviceOn      bool        `json:"device_on"`
}

// NewRecord builds a record from a flattened payload. Absent text fields
// default to "Unknown", an absent MAC to "N/A".
func NewRecord(host string, fields map[string]any) Record {
	kind, _ := deviceKind(fields)
	if kind == "" {
		kind = Unknown
	}

	level := ParseSignalLevel(fields["signal_level"])

	return Record{
		IPAddress: host,
		DeviceInfo: Info{
			Nickname:      stringField(fields, "nickname", Unknown),
			Model:         stringField(fields, "model", Unknown),
			Type:          kind,
			MAC:           stringField(fields, "mac", NotAvailable),
			SignalLevel:   level,
			SignalQuality: level.Quality(),
			Status:        StatusFromFields(fields),
			DeviceOn:      truthy(fields["device_on"]),
		},
	}
}

// IsHub reports whether the record describes a hub
func (r Record) IsHub() bool {
	return containsFold(r.DeviceInfo.Type, "HUB") || containsFold(r.DeviceInfo.Model, "H100") ||
		containsFold(r.DeviceInfo.Model, "H200")
}
