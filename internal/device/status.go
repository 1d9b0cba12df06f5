package device

import "strings"

// Status is the normalized connectivity or power state of a device
type Status string

const (
	StatusOnline  Status = "Online"
	StatusOffline Status = "Offline"
	StatusOn      Status = "On"
	StatusOff     Status = "Off"
)

// Up reports whether the status counts as live for 0/1 child status
func (s Status) Up() bool {
	return s == StatusOnline || s == StatusOn
}

// ResolveStatus normalizes a raw status value.
//
// When the status field is present: a number is Online only when it equals 1,
// a string only when it equals "online" in any case, true is Online and false
// is Offline. Any other value falls back to the power flag. That includes a
// present but null status, so {"status": null, "device_on": false} resolves
// to Off, not Offline, even for a device with no type.
//
// When the status field is absent, hubs and sensors are Online because a
// session was already established with them; everything else reports its
// power flag.
func ResolveStatus(raw any, present bool, kind string, deviceOn bool) Status {
	if present {
		switch v := raw.(type) {
		case bool:
			if v {
				return StatusOnline
			}
			return StatusOffline
		case string:
			if strings.EqualFold(v, "online") {
				return StatusOnline
			}
			return StatusOffline
		}
		if n, ok := number(raw); ok {
			if n == 1 {
				return StatusOnline
			}
			return StatusOffline
		}
		return powerStatus(deviceOn)
	}

	upper := strings.ToUpper(kind)
	if strings.Contains(upper, "HUB") || strings.Contains(upper, "SENSOR") {
		return StatusOnline
	}
	return powerStatus(deviceOn)
}

// StatusFromFields applies ResolveStatus to a flattened payload
func StatusFromFields(fields map[string]any) Status {
	raw, present := fields["status"]
	kind, _ := deviceKind(fields)
	return ResolveStatus(raw, present, kind, truthy(fields["device_on"]))
}

func powerStatus(on bool) Status {
	if on {
		return StatusOn
	}
	return StatusOff
}
