package device

import (
	"encoding/json"
	"strconv"
)

// Signal quality buckets
const (
	SignalStrong = "strong"
	SignalFair   = "fair"
	SignalWeak   = "weak"
)

// SignalLevel is a numeric signal level that may be absent. It serializes
// as a JSON number, or "N/A" when absent.
type SignalLevel struct {
	Value float64
	Valid bool
}

// ParseSignalLevel converts a raw payload value
func ParseSignalLevel(v any) SignalLevel {
	n, ok := number(v)
	return SignalLevel{Value: n, Valid: ok}
}

// Quality buckets the level: >=3 strong, >=2 fair, otherwise weak
func (s SignalLevel) Quality() string {
	if !s.Valid {
		return NotAvailable
	}
	return SignalQuality(s.Value)
}

// String renders the level or "N/A"
func (s SignalLevel) String() string {
	if !s.Valid {
		return NotAvailable
	}
	return strconv.FormatFloat(s.Value, 'f', -1, 64)
}

// MarshalJSON implements json.Marshaler
func (s SignalLevel) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return json.Marshal(NotAvailable)
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON implements json.Unmarshaler
func (s *SignalLevel) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = ParseSignalLevel(v)
	return nil
}

// SignalQuality buckets a numeric level
func SignalQuality(level float64) string {
	switch {
	case level >= 3:
		return SignalStrong
	case level >= 2:
		return SignalFair
	default:
		return SignalWeak
	}
}
