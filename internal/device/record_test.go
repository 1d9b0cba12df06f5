package device

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	rec := NewRecord("192.168.1.5", map[string]any{
		"nickname":     "Living Room Hub",
		"model":        "H100",
		"type":         "SMART.TAPOHUB",
		"mac":          "AA-BB-CC-DD-EE-FF",
		"signal_level": float64(3),
		"device_on":    false,
	})

	assert.Equal(t, "192.168.1.5", rec.IPAddress)
	assert.Equal(t, "Living Room Hub", rec.DeviceInfo.Nickname)
	assert.Equal(t, "H100", rec.DeviceInfo.Model)
	assert.Equal(t, SignalStrong, rec.DeviceInfo.SignalQuality)
	assert.Equal(t, StatusOnline, rec.DeviceInfo.Status)
	assert.True(t, rec.IsHub())
}

func TestNewRecord_Defaults(t *testing.T) {
	rec := NewRecord("10.0.0.9", map[string]any{"nickname": ""})

	assert.Equal(t, Unknown, rec.DeviceInfo.Nickname)
	assert.Equal(t, Unknown, rec.DeviceInfo.Model)
	assert.Equal(t, Unknown, rec.DeviceInfo.Type)
	assert.Equal(t, NotAvailable, rec.DeviceInfo.MAC)
	assert.False(t, rec.DeviceInfo.SignalLevel.Valid)
	assert.Equal(t, NotAvailable, rec.DeviceInfo.SignalQuality)
	assert.Equal(t, StatusOff, rec.DeviceInfo.Status)
	assert.False(t, rec.IsHub())
}

func TestRecordJSON(t *testing.T) {
	rec := NewRecord("10.0.0.9", map[string]any{
		"nickname":  "Plug",
		"model":     "P110",
		"type":      "SMART.TAPOPLUG",
		"device_on": true,
	})

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "10.0.0.9", decoded["ip_address"])
	assert.NotContains(t, decoded, "children")

	info := decoded["device_info"].(map[string]any)
	assert.Equal(t, "N/A", info["signal_level"])
	assert.Equal(t, "On", info["status"])
	assert.Equal(t, true, info["device_on"])

	rec.DeviceInfo.SignalLevel = SignalLevel{Value: 2, Valid: true}
	data, err = json.Marshal(rec.DeviceInfo)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"signal_level":2`)
}

func TestRecordIdempotent(t *testing.T) {
	fields := map[string]any{
		"nickname":     "Hub",
		"model":        "H100",
		"type":         "SMART.TAPOHUB",
		"signal_level": json.Number("2"),
		"status":       "online",
	}

	first, err := json.Marshal(NewRecord("192.168.1.2", fields))
	require.NoError(t, err)
	second, err := json.Marshal(NewRecord("192.168.1.2", fields))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSignalLevelUnmarshal(t *testing.T) {
	var info Info
	require.NoError(t, json.Unmarshal([]byte(`{"signal_level":"N/A"}`), &info))
	assert.False(t, info.SignalLevel.Valid)

	require.NoError(t, json.Unmarshal([]byte(`{"signal_level":3}`), &info))
	assert.Equal(t, SignalLevel{Value: 3, Valid: true}, info.SignalLevel)
	assert.Equal(t, "3", info.SignalLevel.String())
}
