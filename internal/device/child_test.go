package device

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapo-chatter/tapo-chatter/internal/tapo"
)

func TestNormalizeChild(t *testing.T) {
	child := tapo.Child{
		Attributes: tapo.AttributeBag{
			"nickname":     "Front Door",
			"device_id":    "802E0001",
			"type":         "SMART.TAPOSENSOR",
			"status":       "online",
			"rssi":         -52,
			"signal_level": 3,
		},
		Data: map[string]any{
			"battery_state":   "normal",
			"contact_status":  false,
			"hw_ver":          "1.0",
			"jamming_rssi":    -113,
			"last_onboarded":  float64(1700000000),
			"mac":             "AABBCCDDEEFF",
			"region":          "Europe/London",
			"report_interval": 16,
			"signal_level":    3,
		},
	}

	rec := NormalizeChild(child, ChildOptions{Location: time.UTC})

	assert.Equal(t, "Front Door", rec.Nickname)
	assert.Equal(t, "802E0001", rec.DeviceID)
	assert.Equal(t, "SMART.TAPOSENSOR", rec.DeviceType)
	assert.Equal(t, 1, rec.Status)
	assert.Equal(t, "-52", rec.RSSI)
	assert.Equal(t, SignalStrong, rec.SignalQuality)

	assert.Equal(t, "normal", rec.Params["battery_state"])
	assert.Equal(t, NotAvailable, rec.Params["motion_status"])
	assert.Equal(t, "false", rec.Params["contact_status"])
	assert.Equal(t, "-113", rec.Params["jamming_rssi"])
	assert.Equal(t, "2023-11-14 22:13:20", rec.Params["last_onboarded"])
	assert.Equal(t, "16", rec.Params["report_interval"])
	assert.Len(t, rec.Params, len(ParamKeys))
}

func TestNormalizeChild_MissingParams(t *testing.T) {
	child := tapo.Child{
		Attributes: tapo.AttributeBag{"nickname": "Motion", "device_id": "dev-2"},
		Data:       map[string]any{"battery_state": "low"},
	}

	rec := NormalizeChild(child, ChildOptions{})

	assert.Equal(t, "Motion", rec.Nickname)
	assert.Equal(t, "dev-2", rec.DeviceID)
	assert.Equal(t, "low", rec.Params["battery_state"])
	for _, key := range []string{"hw_ver", "mac", "region", "last_onboarded", "report_interval"} {
		assert.Equal(t, NotAvailable, rec.Params[key], key)
	}
}

func TestNormalizeChild_UnparseableData(t *testing.T) {
	child := tapo.Child{
		Attributes: tapo.AttributeBag{"nickname": "Plug", "device_id": "dev-3", "status": 0},
		Data:       "{broken",
	}

	rec := NormalizeChild(child, ChildOptions{})

	assert.Equal(t, "Plug", rec.Nickname)
	assert.Equal(t, "dev-3", rec.DeviceID)
	assert.Equal(t, 0, rec.Status)
	require.Len(t, rec.Params, len(ParamKeys))
	for key, v := range rec.Params {
		assert.Equal(t, NotAvailable, v, key)
	}
	assert.Equal(t, "No additional info", rec.Details())
}

func TestNormalizeChild_JSONData(t *testing.T) {
	child := tapo.Child{
		Attributes: tapo.AttributeBag{"nickname": "Leak"},
		Data:       json.RawMessage(`{"hw_ver":"2.0","last_onboarded":0}`),
	}

	rec := NormalizeChild(child, ChildOptions{Location: time.UTC})
	assert.Equal(t, "2.0", rec.Params["hw_ver"])
	assert.Equal(t, NotAvailable, rec.Params["last_onboarded"])
	assert.Equal(t, Unknown, rec.DeviceID)
}

func TestNormalizeChild_Idempotent(t *testing.T) {
	child := tapo.Child{
		Attributes: tapo.AttributeBag{"nickname": "Door", "device_id": "d", "status": true},
		Data:       map[string]any{"mac": "AA", "last_onboarded": 1600000000},
	}

	a, err := json.Marshal(NormalizeChild(child, ChildOptions{Location: time.UTC}))
	require.NoError(t, err)
	b, err := json.Marshal(NormalizeChild(child, ChildOptions{Location: time.UTC}))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestChildDetails(t *testing.T) {
	rec := ChildRecord{Params: map[string]string{
		"battery_state":  "normal",
		"motion_status":  NotAvailable,
		"contact_status": "open",
		"signal_level":   "2",
	}}
	assert.Equal(t, "Battery: normal, Contact: open, Signal: 2", rec.Details())
}
