package ui

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapo-chatter/tapo-chatter/internal/device"
)

func sampleRecords() []device.Record {
	return []device.Record{
		device.NewRecord("192.168.1.5", map[string]any{
			"nickname":     "Hallway Hub",
			"model":        "H100",
			"type":         "SMART.TAPOHUB",
			"mac":          "AA-BB-CC",
			"signal_level": 3,
		}),
		device.NewRecord("192.168.1.17", map[string]any{
			"nickname":  "Desk Plug",
			"model":     "P110",
			"device_on": true,
		}),
	}
}

func sampleChildren() []device.ChildRecord {
	return []device.ChildRecord{
		{
			Nickname:   "Front Door",
			DeviceID:   "802E01",
			DeviceType: "SMART.TAPOSENSOR",
			Status:     1,
			Params:     map[string]string{"battery_state": "normal", "contact_status": "closed"},
		},
		{
			Nickname:   "Garage",
			DeviceID:   "802E02",
			DeviceType: "SMART.TAPOSENSOR",
			Status:     0,
			Params:     map[string]string{},
		},
	}
}

func TestHeader_Render(t *testing.T) {
	out := NewHeader("Device Discovery", "tapo-chatter discover",
		Param{Key: "Subnet", Value: "192.168.1"},
		Param{Key: "Range", Value: "1-254"},
	).SetWidth(80).Render()

	assert.Contains(t, out, "DEVICE DISCOVERY")
	assert.Contains(t, out, "tapo-chatter discover")
	assert.Less(t, strings.Index(out, "Subnet"), strings.Index(out, "Range"), "params keep their order")
}

func TestResult_Render(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   []string
	}{
		{
			name:   "success",
			result: NewSuccessResult("Found 2 devices", Param{Key: "Elapsed", Value: "1.2s"}),
			want:   []string{"SUCCESS", "Found 2 devices", "Elapsed", "1.2s"},
		},
		{
			name:   "failure",
			result: NewFailureResult("Configuration invalid", errors.New("TAPO_IP_ADDRESS is bad"), []string{"Check TAPO_IP_ADDRESS"}),
			want:   []string{"FAILED", "TAPO_IP_ADDRESS is bad", "Troubleshooting:", "Check TAPO_IP_ADDRESS"},
		},
		{
			name:   "warning",
			result: NewWarningResult("No devices found").AddDetail("Probed", "254"),
			want:   []string{"WARNING", "No devices found", "Probed", "254"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.result.SetWidth(100).String()
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestDeviceTable(t *testing.T) {
	out := DeviceTable(sampleRecords())

	for _, h := range deviceHeaders {
		assert.Contains(t, out, h)
	}
	assert.Contains(t, out, "Hallway Hub")
	assert.Contains(t, out, "Online")
	assert.Contains(t, out, "Desk Plug")
	assert.Contains(t, out, "On")
	assert.Contains(t, out, "N/A", "missing signal level")
	assert.Less(t, strings.Index(out, "192.168.1.5"), strings.Index(out, "192.168.1.17"), "rows keep discovery order")
}

func TestChildTable(t *testing.T) {
	out := ChildTable(sampleChildren())

	assert.Contains(t, out, "Front Door")
	assert.Contains(t, out, "Battery: normal, Contact: closed")
	assert.Contains(t, out, "Garage")
	assert.Contains(t, out, "Offline")
	assert.Contains(t, out, "No additional info")
}

func TestChildParamsTable(t *testing.T) {
	child := device.NormalizeChild(
		tapoChild("Door", map[string]any{"hw_ver": "1.0"}),
		device.ChildOptions{Location: time.UTC},
	)
	out := ChildParamsTable(child)
	for _, key := range device.ParamKeys {
		assert.Contains(t, out, key)
	}
	assert.Contains(t, out, "1.0")
}

func TestScanProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewScanProgress(&buf, 10)

	p.Update(5, 1)
	assert.InDelta(t, 0.5, p.Percent(), 0.001)
	assert.Contains(t, buf.String(), "5/10 hosts")
	assert.Contains(t, buf.String(), "1 device found")

	p.Update(10, 2)
	assert.Contains(t, buf.String(), "2 devices found")

	p.Finish()
	assert.True(t, strings.HasSuffix(buf.String(), "\r\033[K"))
}

func TestScanProgress_EmptyRange(t *testing.T) {
	p := NewScanProgress(&bytes.Buffer{}, 0)
	assert.Equal(t, 1.0, p.Percent())
}

func TestTrace(t *testing.T) {
	out := NewTrace("Per-host failures", "a", "b", "c").SetMaxLines(2).Render()
	assert.Contains(t, out, "Per-host failures")
	assert.Contains(t, out, "... (1 more)")

	chain := ErrorTrace([]string{"outer", "inner"}).Render()
	assert.Contains(t, chain, "outer")
	assert.Contains(t, chain, "└─ inner")
}

func TestPrinter(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut)
	assert.Equal(t, MaxContentWidth, p.Width())

	require.NoError(t, p.PrintJSON(sampleRecords()))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "192.168.1.5", decoded[0]["ip_address"])
	assert.True(t, strings.Contains(out.String(), "\n  {"), "indented")

	p.Status("Loading configuration...")
	p.PrintError("Discovery failed", errors.New("boom"), nil)
	assert.Contains(t, errOut.String(), "Loading configuration...")
	assert.Contains(t, errOut.String(), "boom")
}

func TestLiveModel(t *testing.T) {
	m := NewLiveModel("192.168.1.100", 10*time.Second)
	assert.NotNil(t, m.Init())
	assert.Contains(t, m.View(), "Waiting for the first update")

	now := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	updated, _ := m.Update(SnapshotMsg{Children: sampleChildren(), Time: now})
	m = updated.(LiveModel)
	view := m.View()
	assert.Contains(t, view, "Front Door")
	assert.Contains(t, view, "Last updated 12:30:00")

	updated, _ = m.Update(FailureMsg{Err: errors.New("hub timed out"), Time: now})
	m = updated.(LiveModel)
	assert.Contains(t, m.View(), "hub timed out")
	assert.Contains(t, m.View(), "Front Door", "keeps the last good snapshot")

	updated, _ = m.Update(SnapshotMsg{Time: now})
	m = updated.(LiveModel)
	assert.Contains(t, m.View(), "No child devices found")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = updated.(LiveModel)
	assert.True(t, m.Quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, m.View())
}
