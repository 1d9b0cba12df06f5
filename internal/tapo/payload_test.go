package tapo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFields(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		want    string
	}{
		{
			name:    "attribute bag used directly",
			payload: AttributeBag{"nickname": "bag"},
			want:    "bag",
		},
		{
			name: "result.device_info",
			payload: NestedMapping{"result": map[string]any{
				"device_info": map[string]any{"nickname": "deep"},
				"nickname":    "shallow",
			}},
			want: "deep",
		},
		{
			name:    "result",
			payload: NestedMapping{"result": map[string]any{"nickname": "result"}},
			want:    "result",
		},
		{
			name:    "device_info",
			payload: NestedMapping{"device_info": map[string]any{"nickname": "info"}},
			want:    "info",
		},
		{
			name:    "root",
			payload: NestedMapping{"nickname": "root", "result": "not a map"},
			want:    "root",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fields(tt.payload)
			assert.Equal(t, tt.want, got["nickname"])
		})
	}
}

func TestFields_Nil(t *testing.T) {
	assert.Empty(t, Fields(nil))
	assert.Empty(t, Fields(NestedMapping(nil)))
	assert.Empty(t, Fields(AttributeBag(nil)))
}

func TestExtractChildren(t *testing.T) {
	payload := NestedMapping{"result": map[string]any{
		"child_device_list": []any{
			map[string]any{"nickname": "door", "device_id": "a1"},
			"garbage",
		},
	}}

	children := ExtractChildren(payload)
	require.Len(t, children, 2)
	assert.Equal(t, "door", children[0].Attributes["nickname"])

	data, err := children[0].DataMap()
	require.NoError(t, err)
	assert.Equal(t, "a1", data["device_id"])

	_, err = children[1].DataMap()
	assert.Error(t, err)
	assert.Nil(t, children[1].Attributes)
}

func TestExtractChildren_Missing(t *testing.T) {
	assert.Nil(t, ExtractChildren(NestedMapping{"result": map[string]any{}}))
	assert.Nil(t, ExtractChildren(nil))
}

func TestChildDataMap(t *testing.T) {
	tests := []struct {
		name    string
		data    any
		wantErr bool
	}{
		{"map", map[string]any{"mac": "AA"}, false},
		{"raw message", json.RawMessage(`{"mac":"AA"}`), false},
		{"bytes", []byte(`{"mac":"AA"}`), false},
		{"string", `{"mac":"AA"}`, false},
		{"invalid json", "{not json", true},
		{"json null", "null", true},
		{"nil", nil, true},
		{"number", 42, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Child{Data: tt.data}.DataMap()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "AA", m["mac"])
		})
	}
}
