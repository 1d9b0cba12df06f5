package tapo

import (
	"encoding/json"
	"fmt"
)

// Payload is a device response. It is either an AttributeBag or a NestedMapping.
type Payload interface {
	payload()
}

// AttributeBag is a flat set of decoded attributes
type AttributeBag map[string]any

// NestedMapping is a raw response that may wrap its fields in "result" and/or "device_info"
type NestedMapping map[string]any

func (AttributeBag) payload()  {}
func (NestedMapping) payload() {}

// unwrapPaths are tried in order; the first one that resolves to a mapping wins
var unwrapPaths = [][]string{
	{"result", "device_info"},
	{"result"},
	{"device_info"},
}

// Fields flattens a payload into a single attribute map. A nil payload yields an empty map.
func Fields(p Payload) map[string]any {
	switch v := p.(type) {
	case AttributeBag:
		if v == nil {
			return map[string]any{}
		}
		return v
	case NestedMapping:
		if v == nil {
			return map[string]any{}
		}
		for _, path := range unwrapPaths {
			if m, ok := lookupPath(v, path); ok {
				return m
			}
		}
		return v
	default:
		return map[string]any{}
	}
}

// ExtractChildren pulls result.child_device_list out of a raw hub response.
// Each entry becomes a Child whose attributes and data are the same mapping.
// Drivers whose Hub.Children receives the raw child list response should
// return its result.
func ExtractChildren(p Payload) []Child {
	var root map[string]any
	switch v := p.(type) {
	case NestedMapping:
		root = v
	case AttributeBag:
		root = v
	default:
		return nil
	}

	list, ok := root["child_device_list"].([]any)
	if !ok {
		result, ok := asMap(root["result"])
		if !ok {
			return nil
		}
		if list, ok = result["child_device_list"].([]any); !ok {
			return nil
		}
	}

	children := make([]Child, 0, len(list))
	for _, entry := range list {
		m, ok := asMap(entry)
		if !ok {
			children = append(children, Child{Data: entry})
			continue
		}
		children = append(children, Child{Attributes: AttributeBag(m), Data: m})
	}
	return children
}

// Child is one entry of a hub's child device list.
//
// Attributes carries identity fields (nickname, device_id, type, status, rssi)
// decoded by the driver. Data is the raw parameter set and may be a mapping,
// JSON text or anything else the driver could not decode.
type Child struct {
	Attributes AttributeBag
	Data       any
}

// DataMap decodes Data into a mapping
func (c Child) DataMap() (map[string]any, error) {
	switch v := c.Data.(type) {
	case nil:
		return nil, fmt.Errorf("child has no data")
	case map[string]any:
		return v, nil
	case AttributeBag:
		return v, nil
	case NestedMapping:
		return v, nil
	case json.RawMessage:
		return decodeJSON(v)
	case []byte:
		return decodeJSON(v)
	case string:
		return decodeJSON([]byte(v))
	default:
		return nil, fmt.Errorf("unsupported child data type %T", c.Data)
	}
}

func decodeJSON(data []byte) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode child data: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("child data is not an object")
	}
	return m, nil
}

func lookupPath(m map[string]any, path []string) (map[string]any, bool) {
	cur := m
	for _, key := range path {
		next, ok := asMap(cur[key])
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case AttributeBag:
		return m, true
	case NestedMapping:
		return m, true
	}
	return nil, false
}
