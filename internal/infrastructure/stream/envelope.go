package stream

import (
	"bytes"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// Envelope is one named event on the trade stream.
type Envelope struct {
	Event string              `json:"event"`
	Data  jsoniter.RawMessage `json:"data"`
}

// Stream event names, inbound and outbound.
const (
	EventInit        = "init"
	EventError       = "error"
	EventUpdatedItem = "updated_item"
	EventTradeStatus = "trade_status"

	EventFilters   = "filters"
	EventIdentify  = "identify"
	EventSubscribe = "p2p/new-items/subscribe"
	EventTimesync  = "timesync"
)

// Unmarshal decodes a single event payload.
func Unmarshal(data []byte, dest any) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	return nil
}

// DecodeBatch normalizes a payload that may be a single object or a
// sequence into a slice, so consumers always iterate.
func DecodeBatch[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("json.Unmarshal batch: %w", err)
		}
		return items, nil
	}

	var item T
	if err := json.Unmarshal(trimmed, &item); err != nil {
		return nil, fmt.Errorf("json.Unmarshal single: %w", err)
	}

	return []T{item}, nil
}
