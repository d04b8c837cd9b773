package empire

import (
	jsoniter "github.com/json-iterator/go"
)

// Metadata is the GET /metadata/socket response. The raw user model is
// kept verbatim because the identify handshake echoes it back.
type Metadata struct {
	User            MetadataUser `json:"user"`
	SocketToken     string       `json:"socket_token"`
	SocketSignature string       `json:"socket_signature"`
}

type MetadataUser struct {
	ID  int64
	Raw jsoniter.RawMessage
}

func (u *MetadataUser) UnmarshalJSON(data []byte) error {
	var probe struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	u.ID = probe.ID
	u.Raw = append(u.Raw[:0], data...)

	return nil
}

func (u MetadataUser) MarshalJSON() ([]byte, error) {
	if len(u.Raw) == 0 {
		return []byte("null"), nil
	}
	return u.Raw, nil
}

// Inventory is the GET /trading/user/inventory response.
type Inventory struct {
	Success bool            `json:"success"`
	Items   []InventoryItem `json:"data"`
}

type InventoryItem struct {
	AssetID     string `json:"asset_id"`
	MarketName  string `json:"market_name"`
	MarketValue int64  `json:"market_value"`
	Tradable    bool   `json:"tradable"`
}

// CancelResponse covers both the delist and afk-confirm calls.
type CancelResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
