package entity

// DepositStatus values are exactly the marketplace vocabulary carried in
// trade_status events. Unknown values are inert.
type DepositStatus string

const (
	StatusProcessing DepositStatus = "Processing"
	StatusConfirming DepositStatus = "Confirming"
	StatusSending    DepositStatus = "Sending"
	StatusSent       DepositStatus = "Sent"
	StatusCompleted  DepositStatus = "Completed"
	StatusTimedOut   DepositStatus = "TimedOut"
	StatusCanceled   DepositStatus = "Canceled"
)

// Terminal reports whether the deposit record can be evicted.
func (s DepositStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusTimedOut, StatusCanceled:
		return true
	default:
		return false
	}
}

// ListingUpdate is one updated_item payload: the live market value of an
// active peer-to-peer listing.
type ListingUpdate struct {
	ID          int64  `json:"id"`
	MarketName  string `json:"market_name"`
	MarketValue int64  `json:"market_value"`
	BotID       int64  `json:"bot_id"`
}

// TradeStatus is one trade_status payload. Only Type == "deposit" is
// processed further.
type TradeStatus struct {
	Type string          `json:"type"`
	Data TradeStatusData `json:"data"`
}

const TradeTypeDeposit = "deposit"

type TradeStatusData struct {
	ID            int64         `json:"id"`
	StatusMessage DepositStatus `json:"status_message"`
	TotalValue    int64         `json:"total_value"`
	Item          TradeItem     `json:"item"`
	Metadata      TradeMetadata `json:"metadata"`
}

type TradeItem struct {
	MarketName  string `json:"market_name"`
	MarketValue int64  `json:"market_value"`
	AssetID     string `json:"asset_id"`
}

// TradeMetadata carries the offer destination. TradeURL may be empty,
// JSON null or the literal string "null" while the recipient has not set
// a trade URL yet.
type TradeMetadata struct {
	TradeURL  string `json:"trade_url"`
	PartnerID int64  `json:"partner_id,omitempty"`
}

// HasTradeURL applies the missing/null/"null" guard.
func (m TradeMetadata) HasTradeURL() bool {
	return m.TradeURL != "" && m.TradeURL != "null"
}
