package entity

import "time"

// Deposit is the record tracked per marketplace-assigned deposit id.
// Price is set once, on the Confirming transition, and is read-only
// until the deposit reaches a terminal state.
type Deposit struct {
	ID        int64  `json:"id"`
	ItemName  string `json:"item_name"`
	Price     int64  `json:"price"` // minor currency units
	AccountID int64  `json:"account_id"`
}

// TradeLogEntry is one terminal transition persisted to the trade log.
type TradeLogEntry struct {
	DepositID  int64
	AccountID  int64
	ItemName   string
	Price      int64
	Status     DepositStatus
	RecordedAt time.Time
}
