package entity

import "time"

// EventKind classifies operator notifications, one kind per trade status
// plus connection, price-drift and failure kinds.
type EventKind string

const (
	KindConnect       EventKind = "connect"
	KindAuthenticated EventKind = "authenticated"

	KindTradeProcessing EventKind = "trade_status_processing"
	KindTradeConfirming EventKind = "trade_status_confirming"
	KindTradeSending    EventKind = "trade_status_sending"
	KindTradeSent       EventKind = "trade_status_sent"
	KindTradeCompleted  EventKind = "trade_status_completed"
	KindTradeTimedOut   EventKind = "trade_status_timed_out"
	KindTradeCanceled   EventKind = "trade_status_canceled"

	KindPriceChanged EventKind = "price_changed"
	KindDelisted     EventKind = "delisted"
	KindFailure      EventKind = "failure"
)

// Notification is one fire-and-forget message to the operator sink.
type Notification struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	Kind    EventKind `json:"kind"`
	At      time.Time `json:"at"`
}
