package server

import (
	"context"

	"empire_trader/internal/domain/entity"
	"empire_trader/internal/infrastructure/empire"
)

type depositSource interface {
	Deposits() []entity.Deposit
}

type marketplace interface {
	UserInventory(ctx context.Context, accountID int64) (*empire.Inventory, error)
	ConfirmTrade(ctx context.Context, accountID, depositID int64) error
}

type tradeLog interface {
	ListRecent(ctx context.Context, limit int) ([]entity.TradeLogEntry, error)
}

// Server is the operator-facing status API: live deposit state, account
// inventories, manual trade confirmation and the terminal trade log.
type Server struct {
	deposits depositSource
	market   marketplace
	trades   tradeLog
}

// NewServer wires the status API. trades may be nil when the trade log
// is disabled.
func NewServer(deposits depositSource, market marketplace, trades tradeLog) Server {
	return Server{
		deposits: deposits,
		market:   market,
		trades:   trades,
	}
}
