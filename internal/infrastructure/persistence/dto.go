package persistence

import (
	"time"

	"empire_trader/internal/domain/entity"
)

type tradeLogSchema struct {
	DepositID  int64     `db:"deposit_id"`
	AccountID  int64     `db:"account_id"`
	ItemName   string    `db:"item_name"`
	Price      int64     `db:"price"`
	Status     string    `db:"status"`
	RecordedAt time.Time `db:"recorded_at"`
}

func (s tradeLogSchema) toDomain() entity.TradeLogEntry {
	return entity.TradeLogEntry{
		DepositID:  s.DepositID,
		AccountID:  s.AccountID,
		ItemName:   s.ItemName,
		Price:      s.Price,
		Status:     entity.DepositStatus(s.Status),
		RecordedAt: s.RecordedAt,
	}
}
