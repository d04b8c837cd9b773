package server

import (
	"time"

	"empire_trader/internal/domain/entity"
	"empire_trader/internal/infrastructure/empire"
)

type restDeposit struct {
	ID        int64  `json:"id"`
	ItemName  string `json:"item_name"`
	Price     int64  `json:"price"`
	AccountID int64  `json:"account_id"`
}

func newRESTDeposit(d entity.Deposit) restDeposit {
	return restDeposit{
		ID:        d.ID,
		ItemName:  d.ItemName,
		Price:     d.Price,
		AccountID: d.AccountID,
	}
}

type restInventoryItem struct {
	AssetID     string `json:"asset_id"`
	MarketName  string `json:"market_name"`
	MarketValue int64  `json:"market_value"`
	Tradable    bool   `json:"tradable"`
}

func newRESTInventoryItem(item empire.InventoryItem) restInventoryItem {
	return restInventoryItem{
		AssetID:     item.AssetID,
		MarketName:  item.MarketName,
		MarketValue: item.MarketValue,
		Tradable:    item.Tradable,
	}
}

type restTrade struct {
	DepositID  int64     `json:"deposit_id"`
	AccountID  int64     `json:"account_id"`
	ItemName   string    `json:"item_name"`
	Price      int64     `json:"price"`
	Status     string    `json:"status"`
	RecordedAt time.Time `json:"recorded_at"`
}

func newRESTTrade(e entity.TradeLogEntry) restTrade {
	return restTrade{
		DepositID:  e.DepositID,
		AccountID:  e.AccountID,
		ItemName:   e.ItemName,
		Price:      e.Price,
		Status:     string(e.Status),
		RecordedAt: e.RecordedAt,
	}
}
