package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"empire_trader/internal/domain"
	"empire_trader/internal/domain/entity"
	"empire_trader/pkg/errcodes"
)

// TradeLogRepository persists terminal trade transitions. In-flight
// deposit state stays in memory; only completed history lands here.
type TradeLogRepository struct {
	db *sqlx.DB
}

func NewTradeLogRepository(db *sqlx.DB) *TradeLogRepository {
	return &TradeLogRepository{db: db}
}

const tradeLogTable = `
	CREATE TABLE IF NOT EXISTS trade_log (
		id          BIGSERIAL PRIMARY KEY,
		deposit_id  BIGINT      NOT NULL,
		account_id  BIGINT      NOT NULL,
		item_name   TEXT        NOT NULL,
		price       BIGINT      NOT NULL,
		status      TEXT        NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// EnsureSchema creates the trade_log table when missing.
func (r *TradeLogRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, tradeLogTable); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to ensure trade_log schema")
	}

	return nil
}

// Record appends one terminal transition.
func (r *TradeLogRepository) Record(ctx context.Context, e entity.TradeLogEntry) error {
	query := `
		INSERT INTO trade_log (deposit_id, account_id, item_name, price, status, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		e.DepositID, e.AccountID, e.ItemName, e.Price, string(e.Status), e.RecordedAt)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to record trade")
	}

	return nil
}

// ListRecent returns the newest entries first.
func (r *TradeLogRepository) ListRecent(ctx context.Context, limit int) ([]entity.TradeLogEntry, error) {
	query := `
		SELECT deposit_id, account_id, item_name, price, status, recorded_at
		FROM trade_log
		ORDER BY recorded_at DESC
		LIMIT $1`

	var schemas []tradeLogSchema
	if err := r.db.SelectContext(ctx, &schemas, query, limit); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list trades")
	}

	entries := make([]entity.TradeLogEntry, 0, len(schemas))
	for _, s := range schemas {
		entries = append(entries, s.toDomain())
	}

	return entries, nil
}
