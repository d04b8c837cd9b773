package empire

import (
	"context"
	"fmt"

	"empire_trader/internal/domain"
	"empire_trader/internal/domain/entity"
	"empire_trader/pkg/errcodes"
)

// Registry holds one API client per configured account and exposes the
// account-scoped operations keyed by account id. Built once at startup,
// read-only afterwards.
type Registry struct {
	clients map[int64]*Client
}

func NewRegistry(accounts []entity.Account, opts ...Option) *Registry {
	clients := make(map[int64]*Client, len(accounts))
	for i := range accounts {
		clients[accounts[i].UserID] = NewClient(&accounts[i], opts...)
	}

	return &Registry{clients: clients}
}

func (r *Registry) Client(accountID int64) (*Client, error) {
	client, ok := r.clients[accountID]
	if !ok {
		return nil, domain.NewError(errcodes.AccountNotFound,
			fmt.Sprintf("no client for account %d", accountID))
	}

	return client, nil
}

func (r *Registry) Delist(ctx context.Context, accountID, botID int64) error {
	client, err := r.Client(accountID)
	if err != nil {
		return err
	}

	return client.Delist(ctx, botID)
}

func (r *Registry) ConfirmTrade(ctx context.Context, accountID, depositID int64) error {
	client, err := r.Client(accountID)
	if err != nil {
		return err
	}

	return client.ConfirmTrade(ctx, depositID)
}

func (r *Registry) UserInventory(ctx context.Context, accountID int64) (*Inventory, error) {
	client, err := r.Client(accountID)
	if err != nil {
		return nil, err
	}

	return client.UserInventory(ctx)
}
