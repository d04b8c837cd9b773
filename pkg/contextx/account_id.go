package contextx

import (
	"context"
	"fmt"
	"strconv"
)

// AccountID identifies one tracked marketplace account across log lines
// and handlers.
type AccountID int64

type contextKeyAccountID struct{}

func (a AccountID) String() string {
	return strconv.FormatInt(int64(a), 10)
}

func WithAccountID(ctx context.Context, accountID AccountID) context.Context {
	return context.WithValue(ctx, contextKeyAccountID{}, accountID)
}

func AccountIDFromContext(ctx context.Context) (AccountID, error) {
	accountID, ok := ctx.Value(contextKeyAccountID{}).(AccountID)
	if !ok {
		return 0, fmt.Errorf("account id: %w", ErrNoValue)
	}

	return accountID, nil
}
