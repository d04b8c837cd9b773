package contextx_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"empire_trader/pkg/contextx"
)

func TestTraceID(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	var testTraceIDEmpty contextx.TraceID

	testTraceIDNotEmpty := contextx.TraceID("test-trace-id")

	traceID, err := contextx.TraceIDFromContext(ctx)
	rq.Equal(testTraceIDEmpty, traceID)
	rq.ErrorIs(err, contextx.ErrNoValue)
	rq.ErrorContains(err, "trace id: no value in context")

	ctx = contextx.WithTraceID(ctx, testTraceIDNotEmpty)

	traceID, err = contextx.TraceIDFromContext(ctx)
	rq.Equal(testTraceIDNotEmpty, traceID)
	rq.NoError(err)
}

func TestAccountID(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	accountID, err := contextx.AccountIDFromContext(ctx)
	rq.Equal(contextx.AccountID(0), accountID)
	rq.ErrorIs(err, contextx.ErrNoValue)
	rq.ErrorContains(err, "account id: no value in context")

	ctx = contextx.WithAccountID(ctx, contextx.AccountID(76561198))

	accountID, err = contextx.AccountIDFromContext(ctx)
	rq.Equal(contextx.AccountID(76561198), accountID)
	rq.NoError(err)
	rq.Equal("76561198", accountID.String())
}
