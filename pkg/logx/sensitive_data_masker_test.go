package logx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"empire_trader/pkg/logx"
)

func TestSensitiveDataMaskerMask(t *testing.T) {
	rq := require.New(t)

	masker := logx.NewSensitiveDataMasker()

	testCases := []struct {
		name   string
		input  []byte
		output []byte
	}{
		{
			name:   "API key",
			input:  []byte(`{"origin":"csgoempire.com","api_key":"4f6e1c2b9d"}`),
			output: []byte(`{"origin":"csgoempire.com","api_key":"[MASKED]"}`),
		},
		{
			name:   "Socket token and signature",
			input:  []byte(`{"socket_token":"eyJhbGciOiJFUzI1NiIsInR5cC","socket_signature":"a1b2c3d4"}`),
			output: []byte(`{"socket_token":"[MASKED]","socket_signature":"[MASKED]"}`),
		},
		{
			name:   "Identify handshake",
			input:  []byte(`{"uid":42,"authorizationToken":"secret","signature":"sig"}`),
			output: []byte(`{"uid":42,"authorizationToken":"[MASKED]","signature":"[MASKED]"}`),
		},
		{
			name:   "Trade URL and steam secrets",
			input:  []byte(`{"metadata": {"trade_url": "https://steamcommunity.com/tradeoffer/new/?partner=1&token=x"}, "account_name": "bot1", "shared_secret": "aaa", "identity_secret": "bbb"}`),
			output: []byte(`{"metadata": {"trade_url": "[MASKED]"}, "account_name": "[MASKED]", "shared_secret": "[MASKED]", "identity_secret": "[MASKED]"}`),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			output := masker.Mask(tc.input)

			rq.Equal(tc.output, output, "%s vs %s", tc.output, output)
		})
	}
}
