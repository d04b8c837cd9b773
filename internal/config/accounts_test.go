package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"empire_trader/internal/config"
)

func writeAccounts(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "accounts.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadAccounts(t *testing.T) {
	rq := require.New(t)

	path := writeAccounts(t, `[
		{
			"user_id": 101,
			"origin": "csgoempire.com",
			"api_key": "key-one",
			"delist_threshold": 5,
			"steam": {"account_name": "trader01", "shared_secret": "s", "identity_secret": "i"}
		},
		{
			"user_id": 102,
			"origin": "csgoempire.com",
			"api_key": "key-two",
			"csgotrader": true
		}
	]`)

	accounts, err := config.LoadAccounts(path)
	rq.NoError(err)
	rq.Len(accounts, 2)

	rq.True(accounts[0].HasLinkedWallet())
	rq.InDelta(5.0, accounts[0].DelistThreshold, 0)

	rq.False(accounts[1].HasLinkedWallet())
	rq.True(accounts[1].Csgotrader)
}

func TestLoadAccountsRejectsInvalid(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		content string
	}{
		{
			name:    "Empty file",
			content: `[]`,
		},
		{
			name:    "Missing api key",
			content: `[{"user_id": 101, "origin": "csgoempire.com"}]`,
		},
		{
			name:    "Bad origin",
			content: `[{"user_id": 101, "origin": "not a host", "api_key": "k"}]`,
		},
		{
			name: "Duplicate user id",
			content: `[
				{"user_id": 101, "origin": "csgoempire.com", "api_key": "a"},
				{"user_id": 101, "origin": "csgoempire.com", "api_key": "b"}
			]`,
		},
		{
			name:    "Steam block without account name",
			content: `[{"user_id": 101, "origin": "csgoempire.com", "api_key": "k", "steam": {"shared_secret": "s"}}]`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.LoadAccounts(writeAccounts(t, tc.content))
			rq.Error(err)
		})
	}
}

func TestLoadAccountsMissingFile(t *testing.T) {
	rq := require.New(t)

	_, err := config.LoadAccounts(filepath.Join(t.TempDir(), "absent.json"))
	rq.Error(err)
}
