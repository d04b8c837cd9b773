package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"empire_trader/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// LoadAccounts reads the tracked marketplace accounts from a JSON file
// and validates each entry. Duplicate user ids are rejected because all
// runtime state is keyed by them.
func LoadAccounts(path string) ([]entity.Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	var accounts []entity.Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	if len(accounts) == 0 {
		return nil, fmt.Errorf("no accounts in %s", path)
	}

	validate := validator.New()
	seen := make(map[int64]struct{}, len(accounts))

	for i := range accounts {
		if err := validate.Struct(&accounts[i]); err != nil {
			return nil, fmt.Errorf("account %d invalid: %w", accounts[i].UserID, err)
		}

		if _, ok := seen[accounts[i].UserID]; ok {
			return nil, fmt.Errorf("duplicate account %d", accounts[i].UserID)
		}
		seen[accounts[i].UserID] = struct{}{}
	}

	return accounts, nil
}
