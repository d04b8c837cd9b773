package entity

// SteamCredentials is the linked-wallet credential block. Its presence
// selects the direct-offer delivery strategy.
type SteamCredentials struct {
	AccountName    string `json:"account_name" validate:"required"`
	SharedSecret   string `json:"shared_secret"`
	IdentitySecret string `json:"identity_secret"`
}

// Account is one tracked marketplace account. Immutable for the process
// lifetime; owned by the session manager and passed by reference into
// the tracker.
type Account struct {
	UserID          int64             `json:"user_id" validate:"required"`
	Origin          string            `json:"origin" validate:"required,hostname"`
	APIKey          string            `json:"api_key" validate:"required"`
	DelistThreshold float64           `json:"delist_threshold" validate:"gte=0"`
	Steam           *SteamCredentials `json:"steam,omitempty"`
	// Csgotrader selects the external-client handoff: the trade URL is
	// opened in a desktop browser carrying the asset id, and delivery is
	// not confirmed by the marketplace.
	Csgotrader bool `json:"csgotrader"`
}

// HasLinkedWallet reports whether the direct-offer strategy applies.
func (a *Account) HasLinkedWallet() bool {
	return a.Steam != nil && a.Steam.AccountName != ""
}
