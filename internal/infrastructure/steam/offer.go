package steam

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"empire_trader/internal/domain"
	"empire_trader/internal/domain/entity"
	"empire_trader/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const defaultBridgeURL = "http://127.0.0.1:9180"

// OfferClient delivers a platform trade offer through the companion
// trade daemon holding the Steam session for the linked wallet. The
// tracker only depends on the single Send operation.
type OfferClient struct {
	bridgeURL  string
	httpClient *http.Client
}

type Option func(*OfferClient)

func WithBridgeURL(bridgeURL string) Option {
	return func(c *OfferClient) {
		c.bridgeURL = bridgeURL
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *OfferClient) {
		c.httpClient = httpClient
	}
}

func NewOfferClient(opts ...Option) *OfferClient {
	c := &OfferClient{
		bridgeURL:  defaultBridgeURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type sendOfferRequest struct {
	AccountName string `json:"account_name"`
	TradeURL    string `json:"trade_url"`
	AssetID     string `json:"asset_id"`
	MarketName  string `json:"market_name"`
}

type sendOfferResponse struct {
	Success bool   `json:"success"`
	OfferID string `json:"offer_id,omitempty"`
	Message string `json:"message,omitempty"`
}

// Send delivers the trade offer for one item to the given trade URL
// under the account's linked Steam credential.
func (c *OfferClient) Send(ctx context.Context, item entity.TradeItem, tradeURL string, account *entity.Account) error {
	if !account.HasLinkedWallet() {
		return domain.NewError(errcodes.OfferDeliveryFailed,
			fmt.Sprintf("account %d has no linked steam credential", account.UserID))
	}

	body, err := json.Marshal(sendOfferRequest{
		AccountName: account.Steam.AccountName,
		TradeURL:    tradeURL,
		AssetID:     item.AssetID,
		MarketName:  item.MarketName,
	})
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.bridgeURL+"/trade/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http.NewRequest: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WrapError(err, errcodes.OfferDeliveryFailed,
			fmt.Sprintf("offer delivery for account %d", account.UserID))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.NewError(errcodes.OfferDeliveryFailed,
			fmt.Sprintf("offer daemon status %d: %s", resp.StatusCode, bytes.TrimSpace(b)))
	}

	var result sendOfferResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return domain.WrapError(err, errcodes.OfferDeliveryFailed, "decode offer daemon response")
	}
	if !result.Success {
		return domain.NewError(errcodes.OfferDeliveryFailed, result.Message)
	}

	return nil
}
