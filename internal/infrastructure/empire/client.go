package empire

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"

	"empire_trader/internal/domain"
	"empire_trader/internal/domain/entity"
	"empire_trader/pkg/errcodes"
	"empire_trader/pkg/httpx"
	"empire_trader/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	inventoryCacheTTL = time.Minute
	requestTimeout    = 15 * time.Second
)

// Client is the account-scoped facade over the four marketplace HTTP
// operations. Every call is bearer-authenticated and stamped with the
// descriptive client identifier.
type Client struct {
	account        *entity.Account
	httpClient     *http.Client
	baseURL        string
	inventoryCache *cache.Cache
}

type apiKeyAuthenticator struct {
	key string
}

func (a apiKeyAuthenticator) Authenticate(context.Context) error { return nil }
func (a apiKeyAuthenticator) BearerToken() string                { return a.key }

type Option func(*Client)

// WithBaseURL overrides the https://<origin> base, used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func NewClient(account *entity.Account, opts ...Option) *Client {
	var rt http.RoundTripper = http.DefaultTransport
	rt = httpx.NewAuthBearerRoundTripper(rt, apiKeyAuthenticator{key: account.APIKey})
	rt = httpx.NewUserAgentRoundTripper(rt, fmt.Sprintf("%d API Bot", account.UserID))
	rt = httpx.NewLoggingRoundTripper(rt, httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()))

	c := &Client{
		account: account,
		httpClient: &http.Client{
			Transport: rt,
			Timeout:   requestTimeout,
		},
		baseURL:        fmt.Sprintf("https://%s", account.Origin),
		inventoryCache: cache.New(inventoryCacheTTL, inventoryCacheTTL),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Account() *entity.Account {
	return c.account
}

// SocketMetadata fetches the session metadata used for the identify
// handshake.
func (c *Client) SocketMetadata(ctx context.Context) (*Metadata, error) {
	var meta Metadata
	if err := c.get(ctx, "/api/v2/metadata/socket", &meta); err != nil {
		return nil, c.opError(err, "requestMetadata")
	}

	return &meta, nil
}

// UserInventory fetches the account's tradable inventory. Responses are
// cached for a minute to keep the status API cheap.
func (c *Client) UserInventory(ctx context.Context) (*Inventory, error) {
	if cached, ok := c.inventoryCache.Get("inventory"); ok {
		return cached.(*Inventory), nil
	}

	var inv Inventory
	if err := c.get(ctx, "/api/v2/trading/user/inventory?app=730", &inv); err != nil {
		return nil, c.opError(err, "getUserInventory")
	}

	c.inventoryCache.SetDefault("inventory", &inv)

	return &inv, nil
}

// Delist cancels an active listing by bot id.
func (c *Client) Delist(ctx context.Context, botID int64) error {
	var resp CancelResponse
	err := c.post(ctx, fmt.Sprintf("/api/v2/trading/deposit/%d/cancel", botID), idPayload{ID: botID}, &resp)
	if err != nil {
		return c.opError(err, "delistItem")
	}
	if !resp.Success {
		return domain.NewError(errcodes.DelistFailed,
			fmt.Sprintf("bad response from %s at 'delistItem': %s", c.account.Origin, resp.Message))
	}

	return nil
}

// ConfirmTrade confirms a deposit while the seller is away.
func (c *Client) ConfirmTrade(ctx context.Context, depositID int64) error {
	var resp CancelResponse
	err := c.post(ctx, "/api/v2/p2p/afk-confirm", idPayload{ID: depositID}, &resp)
	if err != nil {
		return c.opError(err, "confirmTrade")
	}
	if !resp.Success {
		return domain.NewError(errcodes.ConfirmFailed,
			fmt.Sprintf("bad response from %s at 'confirmTrade': %s", c.account.Origin, resp.Message))
	}

	return nil
}

type idPayload struct {
	ID int64 `json:"id"`
}

func (c *Client) get(ctx context.Context, endpoint string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("http.NewRequest: %w", err)
	}

	return c.do(req, dest)
}

func (c *Client) post(ctx context.Context, endpoint string, body, dest any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("http.NewRequest: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, dest)
}

func (c *Client) do(req *http.Request, dest any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpClient.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("json.Decode: %w", err)
	}

	return nil
}

func (c *Client) opError(err error, operation string) error {
	return domain.WrapError(err, errcodes.BadMarketplaceResponse,
		fmt.Sprintf("bad response from %s at '%s'", c.account.Origin, operation))
}
