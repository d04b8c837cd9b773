package worker

import (
	"context"
	"fmt"
	"time"

	"empire_trader/internal/domain/entity"
	"empire_trader/internal/infrastructure/empire"
	"empire_trader/internal/infrastructure/stream"
	"empire_trader/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	defaultKeepAlive    = 30 * time.Second
	defaultPriceCeiling = 10
)

// Stream is the transport a session drives: one persistent trade event
// connection.
type Stream interface {
	Connect(ctx context.Context) error
	Close() error
	Emit(event string, payload any) error
	Messages() <-chan stream.Envelope
	Errors() <-chan error
}

// MetadataSource provides the identify handshake material.
type MetadataSource interface {
	SocketMetadata(ctx context.Context) (*empire.Metadata, error)
}

// TradeHandler consumes the two event families a session forwards.
type TradeHandler interface {
	HandleTradeStatus(ctx context.Context, accountID int64, statuses []entity.TradeStatus)
	HandleListingUpdate(ctx context.Context, accountID int64, items []entity.ListingUpdate)
}

type Notifier interface {
	Emit(message string, kind entity.EventKind)
}

// Session owns one account's event stream: it connects, narrows the
// firehose with a price filter, identifies, subscribes to peer-to-peer
// item events and then forwards trade updates into the handler until
// the context ends. A timesync ping keeps the connection alive.
type Session struct {
	account  *entity.Account
	stream   Stream
	api      MetadataSource
	handler  TradeHandler
	notifier Notifier

	keepAlive    time.Duration
	priceCeiling int64
}

type Option func(*Session)

func WithKeepAlive(d time.Duration) Option {
	return func(s *Session) {
		s.keepAlive = d
	}
}

// WithPriceCeiling sets the price_max stream filter, in coins.
func WithPriceCeiling(ceiling int64) Option {
	return func(s *Session) {
		s.priceCeiling = ceiling
	}
}

func NewSession(
	account *entity.Account,
	str Stream,
	api MetadataSource,
	handler TradeHandler,
	notifier Notifier,
	opts ...Option,
) *Session {
	s := &Session{
		account:      account,
		stream:       str,
		api:          api,
		handler:      handler,
		notifier:     notifier,
		keepAlive:    defaultKeepAlive,
		priceCeiling: defaultPriceCeiling,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type identifyPayload struct {
	UID                int64               `json:"uid"`
	Model              empire.MetadataUser `json:"model"`
	AuthorizationToken string              `json:"authorizationToken"`
	Signature          string              `json:"signature"`
}

type filtersPayload struct {
	PriceMax int64 `json:"price_max"`
}

// Run connects and processes events until ctx is canceled or the
// stream fails. The caller decides whether to restart.
func (s *Session) Run(ctx context.Context) error {
	ctx = contextx.WithAccountID(ctx, contextx.AccountID(s.account.UserID))

	if err := s.stream.Connect(ctx); err != nil {
		return fmt.Errorf("stream.Connect: %w", err)
	}
	defer s.stream.Close()

	if err := s.handshake(ctx); err != nil {
		return err
	}

	return s.eventLoop(ctx)
}

// handshake mirrors the marketplace's connect choreography: filters
// first to cut bandwidth, then identify with fresh metadata, then the
// item subscription.
func (s *Session) handshake(ctx context.Context) error {
	if err := s.stream.Emit(stream.EventFilters, filtersPayload{PriceMax: s.priceCeiling}); err != nil {
		return fmt.Errorf("emit filters: %w", err)
	}

	s.notifier.Emit(
		fmt.Sprintf("CSGOEmpire Socket connected for user: %d.", s.account.UserID),
		entity.KindConnect,
	)

	meta, err := s.api.SocketMetadata(ctx)
	if err != nil {
		// Without metadata the stream stays anonymous and silent.
		return fmt.Errorf("api.SocketMetadata: %w", err)
	}

	err = s.stream.Emit(stream.EventIdentify, identifyPayload{
		UID:                meta.User.ID,
		Model:              meta.User,
		AuthorizationToken: meta.SocketToken,
		Signature:          meta.SocketSignature,
	})
	if err != nil {
		return fmt.Errorf("emit identify: %w", err)
	}

	if err := s.stream.Emit(stream.EventSubscribe, 1); err != nil {
		return fmt.Errorf("emit subscribe: %w", err)
	}

	return nil
}

func (s *Session) eventLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			if err := s.stream.Emit(stream.EventTimesync, nil); err != nil {
				logger(ctx).Warn("timesync failed", "error", err)
			}

		case err := <-s.stream.Errors():
			s.notifier.Emit(
				fmt.Sprintf("Socket error for user %d: %s", s.account.UserID, err),
				entity.KindFailure,
			)
			return fmt.Errorf("stream error: %w", err)

		case env, ok := <-s.stream.Messages():
			if !ok {
				return fmt.Errorf("stream closed")
			}
			s.handleEvent(ctx, env)
		}
	}
}

func (s *Session) handleEvent(ctx context.Context, env stream.Envelope) {
	switch env.Event {
	case stream.EventInit:
		s.handleInit(ctx, env.Data)

	case stream.EventUpdatedItem:
		items, err := stream.DecodeBatch[entity.ListingUpdate](env.Data)
		if err != nil {
			logger(ctx).Warn("bad updated_item payload", "error", err)
			return
		}
		s.handler.HandleListingUpdate(ctx, s.account.UserID, items)

	case stream.EventTradeStatus:
		statuses, err := stream.DecodeBatch[entity.TradeStatus](env.Data)
		if err != nil {
			logger(ctx).Warn("bad trade_status payload", "error", err)
			return
		}
		s.handler.HandleTradeStatus(ctx, s.account.UserID, statuses)

	case stream.EventError:
		logger(ctx).Error("stream error event", "data", string(env.Data))

	default:
		logger(ctx).Debug("unhandled stream event", "event", env.Event)
	}
}

func (s *Session) handleInit(ctx context.Context, data []byte) {
	var init struct {
		Authenticated bool `json:"authenticated"`
	}
	if err := stream.Unmarshal(data, &init); err != nil {
		logger(ctx).Warn("bad init payload", "error", err)
		return
	}

	if init.Authenticated {
		s.notifier.Emit(
			fmt.Sprintf("CSGOEmpire Socket authenticated successfully for user: %d.", s.account.UserID),
			entity.KindAuthenticated,
		)
	}
}
