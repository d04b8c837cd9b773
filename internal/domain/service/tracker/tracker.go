package tracker

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"empire_trader/internal/domain/entity"
	"empire_trader/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const defaultRetryDelay = 30 * time.Minute

// Notifier is the fire-and-forget operator sink.
type Notifier interface {
	Emit(message string, kind entity.EventKind)
}

// Marketplace covers the single remote call the tracker issues itself.
type Marketplace interface {
	Delist(ctx context.Context, accountID, botID int64) error
}

// OfferSender delivers a platform trade offer directly.
type OfferSender interface {
	Send(ctx context.Context, item entity.TradeItem, tradeURL string, account *entity.Account) error
}

// LinkOpener opens a trade URL on the host for the external-client
// handoff.
type LinkOpener interface {
	Open(url string) error
}

// TradeLog receives terminal transitions. Optional.
type TradeLog interface {
	Record(ctx context.Context, e entity.TradeLogEntry) error
}

// book holds one account's live state: active deposit records and armed
// retry timers, both keyed by deposit id.
type book struct {
	account  *entity.Account
	deposits map[int64]*entity.Deposit
	timers   map[int64]*time.Timer
}

// Tracker is the trade lifecycle state machine. It consumes listing
// price updates and trade status transitions per account, decides when
// and how to dispatch a trade offer, arms and disarms retry timers and
// reacts to price drift by delisting.
//
// All state mutations happen under one mutex: handlers are invoked from
// per-account session goroutines and from timer callbacks.
type Tracker struct {
	notifier   Notifier
	market     Marketplace
	offers     OfferSender
	opener     LinkOpener
	tradeLog   TradeLog
	retryDelay time.Duration

	mu    sync.Mutex
	books map[int64]*book
}

type Option func(*Tracker)

func WithRetryDelay(d time.Duration) Option {
	return func(t *Tracker) {
		t.retryDelay = d
	}
}

// WithTradeLog enables persistence of terminal transitions.
func WithTradeLog(log TradeLog) Option {
	return func(t *Tracker) {
		t.tradeLog = log
	}
}

func NewTracker(
	notifier Notifier,
	market Marketplace,
	offers OfferSender,
	opener LinkOpener,
	opts ...Option,
) *Tracker {
	t := &Tracker{
		notifier:   notifier,
		market:     market,
		offers:     offers,
		opener:     opener,
		retryDelay: defaultRetryDelay,
		books:      make(map[int64]*book),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Register creates the per-account book. Called once per account before
// its session starts forwarding events.
func (t *Tracker) Register(account *entity.Account) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.books[account.UserID]; ok {
		return
	}

	t.books[account.UserID] = &book{
		account:  account,
		deposits: make(map[int64]*entity.Deposit),
		timers:   make(map[int64]*time.Timer),
	}
}

// HandleTradeStatus drives the per-deposit state machine. Events whose
// type discriminator is not "deposit" and unknown status values are
// inert.
func (t *Tracker) HandleTradeStatus(ctx context.Context, accountID int64, statuses []entity.TradeStatus) {
	for _, st := range statuses {
		if st.Type != entity.TradeTypeDeposit {
			continue
		}

		t.handleTransition(ctx, accountID, st)
	}
}

func (t *Tracker) handleTransition(ctx context.Context, accountID int64, st entity.TradeStatus) {
	t.mu.Lock()
	b, ok := t.books[accountID]
	t.mu.Unlock()
	if !ok {
		logger(ctx).Warn("trade status for unknown account", "account", accountID)
		return
	}

	itemName := st.Data.Item.MarketName
	tradeEventsTotal.WithLabelValues(strconv.FormatInt(accountID, 10), string(st.Data.StatusMessage)).Inc()

	switch st.Data.StatusMessage {
	case entity.StatusProcessing:
		t.notifier.Emit(
			fmt.Sprintf("User listed '%s' for %d coins.", itemName, st.Data.Item.MarketValue),
			entity.KindTradeProcessing,
		)

	case entity.StatusConfirming:
		price := t.recordPrice(b, st)
		t.notifier.Emit(
			fmt.Sprintf("Deposit '%s' are confirming for %s coins.", itemName, coins(price)),
			entity.KindTradeConfirming,
		)

	case entity.StatusSending:
		t.dispatch(ctx, b, st)

	case entity.StatusSent:
		t.cancelRetry(b, st.Data.ID)

	case entity.StatusCompleted:
		t.cancelRetry(b, st.Data.ID)
		price := t.recordedPrice(b, st.Data.ID)
		t.notifier.Emit(
			fmt.Sprintf("%s has sold for %s", itemName, coins(price)),
			entity.KindTradeCompleted,
		)
		t.evict(ctx, b, st, price)

	case entity.StatusTimedOut:
		t.notifier.Emit(
			fmt.Sprintf("Deposit offer for %s was not accepted by buyer.", itemName),
			entity.KindTradeTimedOut,
		)
		t.evict(ctx, b, st, t.recordedPrice(b, st.Data.ID))

	case entity.StatusCanceled:
		t.notifier.Emit(
			fmt.Sprintf("Trade for %s was canceled by user.", itemName),
			entity.KindTradeCanceled,
		)
		t.evict(ctx, b, st, t.recordedPrice(b, st.Data.ID))

	default:
		// Unrecognized transitions are inert, not fatal.
	}
}

// recordPrice sets the deposit record on Confirming. The price is
// total_value when present, else the item's market value, and is never
// overwritten by a repeated Confirming for a live record.
func (t *Tracker) recordPrice(b *book, st entity.TradeStatus) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := b.deposits[st.Data.ID]; ok {
		return existing.Price
	}

	price := st.Data.TotalValue
	if price == 0 {
		price = st.Data.Item.MarketValue
	}

	b.deposits[st.Data.ID] = &entity.Deposit{
		ID:        st.Data.ID,
		ItemName:  st.Data.Item.MarketName,
		Price:     price,
		AccountID: b.account.UserID,
	}

	return price
}

func (t *Tracker) recordedPrice(b *book, depositID int64) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if d, ok := b.deposits[depositID]; ok {
		return d.Price
	}

	return 0
}

// evict drops the deposit record and any timer once a terminal state is
// reached, and appends the transition to the trade log when enabled.
func (t *Tracker) evict(ctx context.Context, b *book, st entity.TradeStatus, price int64) {
	t.mu.Lock()
	delete(b.deposits, st.Data.ID)
	if timer, ok := b.timers[st.Data.ID]; ok {
		timer.Stop()
		delete(b.timers, st.Data.ID)
	}
	t.mu.Unlock()

	if t.tradeLog == nil {
		return
	}

	entry := entity.TradeLogEntry{
		DepositID:  st.Data.ID,
		AccountID:  b.account.UserID,
		ItemName:   st.Data.Item.MarketName,
		Price:      price,
		Status:     st.Data.StatusMessage,
		RecordedAt: time.Now(),
	}
	if err := t.tradeLog.Record(ctx, entry); err != nil {
		logger(ctx).Error("trade log record failed", "error", err, "deposit", st.Data.ID)
	}
}

// HandleListingUpdate reacts to price drift on listed items. Updates
// without a matching deposit record are ignored.
func (t *Tracker) HandleListingUpdate(ctx context.Context, accountID int64, items []entity.ListingUpdate) {
	t.mu.Lock()
	b, ok := t.books[accountID]
	t.mu.Unlock()
	if !ok {
		return
	}

	for _, item := range items {
		t.handlePriceDrift(ctx, b, item)
	}
}

func (t *Tracker) handlePriceDrift(ctx context.Context, b *book, item entity.ListingUpdate) {
	t.mu.Lock()
	record, ok := b.deposits[item.ID]
	t.mu.Unlock()
	if !ok {
		return
	}

	// Sign inverted so a drop below the recorded value yields a
	// positive percent comparable with the delist threshold.
	percent := float64(item.MarketValue-record.Price) / float64(record.Price) * 100 * -1

	prefix := "+"
	if percent > 0 {
		prefix = "-"
	}
	abs := percent
	if abs < 0 {
		abs = -abs
	}

	priceUpdatesTotal.WithLabelValues(strconv.FormatInt(b.account.UserID, 10)).Inc()
	t.notifier.Emit(
		fmt.Sprintf("Price changed for %s, %s => %s - %s%.2f%%",
			item.MarketName, coins(item.MarketValue), coins(record.Price), prefix, abs),
		entity.KindPriceChanged,
	)

	if percent <= b.account.DelistThreshold {
		return
	}

	if err := t.market.Delist(ctx, b.account.UserID, item.BotID); err != nil {
		// Failed delists are swallowed: notified, never retried.
		t.notifier.Emit(err.Error(), entity.KindFailure)
		return
	}

	delistsTotal.WithLabelValues(strconv.FormatInt(b.account.UserID, 10)).Inc()
	t.notifier.Emit(
		fmt.Sprintf("The item '%s' was successfully delisted.", item.MarketName),
		entity.KindDelisted,
	)
}

// Deposits returns a point-in-time snapshot of all live deposit
// records, ordered by deposit id.
func (t *Tracker) Deposits() []entity.Deposit {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []entity.Deposit
	for _, b := range t.books {
		for _, d := range b.deposits {
			out = append(out, *d)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// coins renders minor currency units the way the marketplace displays
// them.
func coins(v int64) string {
	return strconv.FormatFloat(float64(v)/100, 'f', -1, 64)
}
