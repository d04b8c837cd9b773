package tracker_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"empire_trader/internal/domain/entity"
	"empire_trader/internal/domain/service/tracker"
)

type fakeNotifier struct {
	mu     sync.Mutex
	events []entity.Notification
}

func (f *fakeNotifier) Emit(message string, kind entity.EventKind) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, entity.Notification{Message: message, Kind: kind})
}

func (f *fakeNotifier) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Message)
	}

	return out
}

func (f *fakeNotifier) kinds() []entity.EventKind {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]entity.EventKind, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Kind)
	}

	return out
}

type fakeMarketplace struct {
	mu      sync.Mutex
	err     error
	delists []int64
}

func (f *fakeMarketplace) Delist(_ context.Context, _ int64, botID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.delists = append(f.delists, botID)

	return nil
}

func (f *fakeMarketplace) delisted() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]int64(nil), f.delists...)
}

type fakeOfferSender struct {
	mu    sync.Mutex
	err   error
	sends []string
}

func (f *fakeOfferSender) Send(_ context.Context, item entity.TradeItem, _ string, _ *entity.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.sends = append(f.sends, item.MarketName)

	return nil
}

func (f *fakeOfferSender) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.sends...)
}

type fakeOpener struct {
	mu   sync.Mutex
	urls []string
}

func (f *fakeOpener) Open(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.urls = append(f.urls, url)

	return nil
}

func (f *fakeOpener) opened() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.urls...)
}

type fakeTradeLog struct {
	mu      sync.Mutex
	entries []entity.TradeLogEntry
}

func (f *fakeTradeLog) Record(_ context.Context, e entity.TradeLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries = append(f.entries, e)

	return nil
}

func (f *fakeTradeLog) recorded() []entity.TradeLogEntry {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]entity.TradeLogEntry(nil), f.entries...)
}

const testAccountID = int64(101)

func manualAccount() *entity.Account {
	return &entity.Account{
		UserID:          testAccountID,
		Origin:          "csgoempire.com",
		APIKey:          "k",
		DelistThreshold: 5,
	}
}

func depositStatus(id int64, status entity.DepositStatus) entity.TradeStatus {
	return entity.TradeStatus{
		Type: entity.TradeTypeDeposit,
		Data: entity.TradeStatusData{
			ID:            id,
			StatusMessage: status,
			TotalValue:    5000,
			Item: entity.TradeItem{
				MarketName:  "AK-47 | Redline (Field-Tested)",
				MarketValue: 4800,
				AssetID:     "31211516713",
			},
			Metadata: entity.TradeMetadata{TradeURL: "https://steamcommunity.com/tradeoffer/new/?partner=1&token=x"},
		},
	}
}

func newTestTracker(account *entity.Account, opts ...tracker.Option) (*tracker.Tracker, *fakeNotifier, *fakeMarketplace, *fakeOfferSender, *fakeOpener) {
	notifier := &fakeNotifier{}
	market := &fakeMarketplace{}
	offers := &fakeOfferSender{}
	opener := &fakeOpener{}

	tr := tracker.NewTracker(notifier, market, offers, opener, opts...)
	tr.Register(account)

	return tr, notifier, market, offers, opener
}

func TestTrackerProcessingNotifies(t *testing.T) {
	rq := require.New(t)

	tr, notifier, _, _, _ := newTestTracker(manualAccount())

	tr.HandleTradeStatus(context.Background(), testAccountID,
		[]entity.TradeStatus{depositStatus(1, entity.StatusProcessing)})

	rq.Equal([]string{"User listed 'AK-47 | Redline (Field-Tested)' for 4800 coins."}, notifier.messages())
	rq.Equal([]entity.EventKind{entity.KindTradeProcessing}, notifier.kinds())
	rq.Empty(tr.Deposits(), "processing must not create a deposit record")
}

func TestTrackerConfirmingRecordsPrice(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name        string
		totalValue  int64
		marketValue int64
		wantPrice   int64
		wantMessage string
	}{
		{
			name:        "Total value preferred",
			totalValue:  5000,
			marketValue: 4800,
			wantPrice:   5000,
			wantMessage: "Deposit 'AK-47 | Redline (Field-Tested)' are confirming for 50 coins.",
		},
		{
			name:        "Market value fallback",
			totalValue:  0,
			marketValue: 4800,
			wantPrice:   4800,
			wantMessage: "Deposit 'AK-47 | Redline (Field-Tested)' are confirming for 48 coins.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			tr, notifier, _, _, _ := newTestTracker(manualAccount())

			st := depositStatus(7, entity.StatusConfirming)
			st.Data.TotalValue = tc.totalValue
			st.Data.Item.MarketValue = tc.marketValue

			tr.HandleTradeStatus(context.Background(), testAccountID, []entity.TradeStatus{st})

			deposits := tr.Deposits()
			rq.Len(deposits, 1)
			rq.Equal(tc.wantPrice, deposits[0].Price)
			rq.Equal([]string{tc.wantMessage}, notifier.messages())
		})
	}
}

func TestTrackerConfirmingDoesNotOverwritePrice(t *testing.T) {
	rq := require.New(t)

	tr, _, _, _, _ := newTestTracker(manualAccount())

	first := depositStatus(7, entity.StatusConfirming)
	tr.HandleTradeStatus(context.Background(), testAccountID, []entity.TradeStatus{first})

	second := depositStatus(7, entity.StatusConfirming)
	second.Data.TotalValue = 9999
	tr.HandleTradeStatus(context.Background(), testAccountID, []entity.TradeStatus{second})

	deposits := tr.Deposits()
	rq.Len(deposits, 1)
	rq.Equal(int64(5000), deposits[0].Price, "repeated confirming must keep the original price")
}

func TestTrackerTerminalStatesEvict(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name        string
		status      entity.DepositStatus
		wantMessage string
		wantKind    entity.EventKind
	}{
		{
			name:        "Completed",
			status:      entity.StatusCompleted,
			wantMessage: "AK-47 | Redline (Field-Tested) has sold for 50",
			wantKind:    entity.KindTradeCompleted,
		},
		{
			name:        "Timed out",
			status:      entity.StatusTimedOut,
			wantMessage: "Deposit offer for AK-47 | Redline (Field-Tested) was not accepted by buyer.",
			wantKind:    entity.KindTradeTimedOut,
		},
		{
			name:        "Canceled",
			status:      entity.StatusCanceled,
			wantMessage: "Trade for AK-47 | Redline (Field-Tested) was canceled by user.",
			wantKind:    entity.KindTradeCanceled,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			tradeLog := &fakeTradeLog{}
			tr, notifier, _, _, _ := newTestTracker(manualAccount(), tracker.WithTradeLog(tradeLog))

			ctx := context.Background()
			tr.HandleTradeStatus(ctx, testAccountID,
				[]entity.TradeStatus{depositStatus(7, entity.StatusConfirming)})
			tr.HandleTradeStatus(ctx, testAccountID,
				[]entity.TradeStatus{depositStatus(7, tc.status)})

			rq.Empty(tr.Deposits(), "terminal state must evict the record")

			messages := notifier.messages()
			rq.Len(messages, 2)
			rq.Equal(tc.wantMessage, messages[1])
			rq.Equal(tc.wantKind, notifier.kinds()[1])

			entries := tradeLog.recorded()
			rq.Len(entries, 1)
			rq.Equal(int64(7), entries[0].DepositID)
			rq.Equal(testAccountID, entries[0].AccountID)
			rq.Equal(int64(5000), entries[0].Price)
			rq.Equal(tc.status, entries[0].Status)
		})
	}
}

func TestTrackerIgnoresNonDepositEvents(t *testing.T) {
	rq := require.New(t)

	tr, notifier, _, _, _ := newTestTracker(manualAccount())

	st := depositStatus(1, entity.StatusProcessing)
	st.Type = "withdrawal"

	tr.HandleTradeStatus(context.Background(), testAccountID, []entity.TradeStatus{st})

	rq.Empty(notifier.messages())
}

func TestTrackerIgnoresUnknownAccount(t *testing.T) {
	rq := require.New(t)

	tr, notifier, _, _, _ := newTestTracker(manualAccount())

	tr.HandleTradeStatus(context.Background(), 999,
		[]entity.TradeStatus{depositStatus(1, entity.StatusProcessing)})

	rq.Empty(notifier.messages())
	rq.Empty(tr.Deposits())
}

func TestTrackerPriceDrift(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name        string
		marketValue int64
		wantDelist  bool
		wantMessage string
	}{
		{
			// (4500-5000)/5000*100*-1 = 10 > 5
			name:        "Drop beyond threshold delists",
			marketValue: 4500,
			wantDelist:  true,
			wantMessage: "Price changed for AK-47 | Redline (Field-Tested), 45 => 50 - -10.00%",
		},
		{
			// (4750-5000)/5000*100*-1 = 5, not strictly above 5
			name:        "Drop at threshold stays listed",
			marketValue: 4750,
			wantDelist:  false,
			wantMessage: "Price changed for AK-47 | Redline (Field-Tested), 47.5 => 50 - -5.00%",
		},
		{
			name:        "Rise stays listed",
			marketValue: 5500,
			wantDelist:  false,
			wantMessage: "Price changed for AK-47 | Redline (Field-Tested), 55 => 50 - +10.00%",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			tr, notifier, market, _, _ := newTestTracker(manualAccount())

			ctx := context.Background()
			tr.HandleTradeStatus(ctx, testAccountID,
				[]entity.TradeStatus{depositStatus(7, entity.StatusConfirming)})

			tr.HandleListingUpdate(ctx, testAccountID, []entity.ListingUpdate{{
				ID:          7,
				MarketName:  "AK-47 | Redline (Field-Tested)",
				MarketValue: tc.marketValue,
				BotID:       42,
			}})

			messages := notifier.messages()
			rq.Len(messages, 2, "price change must always notify")
			rq.Equal(tc.wantMessage, messages[1])

			if tc.wantDelist {
				rq.Equal([]int64{42}, market.delisted())
				rq.Contains(notifier.messages(), "The item 'AK-47 | Redline (Field-Tested)' was successfully delisted.")
			} else {
				rq.Empty(market.delisted())
			}
		})
	}
}

func TestTrackerPriceDriftDelistFailureNotifies(t *testing.T) {
	rq := require.New(t)

	notifier := &fakeNotifier{}
	market := &fakeMarketplace{err: errors.New("marketplace down")}

	tr := tracker.NewTracker(notifier, market, &fakeOfferSender{}, &fakeOpener{})
	tr.Register(manualAccount())

	ctx := context.Background()
	tr.HandleTradeStatus(ctx, testAccountID,
		[]entity.TradeStatus{depositStatus(7, entity.StatusConfirming)})
	tr.HandleListingUpdate(ctx, testAccountID, []entity.ListingUpdate{{
		ID: 7, MarketName: "AK-47 | Redline (Field-Tested)", MarketValue: 4000, BotID: 42,
	}})

	kinds := notifier.kinds()
	rq.Equal(entity.KindFailure, kinds[len(kinds)-1])
	rq.Len(tr.Deposits(), 1, "failed delist must not evict the record")
}

func TestTrackerPriceDriftIgnoresUntrackedItems(t *testing.T) {
	rq := require.New(t)

	tr, notifier, market, _, _ := newTestTracker(manualAccount())

	tr.HandleListingUpdate(context.Background(), testAccountID, []entity.ListingUpdate{{
		ID: 404, MarketName: "Glock-18 | Fade", MarketValue: 1000, BotID: 1,
	}})

	rq.Empty(notifier.messages())
	rq.Empty(market.delisted())
}

func TestTrackerDepositsSnapshotOrdered(t *testing.T) {
	rq := require.New(t)

	tr, _, _, _, _ := newTestTracker(manualAccount())

	ctx := context.Background()
	for _, id := range []int64{9, 3, 7} {
		tr.HandleTradeStatus(ctx, testAccountID,
			[]entity.TradeStatus{depositStatus(id, entity.StatusConfirming)})
	}

	deposits := tr.Deposits()
	rq.Len(deposits, 3)
	rq.Equal(int64(3), deposits[0].ID)
	rq.Equal(int64(7), deposits[1].ID)
	rq.Equal(int64(9), deposits[2].ID)
}
