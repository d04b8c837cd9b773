package tracker

import (
	"context"
	"fmt"
	"time"

	"empire_trader/internal/domain/entity"
)

// dispatch reacts to the Sending transition: the buyer accepted and the
// offer now has to reach them. Three mutually exclusive strategies,
// selected by account configuration. Only the external handoff arms a
// retry timer, because it is the only strategy without delivery
// confirmation.
func (t *Tracker) dispatch(ctx context.Context, b *book, st entity.TradeStatus) {
	if !st.Data.Metadata.HasTradeURL() {
		// The buyer has not set a trade URL yet. Nothing to deliver.
		logger(ctx).Debug("no trade url for deposit, skipping dispatch",
			"deposit", st.Data.ID, "account", b.account.UserID)
		return
	}

	price := t.recordedPrice(b, st.Data.ID)

	switch {
	case b.account.HasLinkedWallet():
		t.dispatchSteam(ctx, b, st)

	case b.account.Csgotrader:
		t.dispatchExternal(ctx, b, st, price)

	default:
		t.notifier.Emit(
			fmt.Sprintf("Deposit offer for %s - %d coins, accepted, go send go go",
				st.Data.Item.MarketName, price),
			entity.KindTradeSending,
		)
	}
}

func (t *Tracker) dispatchSteam(ctx context.Context, b *book, st entity.TradeStatus) {
	accountLabel := fmt.Sprintf("%d", b.account.UserID)

	if err := t.offers.Send(ctx, st.Data.Item, st.Data.Metadata.TradeURL, b.account); err != nil {
		logger(ctx).Error("offer delivery failed",
			"error", err, "deposit", st.Data.ID, "account", b.account.UserID)
		t.notifier.Emit(err.Error(), entity.KindFailure)
		offersTotal.WithLabelValues(accountLabel, "error").Inc()
		return
	}

	offersTotal.WithLabelValues(accountLabel, "ok").Inc()
}

// dispatchExternal hands the trade to a browser-extension flow: the
// extension picks the item up from the csgotrader_send query parameter
// and files the offer from the operator's own browser session. There is
// no delivery confirmation, hence the retry timer.
func (t *Tracker) dispatchExternal(ctx context.Context, b *book, st entity.TradeStatus, price int64) {
	url := fmt.Sprintf("%s&csgotrader_send=your_id_730_2_%s",
		st.Data.Metadata.TradeURL, st.Data.Item.AssetID)

	t.notifier.Emit(
		fmt.Sprintf("Opening tradelink for %s - %d coins", st.Data.Item.MarketName, price),
		entity.KindTradeSending,
	)

	if err := t.opener.Open(url); err != nil {
		t.notifier.Emit(
			fmt.Sprintf("Failed to open tradelink for deposit %d: %s", st.Data.ID, err),
			entity.KindFailure,
		)
	}

	t.armRetry(ctx, b, st)
}

// armRetry schedules a re-dispatch in case the offer never reaches the
// Sent state. Arming replaces any timer already pending for the
// deposit, so a deposit carries at most one.
func (t *Tracker) armRetry(ctx context.Context, b *book, st entity.TradeStatus) {
	ctx = context.WithoutCancel(ctx)
	accountID := b.account.UserID

	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, ok := b.timers[st.Data.ID]; ok {
		timer.Stop()
	}

	b.timers[st.Data.ID] = time.AfterFunc(t.retryDelay, func() {
		t.mu.Lock()
		delete(b.timers, st.Data.ID)
		t.mu.Unlock()

		retriesTotal.WithLabelValues(fmt.Sprintf("%d", accountID)).Inc()
		t.notifier.Emit(
			fmt.Sprintf("Trade offer still not sent for %d, re-sending.", st.Data.ID),
			entity.KindTradeCanceled,
		)

		// Re-enter through the normal transition path so retries and
		// live events share one code path.
		t.HandleTradeStatus(ctx, accountID, []entity.TradeStatus{st})
	})
}

func (t *Tracker) cancelRetry(b *book, depositID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, ok := b.timers[depositID]; ok {
		timer.Stop()
		delete(b.timers, depositID)
	}
}
