package tracker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	tradeEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "empire_trade_events_total",
		Help: "Trade status transitions received, by account and status.",
	}, []string{"account", "status"})

	offersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "empire_offers_total",
		Help: "Trade offer delivery attempts, by account and result.",
	}, []string{"account", "result"})

	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "empire_offer_retries_total",
		Help: "Retry timer fires re-dispatching an unsent offer.",
	}, []string{"account"})

	priceUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "empire_price_updates_total",
		Help: "Listing price updates matched to a tracked deposit.",
	}, []string{"account"})

	delistsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "empire_delists_total",
		Help: "Items delisted after price drift beyond the threshold.",
	}, []string{"account"})
)
