package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeLoaded      = "loaded"
	OutcomeEmpty       = "empty"
	OutcomeNotSignedIn = "not_signed_in"
	OutcomeFailed      = "failed"
	OutcomeRateLimited = "rate_limited"
)

var (
	OrderHistoryFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_history_fetch_total",
			Help: "Order history requests by outcome",
		},
		[]string{"outcome"},
	)

	DanglingProductRefs = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_dangling_product_refs_total",
			Help: "Order lines dropped because their product does not exist",
		},
	)

	ProductLookupBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orders_product_lookup_batch_size",
			Help:    "Number of product ids per catalog multi-get",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 50, 100},
		},
	)
)
