package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Results recorded by wishlist_shared_reads_total.
const (
	sharedReadOK           = "ok"
	sharedReadInvalidToken = "invalid_token"
	sharedReadNoWishlist   = "no_wishlist"
	sharedReadError        = "error"
)

var (
	itemsUpserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wishlist_items_upserted_total",
			Help: "Total number of wishlist item add-or-update operations",
		},
	)

	shareTokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wishlist_share_tokens_issued_total",
			Help: "Total number of wishlist share tokens issued",
		},
	)

	sharedReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wishlist_shared_reads_total",
			Help: "Total number of public wishlist reads by share token",
		},
		[]string{"result"},
	)
)
