package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DealsSubmitted counts products accepted into the moderation queue.
	DealsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "deals_submitted_total",
		Help: "The total number of deals submitted for moderation",
	})

	// DealsApproved counts pending products approved by an admin.
	DealsApproved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "deals_approved_total",
		Help: "The total number of deals approved",
	})

	// DealsRejected counts pending products rejected (and deleted) by an admin.
	DealsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "deals_rejected_total",
		Help: "The total number of deals rejected",
	})

	// DealViews counts recorded product views.
	DealViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "deal_views_total",
		Help: "The total number of recorded deal views",
	})

	// EngagementToggles counts like/dislike toggles by action.
	EngagementToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engagement_toggles_total",
		Help: "The total number of like/dislike toggles",
	}, []string{"action"})
)
