// Package metrics holds the recommendation service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EngineDuration measures one engine operation, labelled by kind.
	EngineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_engine_duration_seconds",
			Help:    "Duration of recommendation engine operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"kind"},
	)

	EngineResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_engine_results",
			Help:    "Number of entities returned per engine operation",
			Buckets: []float64{0, 1, 3, 6, 10, 25, 50, 100},
		},
		[]string{"kind"},
	)

	// ActivitiesTracked counts activity calls by outcome: tracked, ignored, invalid.
	ActivitiesTracked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_activities_total",
			Help: "Activity tracking calls by outcome",
		},
		[]string{"status"},
	)

	// ReviewsSubmitted counts review submissions: created, updated, refused.
	ReviewsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_reviews_total",
			Help: "Review submissions by outcome",
		},
		[]string{"outcome"},
	)

	SideEffectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_side_effect_failures_total",
			Help: "Best-effort publish or index calls that failed",
		},
		[]string{"sink"},
	)
)
