// Package metrics holds the prometheus collectors for progression events.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// XPAwarded counts XP credited by source (quest, mystery_box).
	XPAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyquest_xp_awarded_total",
		Help: "Total XP credited to users by source",
	}, []string{"source"})

	AchievementsUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyquest_achievements_unlocked_total",
		Help: "Achievements unlocked by category",
	}, []string{"category"})

	QuestsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyquest_quests_completed_total",
		Help: "Daily quests completed by difficulty",
	}, []string{"difficulty"})

	// BoxesOpened counts opened mystery boxes by rarity and reward type.
	BoxesOpened = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyquest_mystery_boxes_opened_total",
		Help: "Mystery boxes opened by rarity and reward type",
	}, []string{"rarity", "reward_type"})

	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studyquest_posts_created_total",
		Help: "Learning posts created",
	})

	LevelUps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studyquest_level_ups_total",
		Help: "Level increases across all users",
	})

	// CoachRequests counts coach relay calls by action and result
	// (ok, rate_limited, payment_required, error, cached).
	CoachRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyquest_coach_requests_total",
		Help: "AI coach requests by action and result",
	}, []string{"action", "result"})

	CoachLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "studyquest_coach_request_duration_seconds",
		Help:    "AI coach upstream latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"action"})

	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "studyquest_websocket_clients",
		Help: "Currently connected websocket clients",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyquest_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"route", "code"})
)
