package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// notificationsEmitted counts notification rows written, by type
	notificationsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_notifications_emitted_total",
			Help: "Total number of notifications created.",
		},
		[]string{"type"},
	)

	// friendshipTransitions counts friendship state changes, by resulting status
	friendshipTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_friendship_transitions_total",
			Help: "Total number of friendship state transitions.",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(notificationsEmitted, friendshipTransitions)
}
