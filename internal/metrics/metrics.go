package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Round finalization triggers.
const (
	TriggerAllSubmitted = "all_submitted"
	TriggerDeadline     = "deadline"
	TriggerDeparture    = "departure"
)

var (
	RoomsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "memory_party_rooms_active",
			Help: "Rooms currently held in the registry",
		},
	)
	ConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "memory_party_ws_connections_active",
			Help: "Open websocket connections",
		},
	)
	RoundsFinalized = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memory_party_rounds_finalized_total",
			Help: "Rounds scored, by what triggered the finalization",
		},
		[]string{"trigger"},
	)
	GamesFinished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "memory_party_games_finished_total",
			Help: "Games that reached the last level",
		},
	)
	MessagesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memory_party_ws_messages_received_total",
			Help: "Client messages received, by type",
		},
		[]string{"type"},
	)
	MessagesDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memory_party_ws_messages_dropped_total",
			Help: "Messages dropped, by reason",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(RoomsActive)
	prometheus.MustRegister(ConnectionsActive)
	prometheus.MustRegister(RoundsFinalized)
	prometheus.MustRegister(GamesFinished)
	prometheus.MustRegister(MessagesReceived)
	prometheus.MustRegister(MessagesDropped)
}
