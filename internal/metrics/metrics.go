package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Bounded cardinality only: no per-session or per-player labels.
var (
	SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "session_created_total",
		Help: "Sessions created since process start",
	})

	RoundsPromoted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "session_rounds_promoted_total",
		Help: "Rounds promoted from the next slot into play",
	})

	ShufflePulls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "playlist_shuffle_pulls_total",
		Help: "Entries pulled from playlist shufflers",
	})

	ShuffleFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "playlist_shuffle_fallbacks_total",
		Help: "Pulls that exhausted the anti-repeat draw budget",
	})

	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "session_connected_clients",
		Help: "Clients currently attached to session snapshot streams",
	})

	SeriesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "session_series_completed_total",
		Help: "Series that reached a series-end screen",
	})
)
