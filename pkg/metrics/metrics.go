// Package metrics provides Prometheus metrics for the gridarena tournament node.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "gridarena"
)

// Core business metrics.
var (
	movesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moves_processed_total",
		Help:      "Total number of cell placements processed by this node.",
	})

	completions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "board_completions_total",
		Help:      "Total number of completed boards recorded by this node.",
	})

	duplicateMessages = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "duplicate_messages_total",
		Help:      "Sync messages dropped by the idempotency layer.",
	})

	messagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Point-to-point sync messages sent, by message kind.",
	}, []string{"kind"})

	broadcasts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcasts_total",
		Help:      "Events published on the tournament stream, by event kind.",
	}, []string{"kind"})

	suspiciousFlags = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "suspicious_flags_total",
		Help:      "Leaderboard entries newly flagged for suspicious pace.",
	})

	tournamentsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tournaments_started_total",
		Help:      "Tournaments started on the hub.",
	})
)

// Operational health metrics.
var (
	leaderboardSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "leaderboard_entries",
		Help:      "Current number of entries in the hub leaderboard.",
	})

	registeredPlayers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "registered_players",
		Help:      "Current number of registered players known to this node.",
	})

	inboxSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "inbox_size",
		Help:      "Number of sync messages waiting in the node inbox.",
	})

	inboxDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inbox_dropped_total",
		Help:      "Sync messages dropped because the inbox was full.",
	})
)

// HTTP performance metrics.
var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method, and status code.",
	}, []string{"endpoint", "method", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"endpoint", "method", "status"})
)

// RecordMoveProcessed increments the processed-move counter.
func RecordMoveProcessed() { movesProcessed.Inc() }

// RecordCompletion increments the board-completion counter.
func RecordCompletion() { completions.Inc() }

// RecordDuplicateMessage increments the duplicate-message counter.
func RecordDuplicateMessage() { duplicateMessages.Inc() }

// RecordMessageSent increments the sent-message counter for a message kind.
func RecordMessageSent(kind string) { messagesSent.WithLabelValues(kind).Inc() }

// RecordBroadcast increments the broadcast counter for an event kind.
func RecordBroadcast(kind string) { broadcasts.WithLabelValues(kind).Inc() }

// RecordSuspiciousFlag increments the suspicious-pace counter.
func RecordSuspiciousFlag() { suspiciousFlags.Inc() }

// RecordTournamentStarted increments the tournaments-started counter.
func RecordTournamentStarted() { tournamentsStarted.Inc() }

// UpdateLeaderboardSize sets the current leaderboard entry count.
func UpdateLeaderboardSize(n int) { leaderboardSize.Set(float64(n)) }

// UpdateRegisteredPlayers sets the current registered-player count.
func UpdateRegisteredPlayers(n int) { registeredPlayers.Set(float64(n)) }

// UpdateInboxSize sets the current inbox queue depth.
func UpdateInboxSize(n int) { inboxSize.Set(float64(n)) }

// RecordInboxDropped increments the inbox-drop counter.
func RecordInboxDropped() { inboxDropped.Inc() }

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, status string) {
	httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records HTTP request latency in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
}
