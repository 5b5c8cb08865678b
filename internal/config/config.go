// Package config defines node configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Role names accepted in configuration.
const (
	RoleHub         = "hub"
	RoleParticipant = "participant"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Role selects the node behavior: "hub" or "participant".
	Role string `koanf:"role"`

	// NodeID identifies this node on the message bus. Generated when empty.
	NodeID string `koanf:"node_id"`

	// HubNodeID is the bus address of the hub node. Defaults to NodeID
	// when this node is the hub.
	HubNodeID string `koanf:"hub_node_id"`

	// AdminID is the identity allowed to start and end tournaments.
	AdminID string `koanf:"admin_id"`

	// InboxSize bounds the per-node incoming message queue.
	InboxSize int `koanf:"inbox_size"`

	// DedupeSize bounds the seen-message-ID cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps leaderboard reads and pulls.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// BroadcastTopN is the number of entries included in the periodic
	// LeaderboardUpdated broadcast after each completion.
	BroadcastTopN int `koanf:"broadcast_top_n"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9090",
		Role:                RoleHub,
		AdminID:             "admin",
		InboxSize:           10_000,
		DedupeSize:          100_000,
		MaxLeaderboardLimit: 200,
		BroadcastTopN:       50,
	}
}
