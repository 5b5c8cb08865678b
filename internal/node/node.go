// Package node implements the tournament node: a single state machine that
// executes user operations and sync messages strictly one at a time.
//
// Behavior branches on an explicit Role resolved once from configuration.
// Hub-only fields (leaderboard, counters, history) live in the same stores
// on every node but are logically absent on participants; participants
// hold only their own games and a cached leaderboard snapshot.
package node

import (
	"context"
	"sync"
	"time"

	"github.com/okian/gridarena/internal/adapters/repository"
	"github.com/okian/gridarena/internal/domain/dedupe"
	"github.com/okian/gridarena/internal/protocol"
	"github.com/okian/gridarena/pkg/logger"
)

// Role selects hub or participant behavior.
type Role uint8

const (
	RoleParticipant Role = iota
	RoleHub
)

func (r Role) String() string {
	if r == RoleHub {
		return "hub"
	}
	return "participant"
}

// Clock is the wall-clock source, in microsecond resolution.
type Clock interface {
	NowMicros() int64
}

// SystemClock reads the host clock.
type SystemClock struct{}

func (SystemClock) NowMicros() int64 { return time.Now().UnixMicro() }

// Transport is the narrow messaging contract the node sends through.
// Delivery is assumed reliable and order-preserving per sender->receiver
// pair; the node adds idempotency tolerance on top, not retries.
type Transport interface {
	Send(ctx context.Context, to string, env protocol.Envelope) bool
	Publish(ctx context.Context, stream string, env protocol.Envelope)
}

// Limits bound leaderboard reads and broadcasts.
type Limits struct {
	// MaxLeaderboard caps any ranked read or pull.
	MaxLeaderboard int
	// BroadcastTopN is the entry count in LeaderboardUpdated broadcasts.
	BroadcastTopN int
	// FinalRankings is the entry count frozen at tournament end.
	FinalRankings int
}

// DefaultLimits returns the standard leaderboard caps.
func DefaultLimits() Limits {
	return Limits{MaxLeaderboard: 200, BroadcastTopN: 50, FinalRankings: 200}
}

// Node is one tournament node.
type Node struct {
	mu sync.Mutex

	id      string
	role    Role
	adminID string
	hubID   string
	limits  Limits

	store   repository.Store
	ranked  *repository.RankedStore
	deduper dedupe.Deduper

	transport Transport
	clock     Clock
	log       logger.Logger
}

// Option applies a configuration option to the Node.
type Option func(*Node)

// WithClock sets a custom time source.
func WithClock(c Clock) Option {
	return func(n *Node) {
		if c != nil {
			n.clock = c
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(n *Node) {
		if log != nil {
			n.log = log
		}
	}
}

// WithLimits overrides the leaderboard caps.
func WithLimits(l Limits) Option {
	return func(n *Node) {
		if l.MaxLeaderboard > 0 {
			n.limits.MaxLeaderboard = l.MaxLeaderboard
		}
		if l.BroadcastTopN > 0 {
			n.limits.BroadcastTopN = l.BroadcastTopN
		}
		if l.FinalRankings > 0 {
			n.limits.FinalRankings = l.FinalRankings
		}
	}
}

// WithDeduper sets a custom idempotency tracker.
func WithDeduper(d dedupe.Deduper) Option {
	return func(n *Node) {
		if d != nil {
			n.deduper = d
		}
	}
}

// New constructs a Node. id is the node's bus address; hubID is the hub's.
// For the hub node itself, hubID equals id.
func New(id string, role Role, adminID, hubID string, store repository.Store, transport Transport, opts ...Option) *Node {
	n := &Node{
		id:        id,
		role:      role,
		adminID:   adminID,
		hubID:     hubID,
		limits:    DefaultLimits(),
		store:     store,
		ranked:    repository.NewRankedStore(),
		deduper:   dedupe.NewInMemoryDeduper(),
		transport: transport,
		clock:     SystemClock{},
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.log == nil {
		n.log = logger.Get()
	}
	n.log = n.log.Named(role.String())
	return n
}

// ID returns the node's bus address.
func (n *Node) ID() string { return n.id }

// Role returns the node's configured role.
func (n *Node) Role() Role { return n.role }

func (n *Node) isHub() bool { return n.role == RoleHub }

// sendToHub delivers a message to the hub, or applies it directly when
// this node is the hub (a node never messages itself).
func (n *Node) sendToHub(ctx context.Context, env protocol.Envelope) {
	if n.isHub() {
		n.dispatch(ctx, env)
		return
	}
	if !n.transport.Send(ctx, n.hubID, env) {
		n.log.Warn(ctx, "failed to notify hub", logger.String("kind", env.Msg.Kind()))
	}
}
