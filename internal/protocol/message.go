// Package protocol defines the closed set of messages exchanged between
// the hub and participant nodes: one-way asynchronous point-to-point
// messages plus broadcast events on the tournament stream.
//
// The union is closed on purpose: the node dispatcher has exactly one
// handler per variant and no open-ended dispatch table. Handlers must
// tolerate at-least-once delivery; sequenced messages carry a monotonic
// per-participant Seq for hub-side deduplication.
package protocol

import (
	"github.com/okian/gridarena/internal/domain/leaderboard"
	"github.com/okian/gridarena/internal/domain/model"
)

// StreamTournament is the broadcast stream carrying tournament events.
const StreamTournament = "tournament"

// Message is the sealed union of sync message payloads.
type Message interface {
	// Kind names the variant for logging and metrics.
	Kind() string

	sealed()
}

// Envelope wraps a message with its delivery metadata.
type Envelope struct {
	// ID uniquely identifies this delivery for idempotency of
	// unsequenced messages.
	ID string
	// From is the sending node's bus address.
	From string
	Msg  Message
}

// ---------------------------------------------------------------------------
// Participant -> Hub
// ---------------------------------------------------------------------------

// RegisterOrUpdateIdentity syncs a participant registration or rename to
// the hub's registry.
type RegisterOrUpdateIdentity struct {
	Player model.PlayerInfo
}

// ProgressNotification reports one recorded placement (valid or not). It
// carries the post-move penalty count because the hub maintains its own
// continuously updated score estimate.
type ProgressNotification struct {
	ParticipantID string
	Row, Col      int
	Value         uint8
	Timestamp     int64
	PenaltyCount  uint32
	// Seq is the participant's monotonic message sequence.
	Seq uint64
}

// CompletionNotification reports a finished board, once per participant
// per tournament.
type CompletionNotification struct {
	ParticipantID  string
	CompletionTime int64
	PenaltyCount   uint32
	MoveCount      uint32
	Seq            uint64
}

// LeaderboardPull asks the hub for a leaderboard snapshot. Fire-and-forget:
// the reply arrives later as an ordinary LeaderboardPush with no
// correlation beyond "latest wins".
type LeaderboardPull struct {
	RequestingNode string
	Limit          int
}

// ---------------------------------------------------------------------------
// Hub -> Participant
// ---------------------------------------------------------------------------

// LeaderboardPush delivers a leaderboard snapshot in reply to a pull.
type LeaderboardPush struct {
	Entries      []leaderboard.Entry
	TournamentID uint64
	IsActive     bool
}

// TournamentStarted is broadcast when a tournament begins. Only the seed
// travels; every subscriber regenerates the identical puzzle locally.
type TournamentStarted struct {
	TournamentID uint64
	Seed         uint64
	StartTime    int64
	EndTime      int64
}

// TournamentEnded is broadcast with the final rankings when a tournament
// closes.
type TournamentEnded struct {
	TournamentID  uint64
	FinalRankings []leaderboard.Entry
}

// LeaderboardUpdated is the periodic top-N refresh broadcast after each
// completion.
type LeaderboardUpdated struct {
	Entries []leaderboard.Entry
}

func (RegisterOrUpdateIdentity) Kind() string { return "register_or_update_identity" }
func (ProgressNotification) Kind() string     { return "progress_notification" }
func (CompletionNotification) Kind() string   { return "completion_notification" }
func (LeaderboardPull) Kind() string          { return "leaderboard_pull" }
func (LeaderboardPush) Kind() string          { return "leaderboard_push" }
func (TournamentStarted) Kind() string        { return "tournament_started" }
func (TournamentEnded) Kind() string          { return "tournament_ended" }
func (LeaderboardUpdated) Kind() string       { return "leaderboard_updated" }

func (RegisterOrUpdateIdentity) sealed() {}
func (ProgressNotification) sealed()     {}
func (CompletionNotification) sealed()   {}
func (LeaderboardPull) sealed()          {}
func (LeaderboardPush) sealed()          {}
func (TournamentStarted) sealed()        {}
func (TournamentEnded) sealed()          {}
func (LeaderboardUpdated) sealed()       {}
