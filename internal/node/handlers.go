package node

import (
	"context"

	"github.com/google/uuid"
	"github.com/okian/gridarena/internal/domain/game"
	"github.com/okian/gridarena/internal/domain/leaderboard"
	"github.com/okian/gridarena/internal/domain/model"
	"github.com/okian/gridarena/internal/domain/sudoku"
	"github.com/okian/gridarena/internal/domain/tournament"
	"github.com/okian/gridarena/internal/protocol"
	"github.com/okian/gridarena/pkg/logger"
	"github.com/okian/gridarena/pkg/metrics"
)

// HandleEnvelope is the transport entry point. Envelopes are processed
// one at a time under the node lock, so every handler sees a consistent
// store.
func (n *Node) HandleEnvelope(ctx context.Context, env protocol.Envelope) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dispatch(ctx, env)
}

// dispatch routes an envelope to its handler. Callers hold n.mu. Messages
// for the wrong role are logged and dropped rather than erroring: a
// republished stream can legitimately reach every node.
func (n *Node) dispatch(ctx context.Context, env protocol.Envelope) {
	switch msg := env.Msg.(type) {
	case protocol.RegisterOrUpdateIdentity:
		if n.isHub() {
			n.onRegister(ctx, env.ID, msg)
			return
		}
	case protocol.ProgressNotification:
		if n.isHub() {
			n.applyProgress(ctx, msg)
			return
		}
	case protocol.CompletionNotification:
		if n.isHub() {
			n.applyCompletion(ctx, msg)
			return
		}
	case protocol.LeaderboardPull:
		if n.isHub() {
			n.onPull(ctx, env.ID, msg)
			return
		}
	case protocol.LeaderboardPush:
		if !n.isHub() {
			n.onPush(ctx, msg)
			return
		}
	case protocol.TournamentStarted:
		if !n.isHub() {
			n.onStarted(ctx, msg)
			return
		}
	case protocol.TournamentEnded:
		if !n.isHub() {
			n.onEnded(ctx, msg)
			return
		}
	case protocol.LeaderboardUpdated:
		if !n.isHub() {
			n.onLeaderboardUpdated(ctx, msg)
			return
		}
	default:
		n.log.Warn(ctx, "unknown message kind", logger.String("kind", env.Msg.Kind()))
		return
	}
	n.log.Debug(ctx, "message ignored for role",
		logger.String("kind", env.Msg.Kind()),
		logger.String("role", n.role.String()),
	)
}

// onRegister records or refreshes a participant identity on the hub. A
// renamed player keeps their leaderboard entry, only the display name on
// it changes.
func (n *Node) onRegister(ctx context.Context, envID string, msg protocol.RegisterOrUpdateIdentity) {
	if n.deduper.SeenAndRecord(ctx, envID) {
		metrics.RecordDuplicateMessage()
		return
	}
	n.store.PutPlayer(msg.Player)
	metrics.UpdateRegisteredPlayers(n.store.PlayerCount())

	if entry, ok := n.ranked.Get(msg.Player.ID); ok {
		entry.DisplayName = msg.Player.DisplayName
		n.ranked.Upsert(entry)
	}
}

// applyProgress folds one move into the hub leaderboard. Stale or replayed
// notifications are dropped by the per-participant sequence high-watermark.
// Progress after a recorded completion is ignored so a reordered tail
// cannot unseat a final score.
func (n *Node) applyProgress(ctx context.Context, msg protocol.ProgressNotification) {
	if n.deduper.SeenSeq(ctx, msg.ParticipantID, msg.Seq) {
		metrics.RecordDuplicateMessage()
		return
	}
	t, ok := n.store.ActiveTournament()
	if !ok || !t.Active {
		return
	}

	entry, ok := n.ranked.Get(msg.ParticipantID)
	if !ok {
		entry = leaderboard.Entry{
			ParticipantID: msg.ParticipantID,
			DisplayName:   n.displayName(msg.ParticipantID),
			FirstMoveTime: msg.Timestamp,
		}
		t.TotalParticipants++
		n.store.SetActiveTournament(t)
	}
	if entry.Completed {
		return
	}
	if entry.FirstMoveTime == 0 {
		entry.FirstMoveTime = msg.Timestamp
	}

	entry.LastMoveTime = msg.Timestamp
	entry.MoveCount++
	entry.PenaltyCount = msg.PenaltyCount
	entry.Score = game.Score(t.StartTime, msg.Timestamp, msg.PenaltyCount)

	if !entry.Suspicious && leaderboard.SuspiciousPace(entry.FirstMoveTime, entry.LastMoveTime, entry.MoveCount) {
		entry.Suspicious = true
		metrics.RecordSuspiciousFlag()
		n.log.Warn(ctx, "suspicious pace flagged",
			logger.String("player", msg.ParticipantID),
			logger.Int("moves", int(entry.MoveCount)),
		)
	}

	n.ranked.Upsert(entry)
	metrics.UpdateLeaderboardSize(n.ranked.Len())
}

// applyCompletion freezes a participant's final standing. The score is
// recomputed hub-side from the tournament start so a participant cannot
// report a better number than their own timeline allows.
func (n *Node) applyCompletion(ctx context.Context, msg protocol.CompletionNotification) {
	if n.deduper.SeenSeq(ctx, msg.ParticipantID, msg.Seq) {
		metrics.RecordDuplicateMessage()
		return
	}
	t, ok := n.store.ActiveTournament()
	if !ok || !t.Active {
		return
	}

	entry, ok := n.ranked.Get(msg.ParticipantID)
	if !ok {
		entry = leaderboard.Entry{
			ParticipantID: msg.ParticipantID,
			DisplayName:   n.displayName(msg.ParticipantID),
			// No progress was ever seen, so the solve interval is
			// measured from the tournament start.
			FirstMoveTime: t.StartTime,
		}
		t.TotalParticipants++
	}
	if entry.Completed {
		return
	}
	t.TotalCompletions++
	n.store.SetActiveTournament(t)

	entry.Completed = true
	entry.CompletionTime = msg.CompletionTime
	entry.LastMoveTime = msg.CompletionTime
	entry.MoveCount = msg.MoveCount
	entry.PenaltyCount = msg.PenaltyCount
	entry.Score = game.Score(t.StartTime, msg.CompletionTime, msg.PenaltyCount)

	if !entry.Suspicious && leaderboard.SuspiciousPace(entry.FirstMoveTime, entry.LastMoveTime, entry.MoveCount) {
		entry.Suspicious = true
		metrics.RecordSuspiciousFlag()
	}

	n.ranked.Upsert(entry)
	n.store.AppendAudit(entry)
	metrics.RecordCompletion()
	metrics.UpdateLeaderboardSize(n.ranked.Len())

	n.log.Info(ctx, "completion recorded",
		logger.String("player", msg.ParticipantID),
		logger.Uint64("score", entry.Score),
	)
	n.broadcastLeaderboard(ctx)
}

// onPull answers a snapshot request with a direct push to the requester.
func (n *Node) onPull(ctx context.Context, envID string, msg protocol.LeaderboardPull) {
	if n.deduper.SeenAndRecord(ctx, envID) {
		metrics.RecordDuplicateMessage()
		return
	}
	limit := msg.Limit
	if limit <= 0 || limit > n.limits.MaxLeaderboard {
		limit = n.limits.MaxLeaderboard
	}

	t, _ := n.store.ActiveTournament()
	n.transport.Send(ctx, msg.RequestingNode, protocol.Envelope{
		ID:   uuid.NewString(),
		From: n.id,
		Msg: protocol.LeaderboardPush{
			Entries:      n.ranked.TopN(limit),
			TournamentID: t.ID,
			IsActive:     t.Active,
		},
	})
}

// broadcastLeaderboard publishes the current top entries to every
// subscriber on the tournament stream.
func (n *Node) broadcastLeaderboard(ctx context.Context) {
	entries := n.ranked.TopN(n.limits.BroadcastTopN)
	n.transport.Publish(ctx, protocol.StreamTournament, protocol.Envelope{
		ID:   uuid.NewString(),
		From: n.id,
		Msg:  protocol.LeaderboardUpdated{Entries: entries},
	})
}

// onPush replaces the participant's cached snapshot. Latest wins.
func (n *Node) onPush(ctx context.Context, msg protocol.LeaderboardPush) {
	n.store.SetCachedSnapshot(model.CachedSnapshot{
		Entries:      msg.Entries,
		TournamentID: msg.TournamentID,
		IsActive:     msg.IsActive,
		FetchedAt:    n.clock.NowMicros(),
	})
}

// onStarted installs a new tournament on a participant. The puzzle is
// regenerated locally from the broadcast seed, and all per-player games
// from the previous tournament are discarded.
func (n *Node) onStarted(ctx context.Context, msg protocol.TournamentStarted) {
	board, err := sudoku.Generate(msg.Seed)
	if err != nil {
		n.log.Error(ctx, "puzzle regeneration failed",
			logger.Uint64("seed", msg.Seed),
			logger.Error(err),
		)
		return
	}

	n.store.SetActiveTournament(tournament.Tournament{
		ID:        msg.TournamentID,
		Seed:      msg.Seed,
		StartTime: msg.StartTime,
		EndTime:   msg.EndTime,
		Active:    true,
	})
	n.store.SetCurrentPuzzle(board)
	n.store.ClearGames()
	n.store.ClearCachedSnapshot()

	n.log.Info(ctx, "tournament installed",
		logger.Uint64("id", msg.TournamentID),
		logger.Uint64("seed", msg.Seed),
	)
}

// onEnded pins the final rankings as the cached snapshot and, when the
// local tournament matches, marks it inactive. The snapshot is installed
// even without a matching tournament so a node that missed the start
// broadcast still serves the final standings.
func (n *Node) onEnded(ctx context.Context, msg protocol.TournamentEnded) {
	if t, ok := n.store.ActiveTournament(); ok && t.ID == msg.TournamentID {
		t.Active = false
		n.store.SetActiveTournament(t)
	}
	n.store.SetCachedSnapshot(model.CachedSnapshot{
		Entries:      msg.FinalRankings,
		TournamentID: msg.TournamentID,
		IsActive:     false,
		FetchedAt:    n.clock.NowMicros(),
	})
	n.log.Info(ctx, "tournament ended", logger.Uint64("id", msg.TournamentID))
}

// onLeaderboardUpdated refreshes the cached snapshot from a hub broadcast.
func (n *Node) onLeaderboardUpdated(ctx context.Context, msg protocol.LeaderboardUpdated) {
	t, ok := n.store.ActiveTournament()
	if !ok {
		return
	}
	n.store.SetCachedSnapshot(model.CachedSnapshot{
		Entries:      msg.Entries,
		TournamentID: t.ID,
		IsActive:     t.Active,
		FetchedAt:    n.clock.NowMicros(),
	})
}

func (n *Node) displayName(participantID string) string {
	if info, ok := n.store.GetPlayer(participantID); ok {
		return info.DisplayName
	}
	return participantID
}
