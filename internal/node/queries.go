package node

import (
	"context"

	"github.com/okian/gridarena/internal/domain/game"
	"github.com/okian/gridarena/internal/domain/leaderboard"
	"github.com/okian/gridarena/internal/domain/model"
	"github.com/okian/gridarena/internal/domain/sudoku"
	"github.com/okian/gridarena/internal/domain/tournament"
)

// PuzzleGrid returns the current puzzle with givens only. The solution
// never leaves the node.
func (n *Node) PuzzleGrid(ctx context.Context) (sudoku.Grid, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	board, ok := n.store.CurrentPuzzle()
	if !ok {
		return sudoku.Grid{}, ErrNoPuzzle
	}
	return board.Puzzle, nil
}

// GameState returns the participant's in-progress game.
func (n *Node) GameState(ctx context.Context, participant string) (*game.State, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	state, ok := n.store.GetGame(participant)
	if !ok {
		return nil, ErrNoGame
	}
	return state, nil
}

// Player looks up a registered identity.
func (n *Node) Player(ctx context.Context, id string) (model.PlayerInfo, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	info, ok := n.store.GetPlayer(id)
	if !ok {
		return model.PlayerInfo{}, ErrNotRegistered
	}
	return info, nil
}

// Players lists every registered identity on this node.
func (n *Node) Players(ctx context.Context) []model.PlayerInfo {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.store.Players()
}

// ActiveTournament reports the current tournament, if any was ever
// started. An ended tournament is returned with Active false.
func (n *Node) ActiveTournament(ctx context.Context) (tournament.Tournament, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.store.ActiveTournament()
}

// Stats summarizes the active tournament from the hub's authoritative
// leaderboard.
func (n *Node) Stats(ctx context.Context) (tournament.Stats, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.isHub() {
		return tournament.Stats{}, ErrHubOnly
	}
	t, ok := n.store.ActiveTournament()
	if !ok {
		return tournament.Stats{}, ErrNoActiveTournament
	}

	entries := n.ranked.All()
	stats := tournament.Stats{
		TournamentID: t.ID,
		IsActive:     t.Active,
		TotalPlayers: uint32(len(entries)),
	}
	var sum uint64
	for _, e := range entries {
		if e.Completed {
			stats.TotalCompletions++
		}
		sum += e.Score
		if e.Score > stats.BestScore {
			stats.BestScore = e.Score
		}
	}
	if len(entries) > 0 {
		stats.AverageScore = sum / uint64(len(entries))
	}
	return stats, nil
}

// Leaderboard returns the hub's authoritative ranking, best first.
// Hub-only; participants read through CachedSnapshot instead.
func (n *Node) Leaderboard(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.isHub() {
		return nil, ErrHubOnly
	}
	if limit <= 0 || limit > n.limits.MaxLeaderboard {
		return nil, ErrInvalidLimit
	}
	return n.ranked.TopN(limit), nil
}

// CachedSnapshot returns the last leaderboard snapshot received from the
// hub. It may be stale or absent; callers refresh via RequestLeaderboard.
func (n *Node) CachedSnapshot(ctx context.Context) (model.CachedSnapshot, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.store.CachedSnapshot()
}

// RecentEvents returns the hub's event log, newest first.
func (n *Node) RecentEvents(ctx context.Context, limit int) []model.EventRecord {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.store.RecentEvents(limit)
}

// PastTournaments returns finished tournaments, newest first.
func (n *Node) PastTournaments(ctx context.Context, limit int) []tournament.Tournament {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.store.PastTournaments(limit)
}

// Verify replays a full move transcript against the puzzle for the given
// seed and rescores it from scratch. Pure: no node state is touched.
func (n *Node) Verify(ctx context.Context, seed uint64, moves []sudoku.Move) sudoku.VerifyResult {
	return sudoku.Verify(seed, moves)
}
