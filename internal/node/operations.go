package node

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/okian/gridarena/internal/domain/game"
	"github.com/okian/gridarena/internal/domain/model"
	"github.com/okian/gridarena/internal/domain/sudoku"
	"github.com/okian/gridarena/internal/domain/tournament"
	"github.com/okian/gridarena/internal/protocol"
	"github.com/okian/gridarena/pkg/logger"
	"github.com/okian/gridarena/pkg/metrics"
)

// RegisterPlayer links the authenticated caller to a display name. On a
// participant node the registration is synced to the hub.
func (n *Node) RegisterPlayer(ctx context.Context, caller, displayName string) (model.PlayerInfo, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(displayName) == 0 || len(displayName) > 32 {
		return model.PlayerInfo{}, ErrInvalidUsername
	}
	if _, exists := n.store.GetPlayer(caller); exists {
		return model.PlayerInfo{}, ErrAlreadyRegistered
	}

	info := model.PlayerInfo{
		ID:           caller,
		DisplayName:  displayName,
		RegisteredAt: n.clock.NowMicros(),
	}
	n.store.PutPlayer(info)
	metrics.UpdateRegisteredPlayers(n.store.PlayerCount())

	n.sendToHub(ctx, protocol.Envelope{
		ID:   uuid.NewString(),
		From: n.id,
		Msg:  protocol.RegisterOrUpdateIdentity{Player: info},
	})

	n.log.Info(ctx, "player registered", logger.String("player", caller), logger.String("name", displayName))
	return info, nil
}

// UpdateUsername changes the caller's display name.
func (n *Node) UpdateUsername(ctx context.Context, caller, displayName string) (model.PlayerInfo, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(displayName) == 0 || len(displayName) > 32 {
		return model.PlayerInfo{}, ErrInvalidUsername
	}
	info, exists := n.store.GetPlayer(caller)
	if !exists {
		return model.PlayerInfo{}, ErrNotRegistered
	}

	info.DisplayName = displayName
	n.store.PutPlayer(info)

	n.sendToHub(ctx, protocol.Envelope{
		ID:   uuid.NewString(),
		From: n.id,
		Msg:  protocol.RegisterOrUpdateIdentity{Player: info},
	})
	return info, nil
}

// PlaceOutcome reports the effect of a PlaceCell operation.
type PlaceOutcome struct {
	Valid        bool   `json:"valid"`
	PenaltyCount uint32 `json:"penalty_count"`
	MoveCount    uint32 `json:"move_count"`
	Completed    bool   `json:"board_complete"`
	Score        uint64 `json:"score,omitempty"`
}

// PlaceCell records a placement for the caller during an active
// tournament. The game is created lazily on the first move, bound to the
// active puzzle. Every recorded placement emits a progress notification to
// the hub; a completing placement also emits a completion notification.
func (n *Node) PlaceCell(ctx context.Context, caller string, row, col int, value uint8) (PlaceOutcome, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, exists := n.store.GetPlayer(caller); !exists {
		return PlaceOutcome{}, ErrNotRegistered
	}

	now := n.clock.NowMicros()
	t, ok := n.store.ActiveTournament()
	if !ok || !t.Active {
		return PlaceOutcome{}, ErrNoActiveTournament
	}
	if !t.InWindow(now) {
		return PlaceOutcome{}, ErrOutsideWindow
	}
	if !sudoku.InRange(row, col) || value < 1 || value > 9 {
		return PlaceOutcome{}, game.ErrOutOfRange
	}

	board, ok := n.store.CurrentPuzzle()
	if !ok {
		return PlaceOutcome{}, ErrNoPuzzle
	}

	state, ok := n.store.GetGame(caller)
	if !ok {
		// Bind: first move creates the game against the active puzzle,
		// with the tournament start as the scoring baseline.
		state = game.NewState(&board.Puzzle, t.StartTime)
	}

	res, err := state.Place(row, col, value, &board.Solution, now)
	if err != nil {
		return PlaceOutcome{}, err
	}
	n.store.PutGame(caller, state)
	metrics.RecordMoveProcessed()

	n.sendToHub(ctx, protocol.Envelope{
		ID:   uuid.NewString(),
		From: n.id,
		Msg: protocol.ProgressNotification{
			ParticipantID: caller,
			Row:           row,
			Col:           col,
			Value:         value,
			Timestamp:     now,
			PenaltyCount:  state.PenaltyCount,
			Seq:           n.store.NextSeq(caller),
		},
	})

	if res.Completed {
		n.sendToHub(ctx, protocol.Envelope{
			ID:   uuid.NewString(),
			From: n.id,
			Msg: protocol.CompletionNotification{
				ParticipantID:  caller,
				CompletionTime: now,
				PenaltyCount:   state.PenaltyCount,
				MoveCount:      state.MoveCount,
				Seq:            n.store.NextSeq(caller),
			},
		})
		n.log.Info(ctx, "board completed",
			logger.String("player", caller),
			logger.Uint64("score", state.Score),
			logger.Int("penalties", int(state.PenaltyCount)),
		)
	}

	return PlaceOutcome{
		Valid:        res.Valid,
		PenaltyCount: state.PenaltyCount,
		MoveCount:    state.MoveCount,
		Completed:    res.Completed,
		Score:        state.Score,
	}, nil
}

// ClearCell resets a previously placed cell to blank. No penalty effect
// and no hub notification.
func (n *Node) ClearCell(ctx context.Context, caller string, row, col int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, exists := n.store.GetPlayer(caller); !exists {
		return ErrNotRegistered
	}
	now := n.clock.NowMicros()
	t, ok := n.store.ActiveTournament()
	if !ok || !t.Active {
		return ErrNoActiveTournament
	}
	if !t.InWindow(now) {
		return ErrOutsideWindow
	}
	if !sudoku.InRange(row, col) {
		return game.ErrOutOfRange
	}

	state, ok := n.store.GetGame(caller)
	if !ok {
		return ErrNoGame
	}
	if err := state.Clear(row, col); err != nil {
		return err
	}
	n.store.PutGame(caller, state)
	return nil
}

// RequestLeaderboard asks the hub for a snapshot. Fire-and-forget: the
// push lands later through the ordinary message path and replaces the
// cached snapshot, latest wins.
func (n *Node) RequestLeaderboard(ctx context.Context, limit int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.isHub() {
		return ErrParticipantOnly
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > n.limits.MaxLeaderboard {
		limit = n.limits.MaxLeaderboard
	}

	n.transport.Send(ctx, n.hubID, protocol.Envelope{
		ID:   uuid.NewString(),
		From: n.id,
		Msg:  protocol.LeaderboardPull{RequestingNode: n.id, Limit: limit},
	})
	return nil
}

// StartTournament begins a new tournament. Admin-only, hub-only. Only the
// seed is broadcast; every subscriber regenerates the identical puzzle.
func (n *Node) StartTournament(ctx context.Context, caller string, seed uint64, durationSecs uint64) (tournament.Tournament, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.isHub() {
		return tournament.Tournament{}, ErrHubOnly
	}
	if caller != n.adminID {
		return tournament.Tournament{}, ErrNotAdmin
	}
	if t, ok := n.store.ActiveTournament(); ok && t.Active {
		return tournament.Tournament{}, ErrTournamentActive
	}

	board, err := sudoku.Generate(seed)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("start tournament: %w", err)
	}

	now := n.clock.NowMicros()
	t := tournament.Tournament{
		ID:        n.store.NextTournamentID(),
		Seed:      seed,
		StartTime: now,
		EndTime:   now + int64(durationSecs)*1_000_000,
		Active:    true,
	}

	n.store.SetActiveTournament(t)
	n.store.SetCurrentPuzzle(board)
	n.store.ClearGames()
	n.ranked.Clear()
	n.deduper.Reset(ctx)
	metrics.UpdateLeaderboardSize(0)
	metrics.RecordTournamentStarted()

	n.appendEvent("tournament_started", now, fmt.Sprintf("tournament %d seed %d", t.ID, seed))
	n.transport.Publish(ctx, protocol.StreamTournament, protocol.Envelope{
		ID:   uuid.NewString(),
		From: n.id,
		Msg: protocol.TournamentStarted{
			TournamentID: t.ID,
			Seed:         seed,
			StartTime:    t.StartTime,
			EndTime:      t.EndTime,
		},
	})

	n.log.Info(ctx, "tournament started",
		logger.Uint64("id", t.ID),
		logger.Uint64("seed", seed),
		logger.Uint64("duration_secs", durationSecs),
	)
	return t, nil
}

// EndTournament closes the active tournament, freezes the final rankings,
// and appends the tournament to history. Admin-only, hub-only.
func (n *Node) EndTournament(ctx context.Context, caller string) (tournament.Tournament, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.isHub() {
		return tournament.Tournament{}, ErrHubOnly
	}
	if caller != n.adminID {
		return tournament.Tournament{}, ErrNotAdmin
	}
	t, ok := n.store.ActiveTournament()
	if !ok || !t.Active {
		return tournament.Tournament{}, ErrNoActiveTournament
	}

	t.Active = false
	final := n.ranked.TopN(n.limits.FinalRankings)
	n.store.AppendPastTournament(t)
	n.store.SetActiveTournament(t)

	now := n.clock.NowMicros()
	n.appendEvent("tournament_ended", now, fmt.Sprintf("tournament %d, %d entries", t.ID, len(final)))
	n.transport.Publish(ctx, protocol.StreamTournament, protocol.Envelope{
		ID:   uuid.NewString(),
		From: n.id,
		Msg:  protocol.TournamentEnded{TournamentID: t.ID, FinalRankings: final},
	})

	n.log.Info(ctx, "tournament ended", logger.Uint64("id", t.ID), logger.Int("entries", len(final)))
	return t, nil
}

func (n *Node) appendEvent(kind string, at int64, detail string) {
	n.store.AppendEvent(model.EventRecord{Kind: kind, At: at, Detail: detail})
}
