package node

import (
	"context"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/google/uuid"
	"github.com/okian/gridarena/internal/adapters/mq/bus"
	"github.com/okian/gridarena/internal/adapters/repository"
	"github.com/okian/gridarena/internal/domain/game"
	"github.com/okian/gridarena/internal/domain/leaderboard"
	"github.com/okian/gridarena/internal/domain/sudoku"
	"github.com/okian/gridarena/internal/protocol"
	"github.com/okian/gridarena/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const micros = int64(1_000_000)

// fakeClock advances by step on every read, so each operation in a test
// happens at a distinct, predictable instant.
type fakeClock struct {
	mu   sync.Mutex
	now  int64
	step int64
}

func (c *fakeClock) NowMicros() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.now
	c.now += c.step
	return n
}

func (c *fakeClock) Advance(d int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
}

// captureTransport records outbound traffic without delivering it.
type captureTransport struct {
	mu        sync.Mutex
	sent      []protocol.Envelope
	published []protocol.Envelope
}

func (t *captureTransport) Send(_ context.Context, _ string, env protocol.Envelope) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, env)
	return true
}

func (t *captureTransport) Publish(_ context.Context, _ string, env protocol.Envelope) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.published = append(t.published, env)
}

func newHub(clock Clock) (*Node, *captureTransport) {
	tr := &captureTransport{}
	n := New("hub", RoleHub, "admin", "hub", repository.NewMemory(), tr, WithClock(clock))
	return n, tr
}

func newParticipant(clock Clock) (*Node, *captureTransport) {
	tr := &captureTransport{}
	n := New("edge", RoleParticipant, "admin", "hub", repository.NewMemory(), tr, WithClock(clock))
	return n, tr
}

func TestRegistration(t *testing.T) {
	ctx := context.Background()

	Convey("Given a participant node", t, func() {
		clock := &fakeClock{now: 1_000 * micros, step: micros}
		n, tr := newParticipant(clock)

		Convey("an empty display name is rejected", func() {
			_, err := n.RegisterPlayer(ctx, "alice", "")
			So(err, ShouldEqual, ErrInvalidUsername)
		})

		Convey("a 33-char display name is rejected", func() {
			_, err := n.RegisterPlayer(ctx, "alice", "abcdefghijklmnopqrstuvwxyz0123456")
			So(err, ShouldEqual, ErrInvalidUsername)
		})

		Convey("a valid registration succeeds and syncs to the hub", func() {
			info, err := n.RegisterPlayer(ctx, "alice", "Alice")
			So(err, ShouldBeNil)
			So(info.DisplayName, ShouldEqual, "Alice")
			So(len(tr.sent), ShouldEqual, 1)
			So(tr.sent[0].Msg.Kind(), ShouldEqual, "register_or_update_identity")

			Convey("registering again fails", func() {
				_, err := n.RegisterPlayer(ctx, "alice", "Alice2")
				So(err, ShouldEqual, ErrAlreadyRegistered)
			})

			Convey("a rename succeeds", func() {
				got, err := n.UpdateUsername(ctx, "alice", "Alicia")
				So(err, ShouldBeNil)
				So(got.DisplayName, ShouldEqual, "Alicia")
			})
		})

		Convey("renaming an unregistered player fails", func() {
			_, err := n.UpdateUsername(ctx, "ghost", "Ghost")
			So(err, ShouldEqual, ErrNotRegistered)
		})
	})
}

func TestTournamentLifecycle(t *testing.T) {
	ctx := context.Background()

	Convey("Given a hub node", t, func() {
		clock := &fakeClock{now: 1_000 * micros}
		hub, tr := newHub(clock)

		Convey("a non-admin caller cannot start a tournament", func() {
			_, err := hub.StartTournament(ctx, "alice", 42, 3600)
			So(err, ShouldEqual, ErrNotAdmin)
		})

		Convey("ending without an active tournament fails", func() {
			_, err := hub.EndTournament(ctx, "admin")
			So(err, ShouldEqual, ErrNoActiveTournament)
		})

		Convey("the admin can start a tournament", func() {
			tn, err := hub.StartTournament(ctx, "admin", 42, 3600)
			So(err, ShouldBeNil)
			So(tn.ID, ShouldEqual, 1)
			So(tn.Active, ShouldBeTrue)
			So(tn.EndTime-tn.StartTime, ShouldEqual, 3600*micros)
			So(len(tr.published), ShouldEqual, 1)
			So(tr.published[0].Msg.Kind(), ShouldEqual, "tournament_started")

			Convey("starting a second one while active fails", func() {
				_, err := hub.StartTournament(ctx, "admin", 7, 3600)
				So(err, ShouldEqual, ErrTournamentActive)
			})

			Convey("ending it broadcasts the final rankings", func() {
				ended, err := hub.EndTournament(ctx, "admin")
				So(err, ShouldBeNil)
				So(ended.Active, ShouldBeFalse)
				So(tr.published[len(tr.published)-1].Msg.Kind(), ShouldEqual, "tournament_ended")

				Convey("and the tournament lands in history", func() {
					past := hub.PastTournaments(ctx, 10)
					So(len(past), ShouldEqual, 1)
					So(past[0].ID, ShouldEqual, 1)
				})
			})
		})

		Convey("a participant node cannot start tournaments", func() {
			p, _ := newParticipant(clock)
			_, err := p.StartTournament(ctx, "admin", 42, 3600)
			So(err, ShouldEqual, ErrHubOnly)
		})
	})
}

func TestPlaceRejections(t *testing.T) {
	ctx := context.Background()

	Convey("Given a hub with a registered player", t, func() {
		clock := &fakeClock{now: 1_000 * micros, step: micros}
		hub, _ := newHub(clock)

		Convey("placing before registering fails", func() {
			_, err := hub.PlaceCell(ctx, "alice", 0, 0, 5)
			So(err, ShouldEqual, ErrNotRegistered)
		})

		_, err := hub.RegisterPlayer(ctx, "alice", "Alice")
		So(err, ShouldBeNil)

		Convey("placing without a tournament fails", func() {
			_, err := hub.PlaceCell(ctx, "alice", 0, 0, 5)
			So(err, ShouldEqual, ErrNoActiveTournament)
		})

		Convey("with an active tournament", func() {
			_, err := hub.StartTournament(ctx, "admin", 42, 3600)
			So(err, ShouldBeNil)

			Convey("out-of-range coordinates fail", func() {
				_, err := hub.PlaceCell(ctx, "alice", 9, 0, 5)
				So(err, ShouldEqual, game.ErrOutOfRange)
			})

			Convey("a zero value fails", func() {
				_, err := hub.PlaceCell(ctx, "alice", 0, 0, 0)
				So(err, ShouldEqual, game.ErrOutOfRange)
			})

			Convey("placing after the window closes fails", func() {
				clock.Advance(4_000 * micros)
				_, err := hub.PlaceCell(ctx, "alice", 0, 0, 5)
				So(err, ShouldEqual, ErrOutsideWindow)
			})

			Convey("clearing without a game fails", func() {
				err := hub.ClearCell(ctx, "alice", 0, 0)
				So(err, ShouldEqual, ErrNoGame)
			})
		})
	})
}

func TestHubIdempotency(t *testing.T) {
	ctx := context.Background()

	Convey("Given a hub with an active tournament", t, func() {
		clock := &fakeClock{now: 1_000 * micros}
		hub, _ := newHub(clock)
		_, err := hub.StartTournament(ctx, "admin", 42, 3600)
		So(err, ShouldBeNil)

		progress := protocol.ProgressNotification{
			ParticipantID: "alice",
			Value:         5,
			Timestamp:     1_010 * micros,
			Seq:           1,
		}

		Convey("a redelivered progress notification is applied once", func() {
			hub.HandleEnvelope(ctx, protocol.Envelope{ID: uuid.NewString(), From: "edge", Msg: progress})
			hub.HandleEnvelope(ctx, protocol.Envelope{ID: uuid.NewString(), From: "edge", Msg: progress})

			entries, err := hub.Leaderboard(ctx, 10)
			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, 1)
			So(entries[0].MoveCount, ShouldEqual, 1)
		})

		Convey("a stale sequence is dropped after a newer one", func() {
			hub.HandleEnvelope(ctx, protocol.Envelope{ID: uuid.NewString(), From: "edge", Msg: progress})
			later := progress
			later.Seq = 2
			later.Timestamp = 1_020 * micros
			hub.HandleEnvelope(ctx, protocol.Envelope{ID: uuid.NewString(), From: "edge", Msg: later})
			hub.HandleEnvelope(ctx, protocol.Envelope{ID: uuid.NewString(), From: "edge", Msg: progress})

			entries, err := hub.Leaderboard(ctx, 10)
			So(err, ShouldBeNil)
			So(entries[0].MoveCount, ShouldEqual, 2)
			So(entries[0].LastMoveTime, ShouldEqual, 1_020*micros)
		})

		Convey("progress after completion does not unseat the final score", func() {
			hub.HandleEnvelope(ctx, protocol.Envelope{ID: uuid.NewString(), From: "edge", Msg: progress})
			hub.HandleEnvelope(ctx, protocol.Envelope{ID: uuid.NewString(), From: "edge", Msg: protocol.CompletionNotification{
				ParticipantID:  "alice",
				CompletionTime: 1_100 * micros,
				PenaltyCount:   0,
				MoveCount:      46,
				Seq:            2,
			}})
			late := progress
			late.Seq = 3
			late.PenaltyCount = 9
			hub.HandleEnvelope(ctx, protocol.Envelope{ID: uuid.NewString(), From: "edge", Msg: late})

			entries, err := hub.Leaderboard(ctx, 10)
			So(err, ShouldBeNil)
			So(entries[0].Completed, ShouldBeTrue)
			So(entries[0].PenaltyCount, ShouldEqual, 0)
			// 100 seconds elapsed at completion.
			So(entries[0].Score, ShouldEqual, uint64(10_000-2*100))
		})
	})
}

func TestSuspiciousPace(t *testing.T) {
	ctx := context.Background()

	Convey("Given a hub with an active tournament", t, func() {
		clock := &fakeClock{now: 1_000 * micros}
		hub, _ := newHub(clock)
		_, err := hub.StartTournament(ctx, "admin", 42, 3600)
		So(err, ShouldBeNil)

		send := func(seq uint64, ts int64) {
			hub.HandleEnvelope(ctx, protocol.Envelope{ID: uuid.NewString(), From: "edge", Msg: protocol.ProgressNotification{
				ParticipantID: "bot",
				Row:           int(seq) % 9,
				Value:         5,
				Timestamp:     ts,
				Seq:           seq,
			}})
		}

		Convey("five moves a second apart get flagged", func() {
			for i := uint64(1); i <= 5; i++ {
				send(i, 1_000*micros+int64(i)*micros)
			}
			entries, err := hub.Leaderboard(ctx, 10)
			So(err, ShouldBeNil)
			So(entries[0].Suspicious, ShouldBeTrue)

			Convey("and the flag survives a slow tail", func() {
				send(6, 2_000*micros)
				entries, err := hub.Leaderboard(ctx, 10)
				So(err, ShouldBeNil)
				So(entries[0].Suspicious, ShouldBeTrue)
			})
		})

		Convey("five moves ten seconds apart stay clean", func() {
			for i := uint64(1); i <= 5; i++ {
				send(i, 1_000*micros+int64(i)*10*micros)
			}
			entries, err := hub.Leaderboard(ctx, 10)
			So(err, ShouldBeNil)
			So(entries[0].Suspicious, ShouldBeFalse)
		})

		Convey("a completion with no recorded progress is paced from the start", func() {
			tn, ok := hub.ActiveTournament(ctx)
			So(ok, ShouldBeTrue)

			// 46 moves in 60 seconds, none of them reported along the way.
			hub.HandleEnvelope(ctx, protocol.Envelope{ID: uuid.NewString(), From: "edge", Msg: protocol.CompletionNotification{
				ParticipantID:  "bot",
				CompletionTime: tn.StartTime + 60*micros,
				MoveCount:      46,
				Seq:            1,
			}})

			entries, err := hub.Leaderboard(ctx, 10)
			So(err, ShouldBeNil)
			So(entries[0].FirstMoveTime, ShouldEqual, tn.StartTime)
			So(entries[0].Suspicious, ShouldBeTrue)
		})
	})
}

func TestTournamentEndedSnapshot(t *testing.T) {
	ctx := context.Background()

	Convey("Given a participant node", t, func() {
		clock := &fakeClock{now: 1_000 * micros}
		edge, _ := newParticipant(clock)

		ended := protocol.TournamentEnded{
			TournamentID:  3,
			FinalRankings: []leaderboard.Entry{
				{ParticipantID: "alice", Completed: true, Score: 9_000},
			},
		}

		Convey("final rankings land even without a local tournament", func() {
			edge.HandleEnvelope(ctx, protocol.Envelope{ID: uuid.NewString(), From: "hub", Msg: ended})

			snap, ok := edge.CachedSnapshot(ctx)
			So(ok, ShouldBeTrue)
			So(snap.TournamentID, ShouldEqual, 3)
			So(snap.IsActive, ShouldBeFalse)
			So(len(snap.Entries), ShouldEqual, 1)
			So(snap.Entries[0].ParticipantID, ShouldEqual, "alice")
		})

		Convey("with a different tournament installed locally", func() {
			edge.HandleEnvelope(ctx, protocol.Envelope{ID: uuid.NewString(), From: "hub", Msg: protocol.TournamentStarted{
				TournamentID: 4,
				Seed:         42,
				StartTime:    1_000 * micros,
				EndTime:      4_600 * micros,
			}})

			edge.HandleEnvelope(ctx, protocol.Envelope{ID: uuid.NewString(), From: "hub", Msg: ended})

			Convey("the rankings still land", func() {
				snap, ok := edge.CachedSnapshot(ctx)
				So(ok, ShouldBeTrue)
				So(snap.TournamentID, ShouldEqual, 3)
				So(len(snap.Entries), ShouldEqual, 1)
			})

			Convey("but the local tournament stays active", func() {
				tn, ok := edge.ActiveTournament(ctx)
				So(ok, ShouldBeTrue)
				So(tn.ID, ShouldEqual, 4)
				So(tn.Active, ShouldBeTrue)
			})
		})
	})
}

func TestLeaderboardPull(t *testing.T) {
	ctx := context.Background()

	Convey("Given a hub with entries", t, func() {
		clock := &fakeClock{now: 1_000 * micros}
		hub, tr := newHub(clock)
		_, err := hub.StartTournament(ctx, "admin", 42, 3600)
		So(err, ShouldBeNil)
		hub.HandleEnvelope(ctx, protocol.Envelope{ID: uuid.NewString(), From: "edge", Msg: protocol.ProgressNotification{
			ParticipantID: "alice",
			Value:         5,
			Timestamp:     1_010 * micros,
			Seq:           1,
		}})

		Convey("a pull is answered with a direct push", func() {
			hub.HandleEnvelope(ctx, protocol.Envelope{ID: uuid.NewString(), From: "edge", Msg: protocol.LeaderboardPull{
				RequestingNode: "edge",
				Limit:          10,
			}})
			So(len(tr.sent), ShouldEqual, 1)
			push, ok := tr.sent[0].Msg.(protocol.LeaderboardPush)
			So(ok, ShouldBeTrue)
			So(len(push.Entries), ShouldEqual, 1)
			So(push.IsActive, ShouldBeTrue)
		})

		Convey("a hub cannot request its own leaderboard by pull", func() {
			So(hub.RequestLeaderboard(ctx, 10), ShouldEqual, ErrParticipantOnly)
		})

		Convey("an oversized read limit is rejected", func() {
			_, err := hub.Leaderboard(ctx, 10_000)
			So(err, ShouldEqual, ErrInvalidLimit)
		})
	})
}

// TestFullTournament drives a hub and a participant over the in-process
// bus through a complete tournament: register, start, solve the whole
// board, and end.
func TestFullTournament(t *testing.T) {
	ctx := context.Background()

	Convey("Given a hub and a participant wired over a bus", t, func() {
		clock := &fakeClock{now: 1_000 * micros, step: 7 * micros}
		b := bus.New()
		defer b.Close()

		hub := New("hub", RoleHub, "admin", "hub", repository.NewMemory(), b, WithClock(clock))
		edge := New("edge", RoleParticipant, "admin", "hub", repository.NewMemory(), b, WithClock(clock))
		b.Attach(ctx, "hub", hub)
		b.Attach(ctx, "edge", edge)
		b.Subscribe(protocol.StreamTournament, "edge")

		_, err := edge.RegisterPlayer(ctx, "alice", "Alice")
		So(err, ShouldBeNil)
		b.Quiesce()

		tn, err := hub.StartTournament(ctx, "admin", 42, 3600)
		So(err, ShouldBeNil)
		b.Quiesce()

		Convey("the participant regenerated the same puzzle", func() {
			grid, err := edge.PuzzleGrid(ctx)
			So(err, ShouldBeNil)
			board, err := sudoku.Generate(42)
			So(err, ShouldBeNil)
			So(grid, ShouldResemble, board.Puzzle)

			Convey("and solving every blank completes the board", func() {
				var last PlaceOutcome
				for r := 0; r < 9; r++ {
					for c := 0; c < 9; c++ {
						if grid[r][c] != 0 {
							continue
						}
						last, err = edge.PlaceCell(ctx, "alice", r, c, board.Solution[r][c])
						So(err, ShouldBeNil)
					}
				}
				So(last.Completed, ShouldBeTrue)
				So(last.PenaltyCount, ShouldEqual, 0)
				b.Quiesce()

				entries, err := hub.Leaderboard(ctx, 10)
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 1)
				e := entries[0]
				So(e.ParticipantID, ShouldEqual, "alice")
				So(e.DisplayName, ShouldEqual, "Alice")
				So(e.Completed, ShouldBeTrue)
				So(e.Suspicious, ShouldBeFalse)

				elapsedSecs := (e.CompletionTime - tn.StartTime) / micros
				So(e.Score, ShouldEqual, uint64(10_000-2*elapsedSecs))

				Convey("the completion broadcast refreshed the participant cache", func() {
					snap, ok := edge.CachedSnapshot(ctx)
					So(ok, ShouldBeTrue)
					So(len(snap.Entries), ShouldEqual, 1)
					So(snap.Entries[0].Completed, ShouldBeTrue)
					So(snap.IsActive, ShouldBeTrue)
				})

				Convey("hub stats reflect the completion", func() {
					stats, err := hub.Stats(ctx)
					So(err, ShouldBeNil)
					So(stats.TotalPlayers, ShouldEqual, 1)
					So(stats.TotalCompletions, ShouldEqual, 1)
					So(stats.BestScore, ShouldEqual, e.Score)
				})

				Convey("ending the tournament pins the final snapshot", func() {
					_, err := hub.EndTournament(ctx, "admin")
					So(err, ShouldBeNil)
					b.Quiesce()

					snap, ok := edge.CachedSnapshot(ctx)
					So(ok, ShouldBeTrue)
					So(snap.IsActive, ShouldBeFalse)
					So(len(snap.Entries), ShouldEqual, 1)

					et, ok := edge.ActiveTournament(ctx)
					So(ok, ShouldBeTrue)
					So(et.Active, ShouldBeFalse)
					So(et.ID, ShouldEqual, tn.ID)
				})
			})
		})
	})
}
