package repository

import (
	"sync"

	"github.com/okian/gridarena/internal/domain/game"
	"github.com/okian/gridarena/internal/domain/model"
	"github.com/okian/gridarena/internal/domain/sudoku"
	"github.com/okian/gridarena/internal/domain/tournament"
)

// Memory is the in-process Store implementation. Node processing is
// serialized, but the HTTP read path queries concurrently, so access is
// guarded with a RWMutex.
type Memory struct {
	mu sync.RWMutex

	players map[string]model.PlayerInfo
	games   map[string]*game.State

	activeTournament *tournament.Tournament
	currentPuzzle    *sudoku.Board
	cachedSnapshot   *model.CachedSnapshot

	tournamentCounter uint64
	seqCounters       map[string]uint64

	auditLog        []AuditRecord
	eventLog        []model.EventRecord
	pastTournaments []tournament.Tournament
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		players:     make(map[string]model.PlayerInfo),
		games:       make(map[string]*game.State),
		seqCounters: make(map[string]uint64),
	}
}

func (m *Memory) GetPlayer(id string) (model.PlayerInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.players[id]
	return p, ok
}

func (m *Memory) PutPlayer(p model.PlayerInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[p.ID] = p
}

func (m *Memory) Players() []model.PlayerInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.PlayerInfo, 0, len(m.players))
	for _, p := range m.players {
		out = append(out, p)
	}
	return out
}

func (m *Memory) PlayerCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.players)
}

// GetGame returns a detached copy of the stored state. Concurrent HTTP
// reads must never observe a state the node is mutating, so callers get
// their own copy and write changes back through PutGame.
func (m *Memory) GetGame(id string) (*game.State, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return nil, false
	}
	cp := *g
	return &cp, true
}

func (m *Memory) PutGame(id string, s *game.State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.games[id] = &cp
}

func (m *Memory) ClearGames() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games = make(map[string]*game.State)
}

func (m *Memory) ActiveTournament() (tournament.Tournament, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.activeTournament == nil {
		return tournament.Tournament{}, false
	}
	return *m.activeTournament, true
}

func (m *Memory) SetActiveTournament(t tournament.Tournament) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeTournament = &t
}

func (m *Memory) CurrentPuzzle() (*sudoku.Board, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.currentPuzzle == nil {
		return nil, false
	}
	return m.currentPuzzle, true
}

func (m *Memory) SetCurrentPuzzle(b *sudoku.Board) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentPuzzle = b
}

func (m *Memory) CachedSnapshot() (model.CachedSnapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cachedSnapshot == nil {
		return model.CachedSnapshot{}, false
	}
	return *m.cachedSnapshot, true
}

func (m *Memory) SetCachedSnapshot(s model.CachedSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cachedSnapshot = &s
}

func (m *Memory) ClearCachedSnapshot() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cachedSnapshot = nil
}

func (m *Memory) NextTournamentID() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tournamentCounter++
	return m.tournamentCounter
}

func (m *Memory) NextSeq(participant string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seqCounters[participant]++
	return m.seqCounters[participant]
}

func (m *Memory) AppendAudit(e AuditRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auditLog = append(m.auditLog, e)
}

func (m *Memory) AuditLen() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.auditLog)
}

func (m *Memory) AppendEvent(e model.EventRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventLog = append(m.eventLog, e)
}

func (m *Memory) RecentEvents(limit int) []model.EventRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.eventLog) {
		limit = len(m.eventLog)
	}
	out := make([]model.EventRecord, 0, limit)
	for i := len(m.eventLog) - 1; i >= len(m.eventLog)-limit; i-- {
		out = append(out, m.eventLog[i])
	}
	return out
}

func (m *Memory) EventCount() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint64(len(m.eventLog))
}

func (m *Memory) AppendPastTournament(t tournament.Tournament) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pastTournaments = append(m.pastTournaments, t)
}

func (m *Memory) PastTournaments(limit int) []tournament.Tournament {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.pastTournaments) {
		limit = len(m.pastTournaments)
	}
	out := make([]tournament.Tournament, 0, limit)
	for i := len(m.pastTournaments) - 1; i >= len(m.pastTournaments)-limit; i-- {
		out = append(out, m.pastTournaments[i])
	}
	return out
}
