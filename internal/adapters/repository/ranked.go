package repository

import (
	"math/rand"
	"sync"

	"github.com/okian/gridarena/internal/domain/leaderboard"
)

// Treap-based, in-memory ranked leaderboard store.
//
// Ordering is leaderboard.Less: completed entries first, then by score,
// with deterministic tie-breaks down to participant ID. An in-order
// traversal produces the leaderboard from best to worst, so ranked reads
// are O(n log n)-free: TopN walks the tree and stops.
type RankedStore struct {
	mu   sync.RWMutex
	root *treapNode
	byID map[string]leaderboard.Entry
	rng  *rand.Rand
}

type treapNode struct {
	entry leaderboard.Entry
	prio  uint64
	left  *treapNode
	right *treapNode
	size  int
}

// NewRankedStore creates an empty ranked store.
func NewRankedStore() *RankedStore {
	return &RankedStore{
		byID: make(map[string]leaderboard.Entry),
		rng:  rand.New(rand.NewSource(rand.Int63())), //nolint:gosec // priorities only balance the tree
	}
}

// Upsert inserts or replaces the entry for its participant. The old tree
// position is removed first because the entry's sort key changes as its
// score evolves.
func (s *RankedStore) Upsert(e leaderboard.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.byID[e.ParticipantID]; ok {
		s.root = remove(s.root, &old)
	}
	s.byID[e.ParticipantID] = e
	s.root = insert(s.root, &treapNode{entry: e, prio: s.rng.Uint64(), size: 1})
}

// Get returns the entry for a participant.
func (s *RankedStore) Get(id string) (leaderboard.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byID[id]
	return e, ok
}

// TopN returns the best n entries in rank order.
func (s *RankedStore) TopN(n int) []leaderboard.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n > len(s.byID) {
		n = len(s.byID)
	}
	out := make([]leaderboard.Entry, 0, n)
	inorder(s.root, &out, n)
	return out
}

// All returns every entry in rank order.
func (s *RankedStore) All() []leaderboard.Entry {
	return s.TopN(0)
}

// Len returns the number of tracked participants.
func (s *RankedStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Clear discards all entries. Called when a new tournament starts.
func (s *RankedStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = nil
	s.byID = make(map[string]leaderboard.Entry)
}

// ---------------------------------------------------------------------------
// treap internals
// ---------------------------------------------------------------------------

func nsize(n *treapNode) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *treapNode) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

func rotateRight(n *treapNode) *treapNode {
	l := n.left
	n.left = l.right
	l.right = n
	fix(n)
	fix(l)
	return l
}

func rotateLeft(n *treapNode) *treapNode {
	r := n.right
	n.right = r.left
	r.left = n
	fix(n)
	fix(r)
	return r
}

func insert(n, x *treapNode) *treapNode {
	if n == nil {
		return x
	}
	if leaderboard.Less(&x.entry, &n.entry) {
		n.left = insert(n.left, x)
		if n.left.prio > n.prio {
			return rotateRight(n)
		}
	} else {
		n.right = insert(n.right, x)
		if n.right.prio > n.prio {
			return rotateLeft(n)
		}
	}
	fix(n)
	return n
}

// sameKey relies on Less being a strict total order: equal keys are
// mutually non-less.
func sameKey(a, b *leaderboard.Entry) bool {
	return !leaderboard.Less(a, b) && !leaderboard.Less(b, a)
}

func remove(n *treapNode, e *leaderboard.Entry) *treapNode {
	if n == nil {
		return nil
	}
	switch {
	case sameKey(e, &n.entry):
		n = merge(n.left, n.right)
	case leaderboard.Less(e, &n.entry):
		n.left = remove(n.left, e)
	default:
		n.right = remove(n.right, e)
	}
	fix(n)
	return n
}

// merge joins two treaps where every key in a precedes every key in b.
func merge(a, b *treapNode) *treapNode {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.prio > b.prio {
		a.right = merge(a.right, b)
		fix(a)
		return a
	}
	b.left = merge(a, b.left)
	fix(b)
	return b
}

func inorder(n *treapNode, out *[]leaderboard.Entry, limit int) {
	if n == nil || len(*out) >= limit {
		return
	}
	inorder(n.left, out, limit)
	if len(*out) < limit {
		*out = append(*out, n.entry)
	}
	inorder(n.right, out, limit)
}
