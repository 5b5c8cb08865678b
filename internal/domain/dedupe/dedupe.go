// Package dedupe provides idempotency tracking for sync message handling.
//
// The transport is assumed at-least-once: re-delivery of an identical
// message must not double-count moves or counters. Sequenced messages
// (progress, completion) are deduplicated with a per-sender monotonic
// high-watermark; unsequenced messages (registration, pulls) fall back to
// a bounded cache of seen message IDs.
package dedupe

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// Deduper records seen messages to ensure at-most-once processing.
type Deduper interface {
	// SeenSeq atomically checks a sequenced message from sender. Returns
	// true if seq is at or below the sender's high-watermark (duplicate or
	// stale delivery); otherwise it advances the watermark and returns
	// false.
	SeenSeq(ctx context.Context, sender string, seq uint64) bool

	// SeenAndRecord atomically checks if a free-form message ID was seen
	// and records it if not. Returns true if it was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes a message ID from the seen cache, allowing a retry
	// after a downstream failure. Sequence watermarks are never rolled
	// back.
	Unrecord(ctx context.Context, id string)

	// Reset clears all watermarks and seen IDs. Called when a new
	// tournament starts and sequence numbers restart from 1.
	Reset(ctx context.Context)

	Size() int64
}

const defaultMaxIDs = 100_000

// Option applies a configuration option to the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithMaxIDs bounds the seen-message-ID cache.
func WithMaxIDs(n int) Option {
	return func(d *inMemoryDeduper) {
		if n > 0 {
			d.maxIDs = n
		}
	}
}

type inMemoryDeduper struct {
	mu        sync.Mutex
	maxIDs    int
	highwater map[string]uint64
	seen      *lru.Cache
}

// NewInMemoryDeduper creates a deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxIDs: defaultMaxIDs}
	for _, opt := range opts {
		opt(d)
	}
	d.highwater = make(map[string]uint64)
	cache, err := lru.New(d.maxIDs)
	if err != nil {
		// lru.New fails only for non-positive sizes, which WithMaxIDs
		// filters out.
		panic(err)
	}
	d.seen = cache
	return d
}

func (d *inMemoryDeduper) SeenSeq(_ context.Context, sender string, seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if seq <= d.highwater[sender] {
		return true
	}
	d.highwater[sender] = seq
	return false
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.seen.Contains(id) {
		return true
	}
	d.seen.Add(id, struct{}{})
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen.Remove(id)
}

func (d *inMemoryDeduper) Reset(_ context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.highwater = make(map[string]uint64)
	d.seen.Purge()
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.highwater) + d.seen.Len())
}
