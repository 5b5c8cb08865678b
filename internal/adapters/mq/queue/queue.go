// Package queue provides the bounded inbox feeding a node's serial
// message loop.
//
// Enqueue never blocks: the transport is fire-and-forget, so a full inbox
// drops the delivery (and counts it) rather than stalling the sender.
package queue

import (
	"context"
	"sync"

	"github.com/okian/gridarena/internal/protocol"
	"github.com/okian/gridarena/pkg/metrics"
)

const defaultCapacity = 10_000

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an envelope to the inbox.
	// Returns false if the inbox is full or closed.
	Enqueue(ctx context.Context, e protocol.Envelope) bool

	// Dequeue returns a channel receiving envelopes in delivery order.
	// The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan protocol.Envelope

	// Len returns the current number of queued envelopes.
	Len(ctx context.Context) int

	// Close stops the queue. After closing, no new envelopes can be
	// enqueued and the dequeue channel drains then closes.
	Close() error
}

// Option applies a configuration option to the in-memory queue.
type Option func(*InMemoryQueue)

// WithCapacity bounds the inbox size.
func WithCapacity(n int) Option {
	return func(q *InMemoryQueue) {
		if n > 0 {
			q.capacity = n
		}
	}
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	envelopes chan protocol.Envelope
	capacity  int
	mu        sync.RWMutex
	closed    bool
}

// NewInMemoryQueue creates an inbox queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.envelopes = make(chan protocol.Envelope, q.capacity)
	return q
}

// Enqueue adds an envelope to the inbox.
func (q *InMemoryQueue) Enqueue(ctx context.Context, e protocol.Envelope) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordInboxDropped()
		return false
	}

	select {
	case q.envelopes <- e:
		metrics.UpdateInboxSize(len(q.envelopes))
		return true
	case <-ctx.Done():
		metrics.RecordInboxDropped()
		return false
	default:
		// Inbox full.
		metrics.RecordInboxDropped()
		return false
	}
}

// Dequeue returns the envelope channel. Envelopes arrive in enqueue order.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan protocol.Envelope {
	return q.envelopes
}

// Len returns the current number of queued envelopes.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.envelopes)
}

// Close stops the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.envelopes)
	q.closed = true
	return nil
}
