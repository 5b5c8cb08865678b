// Package bus provides the in-process messaging transport: point-to-point
// send-to-node plus publish/subscribe broadcast streams.
//
// Delivery is reliable and order-preserving per sender->receiver pair:
// each attached node drains its own bounded inbox with a single goroutine,
// so a node handles one envelope to completion before the next. Sends
// never block the caller; they are fire-and-forget.
package bus

import (
	"context"
	"sync"

	"github.com/okian/gridarena/internal/adapters/mq/queue"
	"github.com/okian/gridarena/internal/protocol"
	"github.com/okian/gridarena/pkg/logger"
	"github.com/okian/gridarena/pkg/metrics"
)

// Handler consumes envelopes delivered to a node.
type Handler interface {
	HandleEnvelope(ctx context.Context, env protocol.Envelope)
}

// Option applies a configuration option to the Bus.
type Option func(*Bus)

// WithInboxSize bounds each attached node's inbox.
func WithInboxSize(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.inboxSize = n
		}
	}
}

// WithLogger sets a custom logger for the bus.
func WithLogger(log logger.Logger) Option {
	return func(b *Bus) {
		if log != nil {
			b.log = log
		}
	}
}

const defaultInboxSize = 10_000

type subscriber struct {
	id      string
	inbox   *queue.InMemoryQueue
	handler Handler
}

// Bus is the in-process transport.
type Bus struct {
	mu        sync.RWMutex
	nodes     map[string]*subscriber
	streams   map[string][]string
	inboxSize int
	log       logger.Logger

	inflight sync.WaitGroup
	wg       sync.WaitGroup
	closed   bool
}

// New creates a Bus with configuration options.
func New(opts ...Option) *Bus {
	b := &Bus{
		nodes:     make(map[string]*subscriber),
		streams:   make(map[string][]string),
		inboxSize: defaultInboxSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = logger.Get()
	}
	return b
}

// Attach registers a node on the bus and starts its delivery loop.
func (b *Bus) Attach(ctx context.Context, id string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.nodes[id]; exists {
		return
	}
	sub := &subscriber{
		id:      id,
		inbox:   queue.NewInMemoryQueue(queue.WithCapacity(b.inboxSize)),
		handler: h,
	}
	b.nodes[id] = sub

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for env := range sub.inbox.Dequeue(ctx) {
			sub.handler.HandleEnvelope(ctx, env)
			b.inflight.Done()
		}
	}()
}

// Subscribe adds a node to a broadcast stream. Subsequent publishes on the
// stream are delivered to the node's inbox in publish order.
func (b *Bus) Subscribe(stream, nodeID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, id := range b.streams[stream] {
		if id == nodeID {
			return
		}
	}
	b.streams[stream] = append(b.streams[stream], nodeID)
}

// Send delivers an envelope to one node. Returns false if the node is
// unknown or its inbox is full.
func (b *Bus) Send(ctx context.Context, to string, env protocol.Envelope) bool {
	b.mu.RLock()
	sub, ok := b.nodes[to]
	b.mu.RUnlock()
	if !ok {
		b.log.Warn(ctx, "send to unknown node", logger.String("to", to), logger.String("kind", env.Msg.Kind()))
		return false
	}

	b.inflight.Add(1)
	if !sub.inbox.Enqueue(ctx, env) {
		b.inflight.Done()
		return false
	}
	metrics.RecordMessageSent(env.Msg.Kind())
	return true
}

// Publish delivers an envelope to every subscriber of a stream.
func (b *Bus) Publish(ctx context.Context, stream string, env protocol.Envelope) {
	b.mu.RLock()
	ids := append([]string(nil), b.streams[stream]...)
	b.mu.RUnlock()

	metrics.RecordBroadcast(env.Msg.Kind())
	for _, id := range ids {
		b.mu.RLock()
		sub, ok := b.nodes[id]
		b.mu.RUnlock()
		if !ok {
			continue
		}
		b.inflight.Add(1)
		if !sub.inbox.Enqueue(ctx, env) {
			b.inflight.Done()
			b.log.Warn(ctx, "dropped broadcast", logger.String("to", id), logger.String("kind", env.Msg.Kind()))
		}
	}
}

// Quiesce blocks until every in-flight delivery, including cascades
// triggered by handlers, has been processed. Intended for tests and
// shutdown.
func (b *Bus) Quiesce() {
	b.inflight.Wait()
}

// Close stops delivery. Queued envelopes are drained first.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := make([]*subscriber, 0, len(b.nodes))
	for _, s := range b.nodes {
		subs = append(subs, s)
	}
	b.mu.Unlock()

	for _, s := range subs {
		_ = s.inbox.Close()
	}
	b.wg.Wait()
}
