package bus_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/gridarena/internal/adapters/mq/bus"
	"github.com/okian/gridarena/internal/domain/model"
	"github.com/okian/gridarena/internal/protocol"
	"github.com/okian/gridarena/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// recorder collects every envelope it handles, in delivery order.
type recorder struct {
	mu   sync.Mutex
	got  []protocol.Envelope
	next func(ctx context.Context, env protocol.Envelope)
}

func (r *recorder) HandleEnvelope(ctx context.Context, env protocol.Envelope) {
	r.mu.Lock()
	r.got = append(r.got, env)
	r.mu.Unlock()
	if r.next != nil {
		r.next(ctx, env)
	}
}

func (r *recorder) envelopes() []protocol.Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]protocol.Envelope(nil), r.got...)
}

func register(id string) protocol.Envelope {
	return protocol.Envelope{
		ID:   id,
		From: "test",
		Msg:  protocol.RegisterOrUpdateIdentity{Player: model.PlayerInfo{ID: id}},
	}
}

func TestBus(t *testing.T) {
	ctx := context.Background()

	Convey("Given a bus with two attached nodes", t, func() {
		b := bus.New()
		defer b.Close()
		a, c := &recorder{}, &recorder{}
		b.Attach(ctx, "a", a)
		b.Attach(ctx, "c", c)

		Convey("sends are delivered in order", func() {
			for i := 0; i < 100; i++ {
				So(b.Send(ctx, "a", register(fmt.Sprintf("env-%03d", i))), ShouldBeTrue)
			}
			b.Quiesce()

			got := a.envelopes()
			So(len(got), ShouldEqual, 100)
			for i, env := range got {
				So(env.ID, ShouldEqual, fmt.Sprintf("env-%03d", i))
			}
		})

		Convey("a send to an unknown node reports failure", func() {
			So(b.Send(ctx, "nobody", register("x")), ShouldBeFalse)
		})

		Convey("a publish reaches only subscribers", func() {
			b.Subscribe("updates", "a")
			b.Publish(ctx, "updates", register("broadcast"))
			b.Quiesce()

			So(len(a.envelopes()), ShouldEqual, 1)
			So(len(c.envelopes()), ShouldEqual, 0)
		})

		Convey("duplicate subscriptions deliver once", func() {
			b.Subscribe("updates", "a")
			b.Subscribe("updates", "a")
			b.Publish(ctx, "updates", register("once"))
			b.Quiesce()

			So(len(a.envelopes()), ShouldEqual, 1)
		})

		Convey("quiesce waits for cascaded deliveries", func() {
			// a forwards everything it receives to c.
			a.next = func(ctx context.Context, env protocol.Envelope) {
				if env.From != "a" {
					fwd := env
					fwd.From = "a"
					b.Send(ctx, "c", fwd)
				}
			}
			So(b.Send(ctx, "a", register("hop")), ShouldBeTrue)
			b.Quiesce()

			So(len(c.envelopes()), ShouldEqual, 1)
			So(c.envelopes()[0].From, ShouldEqual, "a")
		})
	})
}
