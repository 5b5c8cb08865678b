package dedupe_test

import (
	"context"
	"testing"

	dedupe "github.com/okian/gridarena/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new in-memory deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("When checking sequenced messages from one sender", func() {
			So(d.SeenSeq(ctx, "p1", 1), ShouldBeFalse)
			So(d.SeenSeq(ctx, "p1", 2), ShouldBeFalse)

			Convey("Then a re-delivered sequence is reported as seen", func() {
				So(d.SeenSeq(ctx, "p1", 2), ShouldBeTrue)
				So(d.SeenSeq(ctx, "p1", 1), ShouldBeTrue)
			})

			Convey("And a later sequence advances the watermark", func() {
				So(d.SeenSeq(ctx, "p1", 5), ShouldBeFalse)
				So(d.SeenSeq(ctx, "p1", 3), ShouldBeTrue)
			})

			Convey("And other senders have independent watermarks", func() {
				So(d.SeenSeq(ctx, "p2", 1), ShouldBeFalse)
			})
		})

		Convey("When recording free-form message IDs", func() {
			So(d.SeenAndRecord(ctx, "msg-1"), ShouldBeFalse)

			Convey("Then a duplicate is detected", func() {
				So(d.SeenAndRecord(ctx, "msg-1"), ShouldBeTrue)
			})

			Convey("And Unrecord allows a retry", func() {
				d.Unrecord(ctx, "msg-1")
				So(d.SeenAndRecord(ctx, "msg-1"), ShouldBeFalse)
			})
		})

		Convey("When the ID cache is bounded", func() {
			small := dedupe.NewInMemoryDeduper(dedupe.WithMaxIDs(2))
			So(small.SeenAndRecord(ctx, "a"), ShouldBeFalse)
			So(small.SeenAndRecord(ctx, "b"), ShouldBeFalse)
			So(small.SeenAndRecord(ctx, "c"), ShouldBeFalse)

			Convey("Then the oldest ID is evicted", func() {
				So(small.SeenAndRecord(ctx, "a"), ShouldBeFalse)
			})
		})

		Convey("When resetting for a new tournament", func() {
			So(d.SeenSeq(ctx, "p1", 9), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "msg-9"), ShouldBeFalse)
			d.Reset(ctx)

			Convey("Then watermarks and IDs start fresh", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenSeq(ctx, "p1", 1), ShouldBeFalse)
				So(d.SeenAndRecord(ctx, "msg-9"), ShouldBeFalse)
			})
		})
	})
}
