package recent_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	recent "github.com/okian/holmgang/internal/domain/recent"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryTracker(t *testing.T) {
	Convey("Given a new tracker", t, func() {
		ctx := context.Background()

		Convey("When creating with default options", func() {
			tr := recent.NewInMemoryTracker()

			Convey("Then it starts empty", func() {
				So(tr, ShouldNotBeNil)
				So(tr.Size(), ShouldEqual, 0)
				So(tr.Recent(ctx, 10), ShouldBeEmpty)
			})
		})

		Convey("When recording addresses", func() {
			tr := recent.NewInMemoryTracker()
			tr.Record(ctx, "0xAA")
			tr.Record(ctx, "0xBB")
			tr.Record(ctx, "0xCC")

			Convey("Then they come back most recent first", func() {
				So(tr.Size(), ShouldEqual, 3)
				So(tr.Recent(ctx, 0), ShouldResemble, []string{"0xcc", "0xbb", "0xaa"})
			})

			Convey("And n limits the returned slice", func() {
				So(tr.Recent(ctx, 2), ShouldResemble, []string{"0xcc", "0xbb"})
			})

			Convey("And re-recording moves an address to the front", func() {
				tr.Record(ctx, "0xaa")

				So(tr.Size(), ShouldEqual, 3)
				So(tr.Recent(ctx, 0), ShouldResemble, []string{"0xaa", "0xcc", "0xbb"})
			})

			Convey("And casing collapses into one lowercased entry", func() {
				tr.Record(ctx, "0XBB")

				So(tr.Size(), ShouldEqual, 3)
				So(tr.Recent(ctx, 1), ShouldResemble, []string{"0xbb"})
			})
		})

		Convey("When recording an empty address", func() {
			tr := recent.NewInMemoryTracker()
			tr.Record(ctx, "")

			Convey("Then nothing is recorded", func() {
				So(tr.Size(), ShouldEqual, 0)
			})
		})

		Convey("When the bound is exceeded", func() {
			tr := recent.NewInMemoryTracker(recent.WithMaxEntries(3))
			for _, a := range []string{"0x01", "0x02", "0x03", "0x04"} {
				tr.Record(ctx, a)
			}

			Convey("Then the oldest entry is evicted", func() {
				So(tr.Size(), ShouldEqual, 3)
				So(tr.Recent(ctx, 0), ShouldResemble, []string{"0x04", "0x03", "0x02"})
			})

			Convey("And a re-recorded entry survives later evictions", func() {
				tr.Record(ctx, "0x02") // front: 02 04 03
				tr.Record(ctx, "0x05") // evicts 03

				So(tr.Recent(ctx, 0), ShouldResemble, []string{"0x05", "0x02", "0x04"})
			})
		})

		Convey("When the tracker is unbounded", func() {
			tr := recent.NewInMemoryTracker(recent.WithMaxEntries(0))
			for i := 0; i < 500; i++ {
				tr.Record(ctx, fmt.Sprintf("0x%04x", i))
			}

			Convey("Then nothing is evicted", func() {
				So(tr.Size(), ShouldEqual, 500)
			})
		})

		Convey("When recorded concurrently", func() {
			tr := recent.NewInMemoryTracker(recent.WithMaxEntries(64))
			var wg sync.WaitGroup
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					for i := 0; i < 100; i++ {
						tr.Record(ctx, fmt.Sprintf("0x%d-%d", g, i%20))
						_ = tr.Recent(ctx, 5)
					}
				}(g)
			}
			wg.Wait()

			Convey("Then the bound holds", func() {
				So(tr.Size(), ShouldBeLessThanOrEqualTo, 64)
			})
		})
	})
}
