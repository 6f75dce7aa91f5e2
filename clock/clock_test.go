package clock

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFake(t *testing.T) {
	Convey("Given a fake clock", t, func() {
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		clk := NewFake(start)

		Convey("When advancing past scheduled callbacks", func() {
			var order []int
			clk.AfterFunc(2*time.Second, func() { order = append(order, 2) })
			clk.AfterFunc(time.Second, func() { order = append(order, 1) })
			clk.AfterFunc(5*time.Second, func() { order = append(order, 5) })

			clk.Advance(3 * time.Second)

			Convey("Then due callbacks fire in order", func() {
				So(order, ShouldResemble, []int{1, 2})
				So(clk.Now(), ShouldEqual, start.Add(3*time.Second))
				So(clk.Pending(), ShouldEqual, 1)
			})
		})

		Convey("When a callback schedules another within the window", func() {
			var fired []time.Duration
			var step func()
			step = func() {
				fired = append(fired, clk.Now().Sub(start))
				clk.AfterFunc(100*time.Millisecond, step)
			}
			clk.AfterFunc(100*time.Millisecond, step)

			clk.Advance(350 * time.Millisecond)

			Convey("Then the chained callbacks fire at their own times", func() {
				So(fired, ShouldResemble, []time.Duration{
					100 * time.Millisecond,
					200 * time.Millisecond,
					300 * time.Millisecond,
				})
			})
		})

		Convey("When a timer is stopped", func() {
			called := false
			timer := clk.AfterFunc(time.Second, func() { called = true })

			So(timer.Stop(), ShouldBeTrue)
			So(timer.Stop(), ShouldBeFalse)
			clk.Advance(2 * time.Second)

			Convey("Then it never fires", func() {
				So(called, ShouldBeFalse)
			})
		})

		Convey("Stop after firing reports false", func() {
			timer := clk.AfterFunc(time.Second, func() {})
			clk.Advance(time.Second)
			So(timer.Stop(), ShouldBeFalse)
		})
	})
}
