package pin

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tubecycle/tubecycle/filesystem"
	"github.com/tubecycle/tubecycle/timer"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPins(t *testing.T) {
	Convey("Given an empty pin store", t, func() {
		So(Clear(), ShouldBeNil)

		first := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		second := first.Add(time.Hour)

		Convey("When two videos are pinned", func() {
			So(Pin(PinnedVideo{VideoID: "bbbbbbbbbbb", Title: "Later", PlaySeconds: 2, PauseSeconds: 5, PinnedAt: second}), ShouldBeNil)
			So(Pin(PinnedVideo{VideoID: "aaaaaaaaaaa", Title: "Earlier", PlaySeconds: 1, PauseSeconds: 10, PinnedAt: first}), ShouldBeNil)

			Convey("Then they are listed in pin order", func() {
				list, err := List()
				So(err, ShouldBeNil)
				So(list, ShouldHaveLength, 2)
				So(list[0].Title, ShouldEqual, "Earlier")
				So(list[1].Title, ShouldEqual, "Later")
			})

			Convey("Then they can be found by id", func() {
				found, err := Find("bbbbbbbbbbb")
				So(err, ShouldBeNil)
				So(found.IsPresent(), ShouldBeTrue)
				So(found.MustGet().Config(), ShouldResemble, timer.FromSeconds(2, 5))

				missing, err := Find("zzzzzzzzzzz")
				So(err, ShouldBeNil)
				So(missing.IsAbsent(), ShouldBeTrue)
			})

			Convey("When one is pinned again", func() {
				So(Pin(PinnedVideo{VideoID: "aaaaaaaaaaa", Title: "Renamed", PlaySeconds: 3, PauseSeconds: 3, PinnedAt: second.Add(time.Hour)}), ShouldBeNil)

				Convey("Then it is updated in place", func() {
					list, err := List()
					So(err, ShouldBeNil)
					So(list, ShouldHaveLength, 2)
					So(list[0].Title, ShouldEqual, "Renamed")
					So(list[0].PinnedAt.Equal(first), ShouldBeTrue)
					So(list[0].PlaySeconds, ShouldEqual, 3.0)
				})
			})

			Convey("When the timing of a pinned video changes", func() {
				ok, err := UpdateTiming("bbbbbbbbbbb", timer.FromSeconds(4, 8))

				Convey("Then the pin stores it", func() {
					So(err, ShouldBeNil)
					So(ok, ShouldBeTrue)

					found, _ := Find("bbbbbbbbbbb")
					So(found.MustGet().PlaySeconds, ShouldEqual, 4.0)
					So(found.MustGet().PauseSeconds, ShouldEqual, 8.0)
				})
			})

			Convey("When the timing of an unpinned video changes", func() {
				ok, err := UpdateTiming("zzzzzzzzzzz", timer.FromSeconds(4, 8))

				Convey("Then nothing is stored", func() {
					So(err, ShouldBeNil)
					So(ok, ShouldBeFalse)
					list, _ := List()
					So(list, ShouldHaveLength, 2)
				})
			})

			Convey("When one is unpinned", func() {
				So(Unpin("aaaaaaaaaaa"), ShouldBeNil)
				So(Unpin("aaaaaaaaaaa"), ShouldBeNil)

				Convey("Then only the other remains", func() {
					list, err := List()
					So(err, ShouldBeNil)
					So(list, ShouldHaveLength, 1)
					So(list[0].VideoID, ShouldEqual, "bbbbbbbbbbb")
				})
			})

			Convey("When the store is cleared", func() {
				So(Clear(), ShouldBeNil)

				Convey("Then nothing is listed", func() {
					list, err := List()
					So(err, ShouldBeNil)
					So(list, ShouldBeEmpty)
				})
			})
		})

		Convey("Pins without a date get the current time", func() {
			So(Pin(PinnedVideo{VideoID: "ccccccccccc", Title: "Now", PlaySeconds: 1, PauseSeconds: 1}), ShouldBeNil)
			found, _ := Find("ccccccccccc")
			So(found.MustGet().PinnedAt.IsZero(), ShouldBeFalse)
		})

		Convey("Invalid pins are rejected", func() {
			So(Pin(PinnedVideo{Title: "No id", PlaySeconds: 1, PauseSeconds: 1}), ShouldNotBeNil)

			err := Pin(PinnedVideo{VideoID: "ddddddddddd", PlaySeconds: 0, PauseSeconds: 1})
			So(errors.Is(err, timer.ErrInvalidConfig), ShouldBeTrue)

			_, err = UpdateTiming("ddddddddddd", timer.FromSeconds(-1, 1))
			So(errors.Is(err, timer.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
