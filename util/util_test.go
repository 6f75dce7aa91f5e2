package util

import (
	"regexp"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tubecycle/tubecycle/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "video", "videos"), ShouldEqual, "1 video")
		So(Quantify(2, "video", "videos"), ShouldEqual, "2 videos")
		So(Quantify(0, "video", "videos"), ShouldEqual, "0 videos")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("pinned videos"), ShouldEqual, "Pinned videos")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestReGroups(t *testing.T) {
	Convey("ReGroups", t, func() {
		re := regexp.MustCompile(`v=(?P<id>[\w-]{11})`)
		So(ReGroups(re, "watch?v=dQw4w9WgXcQ")["id"], ShouldEqual, "dQw4w9WgXcQ")
		So(ReGroups(re, "nothing here"), ShouldBeEmpty)
	})
}

func TestClamp(t *testing.T) {
	Convey("Clamp", t, func() {
		So(Clamp(0.5, 1, 3600), ShouldEqual, 1.0)
		So(Clamp(12.0, 1, 3600), ShouldEqual, 12.0)
		So(Clamp(9000, 1, 3600), ShouldEqual, 3600)
	})
}

func TestFormatting(t *testing.T) {
	Convey("FormatSeconds", t, func() {
		So(FormatSeconds(9400*time.Millisecond), ShouldEqual, "9.4s")
		So(FormatSeconds(-time.Second), ShouldEqual, "0.0s")
	})

	Convey("FormatClock", t, func() {
		So(FormatClock(65), ShouldEqual, "1:05")
		So(FormatClock(3725), ShouldEqual, "1:02:05")
		So(FormatClock(-3), ShouldEqual, "0:00")
	})
}

func TestDelete(t *testing.T) {
	Convey("Delete", t, func() {
		fs := filesystem.API()
		So(fs.MkdirAll("/tmp/tc/search", 0o755), ShouldBeNil)
		So(fs.WriteFile("/tmp/tc/search/page.json", []byte("{}"), 0o644), ShouldBeNil)

		So(Delete("/tmp/tc/search/page.json"), ShouldBeNil)
		So(Delete("/tmp/tc"), ShouldBeNil)

		exists, _ := fs.Exists("/tmp/tc")
		So(exists, ShouldBeFalse)
		So(Delete("/tmp/tc"), ShouldNotBeNil)
	})
}

func TestStack(t *testing.T) {
	Convey("Stack", t, func() {
		var s Stack[int]
		s.Push(1)
		s.Push(2)
		So(s.Len(), ShouldEqual, 2)
		So(s.Peek(), ShouldEqual, 2)
		So(s.Pop(), ShouldEqual, 2)
		So(s.Pop(), ShouldEqual, 1)
		So(s.Pop(), ShouldEqual, 0)
	})
}
