package cache

import (
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tubecycle/tubecycle/filesystem"
	"github.com/tubecycle/tubecycle/where"
)

func init() {
	filesystem.SetMemMapFs()
}

type page struct {
	Query  string   `json:"query"`
	Videos []string `json:"videos"`
}

func TestCache(t *testing.T) {
	Convey("Given a written entry", t, func() {
		key := Key("lofi", "")
		So(Write(key, page{Query: "lofi", Videos: []string{"a", "b"}}), ShouldBeNil)

		Convey("Then it reads back within its ttl", func() {
			var got page
			So(Read(key, time.Hour, &got), ShouldBeTrue)
			So(got.Videos, ShouldResemble, []string{"a", "b"})
		})

		Convey("Then a zero ttl disables reads", func() {
			var got page
			So(Read(key, 0, &got), ShouldBeFalse)
		})

		Convey("Then expired entries are misses and get pruned", func() {
			old := time.Now().Add(-2 * time.Hour)
			p := filepath.Join(where.Searches(), key+".json")
			So(filesystem.API().Chtimes(p, old, old), ShouldBeNil)

			var got page
			So(Read(key, time.Hour, &got), ShouldBeFalse)
			So(Prune(time.Hour), ShouldBeGreaterThanOrEqualTo, 1)

			exists, _ := filesystem.API().Exists(p)
			So(exists, ShouldBeFalse)
		})

		Convey("Then the cache has a size", func() {
			So(Size(), ShouldBeGreaterThan, 0)
		})
	})

	Convey("Corrupt entries are misses", t, func() {
		key := Key("broken")
		p := filepath.Join(where.Searches(), key+".json")
		So(filesystem.API().WriteFile(p, []byte("{"), 0o644), ShouldBeNil)

		var got page
		So(Read(key, time.Hour, &got), ShouldBeFalse)
	})

	Convey("Keys are stable and case-insensitive", t, func() {
		So(Key("Lofi", "tok"), ShouldEqual, Key("lofi", "tok"))
		So(Key("lofi", "a"), ShouldNotEqual, Key("lofi", "b"))
	})
}
