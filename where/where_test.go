package where

import (
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tubecycle/tubecycle/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Directories are created", func() {
			for _, dir := range []func() string{Config, Cache, Logs, Searches} {
				path := dir()
				So(path, ShouldNotBeEmpty)
				So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
			}
		})

		Convey("Pins live in the config directory", func() {
			So(filepath.Dir(Pins()), ShouldEqual, Config())
			So(filepath.Base(Pins()), ShouldEqual, "pins.json")
		})

		Convey("The config path can be overridden", func() {
			t.Setenv(EnvConfigPath, "/custom/tubecycle")
			So(Config(), ShouldEqual, "/custom/tubecycle")
		})
	})
}
