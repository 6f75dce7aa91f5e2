package config

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/tubecycle/tubecycle/filesystem"
	"github.com/tubecycle/tubecycle/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without a config file", func() {
			So(Setup(), ShouldBeNil)
		})

		Convey("Should populate defaults", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
			So(viper.GetFloat64(key.TimerPlaySeconds), ShouldEqual, 1.0)
			So(viper.GetFloat64(key.TimerPauseSeconds), ShouldEqual, 10.0)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("timer.play_seconds"), ShouldEqual, "timer_play_seconds")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given the play duration field", t, func() {
		field := Default[key.TimerPlaySeconds]

		Convey("Its env name is prefixed", func() {
			So(field.Env(), ShouldEqual, "TUBECYCLE_TIMER_PLAY_SECONDS")
		})

		Convey("It parses numbers", func() {
			v, err := field.Parse([]string{"2.5"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 2.5)
		})

		Convey("It rejects garbage", func() {
			_, err := field.Parse([]string{"soon"})
			So(err, ShouldNotBeNil)
		})

		Convey("It reports its type", func() {
			So(field.TypeName(), ShouldEqual, "float")
		})
	})

	Convey("Boolean and list fields parse too", t, func() {
		autoStart := Default[key.TimerAutoStart]
		v, err := autoStart.Parse([]string{"false"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, false)

		_, err = autoStart.Parse(nil)
		So(err, ShouldNotBeNil)
	})
}
