package auth

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/tubecycle/tubecycle/key"
	"github.com/zalando/go-keyring"
)

func TestAPIKey(t *testing.T) {
	keyring.MockInit()

	Convey("Given no key anywhere", t, func() {
		viper.Set(key.YouTubeAPIKey, "")
		So(DeleteAPIKey(), ShouldBeNil)

		Convey("Then resolution fails with ErrNoAPIKey", func() {
			_, err := APIKey()
			So(errors.Is(err, ErrNoAPIKey), ShouldBeTrue)
		})

		Convey("When a key is stored in the keyring", func() {
			So(SetAPIKey("  from-keyring "), ShouldBeNil)

			Convey("Then it is used", func() {
				k, err := APIKey()
				So(err, ShouldBeNil)
				So(k, ShouldEqual, "from-keyring")
			})

			Convey("Then the config value takes precedence", func() {
				viper.Set(key.YouTubeAPIKey, "from-config")
				k, err := APIKey()
				So(err, ShouldBeNil)
				So(k, ShouldEqual, "from-config")
			})
		})

		Convey("Then empty keys are refused", func() {
			So(SetAPIKey("   "), ShouldNotBeNil)
		})
	})
}
