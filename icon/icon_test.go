package icon

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/trimmer-cli/trimmer/key"
)

func TestGet(t *testing.T) {
	Convey("Given a registered icon", t, func() {
		Convey("It renders in every variant", func() {
			for _, variant := range AvailableVariants() {
				Convey("variant="+variant, func() {
					viper.Set(key.IconsVariant, variant)
					So(Get(Key), ShouldNotBeEmpty)
				})
			}
		})

		Convey("The plain variant is ASCII friendly", func() {
			viper.Set(key.IconsVariant, "plain")
			So(Get(Video), ShouldEqual, "V")
			So(Get(Audio), ShouldEqual, "A")
			So(Get(Subtitle), ShouldEqual, "S")
		})

		Convey("It returns empty for an unknown variant", func() {
			viper.Set(key.IconsVariant, "")
			So(Get(Key), ShouldBeEmpty)
		})

		Convey("It returns empty for an unregistered icon", func() {
			viper.Set(key.IconsVariant, "plain")
			So(Get(Icon(0)), ShouldBeEmpty)
		})

		Convey("AvailableVariants cannot be altered by callers", func() {
			AvailableVariants()[0] = "changed"
			So(AvailableVariants()[0], ShouldEqual, "emoji")
		})
	})
}
