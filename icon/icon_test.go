package icon

import (
	"testing"

	"github.com/kinogram/kino/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Given a registered icon", t, func() {
		target := Play

		Convey("It renders correctly for each variant", func() {
			for _, variant := range AvailableVariants() {
				Convey("variant="+variant, func() {
					viper.Set(key.IconsVariant, variant)
					result := Get(target)
					So(result, ShouldNotBeEmpty)
				})
			}
		})

		Convey("Every icon is defined for every variant", func() {
			for _, variant := range AvailableVariants() {
				viper.Set(key.IconsVariant, variant)
				for i := Fail; i <= Fullscreen; i++ {
					So(Get(i), ShouldNotBeEmpty)
				}
			}
		})

		Convey("It falls back to plain for an unknown variant", func() {
			viper.Set(key.IconsVariant, "")
			So(Get(target), ShouldEqual, ">")
		})
	})
}
