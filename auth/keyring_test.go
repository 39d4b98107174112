package auth

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zalando/go-keyring"
)

func TestKeyring(t *testing.T) {
	Convey("Given a mock keyring", t, func() {
		keyring.MockInit()

		Convey("Set then Get returns the value", func() {
			So(Set("globoplay", "GLBID", "abc"), ShouldBeNil)

			value, err := Get("Globoplay", "GLBID")
			So(err, ShouldBeNil)
			So(value, ShouldEqual, "abc")
		})

		Convey("Lookup folds absence into None", func() {
			value, err := Lookup("f1tv", "entitlement_token")
			So(err, ShouldBeNil)
			So(value.IsAbsent(), ShouldBeTrue)
		})

		Convey("Delete removes the value", func() {
			So(Set("f1tv", "entitlement_token", "t"), ShouldBeNil)
			So(Delete("f1tv", "entitlement_token"), ShouldBeNil)

			_, err := Get("f1tv", "entitlement_token")
			So(err, ShouldEqual, ErrNotFound)
		})
	})
}
