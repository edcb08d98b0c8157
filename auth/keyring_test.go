package auth

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zalando/go-keyring"
)

func init() {
	keyring.MockInit()
}

func TestPassword(t *testing.T) {
	Convey("Given a keyring", t, func() {
		Convey("A stored password is read back", func() {
			So(SetPassword("walter", "heisenberg"), ShouldBeNil)

			password, err := GetPassword("walter")
			So(err, ShouldBeNil)
			So(password, ShouldEqual, "heisenberg")

			Convey("until it is deleted", func() {
				So(DeletePassword("walter"), ShouldBeNil)

				_, err := GetPassword("walter")
				So(errors.Is(err, keyring.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("Unknown users have no password", func() {
			_, err := GetPassword("jesse")
			So(errors.Is(err, keyring.ErrNotFound), ShouldBeTrue)
		})
	})
}
