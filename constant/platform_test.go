package constant

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInstallHints(t *testing.T) {
	Convey("Every install hint installs the player binary", t, func() {
		for goos, hint := range InstallHints {
			So(goos, ShouldNotBeBlank)
			So(strings.HasSuffix(hint, " "+PlayerBinary), ShouldBeTrue)
		}
	})

	Convey("Unknown platforms have no hint", t, func() {
		So(InstallHints["plan9"], ShouldBeEmpty)
	})
}
