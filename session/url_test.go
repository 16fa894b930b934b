package session

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalizeURL(t *testing.T) {
	Convey("NormalizeURL", t, func() {
		Convey("Leaves urls without a query alone", func() {
			So(NormalizeURL("https://cdn/a.mp4"), ShouldEqual, "https://cdn/a.mp4")
			So(NormalizeURL(""), ShouldEqual, "")
		})

		Convey("Strips a trailing cache-buster", func() {
			So(NormalizeURL("a.mp4?cb=123"), ShouldEqual, "a.mp4")
			So(NormalizeURL("a.mp4?x=1&cb=123"), ShouldEqual, "a.mp4?x=1")
		})

		// Stripping only a trailing cache-buster used to treat these as
		// different sources; every occurrence is removed now.
		Convey("Strips cache-busters anywhere in the query", func() {
			So(NormalizeURL("a.mp4?cb=1&x=1"), ShouldEqual, "a.mp4?x=1")
			So(NormalizeURL("a.mp4?cb=1&x=1&cb=2"), ShouldEqual, "a.mp4?x=1")
			So(NormalizeURL("a.mp4?cb=1&x=1"), ShouldEqual, NormalizeURL("a.mp4?x=1&cb=2"))
		})

		Convey("Keeps the order of the remaining parameters", func() {
			So(NormalizeURL("a.mp4?y=2&cb=9&x=1"), ShouldEqual, "a.mp4?y=2&x=1")
			So(NormalizeURL("a.mp4?y=2&x=1"), ShouldNotEqual, NormalizeURL("a.mp4?x=1&y=2"))
		})

		Convey("Only matches the exact parameter name", func() {
			So(NormalizeURL("a.mp4?cbx=1&xcb=2"), ShouldEqual, "a.mp4?cbx=1&xcb=2")
			So(NormalizeURL("a.mp4?cb"), ShouldEqual, "a.mp4")
		})

		Convey("Keeps the fragment", func() {
			So(NormalizeURL("a.mp4?cb=1#t=10"), ShouldEqual, "a.mp4#t=10")
		})
	})
}
