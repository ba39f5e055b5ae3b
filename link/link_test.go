package link

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestIsCorrupted(t *testing.T) {
	Convey("IsCorrupted", t, func() {
		Convey("Flags control characters", func() {
			So(IsCorrupted("a\x01b"), ShouldBeTrue)
			So(IsCorrupted("https://x.com/\x1fa"), ShouldBeTrue)
		})

		Convey("Flags line breaks and whitespace runs", func() {
			So(IsCorrupted("https://x.com/a\nb"), ShouldBeTrue)
			So(IsCorrupted("https://x.com/a\r"), ShouldBeTrue)
			So(IsCorrupted("https://x.com/a  b"), ShouldBeTrue)
			So(IsCorrupted("a\t\tb"), ShouldBeTrue)
		})

		Convey("Flags repeated backslashes and carets", func() {
			So(IsCorrupted(`https://x.com/a\\b`), ShouldBeTrue)
			So(IsCorrupted("https://x.com/^^"), ShouldBeTrue)
		})

		Convey("Accepts clean URLs and the empty string", func() {
			So(IsCorrupted("https://x.com/a"), ShouldBeFalse)
			So(IsCorrupted("https://x.com/a?b=c d"), ShouldBeFalse)
			So(IsCorrupted(""), ShouldBeFalse)
		})
	})
}

func TestIsWellFormed(t *testing.T) {
	Convey("IsWellFormed", t, func() {
		So(IsWellFormed("https://example.com"), ShouldBeTrue)
		So(IsWellFormed("http://x"), ShouldBeTrue)
		So(IsWellFormed("allmanga.to/path"), ShouldBeTrue)
		So(IsWellFormed("not a url"), ShouldBeFalse)
		So(IsWellFormed("a.b"), ShouldBeFalse)
		So(IsWellFormed("nodots"), ShouldBeFalse)
	})
}

func TestHelpers(t *testing.T) {
	Convey("EnsureScheme", t, func() {
		So(EnsureScheme("allmanga.to/x"), ShouldEqual, "https://allmanga.to/x")
		So(EnsureScheme("//cdn.example.com/v.mp4"), ShouldEqual, "https://cdn.example.com/v.mp4")
		So(EnsureScheme("http://a.b"), ShouldEqual, "http://a.b")
	})

	Convey("HasVideoExtension ignores the query string", t, func() {
		So(HasVideoExtension("https://cdn.example.com/ep1.MP4?token=abc"), ShouldBeTrue)
		So(HasVideoExtension("https://cdn.example.com/master.m3u8"), ShouldBeTrue)
		So(HasVideoExtension("https://cdn.example.com/watch?file=a.mp4"), ShouldBeFalse)
		So(HasVideoExtension("https://example.com/page"), ShouldBeFalse)
	})

	Convey("Host and HostMatches", t, func() {
		So(Host("https://OK.ru/videoembed/1"), ShouldEqual, "ok.ru")
		So(Host("ok.ru/videoembed/1"), ShouldEqual, "ok.ru")
		So(HostMatches("https://m.ok.ru/video/1", "ok.ru"), ShouldBeTrue)
		So(HostMatches("https://notok.ru/video/1", "ok.ru"), ShouldBeFalse)
		So(HostMatches("https://streamtape.to/e/1", "streamtape"), ShouldBeTrue)

		matched, ok := MatchHost("https://m.ok.ru/video/1", "streamtape", "ok.ru")
		So(ok, ShouldBeTrue)
		So(matched, ShouldEqual, "ok.ru")
	})
}
