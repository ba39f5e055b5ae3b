package util

import (
	"testing"

	"github.com/anisan-cli/anibridge/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSanitizeFilename(t *testing.T) {
	Convey("SanitizeFilename", t, func() {
		Convey("Should replace invalid chars", func() {
			So(SanitizeFilename("file:name?.txt"), ShouldEqual, "file_name_.txt")
		})
		Convey("Should collapse underscores", func() {
			So(SanitizeFilename("trending__week"), ShouldEqual, "trending_week")
		})
		Convey("Should trim separators", func() {
			So(SanitizeFilename("-file-name-"), ShouldEqual, "file-name")
		})
	})
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "entry", "entries"), ShouldEqual, "1 entry")
		So(Quantify(2, "entry", "entries"), ShouldEqual, "2 entries")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestHumanSize(t *testing.T) {
	Convey("HumanSize", t, func() {
		So(HumanSize(512), ShouldEqual, "512 B")
		So(HumanSize(1536), ShouldEqual, "1.5 KiB")
		So(HumanSize(3*1024*1024), ShouldEqual, "3.0 MiB")
	})
}

func TestMaxMin(t *testing.T) {
	Convey("Max/Min", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Min(1, 5, 2), ShouldEqual, 1)
		So(Min[int](), ShouldEqual, 0)
	})
}

func TestDelete(t *testing.T) {
	filesystem.SetMemMapFs()

	Convey("Delete", t, func() {
		fs := filesystem.API()
		So(fs.MkdirAll("/tmp/entries/nested", 0o755), ShouldBeNil)
		So(fs.WriteFile("/tmp/entries/nested/a.json", []byte("{}"), 0o644), ShouldBeNil)

		So(Delete("/tmp/entries"), ShouldBeNil)
		_, err := fs.Stat("/tmp/entries")
		So(err, ShouldNotBeNil)

		So(Delete("/tmp/missing"), ShouldNotBeNil)
	})
}
