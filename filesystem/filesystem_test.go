package filesystem

import (
	"os"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")
		})
	})
}

func TestWriteAtomic(t *testing.T) {
	Convey("Given an in-memory backend", t, func() {
		SetMemMapFs()
		lo.Must0(API().MkdirAll("/data", 0o755))

		Convey("WriteAtomic leaves only the final file", func() {
			So(WriteAtomic("/data/a.json", []byte(`{"x":1}`)), ShouldBeNil)
			So(string(lo.Must(API().ReadFile("/data/a.json"))), ShouldEqual, `{"x":1}`)
			So(lo.Must(API().Exists("/data/a.json.tmp")), ShouldBeFalse)
		})

		Convey("GacheFs writes through the same backend", func() {
			f, err := GacheFs{}.OpenFile("/data/g.json", os.O_WRONLY|os.O_CREATE, 0o644)
			So(err, ShouldBeNil)
			_, _ = f.Write([]byte("g"))
			_ = f.Close()
			So(lo.Must(API().Exists("/data/g.json")), ShouldBeTrue)
		})

		Convey("GacheFs creates missing parent directories", func() {
			f, err := GacheFs{}.OpenFile("/fresh/relations/binds.json", os.O_WRONLY|os.O_CREATE, 0o644)
			So(err, ShouldBeNil)
			_ = f.Close()
			So(lo.Must(API().DirExists("/fresh/relations")), ShouldBeTrue)
		})

		Convey("GacheFs does not create directories for reads", func() {
			_, err := GacheFs{}.OpenFile("/absent/binds.json", os.O_RDONLY, 0)
			So(err, ShouldNotBeNil)
			So(lo.Must(API().DirExists("/absent")), ShouldBeFalse)
		})
	})
}
