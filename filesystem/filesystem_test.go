package filesystem

import (
	"io"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "OsFs")
			So(IsOs(), ShouldBeTrue)
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "MemMapFS")
			So(IsOs(), ShouldBeFalse)
		})
	})
}

func TestGacheFs(t *testing.T) {
	Convey("Given the in-memory backend", t, func() {
		SetMemMapFs()
		var gfs GacheFs

		Convey("When a file is written through the adapter", func() {
			So(gfs.MkdirAll("/cache/trimmer", os.ModePerm), ShouldBeNil)

			f, err := gfs.OpenFile("/cache/trimmer/x.json", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
			So(err, ShouldBeNil)
			_, err = f.Write([]byte(`{}`))
			So(err, ShouldBeNil)
			So(f.Close(), ShouldBeNil)

			Convey("Then it is visible through the API", func() {
				r, err := API().Open("/cache/trimmer/x.json")
				So(err, ShouldBeNil)
				defer r.Close()

				data, err := io.ReadAll(r)
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, `{}`)
			})
		})
	})
}
