package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/trimmer-cli/trimmer/filesystem"
)

func TestCompare(t *testing.T) {
	Convey("Compare orders semantic versions", t, func() {
		for _, c := range []struct {
			a, b string
			want int
		}{
			{"1.2.3", "1.2.3", 0},
			{"v1.2.4", "1.2.3", 1},
			{"1.10.0", "1.9.9", 1},
			{"0.1.0", "1.0.0", -1},
			{"v0.2.0-rc.1", "0.1.9", 1},
			{"1.0.0+linux", "1.0.0", 0},
		} {
			got, err := Compare(c.a, c.b)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, c.want)
		}

		_, err := Compare("latest", "1.0.0")
		So(err, ShouldNotBeNil)
		_, err = Compare("1.0", "1.0.0")
		So(err, ShouldNotBeNil)
	})
}

func TestLatest(t *testing.T) {
	Convey("Given a releases endpoint", t, func() {
		filesystem.SetMemMapFs()
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			_, _ = w.Write([]byte(`{"tag_name":"v1.4.2"}`))
		}))
		defer server.Close()

		previous := ReleasesURL
		ReleasesURL = server.URL
		defer func() { ReleasesURL = previous }()

		Convey("Latest strips the prefix and caches the answer", func() {
			version, err := Latest(context.Background())
			So(err, ShouldBeNil)
			So(version, ShouldEqual, "1.4.2")

			again, err := Latest(context.Background())
			So(err, ShouldBeNil)
			So(again, ShouldEqual, "1.4.2")
			So(calls, ShouldEqual, 1)
		})
	})
}
