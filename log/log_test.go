package log

import (
	"bytes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/trimmer-cli/trimmer/filesystem"
	"github.com/trimmer-cli/trimmer/key"
	"github.com/trimmer-cli/trimmer/where"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		viper.Set(key.LogsWrite, false)
		viper.Set(key.LogsLevel, "warn")
		viper.Set(key.LogsJson, false)
		So(Setup(), ShouldBeNil)

		var buf bytes.Buffer
		SetOutput(&buf)

		Convey("Warnings are emitted", func() {
			Warnf("cache %s corrupted", "meliplay")
			So(buf.String(), ShouldContainSubstring, "cache meliplay corrupted")
		})

		Convey("Info is filtered out", func() {
			Info("hidden")
			So(buf.String(), ShouldBeEmpty)
		})

		Convey("Fields are rendered", func() {
			WithField("provider", "f1tv").Warn("device switched")
			So(buf.String(), ShouldContainSubstring, "provider=f1tv")
		})
	})

	Convey("Given logs.write", t, func() {
		viper.Set(key.LogsWrite, true)
		defer viper.Set(key.LogsWrite, false)

		So(Setup(), ShouldBeNil)
		Warn("to file")

		entries, err := filesystem.API().ReadDir(where.Logs())
		So(err, ShouldBeNil)
		So(len(entries), ShouldEqual, 1)
	})
}
