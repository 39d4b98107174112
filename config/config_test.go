package config

import (
	"path/filepath"
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
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			So(Setup(), ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			So(Setup(), ShouldBeNil)
			So(viper.GetString(key.MeliplayRegion), ShouldEqual, "BR")
			So(viper.GetInt(key.DownloadQuality), ShouldEqual, 1080)
			So(viper.GetBool(key.CacheEnabled), ShouldBeTrue)
		})

		Convey("Should read values from the toml file", func() {
			path := filepath.Join(where.Config(), "trimmer.toml")
			So(filesystem.API().WriteFile(path, []byte("[meliplay]\nregion = \"AR\"\n"), 0o644), ShouldBeNil)
			defer filesystem.API().Remove(path)

			So(Setup(), ShouldBeNil)
			So(viper.GetString(key.MeliplayRegion), ShouldEqual, "AR")
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("meliplay.region"), ShouldEqual, "meliplay_region")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given a registered field", t, func() {
		field := Default[key.GloboplayTitleEndpoint]

		Convey("Env is prefixed with the application name", func() {
			So(field.Env(), ShouldEqual, "TRIMMER_GLOBOPLAY_ENDPOINT_TITLE")
		})

		Convey("JSON carries the type name", func() {
			data, err := field.MarshalJSON()
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"type":"string"`)
		})

		Convey("Keys are sorted", func() {
			keys := Keys()
			So(len(keys), ShouldEqual, len(Default))
			So(keys[0] < keys[len(keys)-1], ShouldBeTrue)
		})
	})
}
