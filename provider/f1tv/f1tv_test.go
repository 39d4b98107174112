package f1tv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/trimmer-cli/trimmer/auth"
	"github.com/trimmer-cli/trimmer/config"
	"github.com/trimmer-cli/trimmer/filesystem"
	"github.com/trimmer-cli/trimmer/key"
	"github.com/trimmer-cli/trimmer/network"
	"github.com/trimmer-cli/trimmer/ref"
	"github.com/trimmer-cli/trimmer/source"
	"github.com/trimmer-cli/trimmer/where"
	"github.com/zalando/go-keyring"
)

func init() {
	filesystem.SetMemMapFs()
	lo.Must0(config.Setup())
}

const mpd = `<?xml version="1.0"?>
<MPD xmlns="urn:mpeg:dash:schema:mpd:2011" type="static">
  <Period>
    <AdaptationSet contentType="video" mimeType="video/mp4">
      <Representation id="v" bandwidth="6000000" codecs="avc1.640028" width="1920" height="1080"/>
    </AdaptationSet>
    <AdaptationSet contentType="audio" mimeType="audio/mp4" lang="en">
      <Representation id="a" bandwidth="128000" codecs="mp4a.40.2"/>
    </AdaptationSet>
  </Period>
</MPD>`

type recorder struct {
	token   string
	device  string
	agent   string
	title   url.Values
	tracks  url.Values
	license int
}

func newServer(t *testing.T, multiFeed bool) (*httptest.Server, *recorder) {
	rec := &recorder{}
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.token = r.Header.Get("entitlementtoken")
		rec.device = r.Header.Get("x-f1-device-info")
		rec.agent = r.Header.Get("User-Agent")

		switch {
		case strings.HasPrefix(r.URL.Path, "/video/"):
			rec.title = r.URL.Query()
			id := strings.Split(r.URL.Path, "/")[3]
			if id != "1000005104" {
				http.NotFound(w, r)
				return
			}
			_, _ = fmt.Fprintf(w, `{"resultObj":{"containers":[{"metadata":{"contentId":%s,"emfAttributes":{"Series":"FORMULA 1","Global_Title":"Bahrain-Grand-Prix"}}}]}}`, id)
		case r.URL.Path == "/play":
			rec.tracks = r.URL.Query()
			manifest := server.URL + "/index.mpd"
			if multiFeed {
				manifest = server.URL + "/manifest.tme"
			}
			_, _ = fmt.Fprintf(w, `{"resultObj":{"url":%q,"laURL":%q}}`, manifest, server.URL+"/license")
		case r.URL.Path == "/manifest.tme":
			_, _ = fmt.Fprintf(w, `{"feeds":[{"url":%q},{"url":%q}]}`, server.URL+"/onboard.mpd", server.URL+"/index.mpd")
		case r.URL.Path == "/index.mpd":
			_, _ = io.WriteString(w, mpd)
		case r.URL.Path == "/license":
			rec.license++
			body, _ := io.ReadAll(r.Body)
			_, _ = w.Write(body)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	for k, v := range map[string]string{
		key.F1TVTitleEndpoint:  server.URL + "/video/{device}/{id}/{plan}/{region}",
		key.F1TVTracksEndpoint: server.URL + "/play",
	} {
		viper.Set(k, v)
		t.Cleanup(func() { viper.Set(k, config.Default[k].Value) })
	}

	return server, rec
}

func TestF1TV(t *testing.T) {
	ctx := context.Background()

	Convey("Given F1TV with a stored entitlement token", t, func() {
		filesystem.SetMemMapFs()
		keyring.MockInit()
		t.Setenv(where.EnvCachePath, "/cache")
		So(auth.Set(ID, TokenName, "ent-token"), ShouldBeNil)
		_, rec := newServer(t, false)

		adapter, err := New(source.Options{Session: network.NewSession(), Quality: 1080, Range: "SDR"})
		So(err, ShouldBeNil)

		Convey("A detail URL resolves to one item", func() {
			items, err := adapter.Titles(ctx, "https://f1tv.formula1.com/detail/1000005104/2024-bahrain-grand-prix")
			So(err, ShouldBeNil)
			So(len(items), ShouldEqual, 1)
			So(items[0].ID, ShouldEqual, "1000005104")
			So(items[0].Title, ShouldEqual, "FORMULA 1 Bahrain Grand Prix")
			So(items[0].Language, ShouldEqual, "en-US")

			So(rec.token, ShouldEqual, "ent-token")
			So(rec.device, ShouldEqual, devices["web"].DeviceInfo)
			So(rec.title.Get("entitlement"), ShouldEqual, "F1_TV_Pro_Annual")
			So(rec.title.Get("homeCountry"), ShouldEqual, "US")

			Convey("Tracks requests playback without the HDR player", func() {
				tracks, err := adapter.Tracks(ctx, items[0])
				So(err, ShouldBeNil)
				So(rec.tracks.Get("contentId"), ShouldEqual, "1000005104")
				So(rec.tracks.Has("player"), ShouldBeFalse)
				So(len(tracks.Videos), ShouldEqual, 1)
				So(len(tracks.Audios), ShouldEqual, 1)

				Convey("License uses the laURL", func() {
					license, err := adapter.License(ctx, items[0], []byte("challenge"))
					So(err, ShouldBeNil)
					So(string(license), ShouldEqual, "challenge")
					So(rec.license, ShouldEqual, 1)
					So(rec.token, ShouldEqual, "ent-token")
				})
			})
		})

		Convey("A bare numeric id is accepted", func() {
			items, err := adapter.Titles(ctx, "1000005104")
			So(err, ShouldBeNil)
			So(len(items), ShouldEqual, 1)
		})

		Convey("Anything else is unresolvable", func() {
			_, err := adapter.Titles(ctx, "https://example.com/whatever")
			So(errors.Is(err, ref.ErrUnresolvableReference), ShouldBeTrue)
		})
	})

	Convey("Given an HDR10 request against a multi-feed event", t, func() {
		filesystem.SetMemMapFs()
		keyring.MockInit()
		t.Setenv(where.EnvCachePath, "/cache")
		So(auth.Set(ID, TokenName, "ent-token"), ShouldBeNil)
		server, rec := newServer(t, true)

		adapter, err := New(source.Options{Session: network.NewSession(), Quality: 1080, Range: "HDR10"})
		So(err, ShouldBeNil)

		item := &source.Item{ID: "1000005104"}
		_, err = adapter.Tracks(ctx, item)
		So(err, ShouldBeNil)
		So(rec.tracks.Get("player"), ShouldEqual, "player_tm")
		So(rec.device, ShouldEqual, devices["android"].DeviceInfo)
		So(item.Descriptor.ManifestURL, ShouldEqual, server.URL+"/index.mpd")
	})

	Convey("Without a token nothing is requested", t, func() {
		filesystem.SetMemMapFs()
		keyring.MockInit()
		t.Setenv(where.EnvCachePath, "/cache")
		newServer(t, false)

		adapter, err := New(source.Options{Session: network.NewSession()})
		So(err, ShouldBeNil)
		_, err = adapter.Titles(ctx, "1000005104")
		So(errors.Is(err, ErrNotAuthenticated), ShouldBeTrue)
	})
}

func TestSelectDevice(t *testing.T) {
	Convey("SelectDevice", t, func() {
		Convey("UHD requests use tvos", func() {
			device, err := SelectDevice("", 2160, "SDR")
			So(err, ShouldBeNil)
			So(device.Name, ShouldEqual, "tvos")
		})

		Convey("HDR10 requests use android", func() {
			device, err := SelectDevice("", 1080, "hdr10")
			So(err, ShouldBeNil)
			So(device.Name, ShouldEqual, "android")
		})

		Convey("Everything else uses web", func() {
			device, err := SelectDevice("", 720, "SDR")
			So(err, ShouldBeNil)
			So(device.Name, ShouldEqual, "web")
		})

		Convey("A forced device wins", func() {
			device, err := SelectDevice("TVOS", 720, "SDR")
			So(err, ShouldBeNil)
			So(device.Name, ShouldEqual, "tvos")

			_, err = SelectDevice("playstation", 720, "SDR")
			So(err, ShouldNotBeNil)
		})
	})
}
