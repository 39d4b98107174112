package manifest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/trimmer-cli/trimmer/network"
	"github.com/trimmer-cli/trimmer/source"
)

const masterPlaylist = `#EXTM3U
#EXT-X-VERSION:4
#EXT-X-INDEPENDENT-SEGMENTS
#EXT-X-MEDIA:TYPE=AUDIO,GROUP-ID="aac",NAME="Portugues",LANGUAGE="por",DEFAULT=YES,AUTOSELECT=YES,URI="audio/aac/pt.m3u8"
#EXT-X-MEDIA:TYPE=AUDIO,GROUP-ID="ac3",NAME="Portugues 5.1",LANGUAGE="por",DEFAULT=NO,AUTOSELECT=YES,URI="audio/ac3/pt.m3u8"
#EXT-X-MEDIA:TYPE=AUDIO,GROUP-ID="ec3",NAME="English Atmos",LANGUAGE="en",DEFAULT=NO,AUTOSELECT=YES,URI="audio/ec3/en.m3u8"
#EXT-X-MEDIA:TYPE=SUBTITLES,GROUP-ID="subs",NAME="Portugues",LANGUAGE="pt-BR",DEFAULT=NO,AUTOSELECT=YES,FORCED=NO,URI="subs/pt.m3u8"
#EXT-X-STREAM-INF:BANDWIDTH=5000000,CODECS="avc1.640028,mp4a.40.2",RESOLUTION=1920x1080,FRAME-RATE=25.000,AUDIO="aac",SUBTITLES="subs"
video/1080.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=5400000,CODECS="avc1.640028,ac-3",RESOLUTION=1920x1080,FRAME-RATE=25.000,AUDIO="ac3",SUBTITLES="subs"
video/1080.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=5800000,CODECS="avc1.640028,ec-3",RESOLUTION=1920x1080,FRAME-RATE=25.000,AUDIO="ec3",SUBTITLES="subs"
video/1080.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=1200000,CODECS="avc1.4d401f,mp4a.40.2",RESOLUTION=854x480,AUDIO="aac",SUBTITLES="subs"
video/480.m3u8
`

// iframeFirstPlaylist lists its I-frame variant before the regular ones.
const iframeFirstPlaylist = `#EXTM3U
#EXT-X-VERSION:4
#EXT-X-MEDIA:TYPE=AUDIO,GROUP-ID="aac",NAME="Portugues",LANGUAGE="por",DEFAULT=YES,AUTOSELECT=YES,URI="audio/aac/pt.m3u8"
#EXT-X-MEDIA:TYPE=AUDIO,GROUP-ID="ac3",NAME="Portugues 5.1",LANGUAGE="por",DEFAULT=NO,AUTOSELECT=YES,URI="audio/ac3/pt.m3u8"
#EXT-X-I-FRAME-STREAM-INF:BANDWIDTH=300000,CODECS="avc1.640028",RESOLUTION=1920x1080,URI="video/1080-iframes.m3u8"
#EXT-X-STREAM-INF:BANDWIDTH=5000000,CODECS="avc1.640028,mp4a.40.2",RESOLUTION=1920x1080,AUDIO="aac"
video/1080.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=5400000,CODECS="avc1.640028,ac-3",RESOLUTION=1920x1080,AUDIO="ac3"
video/1080.m3u8
`

const mediaPlaylist = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:6
#EXT-X-MEDIA-SEQUENCE:0
#EXTINF:6.0,
seg0.ts
#EXT-X-ENDLIST
`

const mpdDocument = `<?xml version="1.0" encoding="UTF-8"?>
<MPD xmlns="urn:mpeg:dash:schema:mpd:2011" type="static" mediaPresentationDuration="PT42M">
  <Period id="0">
    <AdaptationSet id="1" contentType="video" mimeType="video/mp4">
      <SupplementalProperty schemeIdUri="urn:mpeg:mpegB:cicp:TransferCharacteristics" value="16"/>
      <Representation id="v1080" bandwidth="6000000" codecs="hvc1.2.4.L150" width="1920" height="1080" frameRate="24000/1001"/>
      <Representation id="v720" bandwidth="3000000" codecs="hvc1.2.4.L120" width="1280" height="720" frameRate="24000/1001"/>
    </AdaptationSet>
    <AdaptationSet id="2" contentType="audio" mimeType="audio/mp4" lang="es-419">
      <AudioChannelConfiguration schemeIdUri="urn:mpeg:dash:23003:3:audio_channel_configuration:2011" value="2"/>
      <Representation id="a-aac" bandwidth="128000" codecs="mp4a.40.2"/>
    </AdaptationSet>
    <AdaptationSet id="3" contentType="audio" mimeType="audio/mp4" lang="es-419">
      <Representation id="a-ec3" bandwidth="640000" codecs="ec-3"/>
    </AdaptationSet>
    <AdaptationSet id="4" mimeType="text/vtt" lang="por">
      <Role schemeIdUri="urn:mpeg:dash:role:2011" value="forced-subtitle"/>
      <Representation id="t-pt" bandwidth="256">
        <BaseURL>subs/pt.vtt</BaseURL>
      </Representation>
    </AdaptationSet>
  </Period>
</MPD>`

const smoothDocument = `<?xml version="1.0" encoding="utf-8"?>
<SmoothStreamingMedia MajorVersion="2" MinorVersion="0" Duration="26300000000">
  <StreamIndex Type="video" Name="video" Url="QualityLevels({bitrate})/Fragments(video={start time})">
    <QualityLevel Index="0" Bitrate="3000000" FourCC="H264" MaxWidth="1280" MaxHeight="720"/>
  </StreamIndex>
  <StreamIndex Type="audio" Name="audio_pt" Language="pt" Url="QualityLevels({bitrate})/Fragments(audio_pt={start time})">
    <QualityLevel Index="0" Bitrate="128000" FourCC="AACL" Channels="2"/>
  </StreamIndex>
</SmoothStreamingMedia>`

func newServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/master.m3u8", "/playlist":
			_, _ = w.Write([]byte(masterPlaylist))
		case "/iframes.m3u8":
			_, _ = w.Write([]byte(iframeFirstPlaylist))
		case "/media.m3u8":
			_, _ = w.Write([]byte(mediaPlaylist))
		case "/stream.mpd", "/dash":
			_, _ = w.Write([]byte(mpdDocument))
		case "/movie.ism/Manifest":
			_, _ = w.Write([]byte(smoothDocument))
		case "/garbage":
			_, _ = w.Write([]byte("<html>hello</html>"))
		default:
			http.NotFound(w, r)
		}
	}))
}

func audioFamilies(audios []*source.Audio) []string {
	out := make([]string, len(audios))
	for i, audio := range audios {
		out[i] = audio.Family()
	}
	return out
}

func TestClassify(t *testing.T) {
	Convey("Classify", t, func() {
		So(Classify("https://cdn.example/a/stream.mpd?token=1"), ShouldHaveSameTypeAs, Dash{})
		So(Classify("https://cdn.example/a/movie.ism/Manifest"), ShouldHaveSameTypeAs, Smooth{})
		So(Classify("https://cdn.example/a/movie.isml/manifest(format=m3u8-aapl)"), ShouldHaveSameTypeAs, Smooth{})
		So(Classify("https://cdn.example/a/index.M3U8"), ShouldHaveSameTypeAs, Hls{})
		So(Classify("https://cdn.example/a/playlist"), ShouldHaveSameTypeAs, Unknown{})
		So(Classify("https://cdn.example/a/stream.mpd").Location(), ShouldEqual, "https://cdn.example/a/stream.mpd")
	})

	Convey("Sniff", t, func() {
		m, err := Sniff("u", []byte("\n#EXTM3U\n"))
		So(err, ShouldBeNil)
		So(m.Protocol(), ShouldEqual, ProtocolHls)

		m, err = Sniff("u", []byte(`<?xml version="1.0"?><MPD>`))
		So(err, ShouldBeNil)
		So(m.Protocol(), ShouldEqual, ProtocolDash)

		m, err = Sniff("u", []byte(`<SmoothStreamingMedia>`))
		So(err, ShouldBeNil)
		So(m.Protocol(), ShouldEqual, ProtocolSmooth)

		_, err = Sniff("u", []byte(`{}`))
		So(errors.Is(err, ErrUnsupportedManifestFormat), ShouldBeTrue)
	})
}

func TestParseCodec(t *testing.T) {
	Convey("ParseCodec", t, func() {
		codec, err := ParseCodec("aac")
		So(err, ShouldBeNil)
		So(codec.Family(), ShouldEqual, "mp4a")

		codec, err = ParseCodec("AC3")
		So(err, ShouldBeNil)
		So(codec.Family(), ShouldEqual, "ac-3")

		codec, err = ParseCodec("ec3")
		So(err, ShouldBeNil)
		So(codec.Family(), ShouldEqual, "ec-3")

		_, err = ParseCodec("opus")
		So(errors.Is(err, ErrUnknownCodec), ShouldBeTrue)
	})
}

func TestDispatch(t *testing.T) {
	Convey("Given a dispatcher and a manifest server", t, func() {
		server := newServer()
		defer server.Close()

		ctx := context.Background()
		dispatcher := New(network.NewSession())

		Convey("An HLS master playlist", func() {
			tracks, err := dispatcher.Dispatch(ctx, source.Descriptor{ManifestURL: server.URL + "/master.m3u8"}, mo.None[Codec]())
			So(err, ShouldBeNil)

			Convey("flags every video for repack", func() {
				So(len(tracks.Videos), ShouldEqual, 4)
				for _, video := range tracks.Videos {
					So(video.NeedsRepack, ShouldBeTrue)
				}
				So(tracks.Videos[0].Height, ShouldEqual, 1080)
				So(tracks.Videos[0].URL, ShouldEqual, server.URL+"/video/1080.m3u8")
				So(tracks.Videos[len(tracks.Videos)-1].Height, ShouldEqual, 480)
			})

			Convey("lists each rendition once with its codec", func() {
				So(len(tracks.Audios), ShouldEqual, 3)
				So(audioFamilies(tracks.Audios), ShouldContain, "mp4a")
				So(audioFamilies(tracks.Audios), ShouldContain, "ac-3")
				So(audioFamilies(tracks.Audios), ShouldContain, "ec-3")
				So(len(tracks.Subtitles), ShouldEqual, 1)
				So(tracks.Subtitles[0].Language, ShouldEqual, "pt-BR")
			})

			Convey("normalizes languages", func() {
				for _, audio := range tracks.Audios {
					So(audio.Language, ShouldBeIn, []string{"pt", "en"})
				}
			})
		})

		Convey("An AAC filter keeps only mp4a audio", func() {
			tracks, err := dispatcher.Dispatch(ctx, source.Descriptor{ManifestURL: server.URL + "/master.m3u8"}, mo.Some(AAC))
			So(err, ShouldBeNil)
			So(audioFamilies(tracks.Audios), ShouldResemble, []string{"mp4a"})
		})

		Convey("A filter matching nothing is an error", func() {
			_, err := dispatcher.Dispatch(ctx, source.Descriptor{ManifestURL: server.URL + "/stream.mpd"}, mo.Some(AC3))
			So(errors.Is(err, ErrNoMatchingAudioTrack), ShouldBeTrue)
		})

		Convey("Renditions declared before an I-frame variant are kept", func() {
			tracks, err := dispatcher.Dispatch(ctx, source.Descriptor{ManifestURL: server.URL + "/iframes.m3u8"}, mo.None[Codec]())
			So(err, ShouldBeNil)
			So(len(tracks.Videos), ShouldEqual, 2)
			So(len(tracks.Audios), ShouldEqual, 2)
			So(audioFamilies(tracks.Audios), ShouldContain, "mp4a")
			So(audioFamilies(tracks.Audios), ShouldContain, "ac-3")

			Convey("and the codec filter still applies to them", func() {
				tracks, err := dispatcher.Dispatch(ctx, source.Descriptor{ManifestURL: server.URL + "/iframes.m3u8"}, mo.Some(AC3))
				So(err, ShouldBeNil)
				So(audioFamilies(tracks.Audios), ShouldResemble, []string{"ac-3"})
				So(tracks.Audios[0].URL, ShouldEqual, server.URL+"/audio/ac3/pt.m3u8")
			})
		})

		Convey("A filter on a manifest without audio is an error", func() {
			_, err := dispatcher.Dispatch(ctx, source.Descriptor{ManifestURL: server.URL + "/media.m3u8"}, mo.Some(AAC))
			So(errors.Is(err, ErrNoMatchingAudioTrack), ShouldBeTrue)
		})

		Convey("A media playlist yields one video", func() {
			tracks, err := dispatcher.Dispatch(ctx, source.Descriptor{ManifestURL: server.URL + "/media.m3u8"}, mo.None[Codec]())
			So(err, ShouldBeNil)
			So(len(tracks.Videos), ShouldEqual, 1)
			So(tracks.Videos[0].NeedsRepack, ShouldBeTrue)
		})

		Convey("A DASH manifest", func() {
			tracks, err := dispatcher.Dispatch(ctx, source.Descriptor{ManifestURL: server.URL + "/stream.mpd"}, mo.Some(EC3))
			So(err, ShouldBeNil)

			Convey("is not flagged for repack", func() {
				So(len(tracks.Videos), ShouldEqual, 2)
				for _, video := range tracks.Videos {
					So(video.NeedsRepack, ShouldBeFalse)
					So(video.Range, ShouldEqual, "HDR10")
				}
				So(tracks.Videos[0].FrameRate, ShouldAlmostEqual, 23.976, 0.001)
			})

			Convey("is filtered by codec family", func() {
				So(audioFamilies(tracks.Audios), ShouldResemble, []string{"ec-3"})
				So(tracks.Audios[0].Language, ShouldEqual, "es-419")
			})

			Convey("keeps embedded subtitles", func() {
				So(len(tracks.Subtitles), ShouldEqual, 1)
				So(tracks.Subtitles[0].Forced, ShouldBeTrue)
				So(tracks.Subtitles[0].URL, ShouldEqual, server.URL+"/subs/pt.vtt")
				So(tracks.Subtitles[0].Language, ShouldEqual, "pt")
			})
		})

		Convey("A Smooth Streaming manifest", func() {
			tracks, err := dispatcher.Dispatch(ctx, source.Descriptor{ManifestURL: server.URL + "/movie.ism/Manifest"}, mo.Some(AAC))
			So(err, ShouldBeNil)
			So(len(tracks.Videos), ShouldEqual, 1)
			So(tracks.Videos[0].Codec, ShouldEqual, "avc1")
			So(tracks.Videos[0].NeedsRepack, ShouldBeFalse)
			So(tracks.Videos[0].URL, ShouldStartWith, server.URL+"/movie.ism/QualityLevels(3000000)")
			So(audioFamilies(tracks.Audios), ShouldResemble, []string{"mp4a"})
		})

		Convey("Extensionless URLs are sniffed", func() {
			tracks, err := dispatcher.Dispatch(ctx, source.Descriptor{ManifestURL: server.URL + "/playlist"}, mo.None[Codec]())
			So(err, ShouldBeNil)
			So(tracks.Videos[0].NeedsRepack, ShouldBeTrue)

			tracks, err = dispatcher.Dispatch(ctx, source.Descriptor{ManifestURL: server.URL + "/dash"}, mo.None[Codec]())
			So(err, ShouldBeNil)
			So(tracks.Videos[0].NeedsRepack, ShouldBeFalse)
		})

		Convey("Unrecognizable bodies are unsupported", func() {
			_, err := dispatcher.Dispatch(ctx, source.Descriptor{ManifestURL: server.URL + "/garbage"}, mo.None[Codec]())
			So(errors.Is(err, ErrUnsupportedManifestFormat), ShouldBeTrue)
		})

		Convey("Empty and non-http URLs are unsupported", func() {
			_, err := dispatcher.Dispatch(ctx, source.Descriptor{}, mo.None[Codec]())
			So(errors.Is(err, ErrUnsupportedManifestFormat), ShouldBeTrue)

			_, err = dispatcher.Dispatch(ctx, source.Descriptor{ManifestURL: "file:///etc/passwd"}, mo.None[Codec]())
			So(errors.Is(err, ErrUnsupportedManifestFormat), ShouldBeTrue)
		})

		Convey("Out-of-band subtitles are merged", func() {
			descriptor := source.Descriptor{
				ManifestURL: server.URL + "/stream.mpd",
				Subtitles: []source.SubtitleRef{
					{Label: "No", Lang: "pt", URL: "https://x/no.vtt"},
					{Label: "Desativado", Lang: "disabled", URL: "https://x/disabled.vtt"},
					{Label: "Español", Lang: "es", URL: "https://x/es.vtt"},
					{Label: "Español (copia)", Lang: "es", URL: "https://x/es.vtt"},
					{Label: "Broken", Lang: "en", URL: "::"},
				},
			}

			tracks, err := dispatcher.Dispatch(ctx, descriptor, mo.None[Codec]())
			So(err, ShouldBeNil)
			So(len(tracks.Subtitles), ShouldEqual, 2)
			So(tracks.Subtitles[1].Language, ShouldEqual, "es")
			So(tracks.Subtitles[1].Codec, ShouldEqual, "vtt")
		})

		Convey("Custom extractors replace built-in ones", func() {
			called := false
			custom := New(network.NewSession(), WithExtractor(ProtocolDash, func(string, []byte) (*source.Tracks, error) {
				called = true
				return &source.Tracks{}, nil
			}))

			_, err := custom.Dispatch(ctx, source.Descriptor{ManifestURL: server.URL + "/stream.mpd"}, mo.None[Codec]())
			So(err, ShouldBeNil)
			So(called, ShouldBeTrue)
		})

		Convey("Fetch failures are reported", func() {
			_, err := dispatcher.Dispatch(ctx, source.Descriptor{ManifestURL: server.URL + "/missing.mpd"}, mo.None[Codec]())
			So(network.IsStatus(err, http.StatusNotFound), ShouldBeTrue)
		})
	})
}

func TestMergeSubtitles(t *testing.T) {
	Convey("Duplicates are reported without stopping the merge", t, func() {
		tracks := &source.Tracks{}
		err := mergeSubtitles(tracks, []source.SubtitleRef{
			{Label: "A", Lang: "pt", URL: "https://x/a.vtt"},
			{Label: "A again", Lang: "pt", URL: "https://x/a.vtt"},
			{Label: "B", Lang: "en", URL: "https://x/b.vtt"},
		})

		So(err, ShouldNotBeNil)
		So(errors.Is(err, source.ErrDuplicateTrack), ShouldBeTrue)
		So(len(tracks.Subtitles), ShouldEqual, 2)
	})
}
