package inline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/trimmer-cli/trimmer/source"
)

type fakeSource struct {
	items  []*source.Item
	broken map[string]bool
}

func (f *fakeSource) ID() string   { return "fake" }
func (f *fakeSource) Name() string { return "Fake" }

func (f *fakeSource) Titles(_ context.Context, input string) ([]*source.Item, error) {
	if input == "nope" {
		return nil, errors.New("unresolvable")
	}
	return f.items, nil
}

func (f *fakeSource) Tracks(_ context.Context, item *source.Item) (*source.Tracks, error) {
	if f.broken[item.ID] {
		return nil, errors.New("no matching audio track")
	}
	return &source.Tracks{
		Videos: []*source.Video{{Track: source.Track{ID: "v" + item.ID, Codec: "avc1.640028", Bitrate: 5_000_000}, Width: 1920, Height: 1080, Range: "SDR"}},
		Audios: []*source.Audio{{Track: source.Track{ID: "a" + item.ID, Codec: "mp4a.40.2", Language: "pt-BR", Bitrate: 128_000}}},
	}, nil
}

func (f *fakeSource) License(context.Context, *source.Item, []byte) ([]byte, error) {
	return nil, nil
}

func episodes(n int) []*source.Item {
	items := make([]*source.Item, n)
	for i := range items {
		items[i] = &source.Item{
			ID:      fmt.Sprint(i + 1),
			Title:   "Show",
			Episode: mo.Some(source.EpisodeInfo{Season: 1, Number: i + 1, Name: fmt.Sprintf("Part %d", i+1)}),
		}
	}
	return items
}

func TestWriteJson(t *testing.T) {
	Convey("writeJson", t, func() {
		Convey("Should produce valid JSON for an empty item list", func() {
			var buf bytes.Buffer
			So(writeJson(&buf, "fake", "test", nil), ShouldBeNil)

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
			So(output.Input, ShouldEqual, "test")
			So(output.Provider, ShouldEqual, "fake")
			So(output.Items, ShouldHaveLength, 0)
		})
	})
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	Convey("Given a source with three episodes", t, func() {
		src := &fakeSource{items: episodes(3), broken: map[string]bool{}}
		var buf bytes.Buffer

		Convey("Text output lists every item", func() {
			So(Run(ctx, &Options{Out: &buf, Source: src, Input: "x"}), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "Show S01E01 Part 1")
			So(buf.String(), ShouldContainSubstring, "Show S01E03 Part 3")
		})

		Convey("The selector narrows items before tracks are fetched", func() {
			filter, err := ParseItemsFilter("last")
			So(err, ShouldBeNil)

			So(Run(ctx, &Options{Out: &buf, Source: src, Input: "x", Json: true, Tracks: true, ItemsFilter: mo.Some(filter)}), ShouldBeNil)

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
			So(output.Items, ShouldHaveLength, 1)
			So(output.Items[0].Item.ID, ShouldEqual, "3")
			So(output.Items[0].Tracks.Videos[0].Height, ShouldEqual, 1080)
		})

		Convey("A track failure is reported after the output is written", func() {
			src.broken["2"] = true
			err := Run(ctx, &Options{Out: &buf, Source: src, Input: "x", Json: true, Tracks: true})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "[2]")

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
			So(output.Items, ShouldHaveLength, 3)
			So(output.Items[1].Error, ShouldContainSubstring, "no matching audio track")
			So(output.Items[2].Tracks, ShouldNotBeNil)
		})

		Convey("Text output renders a track table", func() {
			So(Run(ctx, &Options{Out: &buf, Source: src, Input: "x", Tracks: true}), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "1920x1080 SDR")
			So(buf.String(), ShouldContainSubstring, "mp4a.40.2")
			So(buf.String(), ShouldContainSubstring, "5 Mbps")
		})

		Convey("Resolution errors are returned as is", func() {
			So(Run(ctx, &Options{Out: &buf, Source: src, Input: "nope"}), ShouldNotBeNil)
			So(buf.Len(), ShouldEqual, 0)
		})
	})
}

func TestParseItemsFilter(t *testing.T) {
	items := episodes(5)
	ids := func(filter ItemsFilter) []string {
		selected, err := filter(items)
		So(err, ShouldBeNil)
		out := make([]string, len(selected))
		for i, item := range selected {
			out[i] = item.ID
		}
		return out
	}

	Convey("ParseItemsFilter", t, func() {
		for description, expected := range map[string][]string{
			"first":    {"1"},
			"last":     {"5"},
			"all":      {"1", "2", "3", "4", "5"},
			"2":        {"3"},
			"9":        {},
			"1-3":      {"2", "3", "4"},
			"3-99":     {"4", "5"},
			"@part 4@": {"4"},
		} {
			filter, err := ParseItemsFilter(description)
			So(err, ShouldBeNil)
			So(ids(filter), ShouldResemble, expected)
		}

		_, err := ParseItemsFilter("sometimes")
		So(err, ShouldNotBeNil)
	})
}
