package manifest

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/trimmer-cli/trimmer/source"
)

type smoothMedia struct {
	XMLName xml.Name      `xml:"SmoothStreamingMedia"`
	Streams []smoothIndex `xml:"StreamIndex"`
}

type smoothIndex struct {
	Type     string          `xml:"Type,attr"`
	Name     string          `xml:"Name,attr"`
	Language string          `xml:"Language,attr"`
	Subtype  string          `xml:"Subtype,attr"`
	URL      string          `xml:"Url,attr"`
	Levels   []smoothQuality `xml:"QualityLevel"`
}

type smoothQuality struct {
	Index     int    `xml:"Index,attr"`
	Bitrate   int64  `xml:"Bitrate,attr"`
	FourCC    string `xml:"FourCC,attr"`
	MaxWidth  int    `xml:"MaxWidth,attr"`
	MaxHeight int    `xml:"MaxHeight,attr"`
	Channels  string `xml:"Channels,attr"`
}

// fourCCs maps Smooth Streaming FourCC values to manifest codec families.
var fourCCs = map[string]string{
	"H264": "avc1",
	"AVC1": "avc1",
	"HEVC": "hvc1",
	"HVC1": "hvc1",
	"AACL": "mp4a",
	"AACH": "mp4a",
	"EC-3": "ec-3",
	"EC3":  "ec-3",
	"AC-3": "ac-3",
	"AC3":  "ac-3",
	"TTML": "ttml",
	"DFXP": "ttml",
}

func fourCC(code string) string {
	if codec, ok := fourCCs[strings.ToUpper(code)]; ok {
		return codec
	}
	return strings.ToLower(code)
}

// smoothBase is the directory fragment URLs are relative to: the .ism path itself.
func smoothBase(location string) string {
	if i := strings.LastIndex(location, "/"); i >= 0 {
		return location[:i+1]
	}
	return location
}

// fragmentURL joins the fragment template to the manifest directory. Templates
// keep their placeholders, so they are not run through URL resolution.
func fragmentURL(base, template string) string {
	if isHTTP(template) {
		return template
	}
	return base + strings.TrimPrefix(template, "/")
}

// extractSmooth builds tracks from a SmoothStreamingMedia document.
func extractSmooth(location string, body []byte) (*source.Tracks, error) {
	var doc smoothMedia
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode smooth manifest: %w", err)
	}

	tracks := &source.Tracks{}
	base := smoothBase(location)

	for i, stream := range doc.Streams {
		name := firstNonEmpty(stream.Name, fmt.Sprintf("%s%d", stream.Type, i))

		for _, level := range stream.Levels {
			fragments := strings.NewReplacer(
				"{bitrate}", strconv.FormatInt(level.Bitrate, 10),
				"{Bitrate}", strconv.FormatInt(level.Bitrate, 10),
			).Replace(stream.URL)

			track := source.Track{
				ID:       fmt.Sprintf("%s-%d", name, level.Index),
				URL:      fragmentURL(base, fragments),
				Codec:    fourCC(firstNonEmpty(level.FourCC, stream.Subtype)),
				Language: normalizeLanguage(stream.Language),
				Bitrate:  level.Bitrate,
			}

			switch strings.ToLower(stream.Type) {
			case "video":
				tracks.Videos = append(tracks.Videos, &source.Video{
					Track:  track,
					Width:  level.MaxWidth,
					Height: level.MaxHeight,
					Range:  "SDR",
				})
			case "audio":
				tracks.Audios = append(tracks.Audios, &source.Audio{Track: track, Name: stream.Name, Channels: level.Channels})
			case "text":
				tracks.Subtitles = append(tracks.Subtitles, &source.Subtitle{Track: track, Name: stream.Name})
			}
		}
	}

	return tracks, nil
}
