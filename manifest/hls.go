package manifest

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/grafov/m3u8"
	"github.com/trimmer-cli/trimmer/source"
)

var videoFamilies = []string{"avc1", "avc3", "hvc1", "hev1", "dvh1", "dvhe", "av01", "vp09"}

func isVideoCodec(codec string) bool {
	family, _, _ := strings.Cut(strings.TrimSpace(codec), ".")
	for _, f := range videoFamilies {
		if strings.EqualFold(family, f) {
			return true
		}
	}
	return false
}

// splitCodecs separates a CODECS attribute into its video and audio parts.
func splitCodecs(codecs string) (video, audio string) {
	for _, codec := range strings.Split(codecs, ",") {
		codec = strings.TrimSpace(codec)
		switch {
		case codec == "":
		case isVideoCodec(codec):
			if video == "" {
				video = codec
			}
		case audio == "":
			audio = codec
		}
	}
	return video, audio
}

func parseResolution(resolution string) (width, height int) {
	w, h, ok := strings.Cut(strings.ToLower(resolution), "x")
	if !ok {
		return 0, 0
	}
	width, _ = strconv.Atoi(w)
	height, _ = strconv.Atoi(h)
	return width, height
}

// extractHls builds tracks from a master or media playlist.
func extractHls(location string, body []byte) (*source.Tracks, error) {
	playlist, listType, err := m3u8.DecodeFrom(bytes.NewReader(body), false)
	if err != nil {
		return nil, fmt.Errorf("decode playlist: %w", err)
	}

	tracks := &source.Tracks{}
	switch listType {
	case m3u8.MEDIA:
		tracks.Videos = append(tracks.Videos, &source.Video{
			Track: source.Track{ID: "video", URL: location},
		})
		return tracks, nil
	case m3u8.MASTER:
	default:
		return nil, ErrUnsupportedManifestFormat
	}

	master, ok := playlist.(*m3u8.MasterPlaylist)
	if !ok {
		return nil, ErrUnsupportedManifestFormat
	}

	// audio codec per rendition group, taken from the variants referencing it
	groupCodecs := make(map[string]string)
	for _, variant := range master.Variants {
		if variant == nil || variant.Iframe || variant.Audio == "" {
			continue
		}
		if _, audio := splitCodecs(variant.Codecs); audio != "" {
			if _, ok := groupCodecs[variant.Audio]; !ok {
				groupCodecs[variant.Audio] = audio
			}
		}
	}

	// EXT-X-MEDIA renditions are attached to whichever variant is parsed right
	// after them, I-frame variants included, so all of them are inspected.
	seenAlternatives := make(map[string]struct{})
	for _, variant := range master.Variants {
		if variant == nil {
			continue
		}

		for _, alt := range variant.Alternatives {
			if alt == nil {
				continue
			}

			key := alt.Type + "|" + alt.GroupId + "|" + alt.Name + "|" + alt.Language
			if _, ok := seenAlternatives[key]; ok {
				continue
			}
			seenAlternatives[key] = struct{}{}

			track := source.Track{
				ID:       alt.GroupId + "/" + alt.Name,
				URL:      resolveURL(location, alt.URI),
				Language: normalizeLanguage(alt.Language),
			}

			switch strings.ToUpper(alt.Type) {
			case "AUDIO":
				track.Codec = groupCodecs[alt.GroupId]
				tracks.Audios = append(tracks.Audios, &source.Audio{Track: track, Name: alt.Name})
			case "SUBTITLES":
				track.Codec = "vtt"
				tracks.Subtitles = append(tracks.Subtitles, &source.Subtitle{
					Track:  track,
					Name:   alt.Name,
					Forced: strings.EqualFold(alt.Forced, "YES"),
				})
			}
		}
	}

	for i, variant := range master.Variants {
		if variant == nil || variant.Iframe {
			continue
		}

		videoCodec, _ := splitCodecs(variant.Codecs)
		width, height := parseResolution(variant.Resolution)
		tracks.Videos = append(tracks.Videos, &source.Video{
			Track: source.Track{
				ID:      fmt.Sprintf("video-%d", i),
				URL:     resolveURL(location, variant.URI),
				Codec:   videoCodec,
				Bitrate: int64(variant.Bandwidth),
			},
			Width:     width,
			Height:    height,
			FrameRate: variant.FrameRate,
			Range:     variant.VideoRange,
		})
	}

	return tracks, nil
}
