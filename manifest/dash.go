package manifest

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/trimmer-cli/trimmer/source"
)

type mpd struct {
	XMLName xml.Name    `xml:"MPD"`
	BaseURL string      `xml:"BaseURL"`
	Periods []mpdPeriod `xml:"Period"`
}

type mpdPeriod struct {
	ID             string             `xml:"id,attr"`
	BaseURL        string             `xml:"BaseURL"`
	AdaptationSets []mpdAdaptationSet `xml:"AdaptationSet"`
}

type mpdDescriptor struct {
	SchemeIDURI string `xml:"schemeIdUri,attr"`
	Value       string `xml:"value,attr"`
}

type mpdAdaptationSet struct {
	ID              string              `xml:"id,attr"`
	ContentType     string              `xml:"contentType,attr"`
	MimeType        string              `xml:"mimeType,attr"`
	Codecs          string              `xml:"codecs,attr"`
	Lang            string              `xml:"lang,attr"`
	Label           string              `xml:"label,attr"`
	BaseURL         string              `xml:"BaseURL"`
	Roles           []mpdDescriptor     `xml:"Role"`
	Properties      []mpdDescriptor     `xml:"SupplementalProperty"`
	Essentials      []mpdDescriptor     `xml:"EssentialProperty"`
	Channels        []mpdDescriptor     `xml:"AudioChannelConfiguration"`
	Representations []mpdRepresentation `xml:"Representation"`
}

type mpdRepresentation struct {
	ID        string          `xml:"id,attr"`
	Bandwidth int64           `xml:"bandwidth,attr"`
	Codecs    string          `xml:"codecs,attr"`
	MimeType  string          `xml:"mimeType,attr"`
	Width     int             `xml:"width,attr"`
	Height    int             `xml:"height,attr"`
	FrameRate string          `xml:"frameRate,attr"`
	BaseURL   string          `xml:"BaseURL"`
	Channels  []mpdDescriptor `xml:"AudioChannelConfiguration"`
}

const transferCharacteristics = "urn:mpeg:mpegB:cicp:TransferCharacteristics"

// extractDash builds tracks from an MPD document.
func extractDash(location string, body []byte) (*source.Tracks, error) {
	var doc mpd
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode mpd: %w", err)
	}

	tracks := &source.Tracks{}
	seen := make(map[string]struct{})
	base := resolveURL(location, doc.BaseURL)
	if base == "" {
		base = location
	}

	for _, period := range doc.Periods {
		periodBase := base
		if period.BaseURL != "" {
			periodBase = resolveURL(base, period.BaseURL)
		}

		for _, set := range period.AdaptationSets {
			setBase := periodBase
			if set.BaseURL != "" {
				setBase = resolveURL(periodBase, set.BaseURL)
			}

			for _, rep := range set.Representations {
				if _, ok := seen[rep.ID]; ok && rep.ID != "" {
					continue
				}
				seen[rep.ID] = struct{}{}

				codec := firstNonEmpty(rep.Codecs, set.Codecs)
				track := source.Track{
					ID:       rep.ID,
					URL:      setBase,
					Codec:    codec,
					Language: normalizeLanguage(set.Lang),
					Bitrate:  rep.Bandwidth,
				}
				if rep.BaseURL != "" {
					track.URL = resolveURL(setBase, rep.BaseURL)
				}

				switch dashKind(set, rep) {
				case "video":
					tracks.Videos = append(tracks.Videos, &source.Video{
						Track:     track,
						Width:     rep.Width,
						Height:    rep.Height,
						FrameRate: parseFrameRate(rep.FrameRate),
						Range:     dashRange(set, codec),
					})
				case "audio":
					channels := rep.Channels
					if len(channels) == 0 {
						channels = set.Channels
					}
					audio := &source.Audio{Track: track, Name: set.Label}
					if len(channels) > 0 {
						audio.Channels = channels[0].Value
					}
					tracks.Audios = append(tracks.Audios, audio)
				case "text":
					tracks.Subtitles = append(tracks.Subtitles, &source.Subtitle{
						Track:  track,
						Name:   set.Label,
						Forced: hasRole(set.Roles, "forced-subtitle"),
					})
				}
			}
		}
	}

	return tracks, nil
}

func dashKind(set mpdAdaptationSet, rep mpdRepresentation) string {
	if set.ContentType != "" {
		return set.ContentType
	}

	mime := firstNonEmpty(rep.MimeType, set.MimeType)
	kind, _, _ := strings.Cut(mime, "/")
	switch {
	case kind == "video" || kind == "audio" || kind == "text":
		return kind
	case strings.Contains(mime, "ttml"), strings.Contains(mime, "vtt"):
		return "text"
	}

	codec := strings.ToLower(firstNonEmpty(rep.Codecs, set.Codecs))
	if strings.HasPrefix(codec, "stpp") || strings.HasPrefix(codec, "wvtt") {
		return "text"
	}
	return kind
}

func dashRange(set mpdAdaptationSet, codec string) string {
	if strings.HasPrefix(codec, "dvh") {
		return "DV"
	}

	for _, prop := range append(set.Properties, set.Essentials...) {
		if prop.SchemeIDURI != transferCharacteristics {
			continue
		}
		switch prop.Value {
		case "16":
			return "HDR10"
		case "18":
			return "HLG"
		}
	}
	return "SDR"
}

func hasRole(roles []mpdDescriptor, value string) bool {
	for _, role := range roles {
		if role.Value == value {
			return true
		}
	}
	return false
}

// parseFrameRate reads "25" as well as "30000/1001".
func parseFrameRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !ok {
		return n
	}

	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
