package source

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrDuplicateTrack is returned when a track with the same id or URL is already present.
var ErrDuplicateTrack = errors.New("duplicate track")

// Track holds the fields common to every track kind.
type Track struct {
	ID       string `json:"id"`
	URL      string `json:"url,omitempty"`
	Codec    string `json:"codec"`
	Language string `json:"language,omitempty"`
	Bitrate  int64  `json:"bitrate,omitempty"`
}

// Family returns the codec family: the codec string up to its first dot,
// e.g. "mp4a" for "mp4a.40.2".
func (t Track) Family() string {
	family, _, _ := strings.Cut(t.Codec, ".")
	return family
}

// Video is a video rendition.
type Video struct {
	Track
	Width     int     `json:"width,omitempty"`
	Height    int     `json:"height,omitempty"`
	FrameRate float64 `json:"frame_rate,omitempty"`
	Range     string  `json:"range,omitempty"`
	// NeedsRepack asks the downloader to remux the stream after download.
	NeedsRepack bool `json:"needs_repack"`
}

// Audio is an audio rendition.
type Audio struct {
	Track
	Channels string `json:"channels,omitempty"`
	Name     string `json:"name,omitempty"`
}

// Subtitle is a text track.
type Subtitle struct {
	Track
	Name   string `json:"name,omitempty"`
	Forced bool   `json:"forced,omitempty"`
}

// Tracks is the normalized track set of one item.
type Tracks struct {
	Videos    []*Video    `json:"videos"`
	Audios    []*Audio    `json:"audios"`
	Subtitles []*Subtitle `json:"subtitles"`
}

// Len returns the total number of tracks.
func (t *Tracks) Len() int {
	return len(t.Videos) + len(t.Audios) + len(t.Subtitles)
}

// AddSubtitle appends s unless a subtitle with the same id or URL exists.
func (t *Tracks) AddSubtitle(s *Subtitle) error {
	for _, existing := range t.Subtitles {
		if existing.ID == s.ID || (s.URL != "" && existing.URL == s.URL) {
			return fmt.Errorf("%w: subtitle %s", ErrDuplicateTrack, s.ID)
		}
	}

	t.Subtitles = append(t.Subtitles, s)
	return nil
}

// Sort orders videos and audios from best to worst.
func (t *Tracks) Sort() {
	sort.SliceStable(t.Videos, func(i, j int) bool {
		if t.Videos[i].Height != t.Videos[j].Height {
			return t.Videos[i].Height > t.Videos[j].Height
		}
		return t.Videos[i].Bitrate > t.Videos[j].Bitrate
	})
	sort.SliceStable(t.Audios, func(i, j int) bool {
		return t.Audios[i].Bitrate > t.Audios[j].Bitrate
	})
}

// BestVideo returns the highest video not taller than maxHeight.
// A non-positive maxHeight disables the limit.
func (t *Tracks) BestVideo(maxHeight int) (*Video, bool) {
	var best *Video
	for _, v := range t.Videos {
		if maxHeight > 0 && v.Height > maxHeight {
			continue
		}
		if best == nil || v.Height > best.Height || (v.Height == best.Height && v.Bitrate > best.Bitrate) {
			best = v
		}
	}
	return best, best != nil
}
