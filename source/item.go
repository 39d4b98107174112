package source

import (
	"fmt"

	"github.com/samber/mo"
)

// Kind classifies a resolved item.
type Kind string

const (
	Movie   Kind = "movie"
	Episode Kind = "episode"
)

// EpisodeInfo places an item inside a series.
type EpisodeInfo struct {
	Season int    `json:"season"`
	Number int    `json:"number"`
	Name   string `json:"name,omitempty"`
}

// SubtitleRef is a subtitle delivered outside the manifest.
type SubtitleRef struct {
	Label string `json:"label"`
	Lang  string `json:"lang"`
	URL   string `json:"url"`
	// Format is the subtitle codec, "vtt" when empty.
	Format string `json:"format,omitempty"`
}

// Descriptor carries what the manifest dispatcher and the license forwarder need.
type Descriptor struct {
	ManifestURL    string            `json:"manifest_url"`
	LicenseURL     string            `json:"license_url,omitempty"`
	LicenseHeaders map[string]string `json:"license_headers,omitempty"`
	Subtitles      []SubtitleRef     `json:"subtitles,omitempty"`
}

// Item is a playable unit resolved from a reference.
type Item struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Source   string `json:"source"`
	Language string `json:"language,omitempty"`

	// Episode is present iff the item is a series episode.
	Episode mo.Option[EpisodeInfo] `json:"episode" jsonschema:"type=object"`

	Descriptor Descriptor `json:"descriptor"`

	// Data is private to the adapter that produced the item.
	Data any `json:"-"`
}

// Kind returns Episode when the item is placed in a series.
func (i *Item) Kind() Kind {
	if i.Episode.IsPresent() {
		return Episode
	}
	return Movie
}

// String returns a display name such as "Show S01E03 Pilot".
func (i *Item) String() string {
	info, ok := i.Episode.Get()
	if !ok {
		return i.Title
	}

	s := fmt.Sprintf("%s S%02dE%02d", i.Title, info.Season, info.Number)
	if info.Name != "" {
		s += " " + info.Name
	}
	return s
}
