package meliplay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/trimmer-cli/trimmer/ref"
	"github.com/trimmer-cli/trimmer/resolve"
	"github.com/trimmer-cli/trimmer/source"
	"github.com/trimmer-cli/trimmer/util"
)

type component struct {
	Props struct {
		ContentID string `json:"contentId"`
	} `json:"props"`
}

type seasonsSelector struct {
	Selector struct {
		Props struct {
			Tabs []struct {
				Label string `json:"label"`
				Value string `json:"value"`
			} `json:"tabs"`
		} `json:"props"`
	} `json:"selector"`
	Carousel struct {
		Props struct {
			Components []component `json:"components"`
		} `json:"props"`
	} `json:"carousel"`
}

type drmSystem struct {
	ServerURL          string            `json:"serverUrl"`
	HTTPRequestHeaders map[string]string `json:"httpRequestHeaders"`
}

// PlaybackContext is the delivery part of an item, kept in source.Item.Data.
type PlaybackContext struct {
	Sources struct {
		Dash string `json:"dash"`
		Hls  string `json:"hls"`
	} `json:"sources"`
	Subtitles []struct {
		Label string `json:"label"`
		Lang  string `json:"lang"`
		URL   string `json:"url"`
	} `json:"subtitles"`
	DRM map[string]drmSystem `json:"drm"`
}

// components is the metadata of one content id as returned by the vcp endpoint.
type components struct {
	Player *struct {
		ContentID string `json:"contentId"`
		UI        struct {
			Title          string `json:"title"`
			SecondaryTitle string `json:"secondaryTitle"`
		} `json:"ui"`
		PlaybackContext *PlaybackContext `json:"playbackContext"`
	} `json:"player"`
	SeasonsSelector *seasonsSelector `json:"seasons-selector"`
}

func ids(list []component) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		if c.Props.ContentID != "" {
			out = append(out, c.Props.ContentID)
		}
	}
	return out
}

// catalog serves one market.
type catalog struct {
	*Meliplay
	region ref.Region
}

func (c *catalog) url(reqType, id string) string {
	return util.Expand(c.endpoint, map[string]string{
		"host":     hosts[c.region],
		"region":   string(c.region),
		"req_type": reqType,
		"title_id": id,
	})
}

func (c *catalog) Episode(ctx context.Context, id string) (json.RawMessage, error) {
	var response struct {
		Components json.RawMessage `json:"components"`
	}
	if err := c.Session.GetJSON(ctx, c.url("vcp", id), &response); err != nil {
		return nil, err
	}

	if len(response.Components) == 0 || string(response.Components) == "null" {
		return nil, errors.New("response has no components")
	}
	return response.Components, nil
}

func (c *catalog) Decode(meta json.RawMessage) (*source.Item, error) {
	var parsed components
	if err := json.Unmarshal(meta, &parsed); err != nil {
		return nil, err
	}

	player := parsed.Player
	if player == nil || player.ContentID == "" || player.PlaybackContext == nil {
		return nil, errors.New("no manifest information")
	}

	playback := player.PlaybackContext
	manifestURL := playback.Sources.Dash
	if manifestURL == "" {
		manifestURL = playback.Sources.Hls
	}

	secondary := player.UI.SecondaryTitle
	if secondary == "" {
		secondary = "T0:E0"
	}

	descriptor := source.Descriptor{ManifestURL: manifestURL}
	for _, sub := range playback.Subtitles {
		descriptor.Subtitles = append(descriptor.Subtitles, source.SubtitleRef{
			Label: sub.Label,
			Lang:  sub.Lang,
			URL:   sub.URL,
		})
	}

	if system, ok := playback.DRM[c.drm]; ok {
		// the license server checks the storefront the title was resolved from
		descriptor.LicenseURL = system.ServerURL
		descriptor.LicenseHeaders = map[string]string{
			"Origin":  "https://" + hosts[c.region],
			"Referer": "https://" + hosts[c.region] + "/",
		}
		if token := system.HTTPRequestHeaders["x-dt-auth-token"]; token != "" {
			descriptor.LicenseHeaders["x-dt-auth-token"] = token
		}
	}

	return &source.Item{
		ID:         player.ContentID,
		Title:      player.UI.Title,
		Source:     ID,
		Episode:    resolve.ParseSecondaryTitle(secondary),
		Descriptor: descriptor,
		Data:       playback,
	}, nil
}

func (c *catalog) IsSeries(meta json.RawMessage) bool {
	var parsed components
	return json.Unmarshal(meta, &parsed) == nil && parsed.SeasonsSelector != nil
}

func (c *catalog) selector(meta json.RawMessage) (*seasonsSelector, error) {
	var parsed components
	if err := json.Unmarshal(meta, &parsed); err != nil {
		return nil, err
	}
	if parsed.SeasonsSelector == nil {
		return nil, errors.New("no season selector")
	}
	return parsed.SeasonsSelector, nil
}

func (c *catalog) SeasonIndex(_ context.Context, meta json.RawMessage) ([]string, error) {
	selector, err := c.selector(meta)
	if err != nil {
		return nil, err
	}
	return ids(selector.Carousel.Props.Components), nil
}

func (c *catalog) SeasonList(_ context.Context, meta json.RawMessage) ([]string, error) {
	selector, err := c.selector(meta)
	if err != nil {
		return nil, err
	}

	seasons := make([]string, 0, len(selector.Selector.Props.Tabs))
	for _, tab := range selector.Selector.Props.Tabs {
		if tab.Value != "" {
			seasons = append(seasons, tab.Value)
		}
	}
	return seasons, nil
}

func (c *catalog) SeasonEpisodes(ctx context.Context, seasonID string) ([]string, error) {
	var response struct {
		Props struct {
			Components []component `json:"components"`
		} `json:"props"`
	}
	if err := c.Session.GetJSON(ctx, c.url("seasons", seasonID)+"/episodes", &response); err != nil {
		return nil, fmt.Errorf("season %s: %w", seasonID, err)
	}
	return ids(response.Props.Components), nil
}
