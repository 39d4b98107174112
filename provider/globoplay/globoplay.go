// Package globoplay implements the Globoplay adapter.
//
// Titles are always resolved as movies. Playback needs the GLBID cookie of a
// logged in browser session, either present in the session jar or stored with
// `trimmer auth globoplay glbid`.
package globoplay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/trimmer-cli/trimmer/auth"
	"github.com/trimmer-cli/trimmer/key"
	"github.com/trimmer-cli/trimmer/log"
	"github.com/trimmer-cli/trimmer/network"
	"github.com/trimmer-cli/trimmer/provider/base"
	"github.com/trimmer-cli/trimmer/ref"
	"github.com/trimmer-cli/trimmer/source"
	"github.com/trimmer-cli/trimmer/util"
)

const (
	ID   = "globoplay"
	Name = "Globoplay"

	// CookieName is the session cookie exchanged for a bearer token.
	CookieName = "GLBID"
	// DeviceIDName is the keyring entry holding the generated device id.
	DeviceIDName = "device_id"

	origin = "https://globoplay.globo.com"
)

var Aliases = []string{"GLB", "Globo"}

// ErrNotAuthenticated is returned when no GLBID cookie is available.
var ErrNotAuthenticated = errors.New("not authenticated: GLBID cookie missing")

var parser = func() *ref.Parser {
	p := ref.MustParser(`^https?://globoplay\.globo\.com/(?:v|[^/]+/[^/]+)/(?P<id>\d+)`)
	p.Permissive = true
	return p
}()

type Globoplay struct {
	*base.Adapter

	titleEndpoint   string
	sessionEndpoint string
	licenseURL      string
	playerType      string
}

func New(options source.Options) (source.Source, error) {
	adapter, err := base.New(ID, Name, options)
	if err != nil {
		return nil, err
	}

	adapter.Session.Header().Set("Referer", origin+"/")
	adapter.Session.Header().Set("Origin", origin)

	return &Globoplay{
		Adapter:         adapter,
		titleEndpoint:   viper.GetString(key.GloboplayTitleEndpoint),
		sessionEndpoint: viper.GetString(key.GloboplaySessionEndpoint),
		licenseURL:      viper.GetString(key.GloboplayLicenseURL),
		playerType:      viper.GetString(key.GloboplayPlayerType),
	}, nil
}

func (g *Globoplay) Titles(ctx context.Context, input string) ([]*source.Item, error) {
	result, err := parser.Parse(input)
	if err != nil {
		return nil, err
	}

	return g.Resolve(ctx, &catalog{g}, result.Ref.ID)
}

// Tracks opens a playback session, then dispatches the manifest it points to.
// Globoplay serves DASH, Smooth or HLS depending on the title.
func (g *Globoplay) Tracks(ctx context.Context, item *source.Item) (*source.Tracks, error) {
	if err := g.open(ctx, item); err != nil {
		return nil, err
	}
	return g.Dispatch(ctx, item)
}

func (g *Globoplay) License(ctx context.Context, item *source.Item, challenge []byte) ([]byte, error) {
	if item.Descriptor.LicenseURL == "" {
		if err := g.open(ctx, item); err != nil {
			return nil, err
		}
	}
	return g.Forward(ctx, item.Descriptor, challenge)
}

type videoSession struct {
	Sources []struct {
		URL string `json:"url"`
	} `json:"sources"`
	Resource struct {
		ContentProtection *struct {
			Server string `json:"server"`
		} `json:"content_protection"`
	} `json:"resource"`
}

// open requests a playback session and stores manifest and license server in the item.
func (g *Globoplay) open(ctx context.Context, item *source.Item) error {
	token, err := g.token()
	if err != nil {
		return err
	}

	payload := map[string]any{
		"player_type":        g.playerType,
		"video_id":           item.ID,
		"quality":            "max",
		"content_protection": "widevine",
		"tz":                 "-03:00",
		"version":            2,
	}

	var response videoSession
	if err := g.Session.PostJSON(ctx, g.sessionEndpoint, payload, &response,
		network.Header("Authorization", "Bearer "+token),
	); err != nil {
		return fmt.Errorf("video session: %w", err)
	}

	if len(response.Sources) == 0 || response.Sources[0].URL == "" {
		return fmt.Errorf("video session for %s has no sources", item.ID)
	}
	item.Descriptor.ManifestURL = response.Sources[0].URL
	log.Infof("%s: manifest %s", ID, item.Descriptor.ManifestURL)

	item.Descriptor.LicenseURL = g.licenseURL
	if protection := response.Resource.ContentProtection; protection != nil && protection.Server != "" {
		deviceID, err := g.deviceID()
		if err != nil {
			return err
		}
		item.Descriptor.LicenseURL = strings.ReplaceAll(protection.Server, "{{deviceId}}", deviceID)
	}

	return nil
}

func (g *Globoplay) token() (string, error) {
	if cookie, ok := g.Session.Cookie(g.sessionEndpoint, CookieName).Get(); ok {
		return cookie, nil
	}

	stored, err := auth.Lookup(ID, strings.ToLower(CookieName))
	if err != nil {
		return "", err
	}

	if value, ok := stored.Get(); ok {
		return value, nil
	}
	return "", ErrNotAuthenticated
}

// deviceID returns the configured device id, or a stable generated one.
func (g *Globoplay) deviceID() (string, error) {
	if id := viper.GetString(key.GloboplayDeviceID); id != "" {
		return id, nil
	}

	stored, err := auth.Lookup(ID, DeviceIDName)
	if err != nil {
		return "", err
	}
	if id, ok := stored.Get(); ok {
		return id, nil
	}

	id := uuid.NewString()
	if err := auth.Set(ID, DeviceIDName, id); err != nil {
		log.Warnf("%s: device id not persisted: %s", ID, err)
	}
	return id, nil
}

type playlist struct {
	Videos []struct {
		ID      json.Number `json:"id"`
		Title   string      `json:"title"`
		Program string      `json:"program"`
	} `json:"videos"`
}

// catalog resolves every id as a standalone movie.
type catalog struct {
	*Globoplay
}

func (c *catalog) Episode(ctx context.Context, id string) (json.RawMessage, error) {
	data, err := c.Session.Get(ctx, util.Expand(c.titleEndpoint, map[string]string{"id": id}))
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *catalog) Decode(meta json.RawMessage) (*source.Item, error) {
	var parsed playlist
	if err := json.Unmarshal(meta, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Videos) == 0 {
		return nil, errors.New("playlist has no videos")
	}

	video := parsed.Videos[0]
	if video.ID == "" {
		return nil, errors.New("video has no id")
	}

	title := video.Title
	if video.Program != "" {
		title = video.Program + " - " + video.Title
	}

	return &source.Item{
		ID:       video.ID.String(),
		Title:    title,
		Source:   ID,
		Language: "pt-BR",
	}, nil
}

func (c *catalog) IsSeries(json.RawMessage) bool {
	return false
}

func (c *catalog) SeasonIndex(context.Context, json.RawMessage) ([]string, error) {
	return nil, errors.New("globoplay titles have no seasons")
}

func (c *catalog) SeasonList(context.Context, json.RawMessage) ([]string, error) {
	return nil, errors.New("globoplay titles have no seasons")
}

func (c *catalog) SeasonEpisodes(context.Context, string) ([]string, error) {
	return nil, errors.New("globoplay titles have no seasons")
}
