// Package f1tv implements the F1TV Pro adapter.
package f1tv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

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
	ID   = "f1tv"
	Name = "F1TV"

	// TokenName is the cookie and keyring entry holding the entitlement token.
	TokenName = "entitlement_token"

	origin = "https://f1tv.formula1.com"
)

var Aliases = []string{"F1TV", "F1"}

// ErrNotAuthenticated is returned when no entitlement token is available.
var ErrNotAuthenticated = errors.New("not authenticated: entitlement token missing")

var parser = ref.MustParser(
	`^https?://f1tv\.formula1\.com/detail/(?P<id>\d+)/`,
	`^(?P<id>\d+)$`,
)

type F1TV struct {
	*base.Adapter

	device         Device
	titleEndpoint  string
	tracksEndpoint string
	region         string
	plan           string
}

func New(options source.Options) (source.Source, error) {
	adapter, err := base.New(ID, Name, options)
	if err != nil {
		return nil, err
	}

	quality := options.Quality
	if quality == 0 {
		quality = viper.GetInt(key.DownloadQuality)
	}
	dynamicRange := options.Range
	if dynamicRange == "" {
		dynamicRange = viper.GetString(key.DownloadRange)
	}

	device, err := SelectDevice(viper.GetString(key.F1TVDevice), quality, dynamicRange)
	if err != nil {
		return nil, err
	}
	log.Debugf("%s: using %s device profile", ID, device.Name)

	adapter.Session.Header().Set("User-Agent", device.UserAgent)
	adapter.Session.Header().Set("x-f1-device-info", device.DeviceInfo)
	adapter.Options.Range = dynamicRange

	f := &F1TV{
		Adapter: adapter,
		device:  device,
		region:  viper.GetString(key.F1TVRegion),
		plan:    viper.GetString(key.F1TVPlan),
	}

	values := map[string]string{"device": device.Path, "plan": f.plan, "region": f.region}
	f.titleEndpoint = util.Expand(viper.GetString(key.F1TVTitleEndpoint), values)
	f.tracksEndpoint = util.Expand(viper.GetString(key.F1TVTracksEndpoint), values)

	return f, nil
}

// Device reports the selected profile.
func (f *F1TV) Device() Device {
	return f.device
}

func (f *F1TV) Titles(ctx context.Context, input string) ([]*source.Item, error) {
	result, err := parser.Parse(input)
	if err != nil {
		return nil, err
	}

	return f.Resolve(ctx, &catalog{f}, result.Ref.ID)
}

func (f *F1TV) Tracks(ctx context.Context, item *source.Item) (*source.Tracks, error) {
	if err := f.open(ctx, item); err != nil {
		return nil, err
	}
	return f.Dispatch(ctx, item)
}

func (f *F1TV) License(ctx context.Context, item *source.Item, challenge []byte) ([]byte, error) {
	if item.Descriptor.LicenseURL == "" {
		if err := f.open(ctx, item); err != nil {
			return nil, err
		}
	}

	token, err := f.token()
	if err != nil {
		return nil, err
	}
	return f.Forward(ctx, item.Descriptor, challenge, network.Header("entitlementtoken", token))
}

func (f *F1TV) token() (string, error) {
	if cookie, ok := f.Session.Cookie(origin, TokenName).Get(); ok {
		return cookie, nil
	}

	stored, err := auth.Lookup(ID, TokenName)
	if err != nil {
		return "", err
	}
	if value, ok := stored.Get(); ok {
		return value, nil
	}
	return "", ErrNotAuthenticated
}

func (f *F1TV) query(id string) url.Values {
	values := url.Values{"contentId": {id}}
	if strings.EqualFold(f.Options.Range, "HDR10") {
		values.Set("player", "player_tm")
	}
	return values
}

type playback struct {
	ResultObj struct {
		URL   string `json:"url"`
		LaURL string `json:"laURL"`
	} `json:"resultObj"`
}

type feeds struct {
	Feeds []struct {
		URL string `json:"url"`
	} `json:"feeds"`
}

// open asks for a playback URL and stores manifest and license server in the item.
func (f *F1TV) open(ctx context.Context, item *source.Item) error {
	token, err := f.token()
	if err != nil {
		return err
	}

	options := []network.RequestOption{
		network.Query(f.query(item.ID)),
		network.Header("entitlementtoken", token),
	}

	var response playback
	if err := f.Session.GetJSON(ctx, f.tracksEndpoint, &response, options...); err != nil {
		return fmt.Errorf("playback: %w", err)
	}

	manifestURL := response.ResultObj.URL
	if manifestURL == "" {
		return fmt.Errorf("playback for %s has no url", item.ID)
	}

	// Multi-feed events are wrapped in a feed list; the second entry is the main feed.
	if strings.Contains(manifestURL, "manifest.tme") {
		var list feeds
		if err := f.Session.GetJSON(ctx, manifestURL, &list, options...); err != nil {
			return fmt.Errorf("feed list: %w", err)
		}
		if len(list.Feeds) < 2 {
			return fmt.Errorf("feed list for %s has %d feeds", item.ID, len(list.Feeds))
		}
		manifestURL = list.Feeds[1].URL
	}

	item.Descriptor.ManifestURL = manifestURL
	item.Descriptor.LicenseURL = response.ResultObj.LaURL
	log.Infof("%s: manifest %s", ID, manifestURL)

	return nil
}

type content struct {
	ResultObj struct {
		Containers []struct {
			Metadata struct {
				ContentID     json.Number `json:"contentId"`
				EmfAttributes struct {
					Series      string `json:"Series"`
					GlobalTitle string `json:"Global_Title"`
				} `json:"emfAttributes"`
			} `json:"metadata"`
		} `json:"containers"`
	} `json:"resultObj"`
}

// catalog resolves every id as a standalone movie.
type catalog struct {
	*F1TV
}

func (c *catalog) Episode(ctx context.Context, id string) (json.RawMessage, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}

	endpoint := util.Expand(c.titleEndpoint, map[string]string{"id": id})
	return c.Session.Get(ctx, endpoint,
		network.Query(url.Values{
			"contentId":   {id},
			"entitlement": {c.plan},
			"homeCountry": {c.region},
		}),
		network.Header("entitlementtoken", token),
	)
}

func (c *catalog) Decode(meta json.RawMessage) (*source.Item, error) {
	var parsed content
	if err := json.Unmarshal(meta, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.ResultObj.Containers) == 0 {
		return nil, errors.New("content has no containers")
	}

	metadata := parsed.ResultObj.Containers[0].Metadata
	if metadata.ContentID == "" {
		return nil, errors.New("content has no id")
	}

	attributes := metadata.EmfAttributes
	title := strings.TrimSpace(attributes.Series + " " + attributes.GlobalTitle)

	return &source.Item{
		ID:       metadata.ContentID.String(),
		Title:    strings.ReplaceAll(title, "-", " "),
		Source:   ID,
		Language: "en-US",
	}, nil
}

func (c *catalog) IsSeries(json.RawMessage) bool {
	return false
}

func (c *catalog) SeasonIndex(context.Context, json.RawMessage) ([]string, error) {
	return nil, errors.New("f1tv content has no seasons")
}

func (c *catalog) SeasonList(context.Context, json.RawMessage) ([]string, error) {
	return nil, errors.New("f1tv content has no seasons")
}

func (c *catalog) SeasonEpisodes(context.Context, string) ([]string, error) {
	return nil, errors.New("f1tv content has no seasons")
}
