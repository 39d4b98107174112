// Package meliplay implements the Mercado Libre Play adapter (play.mercadolivre.com.br
// and the other Latin American storefronts).
package meliplay

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/trimmer-cli/trimmer/key"
	"github.com/trimmer-cli/trimmer/log"
	"github.com/trimmer-cli/trimmer/provider/base"
	"github.com/trimmer-cli/trimmer/ref"
	"github.com/trimmer-cli/trimmer/source"
)

const (
	ID   = "meliplay"
	Name = "Mercado Libre Play"
)

// Aliases are accepted wherever a provider name is.
var Aliases = []string{"MELI", "MELIPLAY", "MLPLAY"}

var parser = func() *ref.Parser {
	p := ref.MustParser(`^https?://play\.(mercadolivre|mercadolibre)\.(?P<region>[^/]+)(?:/[^/]+)*/(?P<id>[a-f0-9]{32})$`)
	p.Permissive = true
	return p
}()

// hosts maps a market to its storefront.
var hosts = map[ref.Region]string{
	ref.AR: "play.mercadolibre.com.ar",
	ref.BR: "play.mercadolivre.com.br",
	ref.CL: "play.mercadolibre.cl",
	ref.CO: "play.mercadolibre.com.co",
	ref.EC: "play.mercadolibre.com.ec",
	ref.MX: "play.mercadolibre.com.mx",
	ref.PE: "play.mercadolibre.com.pe",
	ref.UY: "play.mercadolibre.com.uy",
}

// DRM systems a license can be requested for.
const (
	Widevine  = "widevine"
	PlayReady = "playready"
)

// Meliplay is the adapter.
type Meliplay struct {
	*base.Adapter

	endpoint string
	region   ref.Region
	drm      string
}

// New creates the adapter from the configuration.
func New(options source.Options) (source.Source, error) {
	adapter, err := base.New(ID, Name, options)
	if err != nil {
		return nil, err
	}

	region, err := ref.ParseRegion(viper.GetString(key.MeliplayRegion))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key.MeliplayRegion, err)
	}

	drm := strings.ToLower(viper.GetString(key.MeliplayDRM))
	if drm != Widevine && drm != PlayReady {
		return nil, fmt.Errorf("%s: unknown drm system %q", key.MeliplayDRM, drm)
	}

	adapter.Session.Header().Set("Accept-Language", "pt-BR,es;q=0.9")

	return &Meliplay{
		Adapter:  adapter,
		endpoint: viper.GetString(key.MeliplayEndpoint),
		region:   region,
		drm:      drm,
	}, nil
}

// Titles resolves a share URL or a bare 32 hex id.
func (m *Meliplay) Titles(ctx context.Context, input string) ([]*source.Item, error) {
	result, err := parser.Parse(input)
	if err != nil {
		return nil, err
	}

	region, err := result.Ref.Scoped(m.region)
	if err != nil {
		return nil, err
	}
	log.Infof("%s: region %s", ID, region)

	return m.Resolve(ctx, &catalog{Meliplay: m, region: region}, result.Ref.ID)
}

// Tracks dispatches the DASH manifest and merges the sidecar subtitles.
func (m *Meliplay) Tracks(ctx context.Context, item *source.Item) (*source.Tracks, error) {
	return m.Dispatch(ctx, item)
}

// License forwards the challenge to the license server chosen at resolution time.
func (m *Meliplay) License(ctx context.Context, item *source.Item, challenge []byte) ([]byte, error) {
	return m.Forward(ctx, item.Descriptor, challenge)
}
