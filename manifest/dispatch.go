package manifest

import (
	"context"
	"fmt"

	"github.com/samber/mo"
	"github.com/trimmer-cli/trimmer/log"
	"github.com/trimmer-cli/trimmer/network"
	"github.com/trimmer-cli/trimmer/source"
)

// Fetcher downloads a manifest body. *network.Session satisfies it.
type Fetcher interface {
	Get(ctx context.Context, rawURL string, options ...network.RequestOption) ([]byte, error)
}

// Extractor builds raw tracks from a manifest body.
type Extractor func(location string, body []byte) (*source.Tracks, error)

// Dispatcher routes manifests to the extractor of their protocol.
type Dispatcher struct {
	fetcher    Fetcher
	extractors map[Protocol]Extractor
	headers    map[string]string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithExtractor replaces the extractor of a protocol.
func WithExtractor(protocol Protocol, extractor Extractor) Option {
	return func(d *Dispatcher) {
		d.extractors[protocol] = extractor
	}
}

// WithHeader adds a header to manifest requests.
func WithHeader(name, value string) Option {
	return func(d *Dispatcher) {
		d.headers[name] = value
	}
}

// New creates a dispatcher with the built-in HLS, DASH and Smooth Streaming extractors.
func New(fetcher Fetcher, options ...Option) *Dispatcher {
	d := &Dispatcher{
		fetcher: fetcher,
		extractors: map[Protocol]Extractor{
			ProtocolHls:    extractHls,
			ProtocolDash:   extractDash,
			ProtocolSmooth: extractSmooth,
		},
		headers: make(map[string]string),
	}

	for _, option := range options {
		option(d)
	}
	return d
}

// Dispatch fetches the manifest of d and returns its normalized tracks.
// When codec is present only audio of that codec family is kept.
func (d *Dispatcher) Dispatch(ctx context.Context, descriptor source.Descriptor, codec mo.Option[Codec]) (*source.Tracks, error) {
	location := descriptor.ManifestURL
	if !isHTTP(location) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedManifestFormat, location)
	}

	options := make([]network.RequestOption, 0, len(d.headers))
	for name, value := range d.headers {
		options = append(options, network.Header(name, value))
	}

	body, err := d.fetcher.Get(ctx, location, options...)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}

	manifest := Classify(location)
	if _, ok := manifest.(Unknown); ok {
		manifest, err = Sniff(location, body)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, location)
		}
	}

	extract, ok := d.extractors[manifest.Protocol()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedManifestFormat, manifest.Protocol())
	}

	tracks, err := extract(location, body)
	if err != nil {
		return nil, fmt.Errorf("%s manifest: %w", manifest.Protocol(), err)
	}

	// HLS downloads carry trailing garbage that a remux removes.
	_, hls := manifest.(Hls)
	for _, video := range tracks.Videos {
		video.NeedsRepack = hls
	}

	if err := mergeSubtitles(tracks, descriptor.Subtitles); err != nil {
		log.Warnf("subtitles of %s: %v", location, err)
	}

	if c, ok := codec.Get(); ok {
		if err := filterAudio(tracks, c); err != nil {
			return nil, err
		}
	}

	tracks.Sort()
	return tracks, nil
}
