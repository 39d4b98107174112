// Package base holds the plumbing every provider adapter shares: session,
// metadata cache, traversal engine, manifest dispatch and license forwarding.
package base

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/mo"
	"github.com/trimmer-cli/trimmer/internal/cache"
	"github.com/trimmer-cli/trimmer/manifest"
	"github.com/trimmer-cli/trimmer/network"
	"github.com/trimmer-cli/trimmer/resolve"
	"github.com/trimmer-cli/trimmer/source"
)

// ErrNoLicenseServer is returned when an item carries no license URL.
var ErrNoLicenseServer = errors.New("no license server")

// Adapter is embedded by provider adapters.
type Adapter struct {
	id   string
	name string

	Options    source.Options
	Session    *network.Session
	Store      *cache.Store
	Dispatcher *manifest.Dispatcher
	Codec      mo.Option[manifest.Codec]
}

// New prepares the shared plumbing of a provider.
func New(id, name string, options source.Options) (*Adapter, error) {
	session := options.Session
	if session == nil {
		session = network.FromConfig()
	}

	codec := mo.None[manifest.Codec]()
	if options.AudioCodec != "" {
		parsed, err := manifest.ParseCodec(options.AudioCodec)
		if err != nil {
			return nil, err
		}
		codec = mo.Some(parsed)
	}

	store, err := cache.ForProvider(id, options.NoCache)
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", id, err)
	}

	return &Adapter{
		id:         id,
		name:       name,
		Options:    options,
		Session:    session,
		Store:      store,
		Dispatcher: manifest.New(session),
		Codec:      codec,
	}, nil
}

func (a *Adapter) ID() string {
	return a.id
}

func (a *Adapter) Name() string {
	return a.name
}

// Resolve expands id through catalog using the configured traversal mode.
func (a *Adapter) Resolve(ctx context.Context, catalog resolve.Catalog, id string) ([]*source.Item, error) {
	return resolve.New(catalog, a.Store).Resolve(ctx, id, a.Options.Mode)
}

// Dispatch fetches and normalizes the manifest of item.
func (a *Adapter) Dispatch(ctx context.Context, item *source.Item) (*source.Tracks, error) {
	return a.Dispatcher.Dispatch(ctx, item.Descriptor, a.Codec)
}

// Forward posts challenge to the license server of descriptor and returns the answer unchanged.
func (a *Adapter) Forward(ctx context.Context, descriptor source.Descriptor, challenge []byte, options ...network.RequestOption) ([]byte, error) {
	if descriptor.LicenseURL == "" {
		return nil, ErrNoLicenseServer
	}

	for name, value := range descriptor.LicenseHeaders {
		options = append(options, network.Header(name, value))
	}

	license, err := a.Session.Post(ctx, descriptor.LicenseURL, "application/octet-stream", challenge, options...)
	if err != nil {
		return nil, fmt.Errorf("%s license: %w", a.id, err)
	}
	return license, nil
}
