// Package source defines the domain models shared by provider adapters and the
// contract every adapter implements.
package source

import (
	"context"

	"github.com/trimmer-cli/trimmer/network"
)

// Source is a streaming catalog adapter.
type Source interface {
	// ID returns the unique lowercase identifier of the provider, e.g. "meliplay".
	ID() string

	// Name returns the display name of the provider.
	Name() string

	// Titles resolves user input (a share URL or a bare id) into playable items.
	Titles(ctx context.Context, input string) ([]*Item, error)

	// Tracks fetches and normalizes the manifest of an item.
	Tracks(ctx context.Context, item *Item) (*Tracks, error)

	// License forwards a DRM challenge and returns the license server answer unchanged.
	License(ctx context.Context, item *Item, challenge []byte) ([]byte, error)
}

// Mode selects how far a reference is expanded.
type Mode int

const (
	// SingleItem resolves exactly the referenced item.
	SingleItem Mode = iota
	// CurrentSeason resolves every episode of the referenced episode's season.
	CurrentSeason
	// AllSeasons resolves every episode of every season.
	AllSeasons
)

func (m Mode) String() string {
	switch m {
	case CurrentSeason:
		return "current-season"
	case AllSeasons:
		return "all-seasons"
	default:
		return "single"
	}
}

// Options are fixed for the lifetime of an adapter.
type Options struct {
	Mode Mode
	// NoCache skips cache reads. Fetched metadata is still stored.
	NoCache bool
	// AudioCodec keeps only audio of this codec (AAC, AC3, EC3). Empty keeps all.
	AudioCodec string
	// Quality is the requested vertical resolution.
	Quality int
	// Range is the requested dynamic range (SDR, HDR10, DV).
	Range string
	// Session is shared by every request. Adapters create one from the configuration when nil.
	Session *network.Session
}
