// Package resolve expands a root content id into the list of items to acquire:
// the item itself, the episodes of its season or the episodes of every season.
package resolve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/trimmer-cli/trimmer/internal/cache"
	"github.com/trimmer-cli/trimmer/log"
	"github.com/trimmer-cli/trimmer/source"
)

// Mode is the traversal mode, chosen once per invocation.
type Mode = source.Mode

const (
	SingleItem    = source.SingleItem
	CurrentSeason = source.CurrentSeason
	AllSeasons    = source.AllSeasons
)

// ErrResolutionFailed is returned when an item cannot be fetched or its metadata has an unexpected shape.
var ErrResolutionFailed = errors.New("resolution failed")

// Catalog is the provider side of a traversal.
type Catalog interface {
	// Episode fetches the metadata of one item.
	Episode(ctx context.Context, id string) (json.RawMessage, error)
	// Decode maps metadata into an item, failing on an unexpected shape.
	Decode(meta json.RawMessage) (*source.Item, error)
	// IsSeries reports whether the metadata carries a season selector.
	IsSeries(meta json.RawMessage) bool
	// SeasonIndex lists the episode ids of the season the item belongs to.
	SeasonIndex(ctx context.Context, meta json.RawMessage) ([]string, error)
	// SeasonList lists every season id of the series the item belongs to.
	SeasonList(ctx context.Context, meta json.RawMessage) ([]string, error)
	// SeasonEpisodes lists the episode ids of a season.
	SeasonEpisodes(ctx context.Context, seasonID string) ([]string, error)
}

// Engine walks a Catalog through a cache store. An engine is not safe for concurrent use.
type Engine struct {
	catalog Catalog
	store   *cache.Store
}

// New creates an engine. A nil store disables caching entirely.
func New(catalog Catalog, store *cache.Store) *Engine {
	return &Engine{catalog: catalog, store: store}
}

// Resolve expands rootID according to mode. Items are returned in index order;
// any failure aborts the whole call.
func (e *Engine) Resolve(ctx context.Context, rootID string, mode Mode) ([]*source.Item, error) {
	t := &traversal{
		Engine: e,
		seen:   make(map[string]json.RawMessage),
	}

	root, err := t.fetch(ctx, rootID)
	if err != nil {
		return nil, err
	}

	series := e.catalog.IsSeries(root)
	switch {
	case mode == SingleItem && series:
		log.Warnf("%s is part of a series, use --season or --all-seasons to get more episodes", rootID)
		fallthrough
	case mode == SingleItem:
		return t.decode(rootID, root)
	case !series:
		log.Warnf("%s is not part of a series, ignoring %s mode", rootID, mode)
		return t.decode(rootID, root)
	}

	var ids []string
	if mode == CurrentSeason {
		ids, err = e.catalog.SeasonIndex(ctx, root)
		if err != nil {
			return nil, fmt.Errorf("%w: season index of %s: %w", ErrResolutionFailed, rootID, err)
		}
	} else {
		seasons, err := e.catalog.SeasonList(ctx, root)
		if err != nil {
			return nil, fmt.Errorf("%w: season list of %s: %w", ErrResolutionFailed, rootID, err)
		}

		for _, season := range seasons {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			episodes, err := e.catalog.SeasonEpisodes(ctx, season)
			if err != nil {
				return nil, fmt.Errorf("%w: episodes of season %s: %w", ErrResolutionFailed, season, err)
			}
			ids = append(ids, episodes...)
		}
	}

	// the root is an episode of these seasons, so an empty listing is a bad response
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: %s: season index of %s is empty", ErrResolutionFailed, mode, rootID)
	}

	return t.expand(ctx, ids)
}

// traversal is the state of one Resolve call.
type traversal struct {
	*Engine
	// seen memoizes fetched metadata so an id is fetched at most once per call.
	seen map[string]json.RawMessage
}

func (t *traversal) expand(ctx context.Context, ids []string) ([]*source.Item, error) {
	items := make([]*source.Item, 0, len(ids))
	emitted := make(map[string]struct{}, len(ids))

	for _, id := range ids {
		if _, ok := emitted[id]; ok {
			log.Debugf("skipping duplicate episode %s", id)
			continue
		}
		emitted[id] = struct{}{}

		meta, err := t.fetch(ctx, id)
		if err != nil {
			return nil, err
		}

		item, err := t.catalog.Decode(meta)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrResolutionFailed, id, err)
		}
		items = append(items, item)
	}

	return items, nil
}

func (t *traversal) decode(id string, meta json.RawMessage) ([]*source.Item, error) {
	item, err := t.catalog.Decode(meta)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrResolutionFailed, id, err)
	}
	return []*source.Item{item}, nil
}

// fetch returns the metadata of id, cache first. Metadata is stored only once
// it has been fully fetched and decoded.
func (t *traversal) fetch(ctx context.Context, id string) (json.RawMessage, error) {
	if meta, ok := t.seen[id]; ok {
		return meta, nil
	}

	if t.store != nil {
		cached, err := t.store.Get(id)
		if err != nil {
			return nil, err
		}
		if meta, ok := cached.Get(); ok {
			if _, err := t.catalog.Decode(meta); err == nil {
				t.seen[id] = meta
				return meta, nil
			}
			log.Warnf("cached metadata of %s is stale, refetching", id)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	meta, err := t.catalog.Episode(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", ErrResolutionFailed, id, err)
	}

	if _, err := t.catalog.Decode(meta); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrResolutionFailed, id, err)
	}

	if t.store != nil {
		if err := t.store.Put(id, meta); err != nil {
			if errors.Is(err, cache.ErrCacheUnrecoverable) {
				return nil, err
			}
			log.Warnf("cache %s: %v", id, err)
		}
	}

	t.seen[id] = meta
	return meta, nil
}
