package inline

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/trimmer-cli/trimmer/source"
)

// ItemsFilter narrows resolved items before tracks are fetched.
type ItemsFilter func([]*source.Item) ([]*source.Item, error)

type Options struct {
	Out         io.Writer
	Source      source.Source
	Input       string
	Mode        source.Mode
	Json        bool
	ItemsFilter mo.Option[ItemsFilter]
	// Tracks fetches and lists the tracks of every selected item.
	Tracks bool
}

// ParseItemsFilter parses a selector.
// Format: "first", "last", "all", "N", "A-B" (zero based, inclusive), "@substring@".
func ParseItemsFilter(description string) (ItemsFilter, error) {
	switch description {
	case "first":
		return func(items []*source.Item) ([]*source.Item, error) {
			if len(items) == 0 {
				return items, nil
			}
			return items[:1], nil
		}, nil
	case "last":
		return func(items []*source.Item) ([]*source.Item, error) {
			if len(items) == 0 {
				return items, nil
			}
			return items[len(items)-1:], nil
		}, nil
	case "all":
		return func(items []*source.Item) ([]*source.Item, error) {
			return items, nil
		}, nil
	}

	// Range: "1-5"
	if from, to, ok := strings.Cut(description, "-"); ok {
		start, err1 := strconv.Atoi(from)
		end, err2 := strconv.Atoi(to)
		if err1 == nil && err2 == nil && start >= 0 && end >= 0 {
			return func(items []*source.Item) ([]*source.Item, error) {
				start := min(start, len(items))
				end := min(end+1, len(items))
				if start > end {
					return []*source.Item{}, nil
				}
				return items[start:end], nil
			}, nil
		}
	}

	// Substring: "@text@"
	if len(description) > 1 && strings.HasPrefix(description, "@") && strings.HasSuffix(description, "@") {
		sub := strings.ToLower(description[1 : len(description)-1])
		return func(items []*source.Item) ([]*source.Item, error) {
			return lo.Filter(items, func(item *source.Item, _ int) bool {
				return strings.Contains(strings.ToLower(item.String()), sub)
			}), nil
		}, nil
	}

	// Single index: "5"
	if idx, err := strconv.Atoi(description); err == nil && idx >= 0 {
		return func(items []*source.Item) ([]*source.Item, error) {
			if len(items) <= idx {
				return []*source.Item{}, nil
			}
			return []*source.Item{items[idx]}, nil
		}, nil
	}

	return nil, fmt.Errorf("invalid item selector: %s", description)
}
