// Package history keeps track of the titles resolved by the get command.
package history

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/spf13/viper"
	"github.com/trimmer-cli/trimmer/filesystem"
	"github.com/trimmer-cli/trimmer/key"
	"github.com/trimmer-cli/trimmer/where"
)

var cacher = sync.OnceValue(func() *gache.Cache[map[string]*Record] {
	return gache.New[map[string]*Record](
		&gache.Options{
			Path:       Path(),
			FileSystem: &filesystem.GacheFs{},
		},
	)
})

// Path is the history file.
func Path() string {
	return filepath.Join(where.Config(), "history.json")
}

// Get returns every record, keyed by provider and input.
func Get() (map[string]*Record, error) {
	cached, expired, err := cacher().Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Record), nil
	}
	return cached, nil
}

// List returns the records, most recent first.
func List() ([]*Record, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(saved))
	for _, record := range saved {
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].At.After(records[j].At)
	})
	return records, nil
}

// Save records a resolution. Nothing is written when history.save is disabled.
func Save(record *Record) error {
	if !viper.GetBool(key.HistorySave) {
		return nil
	}

	saved, err := Get()
	if err != nil {
		return err
	}

	if record.At.IsZero() {
		record.At = time.Now()
	}

	if existing, ok := saved[record.encode()]; ok {
		record.Count = existing.Count
	}
	record.Count++

	saved[record.encode()] = record
	return cacher().Set(saved)
}

// Remove deletes a single record.
func Remove(record *Record) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, record.encode())
	return cacher().Set(saved)
}

// Clear deletes every record.
func Clear() error {
	return cacher().Set(make(map[string]*Record))
}
