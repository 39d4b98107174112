package cache

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"github.com/trimmer-cli/trimmer/filesystem"
	"github.com/trimmer-cli/trimmer/key"
	"github.com/trimmer-cli/trimmer/log"
	"github.com/trimmer-cli/trimmer/where"
)

// ForProvider opens the store of a provider under the user cache directory.
// Reads are bypassed when noCache is set or caching is disabled in the configuration.
func ForProvider(provider string, noCache bool) (*Store, error) {
	return New(Options{
		Dir:    where.Cache(),
		Name:   strings.ToLower(provider),
		Bypass: noCache || !viper.GetBool(key.CacheEnabled),
		Lock:   viper.GetBool(key.CacheLock),
	})
}

// Names lists the providers that have a store in dir.
func Names(dir string) ([]string, error) {
	files, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(file.Name(), ".json"))
	}

	sort.Strings(names)
	return names, nil
}

// CollectGarbage prunes expired entries from every provider store.
func CollectGarbage() {
	dir := where.Cache()
	names, err := Names(dir)
	if err != nil {
		log.Warnf("cache: %s", err)
		return
	}

	for _, name := range names {
		logger := log.WithField("provider", name)

		store, err := New(Options{Dir: dir, Name: name, Lock: viper.GetBool(key.CacheLock)})
		if err != nil {
			logger.Warnf("cache: %s", err)
			continue
		}

		pruned, err := store.Prune()
		if err != nil {
			logger.Warnf("cache: %s", err)
			continue
		}
		if pruned > 0 {
			logger.Infof("cache: pruned %d expired entries", pruned)
		}
	}
}
