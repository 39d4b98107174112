package version

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/trimmer-cli/trimmer/constant"
	"github.com/trimmer-cli/trimmer/filesystem"
	"github.com/trimmer-cli/trimmer/network"
	"github.com/trimmer-cli/trimmer/where"
)

// ReleasesURL is queried for the latest release.
var ReleasesURL = "https://api.github.com/repos/" + constant.Repository + "/releases/latest"

var versionCacher = sync.OnceValue(func() *gache.Cache[string] {
	return gache.New[string](&gache.Options{
		Path:       filepath.Join(where.Temp(), "version.json"),
		Lifetime:   time.Hour * 24 * 2,
		FileSystem: &filesystem.GacheFs{},
	})
})

// Latest retrieves the most recent stable application version identifier from the remote update registry.
// It queries the GitHub Releases API and caches the result for performance and rate-limit mitigation.
func Latest(ctx context.Context) (version string, err error) {
	ver, expired, err := versionCacher().Get()
	if err != nil {
		return "", err
	}

	if !expired && ver != "" {
		return ver, nil
	}

	var release struct {
		TagName string `json:"tag_name"`
	}

	session := network.NewSession(network.WithDefaultHeader("Accept", "application/vnd.github+json"))
	if err = session.GetJSON(ctx, ReleasesURL, &release); err != nil {
		return
	}

	if release.TagName == "" {
		err = errors.New("empty tag name")
		return
	}

	// Normalize the release identifier by stripping the 'v' prefix if present.
	version = strings.TrimPrefix(release.TagName, "v")
	_ = versionCacher().Set(version)
	return
}
