// Package version checks for newer releases of the CLI.
package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// semver holds major, minor and patch. Pre-release and build suffixes are ignored.
type semver [3]int

func parseSemver(s string) (semver, error) {
	core, _, _ := strings.Cut(strings.TrimPrefix(s, "v"), "-")
	core, _, _ = strings.Cut(core, "+")

	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return semver{}, fmt.Errorf("version %q: want major.minor.patch", s)
	}

	var v semver
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return semver{}, fmt.Errorf("version %q: bad component %q", s, part)
		}
		v[i] = n
	}
	return v, nil
}

// Compare returns 1 if release a is newer than b, -1 if older and 0 if they match.
func Compare(a, b string) (int, error) {
	av, err := parseSemver(a)
	if err != nil {
		return 0, err
	}
	bv, err := parseSemver(b)
	if err != nil {
		return 0, err
	}

	diff, ok := lo.Find(lo.Range(3), func(i int) bool { return av[i] != bv[i] })
	switch {
	case !ok:
		return 0, nil
	case av[diff] > bv[diff]:
		return 1, nil
	default:
		return -1, nil
	}
}
