package resolve

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/mo"
	"github.com/trimmer-cli/trimmer/source"
	"github.com/trimmer-cli/trimmer/util"
)

var secondaryTitleRe = regexp.MustCompile(`^\s*T(?P<season>\d+)\s*:\s*E(?P<episode>\d+)\s*(?:\|\s*(?P<name>.*?))?\s*$`)

// ParseSecondaryTitle reads a structured subtitle such as "T1:E3 | Pilot".
// It returns None when the text is not of that form or the season is 0,
// which marks a movie.
func ParseSecondaryTitle(text string) mo.Option[source.EpisodeInfo] {
	groups := util.ReGroups(secondaryTitleRe, text)
	if len(groups) == 0 {
		return mo.None[source.EpisodeInfo]()
	}

	season, err := strconv.Atoi(groups["season"])
	if err != nil || season == 0 {
		return mo.None[source.EpisodeInfo]()
	}

	episode, err := strconv.Atoi(groups["episode"])
	if err != nil {
		return mo.None[source.EpisodeInfo]()
	}

	return mo.Some(source.EpisodeInfo{
		Season: season,
		Number: episode,
		Name:   strings.TrimSpace(groups["name"]),
	})
}
