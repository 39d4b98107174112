package manifest

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/trimmer-cli/trimmer/source"
)

// mergeSubtitles appends out-of-band subtitles to tracks. Entries the provider
// marks as disabled are skipped silently; duplicates and malformed entries are
// collected into the returned error and never stop the merge.
func mergeSubtitles(tracks *source.Tracks, refs []source.SubtitleRef) error {
	var result *multierror.Error

	for i, ref := range refs {
		if disabledSubtitle(ref) {
			continue
		}

		if !isHTTP(ref.URL) {
			result = multierror.Append(result, fmt.Errorf("subtitle %d (%s): invalid url %q", i, ref.Lang, ref.URL))
			continue
		}

		format := ref.Format
		if format == "" {
			format = "vtt"
		}

		lang := normalizeLanguage(ref.Lang)
		subtitle := &source.Subtitle{
			Track: source.Track{
				ID:       fmt.Sprintf("oob-%s-%d", firstNonEmpty(lang, "und"), i),
				URL:      ref.URL,
				Codec:    format,
				Language: lang,
			},
			Name:   ref.Label,
			Forced: strings.Contains(strings.ToLower(ref.Label), "forced"),
		}

		if err := tracks.AddSubtitle(subtitle); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

func disabledSubtitle(ref source.SubtitleRef) bool {
	if strings.EqualFold(strings.TrimSpace(ref.Label), "no") {
		return true
	}

	switch strings.ToLower(strings.TrimSpace(ref.Lang)) {
	case "disabled", "none":
		return true
	}
	return false
}
