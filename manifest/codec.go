package manifest

import (
	"fmt"
	"strings"

	"github.com/trimmer-cli/trimmer/source"
)

// Codec is a human codec name accepted by the audio filter.
type Codec string

const (
	AAC Codec = "AAC"
	AC3 Codec = "AC3"
	EC3 Codec = "EC3"
)

var families = map[Codec]string{
	AAC: "mp4a",
	AC3: "ac-3",
	EC3: "ec-3",
}

// Codecs lists the supported audio codec names.
func Codecs() []Codec {
	return []Codec{AAC, AC3, EC3}
}

// ParseCodec reads a codec name case-insensitively.
func ParseCodec(name string) (Codec, error) {
	codec := Codec(strings.ToUpper(strings.TrimSpace(name)))
	if _, ok := families[codec]; !ok {
		return "", fmt.Errorf("%w: %q (available: AAC, AC3, EC3)", ErrUnknownCodec, name)
	}
	return codec, nil
}

// Family returns the manifest codec family the name maps to.
func (c Codec) Family() string {
	return families[c]
}

// filterAudio keeps only audio of the codec family. Zero survivors is an
// error rather than an audio-less track set.
func filterAudio(tracks *source.Tracks, codec Codec) error {
	family := codec.Family()

	kept := make([]*source.Audio, 0, len(tracks.Audios))
	for _, audio := range tracks.Audios {
		if strings.EqualFold(audio.Family(), family) {
			kept = append(kept, audio)
		}
	}

	if len(kept) == 0 {
		return fmt.Errorf("%w: %s (%s) among %s", ErrNoMatchingAudioTrack, codec, family, availableFamilies(tracks.Audios))
	}

	tracks.Audios = kept
	return nil
}

func availableFamilies(audios []*source.Audio) string {
	if len(audios) == 0 {
		return "no audio"
	}

	seen := make(map[string]struct{})
	var out []string
	for _, audio := range audios {
		family := audio.Family()
		if _, ok := seen[family]; ok {
			continue
		}
		seen[family] = struct{}{}
		out = append(out, family)
	}
	return strings.Join(out, ", ")
}
