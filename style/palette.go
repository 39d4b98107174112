package style

import "github.com/trimmer-cli/trimmer/color"

// Kind colors a track kind label.
func Kind(kind string) string {
	switch kind {
	case "video":
		return Fg(color.Video)(kind)
	case "audio":
		return Fg(color.Audio)(kind)
	case "subtitle":
		return Fg(color.Subtitle)(kind)
	default:
		return kind
	}
}
