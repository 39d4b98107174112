// Package manifest turns a delivery descriptor into a normalized track set.
//
// The manifest URL is classified into one of the supported delivery protocols,
// the matching extractor builds the raw tracks, and the same post-processing
// (audio codec filter, repack flag, out-of-band subtitles) is applied to all of them.
package manifest

import (
	"bytes"
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var (
	// ErrUnsupportedManifestFormat is returned when none of the supported protocols can be inferred.
	ErrUnsupportedManifestFormat = errors.New("unsupported manifest format")
	// ErrNoMatchingAudioTrack is returned when the codec filter leaves no audio track.
	ErrNoMatchingAudioTrack = errors.New("no matching audio track")
	// ErrUnknownCodec is returned for codec names outside the supported set.
	ErrUnknownCodec = errors.New("unknown codec")
)

// Protocol identifies a delivery protocol.
type Protocol string

const (
	ProtocolDash    Protocol = "dash"
	ProtocolHls     Protocol = "hls"
	ProtocolSmooth  Protocol = "smooth"
	ProtocolUnknown Protocol = "unknown"
)

// Manifest is a classified manifest location: one of Dash, Hls, Smooth or Unknown.
type Manifest interface {
	Protocol() Protocol
	Location() string
}

// Dash is an MPEG-DASH manifest.
type Dash struct{ URL string }

// Hls is an HLS playlist, master or media.
type Hls struct{ URL string }

// Smooth is a Smooth Streaming manifest.
type Smooth struct{ URL string }

// Unknown is a manifest whose protocol must be sniffed from its body.
type Unknown struct{ URL string }

func (m Dash) Protocol() Protocol    { return ProtocolDash }
func (m Hls) Protocol() Protocol     { return ProtocolHls }
func (m Smooth) Protocol() Protocol  { return ProtocolSmooth }
func (m Unknown) Protocol() Protocol { return ProtocolUnknown }

func (m Dash) Location() string    { return m.URL }
func (m Hls) Location() string     { return m.URL }
func (m Smooth) Location() string  { return m.URL }
func (m Unknown) Location() string { return m.URL }

var smoothPath = regexp.MustCompile(`(?i)\.isml?(/|$)`)

// Classify decides the protocol from the URL path alone.
func Classify(rawURL string) Manifest {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Unknown{URL: rawURL}
	}

	path := strings.ToLower(u.Path)
	switch {
	case strings.HasSuffix(path, ".mpd"):
		return Dash{URL: rawURL}
	case smoothPath.MatchString(path):
		return Smooth{URL: rawURL}
	case strings.HasSuffix(path, ".m3u8"), strings.HasSuffix(path, ".m3u"):
		return Hls{URL: rawURL}
	default:
		return Unknown{URL: rawURL}
	}
}

// Sniff classifies a manifest by the beginning of its body.
func Sniff(rawURL string, body []byte) (Manifest, error) {
	head := bytes.TrimSpace(bytes.TrimPrefix(body, []byte("\xef\xbb\xbf")))
	head = head[:min(len(head), 1024)]

	switch {
	case bytes.HasPrefix(head, []byte("#EXTM3U")):
		return Hls{URL: rawURL}, nil
	case bytes.Contains(head, []byte("<MPD")):
		return Dash{URL: rawURL}, nil
	case bytes.Contains(head, []byte("<SmoothStreamingMedia")):
		return Smooth{URL: rawURL}, nil
	default:
		return nil, ErrUnsupportedManifestFormat
	}
}

func isHTTP(rawURL string) bool {
	u, err := url.Parse(rawURL)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// resolveURL resolves ref against the manifest location.
func resolveURL(base, ref string) string {
	if ref == "" {
		return ""
	}

	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
