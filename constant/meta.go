// Package constant defines immutable application-level identifiers and build metadata.
package constant

const (
	// App is the canonical application identifier used for filesystem paths, env prefixes and CLI branding.
	App = "trimmer"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// Repository is the GitHub owner/name pair releases are published under.
	Repository = "trimmer-cli/trimmer"

	// UserAgent is the default HTTP User-Agent string sent to catalog APIs.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/137.0.0.0 Safari/537.36"
)

// Build metadata, overridden with -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
