// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Download Preferences - these keys select which tracks are requested and kept.
const (
	DownloadAudioCodec = "download.audio_codec"
	DownloadQuality    = "download.quality"
	DownloadRange      = "download.range"
	DownloadVideoCodec = "download.video_codec"
)

// Cache - these keys control the per-provider request cache.
const (
	CacheEnabled = "cache.enabled"
	CacheLock    = "cache.lock"
)

// Network - these keys tune the HTTP session shared by every provider.
const (
	NetworkTimeout     = "network.timeout"
	NetworkFingerprint = "network.fingerprint"
	NetworkUserAgent   = "network.user_agent"
)

// Mercado Libre Play.
const (
	MeliplayRegion   = "meliplay.region"
	MeliplayEndpoint = "meliplay.endpoint"
	MeliplayDRM      = "meliplay.drm"
)

// Globoplay.
const (
	GloboplayTitleEndpoint   = "globoplay.endpoint.title"
	GloboplaySessionEndpoint = "globoplay.endpoint.session"
	GloboplayLicenseURL      = "globoplay.license_url"
	GloboplayPlayerType      = "globoplay.player_type"
	GloboplayDeviceID        = "globoplay.device_id"
)

// F1TV.
const (
	F1TVTitleEndpoint  = "f1tv.endpoint.title"
	F1TVTracksEndpoint = "f1tv.endpoint.tracks"
	F1TVRegion         = "f1tv.region"
	F1TVPlan           = "f1tv.plan"
	F1TVDevice         = "f1tv.device"
)

// History.
const (
	HistorySave = "history.save"
)

// Iconography - these keys manage the visual rendering of CLI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
