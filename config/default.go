package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/trimmer-cli/trimmer/color"
	"github.com/trimmer-cli/trimmer/constant"
	"github.com/trimmer-cli/trimmer/key"
	"github.com/trimmer-cli/trimmer/style"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.App + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

// Keys returns every registered key in lexical order.
func Keys() []string {
	keys := lo.Keys(Default)
	sort.Strings(keys)
	return keys
}

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.DownloadAudioCodec, "", "Keep only audio tracks of this codec.\nAvailable options are: AAC, AC3, EC3 (empty keeps all)")
	register(key.DownloadVideoCodec, "H264", "Preferred video codec.\nAvailable options are: H264, H265")
	register(key.DownloadQuality, 1080, "Requested vertical resolution.\nSome providers switch device profiles above 1080")
	register(key.DownloadRange, "SDR", "Requested dynamic range.\nAvailable options are: SDR, HDR10, DV")
	register(key.CacheEnabled, true, "Cache episode metadata between runs")
	register(key.CacheLock, true, "Guard cache files with a cross-process lock")
	register(key.NetworkTimeout, 30, "HTTP timeout in seconds")
	register(key.NetworkFingerprint, false, "Use a browser TLS fingerprint for provider requests")
	register(key.NetworkUserAgent, constant.UserAgent, "User agent sent with provider requests")
	register(key.MeliplayRegion, "BR", "Region used when the title URL does not carry one.\nAvailable options are: AR, BR, CL, CO, EC, MX, PE, UY")
	register(key.MeliplayEndpoint, "https://{host}/api/{req_type}/{title_id}", "Mercado Libre Play content endpoint.\n{host}, {req_type} and {title_id} are substituted")
	register(key.MeliplayDRM, "widevine", "DRM system requested from Mercado Libre Play.\nAvailable options are: widevine, playready")
	register(key.GloboplayTitleEndpoint, "https://api.globovideos.com/videos/{id}/playlist", "Globoplay title metadata endpoint.\n{id} is substituted")
	register(key.GloboplaySessionEndpoint, "https://playback.video.globo.com/v4/video-session", "Globoplay playback session endpoint")
	register(key.GloboplayLicenseURL, "https://cbsi.live.ott.irdeto.com/widevine/getlicense", "Fallback Globoplay license server")
	register(key.GloboplayPlayerType, "desktop", "Player type announced to Globoplay")
	register(key.GloboplayDeviceID, "", "Widevine device id for Globoplay.\nGenerated and stored in the keyring when empty")
	register(key.F1TVTitleEndpoint, "https://f1tv.formula1.com/2.0/R/ENG/{device}/ALL/CONTENT/VIDEO/{id}/{plan}/{region}/2", "F1TV content metadata endpoint")
	register(key.F1TVTracksEndpoint, "https://f1tv.formula1.com/2.0/R/ENG/{device}/ALL/CONTENT/PLAY", "F1TV playback endpoint")
	register(key.F1TVRegion, "US", "F1TV home country")
	register(key.F1TVPlan, "F1_TV_Pro_Annual", "F1TV subscription plan")
	register(key.F1TVDevice, "", "Force a device profile.\nAvailable options are: web, android, tvos (empty picks from quality and range)")
	register(key.HistorySave, true, "Remember resolved titles.\nSee them with the history command")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs to a dated file instead of stderr")
	register(key.LogsLevel, "warn", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, false, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
