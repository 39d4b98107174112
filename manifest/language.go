package manifest

import (
	"strings"

	"golang.org/x/text/language"
)

// normalizeLanguage canonicalizes a BCP 47 or ISO 639 tag ("por" -> "pt",
// "es-419" stays "es-419"). Unparseable values are returned trimmed.
func normalizeLanguage(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" || strings.EqualFold(lang, "und") {
		return ""
	}

	tag, err := language.Parse(lang)
	if err != nil {
		return lang
	}
	return tag.String()
}
