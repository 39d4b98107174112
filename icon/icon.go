// Package icon renders status and track symbols in the variant chosen by icons.variant.
package icon

import (
	"github.com/spf13/viper"
	"github.com/trimmer-cli/trimmer/key"
)

// variants in the order they are offered for completion.
var variants = []string{"emoji", "nerd", "plain", "kaomoji", "squares"}

// AvailableVariants lists the accepted icons.variant values.
func AvailableVariants() []string {
	return append([]string(nil), variants...)
}

// glyphs holds one rendering per variant, indexed like variants.
type glyphs [5]string

// Get renders i in the configured variant. Unknown variants render nothing.
func Get(i Icon) string {
	set, ok := icons[i]
	if !ok {
		return ""
	}

	current := viper.GetString(key.IconsVariant)
	for n, variant := range variants {
		if variant == current {
			return set[n]
		}
	}
	return ""
}
