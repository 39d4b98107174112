package cmd

import (
	"encoding/json"
	"os"
	"runtime"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/trimmer-cli/trimmer/color"
	"github.com/trimmer-cli/trimmer/constant"
	"github.com/trimmer-cli/trimmer/provider"
	"github.com/trimmer-cli/trimmer/style"
	"github.com/trimmer-cli/trimmer/version"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Print only the version number")
	versionCmd.Flags().BoolP("json", "j", false, "Print build information as JSON")
	versionCmd.MarkFlagsMutuallyExclusive("short", "json")
}

type buildInfo struct {
	App       string   `json:"app"`
	Version   string   `json:"version"`
	Revision  string   `json:"revision"`
	BuiltAt   string   `json:"built_at"`
	BuiltBy   string   `json:"built_by"`
	Platform  string   `json:"platform"`
	Providers []string `json:"providers"`
}

var versionTemplate = template.Must(template.New("version").Funcs(template.FuncMap{
	"faint":  style.Faint,
	"bold":   style.Bold,
	"accent": style.Fg(color.Purple),
	"join":   strings.Join,
}).Parse(`{{ accent "▇▇▇" }} {{ accent .App }}

  {{ faint "Version" }}     {{ bold .Version }}
  {{ faint "Revision" }}    {{ bold .Revision }}
  {{ faint "Built" }}       {{ bold .BuiltAt }} {{ faint "by" }} {{ bold .BuiltBy }}
  {{ faint "Platform" }}    {{ bold .Platform }}
  {{ faint "Providers" }}   {{ join .Providers ", " }}
`))

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version, build and adapter information",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		info := buildInfo{
			App:      constant.App,
			Version:  constant.Version,
			Revision: constant.Revision,
			BuiltAt:  strings.TrimSpace(constant.BuiltAt),
			BuiltBy:  constant.BuiltBy,
			Platform: runtime.GOOS + "/" + runtime.GOARCH,
			Providers: lo.Map(provider.Builtins(), func(p *provider.Provider, _ int) string {
				return p.ID
			}),
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(info))
			return
		}

		defer version.Notify()
		handleErr(versionTemplate.Execute(cmd.OutOrStdout(), info))
	},
}
