package cmd

import (
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/trimmer-cli/trimmer/provider"
)

func init() {
	rootCmd.AddCommand(providersCmd)

	providersCmd.Flags().BoolP("raw", "r", false, "Print only provider ids, one per line")
	providersCmd.Flags().StringP("search", "s", "", "Show only providers fuzzily matching this text")
	providersCmd.SetOut(os.Stdout)
}

// providersCmd lists the built-in provider adapters.
var providersCmd = &cobra.Command{
	Use:     "providers",
	Aliases: []string{"sources"},
	Short:   "Display the collection of built-in providers",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		providers := provider.Builtins()
		if query := lo.Must(cmd.Flags().GetString("search")); query != "" {
			providers = provider.Search(query)
		}

		if lo.Must(cmd.Flags().GetBool("raw")) {
			for _, p := range providers {
				cmd.Println(p.ID)
			}
			return
		}

		tw := table.NewWriter()
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(table.Row{"ID", "Name", "Aliases", "Domain", "Credentials"})
		for _, p := range providers {
			tw.AppendRow(table.Row{p.ID, p.Name, strings.Join(p.Aliases, ", "), p.Domain, strings.Join(p.Auth, ", ")})
		}

		cmd.Println(tw.Render())
	},
}
