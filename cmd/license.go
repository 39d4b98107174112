package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/trimmer-cli/trimmer/filesystem"
	"github.com/trimmer-cli/trimmer/icon"
	"github.com/trimmer-cli/trimmer/inline"
	"github.com/trimmer-cli/trimmer/source"
	"github.com/trimmer-cli/trimmer/style"
	"github.com/trimmer-cli/trimmer/util"
)

func init() {
	rootCmd.AddCommand(licenseCmd)

	licenseCmd.Flags().StringP("challenge", "c", "-", "File holding the license challenge, - reads stdin")
	licenseCmd.Flags().StringP("output", "o", "-", "File to write the license to, - writes stdout")
	licenseCmd.Flags().StringP("item", "i", "first", "Selector of the item to license when the input resolves to several")
}

// licenseCmd forwards a DRM challenge to the license server of an item.
var licenseCmd = &cobra.Command{
	Use:               "license [provider] <url or id>",
	Short:             "Forward a DRM license challenge for a title",
	Long:              "Resolve a title, send the challenge bytes to its license server and write the answer unchanged.",
	Args:              cobra.RangeArgs(1, 2),
	ValidArgsFunction: completionProviders,
	Run: func(cmd *cobra.Command, args []string) {
		src, input, err := openSource(cmd, args, source.SingleItem)
		handleErr(err)

		challenge, err := readChallenge(lo.Must(cmd.Flags().GetString("challenge")))
		handleErr(err)

		items, err := src.Titles(cmd.Context(), input)
		handleErr(err)

		filter, err := inline.ParseItemsFilter(lo.Must(cmd.Flags().GetString("item")))
		handleErr(err)
		items, err = filter(items)
		handleErr(err)
		if len(items) == 0 {
			handleErr(fmt.Errorf("no item selected from %s", input))
		}

		item := items[0]
		erase := util.PrintErasable(fmt.Sprintf("%s Requesting license for %s...", icon.Get(icon.Progress), style.Bold(item.String())))
		license, err := src.License(cmd.Context(), item, challenge)
		erase()
		handleErr(err)

		output := lo.Must(cmd.Flags().GetString("output"))
		if output == "-" {
			_, err = os.Stdout.Write(license)
			handleErr(err)
			return
		}

		handleErr(filesystem.API().WriteFile(output, license, 0o644))
		_, _ = fmt.Fprintf(os.Stderr, "%s wrote %s\n", icon.Get(icon.Lock), output)
	},
}

func readChallenge(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return filesystem.API().ReadFile(path)
}
