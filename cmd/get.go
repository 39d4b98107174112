package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trimmer-cli/trimmer/filesystem"
	"github.com/trimmer-cli/trimmer/inline"
	"github.com/trimmer-cli/trimmer/key"
	"github.com/trimmer-cli/trimmer/provider"
	"github.com/trimmer-cli/trimmer/source"
)

// openSource picks the provider from the arguments and instantiates it.
// With a single argument the provider is inferred from the URL.
func openSource(cmd *cobra.Command, args []string, mode source.Mode) (source.Source, string, error) {
	var (
		p     *provider.Provider
		input string
		err   error
	)

	switch len(args) {
	case 1:
		var ok bool
		input = args[0]
		if p, ok = provider.ForInput(input); !ok {
			return nil, "", errors.New("cannot infer the provider from the input, pass it as the first argument")
		}
	case 2:
		input = args[1]
		if p, err = provider.MustGet(args[0]); err != nil {
			return nil, "", err
		}
	default:
		return nil, "", errors.New("expected [provider] <url or id>")
	}

	src, err := p.New(source.Options{
		Mode:       mode,
		NoCache:    lo.Must(cmd.Flags().GetBool("no-cache")),
		AudioCodec: viper.GetString(key.DownloadAudioCodec),
		Quality:    viper.GetInt(key.DownloadQuality),
		Range:      viper.GetString(key.DownloadRange),
	})
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", p.ID, err)
	}

	return src, input, nil
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().BoolP("season", "s", false, "Resolve every episode of the referenced episode's season")
	getCmd.Flags().BoolP("all-seasons", "a", false, "Resolve every episode of every season")
	getCmd.MarkFlagsMutuallyExclusive("season", "all-seasons")

	getCmd.Flags().StringP("items", "i", "", "Criteria for selecting specific items from the resolved ones")
	getCmd.Flags().BoolP("tracks", "t", false, "Fetch the manifest of every selected item and list its tracks")
	getCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	getCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")
}

// getCmd resolves a title and optionally lists its tracks.
var getCmd = &cobra.Command{
	Use:   "get [provider] <url or id>",
	Short: "Resolve a title into items and optionally list their tracks",
	Long: `Resolve a share URL or a content id into playable items.

Item selectors:
  first - first item in the list
  last - last item in the list
  all - all items in the list
  [number] - select item by index (starting from 0)
  [from]-[to] - select items by range
  @[substring]@ - select items by name substring`,
	Example: `  trimmer get https://play.mercadolivre.com.br/assistir/serie/<id> --season --tracks
  trimmer get globoplay 12345678 --json
  trimmer get f1 1000005104 -t -A EC3`,
	Args:              cobra.RangeArgs(1, 2),
	ValidArgsFunction: completionProviders,
	Run: func(cmd *cobra.Command, args []string) {
		mode := source.SingleItem
		switch {
		case lo.Must(cmd.Flags().GetBool("season")):
			mode = source.CurrentSeason
		case lo.Must(cmd.Flags().GetBool("all-seasons")):
			mode = source.AllSeasons
		}

		src, input, err := openSource(cmd, args, mode)
		handleErr(err)

		var writer io.Writer = os.Stdout
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer file.Close()
			writer = file
		}

		itemsFilter := mo.None[inline.ItemsFilter]()
		if selector := lo.Must(cmd.Flags().GetString("items")); selector != "" {
			fn, err := inline.ParseItemsFilter(selector)
			handleErr(err)
			itemsFilter = mo.Some(fn)
		}

		handleErr(inline.Run(cmd.Context(), &inline.Options{
			Out:         writer,
			Source:      src,
			Input:       input,
			Mode:        mode,
			Json:        lo.Must(cmd.Flags().GetBool("json")),
			ItemsFilter: itemsFilter,
			Tracks:      lo.Must(cmd.Flags().GetBool("tracks")),
		}))
	},
}

func init() {
	getCmd.AddCommand(getSchemaCmd)
}

// getSchemaCmd generates the JSON schema of the structured get output.
var getSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON schema of the structured get output",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "item", "tracks", "track", "output", "entry":
				return t.PkgPath()[strings.LastIndex(t.PkgPath(), "/")+1:] + "." + name
			}

			return name
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(reflector.Reflect(&inline.Output{})))
	},
}
