package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trimmer-cli/trimmer/color"
	"github.com/trimmer-cli/trimmer/filesystem"
	"github.com/trimmer-cli/trimmer/icon"
	"github.com/trimmer-cli/trimmer/internal/cache"
	"github.com/trimmer-cli/trimmer/key"
	"github.com/trimmer-cli/trimmer/provider"
	"github.com/trimmer-cli/trimmer/style"
	"github.com/trimmer-cli/trimmer/util"
	"github.com/trimmer-cli/trimmer/where"
)

// stores opens the store of the named provider, or of every provider with a cache file.
func stores(args []string) []*cache.Store {
	dir := where.Cache()

	names := lo.Must(cache.Names(dir))
	if len(args) > 0 {
		p, err := provider.MustGet(args[0])
		handleErr(err)
		names = []string{p.ID}
	}

	return lo.Map(names, func(name string, _ int) *cache.Store {
		store, err := cache.New(cache.Options{Dir: dir, Name: name, Lock: viper.GetBool(key.CacheLock)})
		handleErr(err)
		return store
	})
}

func init() {
	rootCmd.AddCommand(cacheCmd)
}

// cacheCmd manages the per-provider metadata cache.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clean the per-provider metadata cache",
}

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	cacheListCmd.SetOut(os.Stdout)
}

// cacheListCmd lists cached entries.
var cacheListCmd = &cobra.Command{
	Use:               "list [provider]",
	Short:             "List cached entries with their age",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionProviders,
	Run: func(cmd *cobra.Command, args []string) {
		tw := table.NewWriter()
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(table.Row{"Provider", "ID", "Stored", "State"})

		for _, store := range stores(args) {
			infos, err := store.List()
			handleErr(err)

			name := util.FileStem(store.Path())
			for _, info := range infos {
				state := style.Fg(color.Green)("fresh")
				if info.Expired {
					state = style.Fg(color.Red)("expired")
				}
				tw.AppendRow(table.Row{name, info.Key, humanize.Time(info.StoredAt), state})
			}
		}

		if tw.Length() == 0 {
			cmd.Printf("%s cache is empty\n", icon.Get(icon.Cache))
			return
		}
		cmd.Println(tw.Render())
	},
}

func init() {
	cacheCmd.AddCommand(cachePruneCmd)
}

// cachePruneCmd drops expired entries.
var cachePruneCmd = &cobra.Command{
	Use:               "prune [provider]",
	Short:             "Remove expired entries",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionProviders,
	Run: func(cmd *cobra.Command, args []string) {
		total := 0
		for _, store := range stores(args) {
			pruned, err := store.Prune()
			handleErr(err)
			total += pruned
		}

		fmt.Printf("%s pruned %s\n", icon.Get(icon.Success), util.Quantify(total, "entry", "entries"))
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheClearCmd.Flags().BoolP("all", "a", false, "Remove the whole cache directory, lock files included")
}

// cacheClearCmd removes cache files.
var cacheClearCmd = &cobra.Command{
	Use:               "clear [provider]",
	Short:             "Remove cached entries",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionProviders,
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("all")) {
			e := util.PrintErasable(fmt.Sprintf("%s Clearing cache directory...", icon.Get(icon.Progress)))
			handleErr(filesystem.API().RemoveAll(where.Cache()))
			e()
			fmt.Printf("%s cache directory cleared\n", icon.Get(icon.Success))
			return
		}

		for _, store := range stores(args) {
			handleErr(store.Clear())
			fmt.Printf("%s %s cache cleared\n", icon.Get(icon.Success), util.FileStem(store.Path()))
		}
	},
}
