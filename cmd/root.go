// Package cmd implements the command-line interface for trimmer.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trimmer-cli/trimmer/color"
	"github.com/trimmer-cli/trimmer/constant"
	"github.com/trimmer-cli/trimmer/icon"
	"github.com/trimmer-cli/trimmer/key"
	"github.com/trimmer-cli/trimmer/log"
	"github.com/trimmer-cli/trimmer/manifest"
	"github.com/trimmer-cli/trimmer/provider"
	"github.com/trimmer-cli/trimmer/style"
	"github.com/trimmer-cli/trimmer/util"
	"github.com/trimmer-cli/trimmer/version"
	"github.com/trimmer-cli/trimmer/where"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringP("audio-codec", "A", "", "Keep only audio tracks of this codec (AAC, AC3, EC3)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("audio-codec", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(manifest.Codecs(), func(c manifest.Codec, _ int) string { return string(c) }), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.DownloadAudioCodec, rootCmd.PersistentFlags().Lookup("audio-codec")))

	rootCmd.PersistentFlags().IntP("quality", "Q", 0, "Requested vertical resolution")
	lo.Must0(viper.BindPFlag(key.DownloadQuality, rootCmd.PersistentFlags().Lookup("quality")))

	rootCmd.PersistentFlags().StringP("range", "R", "", "Requested dynamic range (SDR, HDR10, DV)")
	lo.Must0(viper.BindPFlag(key.DownloadRange, rootCmd.PersistentFlags().Lookup("range")))

	rootCmd.PersistentFlags().Bool("no-cache", false, "Ignore cached metadata (fetched metadata is still stored)")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	// Clean up transient files left over by previous runs.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd defines the entry point for the trimmer application.
var rootCmd = &cobra.Command{
	Use:   constant.App,
	Short: "Resolve streaming titles into tracks and licenses",
	Long: constant.Logo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Resolve streaming catalog titles into normalized tracks and DRM licenses"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(cmd.Help())
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}

// completionProviders offers provider ids for the first positional argument.
func completionProviders(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	return lo.Map(provider.Builtins(), func(p *provider.Provider, _ int) string {
		return p.ID + "\t" + p.Name
	}), cobra.ShellCompDirectiveNoFileComp
}
