package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trimmer-cli/trimmer/color"
	"github.com/trimmer-cli/trimmer/config"
	"github.com/trimmer-cli/trimmer/constant"
	"github.com/trimmer-cli/trimmer/filesystem"
	"github.com/trimmer-cli/trimmer/icon"
	"github.com/trimmer-cli/trimmer/key"
	"github.com/trimmer-cli/trimmer/manifest"
	"github.com/trimmer-cli/trimmer/provider/f1tv"
	"github.com/trimmer-cli/trimmer/provider/meliplay"
	"github.com/trimmer-cli/trimmer/ref"
	"github.com/trimmer-cli/trimmer/style"
	"github.com/trimmer-cli/trimmer/util"
	"github.com/trimmer-cli/trimmer/where"
)

// validators reject string values an adapter would fail on once it starts.
var validators = map[string]func(string) error{
	key.DownloadAudioCodec: func(v string) error {
		if v == "" {
			return nil
		}
		_, err := manifest.ParseCodec(v)
		return err
	},
	key.MeliplayRegion: func(v string) error {
		_, err := ref.ParseRegion(v)
		return err
	},
	key.MeliplayDRM: oneOf(meliplay.Widevine, meliplay.PlayReady),
	key.DownloadRange: func(v string) error {
		return oneOf("SDR", "HDR10", "DV")(strings.ToUpper(v))
	},
	key.F1TVDevice: func(v string) error {
		_, err := f1tv.SelectDevice(v, 0, "")
		return err
	},
	key.IconsVariant: oneOf(icon.AvailableVariants()...),
}

func oneOf(options ...string) func(string) error {
	return func(v string) error {
		if !lo.Contains(options, v) {
			return fmt.Errorf("%q is not one of %s", v, strings.Join(options, ", "))
		}
		return nil
	}
}

// parseValue converts raw command line values to the type of the key's default.
func parseValue(name string, raw []string) (any, error) {
	field, ok := config.Default[name]
	if !ok {
		return nil, errUnknownKey(name)
	}
	if len(raw) == 0 {
		return nil, errors.New("value is required as an argument or --value flag")
	}

	switch field.Value.(type) {
	case string:
		if validate, ok := validators[name]; ok {
			if err := validate(raw[0]); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
		}
		return raw[0], nil
	case int:
		n, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("%s: want an integer, got %q", name, raw[0])
		}
		return n, nil
	case bool:
		b, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, fmt.Errorf("%s: want a boolean, got %q", name, raw[0])
		}
		return b, nil
	case []string:
		return raw, nil
	default:
		return nil, fmt.Errorf("%s: unsupported value type %T", name, field.Value)
	}
}

func errUnknownKey(name string) error {
	closest := lo.MinBy(config.Keys(), func(a, b string) bool {
		return levenshtein.Distance(name, a) < levenshtein.Distance(name, b)
	})
	return fmt.Errorf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(name),
		style.Fg(color.Yellow)(closest),
	)
}

// keyFrom takes the key from the first argument, then from --key.
func keyFrom(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if name, _ := cmd.Flags().GetString("key"); name != "" {
		return name, nil
	}
	return "", errors.New("key is required as an argument or --key flag")
}

// saveConfig writes viper's state, creating the file on first use.
func saveConfig() error {
	err := viper.WriteConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return viper.SafeWriteConfig()
	}
	return err
}

func done(format string, args ...any) {
	fmt.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), fmt.Sprintf(format, args...))
}

// configFile is where config write and delete operate.
func configFile() string {
	return filepath.Join(where.Config(), constant.App+".toml")
}

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return config.Keys(), cobra.ShellCompDirectiveNoFileComp
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change settings",
}

var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe settings and their defaults",
	Run: func(cmd *cobra.Command, args []string) {
		keys := lo.Must(cmd.Flags().GetStringSlice("key"))
		if len(keys) == 0 {
			keys = config.Keys()
		}

		fields := make([]config.Field, 0, len(keys))
		for _, name := range keys {
			field, ok := config.Default[name]
			if !ok {
				handleErr(errUnknownKey(name))
			}
			fields = append(fields, field)
		}
		sort.Slice(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })

		if lo.Must(cmd.Flags().GetBool("json")) {
			lo.Must0(json.NewEncoder(cmd.OutOrStdout()).Encode(fields))
			return
		}

		cmd.Print(strings.Join(lo.Map(fields, func(f config.Field, _ int) string {
			return util.Wrap(f.Pretty())
		}), "\n\n"))
	},
}

var configSetCmd = &cobra.Command{
	Use:               "set [key] [value]",
	Short:             "Change a setting",
	Args:              cobra.MaximumNArgs(2),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		name, err := keyFrom(cmd, args)
		handleErr(err)

		raw := lo.Must(cmd.Flags().GetStringSlice("value"))
		if len(args) > 1 {
			raw = args[1:]
		}

		value, err := parseValue(name, raw)
		handleErr(err)

		viper.Set(name, value)
		handleErr(saveConfig())
		done("set %s to %s", style.Fg(color.Purple)(name), style.Fg(color.Yellow)(fmt.Sprint(value)))
	},
}

var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print the current value of a setting",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		name, err := keyFrom(cmd, args)
		handleErr(err)
		if _, ok := config.Default[name]; !ok {
			handleErr(errUnknownKey(name))
		}
		cmd.Println(viper.Get(name))
	},
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the current settings to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		path := configFile()
		if lo.Must(cmd.Flags().GetBool("force")) {
			handleErr(filesystem.API().Remove(path))
		}
		handleErr(viper.SafeWriteConfig())
		done("wrote config to %s", path)
	},
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Remove the config file",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(configFile()))
		done("deleted config")
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore settings to their defaults",
	PreRun: func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("key") && !cmd.Flags().Changed("all") {
			handleErr(errors.New("either --key or --all must be set"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("all")) {
			for name, field := range config.Default {
				viper.Set(name, field.Value)
			}
			handleErr(saveConfig())
			done("reset all config values")
			return
		}

		name := lo.Must(cmd.Flags().GetString("key"))
		field, ok := config.Default[name]
		if !ok {
			handleErr(errUnknownKey(name))
		}
		viper.Set(name, field.Value)
		handleErr(saveConfig())
		done("reset %s to %s", style.Fg(color.Purple)(name), style.Fg(color.Yellow)(fmt.Sprint(field.Value)))
	},
}

func init() {
	configInfoCmd.Flags().StringSliceP("key", "k", nil, "Keys to describe (all when empty)")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
	configInfoCmd.SetOut(os.Stdout)

	configSetCmd.Flags().StringP("key", "k", "", "Key to change")
	configSetCmd.Flags().StringSliceP("value", "v", nil, "New value")
	_ = configSetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)

	configGetCmd.Flags().StringP("key", "k", "", "Key to print")
	_ = configGetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
	configGetCmd.SetOut(os.Stdout)

	configWriteCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")

	configResetCmd.Flags().StringP("key", "k", "", "Key to restore")
	configResetCmd.Flags().BoolP("all", "a", false, "Restore every key")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")
	_ = configResetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)

	configCmd.AddCommand(configInfoCmd, configSetCmd, configGetCmd, configWriteCmd, configDeleteCmd, configResetCmd)
	rootCmd.AddCommand(configCmd)
}
