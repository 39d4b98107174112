package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/trimmer-cli/trimmer/auth"
	"github.com/trimmer-cli/trimmer/color"
	"github.com/trimmer-cli/trimmer/icon"
	"github.com/trimmer-cli/trimmer/open"
	"github.com/trimmer-cli/trimmer/provider"
	"github.com/trimmer-cli/trimmer/style"
)

// credential validates "<provider> <name>" arguments against the provider's declared credentials.
func credential(args []string) (*provider.Provider, string, error) {
	p, err := provider.MustGet(args[0])
	if err != nil {
		return nil, "", err
	}

	if len(p.Auth) == 0 {
		return nil, "", fmt.Errorf("%s needs no credentials", p.Name)
	}

	name := strings.ToLower(args[1])
	if !lo.Contains(p.Auth, name) {
		return nil, "", fmt.Errorf("%s has no credential %q, expected one of: %s", p.Name, name, strings.Join(p.Auth, ", "))
	}

	return p, name, nil
}

func completionCredentials(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return completionProviders(nil, args, toComplete)
	}

	if p, ok := provider.Get(args[0]); ok && len(args) == 1 {
		return p.Auth, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(authCmd)
}

// authCmd manages provider credentials kept in the system keyring.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage provider credentials stored in the system keyring",
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authSetCmd.Flags().StringP("value", "v", "", "The credential value, prompted for when omitted")
	authSetCmd.Flags().BoolP("browser", "b", false, "Open the provider site to copy the credential from")
}

// authSetCmd stores a credential.
var authSetCmd = &cobra.Command{
	Use:               "set <provider> <name>",
	Short:             "Store a provider credential",
	Example:           "  trimmer auth set globoplay glbid\n  trimmer auth set f1tv entitlement_token -v <token>",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completionCredentials,
	Run: func(cmd *cobra.Command, args []string) {
		p, name, err := credential(args)
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("browser")) {
			if err := open.Start("https://" + p.Domain); err != nil {
				fmt.Printf("Please open https://%s in your browser\n", p.Domain)
			}
		}

		value := lo.Must(cmd.Flags().GetString("value"))
		if value == "" {
			prompt := survey.Password{
				Message: fmt.Sprintf("%s %s:", p.Name, name),
			}
			handleErr(survey.AskOne(&prompt, &value))
		}

		if value = strings.TrimSpace(value); value == "" {
			handleErr(errors.New("empty credential"))
		}

		handleErr(auth.Set(p.ID, name, value))
		fmt.Printf(
			"%s stored %s for %s\n",
			style.Fg(color.Green)(icon.Get(icon.Key)),
			style.Fg(color.Purple)(name),
			style.Bold(p.Name),
		)
	},
}

func init() {
	authCmd.AddCommand(authStatusCmd)
}

// authStatusCmd reports which credentials are stored, without revealing them.
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which provider credentials are stored",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, p := range provider.Builtins() {
			for _, name := range p.Auth {
				stored, err := auth.Lookup(p.ID, name)
				handleErr(err)

				state := style.Fg(color.Red)("unset")
				if stored.IsPresent() {
					state = style.Fg(color.Green)("stored")
				}
				fmt.Printf("%s %s\n", style.Bold(p.ID+"/"+name), state)
			}
		}
	},
}

func init() {
	authCmd.AddCommand(authDeleteCmd)
}

// authDeleteCmd removes a credential.
var authDeleteCmd = &cobra.Command{
	Use:               "delete <provider> <name>",
	Aliases:           []string{"remove"},
	Short:             "Remove a stored provider credential",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completionCredentials,
	Run: func(cmd *cobra.Command, args []string) {
		p, name, err := credential(args)
		handleErr(err)

		if err := auth.Delete(p.ID, name); err != nil && !errors.Is(err, auth.ErrNotFound) {
			handleErr(err)
		}

		fmt.Printf("%s removed %s for %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), name, p.Name)
	},
}
