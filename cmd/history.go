package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/trimmer-cli/trimmer/history"
	"github.com/trimmer-cli/trimmer/icon"
	"github.com/trimmer-cli/trimmer/util"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolP("json", "j", false, "JSON output")
	historyCmd.Flags().IntP("limit", "n", 0, "Show only the n most recent records")
	historyCmd.SetOut(os.Stdout)
}

// historyCmd lists previously resolved titles.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously resolved titles",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		records, err := history.List()
		handleErr(err)

		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 && limit < len(records) {
			records = records[:limit]
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(os.Stdout).Encode(records))
			return
		}

		if len(records) == 0 {
			cmd.Printf("%s history is empty\n", icon.Get(icon.Cache))
			return
		}

		tw := table.NewWriter()
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(table.Row{"Provider", "Title", "Input", "Mode", "Items", "Last"})
		for _, record := range records {
			tw.AppendRow(table.Row{
				record.Provider,
				record.Title,
				record.Input,
				util.Title(strings.ReplaceAll(record.Mode.String(), "-", " ")),
				record.Items,
				humanize.Time(record.At),
			})
		}
		cmd.Println(tw.Render())
	},
}

func init() {
	historyCmd.AddCommand(historyClearCmd)
}

// historyClearCmd forgets every record.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every resolved title",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		records, err := history.List()
		handleErr(err)
		handleErr(history.Clear())
		fmt.Printf("%s removed %s\n", icon.Get(icon.Success), util.Quantify(len(records), "record", "records"))
	},
}
