package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kinogram/kino/color"
	"github.com/kinogram/kino/icon"
	"github.com/kinogram/kino/progress"
	"github.com/kinogram/kino/style"
	"github.com/kinogram/kino/util"
	"github.com/kinogram/kino/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(progressCmd)

	progressCmd.Flags().StringP("filter", "f", "", "Only show titles fuzzily matching the query")
	progressCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	progressCmd.Flags().StringP("clear", "c", "", "Forget the saved position of a media id")
	progressCmd.MarkFlagsMutuallyExclusive("filter", "clear")
	progressCmd.MarkFlagsMutuallyExclusive("json", "clear")

	lo.Must0(progressCmd.RegisterFlagCompletionFunc("clear", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		ids, err := progress.New(where.Progress()).IDs()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	}))

	progressCmd.SetOut(os.Stdout)
}

// progressCmd lists the playback positions saved on this device.
var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "List the playback positions saved on this device",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			store  = progress.New(where.Progress())
			filter = lo.Must(cmd.Flags().GetString("filter"))
			asJson = lo.Must(cmd.Flags().GetBool("json"))
			clear  = lo.Must(cmd.Flags().GetString("clear"))
		)

		if clear != "" {
			handleErr(store.Remove(clear))
			cmd.Printf("%s forgot %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Purple)(clear))
			return
		}

		records, err := store.Filter(filter)
		handleErr(err)

		if asJson {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(records))
			return
		}

		if len(records) == 0 {
			cmd.Println(style.Faint("Nothing watched yet"))
			return
		}

		cmd.Println(style.Faint(util.Quantify(len(records), "entry", "entries")))
		for _, r := range records {
			cmd.Printf("%s %s %s\n",
				style.Fg(color.Yellow)(r.MediaID),
				r.String(),
				style.Faint(fmt.Sprintf("%.0f%%", r.Percent())),
			)
		}
	},
}
