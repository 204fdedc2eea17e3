package cmd

import (
	"encoding/json"
	"os"

	"github.com/kinogram/kino/color"
	"github.com/kinogram/kino/style"
	"github.com/kinogram/kino/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

type whereTarget struct {
	name  string
	where func() string
	flag  string
	short mo.Option[string]
	// hidden targets are internal and only printed when asked for explicitly.
	hidden bool
}

var whereTargets = []whereTarget{
	{"Config", where.Config, "config", mo.Some("c"), false},
	{"Progress", where.Progress, "progress", mo.Some("p"), false},
	{"Logs", where.Logs, "logs", mo.Some("l"), false},
	{"Cache", where.Cache, "cache", mo.None[string](), true},
	{"Metadata", where.Metadata, "metadata", mo.None[string](), true},
	{"Sockets", where.Sockets, "sockets", mo.None[string](), true},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, t := range whereTargets {
		whereCmd.Flags().BoolP(t.flag, t.short.OrEmpty(), false, t.name+" path")
		if t.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(t.flag))
		}
	}
	whereCmd.Flags().BoolP("json", "j", false, "Print every path as json")

	whereCmd.MarkFlagsMutuallyExclusive(append(lo.Map(whereTargets, func(t whereTarget, _ int) string {
		return t.flag
	}), "json")...)

	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where kino keeps its files",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range whereTargets {
			if lo.Must(cmd.Flags().GetBool(t.flag)) {
				cmd.Println(t.where())
				return
			}
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			paths := lo.SliceToMap(whereTargets, func(t whereTarget) (string, string) {
				return t.flag, t.where()
			})
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(paths))
			return
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render
		visible := lo.Reject(whereTargets, func(t whereTarget, _ int) bool { return t.hidden })
		for i, t := range visible {
			cmd.Printf("%s %s\n", header(t.name+"?"), style.Fg(color.Yellow)("--"+t.flag))
			cmd.Println(t.where())

			if i < len(visible)-1 {
				cmd.Println()
			}
		}
	},
}
