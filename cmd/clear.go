package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/kinogram/kino/icon"
	"github.com/kinogram/kino/player"
	"github.com/kinogram/kino/util"
	"github.com/kinogram/kino/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

type clearTarget struct {
	name  string
	flag  string
	short mo.Option[string]
	clear func() error
}

var clearTargets = []clearTarget{
	{"metadata cache", "cache", mo.Some("c"), func() error { return util.Delete(where.Cache()) }},
	{"saved progress", "progress", mo.Some("p"), func() error { return util.Delete(where.Progress()) }},
	{"stale player sockets", "sockets", mo.Some("s"), func() error {
		_, err := player.PruneSockets(where.Sockets())
		return err
	}},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, t := range clearTargets {
		clearCmd.Flags().BoolP(t.flag, t.short.OrEmpty(), false, "clear "+t.name)
	}
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached metadata, saved progress or stale player sockets",
	Run: func(cmd *cobra.Command, args []string) {
		targets := lo.Filter(clearTargets, func(t clearTarget, _ int) bool {
			return lo.Must(cmd.Flags().GetBool(t.flag))
		})
		if len(targets) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, t := range targets {
			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), t.name))
			err := t.clear()
			erase()
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				handleErr(err)
			}
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(t.name))
		}
	},
}
