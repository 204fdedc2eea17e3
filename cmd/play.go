package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/kinogram/kino/color"
	"github.com/kinogram/kino/config"
	"github.com/kinogram/kino/constant"
	"github.com/kinogram/kino/icon"
	"github.com/kinogram/kino/key"
	"github.com/kinogram/kino/log"
	"github.com/kinogram/kino/player"
	"github.com/kinogram/kino/progress"
	"github.com/kinogram/kino/session"
	"github.com/kinogram/kino/source"
	"github.com/kinogram/kino/style"
	"github.com/kinogram/kino/tui"
	"github.com/kinogram/kino/util"
	"github.com/kinogram/kino/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("quality", "q", "", "Quality to start with, e.g. 720p")
	playCmd.Flags().BoolP("pick", "p", false, "Choose the quality from the available ones")
	playCmd.Flags().Bool("no-tui", false, "Do not show the terminal overlay")
	playCmd.MarkFlagsMutuallyExclusive("quality", "pick")

	playCmd.Flags().StringP("player", "P", "", "Media player to use")
	lo.Must0(playCmd.RegisterFlagCompletionFunc("player", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return player.Available(), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.Player, playCmd.Flags().Lookup("player")))
}

var playCmd = &cobra.Command{
	Use:     "play [id]",
	Short:   "Play a movie from the catalogue",
	Long:    "Play a movie in the configured media player, resuming from the last saved position.",
	Args:    cobra.ExactArgs(1),
	Example: "  kino play 42 --quality 720p",
	Run: func(cmd *cobra.Command, args []string) {
		options := playOptions{
			quality: lo.Must(cmd.Flags().GetString("quality")),
			pick:    lo.Must(cmd.Flags().GetBool("pick")),
			noTUI:   lo.Must(cmd.Flags().GetBool("no-tui")),
		}
		handleErr(play(cmd.Context(), args[0], options))
	},
}

type playOptions struct {
	quality string
	pick    bool
	noTUI   bool
}

func play(ctx context.Context, mediaID string, options playOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := newClient()
	if err != nil {
		return err
	}

	cfg := config.Session()

	if options.pick {
		erase := util.PrintErasable(fmt.Sprintf("%s Fetching qualities...", icon.Get(icon.Progress)))
		sources, err := client.Sources(ctx, mediaID)
		erase()
		if err != nil {
			return err
		}
		if options.quality, err = pickQuality(sources, cfg.QualityPreference); err != nil {
			return err
		}
	}
	if options.quality != "" {
		cfg.QualityPreference = append([]string{options.quality}, cfg.QualityPreference...)
	}

	var store session.Store
	var records *progress.Store
	if viper.GetBool(key.HistorySaveLocal) {
		records = progress.New(where.Progress())
		store = records
	}

	p, err := player.New(viper.GetString(key.Player), player.Options{
		Title:   constant.Kino,
		Headers: map[string]string{"User-Agent": constant.UserAgent},
	})
	if err != nil {
		return err
	}
	if err := checkPlayer(p.Binary()); err != nil {
		return err
	}

	if _, err := player.PruneSockets(where.Sockets()); err != nil {
		log.Warnf("cmd: prune sockets: %v", err)
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Starting %s...", icon.Get(icon.Progress), p.Binary()))
	err = p.Start(ctx)
	erase()
	if err != nil {
		return err
	}

	ctrl := session.New(cfg, session.Options{
		Provider: client,
		Store:    store,
		Reporter: client,
		Element:  p,
	})

	erase = util.PrintErasable(fmt.Sprintf("%s Loading %s...", icon.Get(icon.Progress), mediaID))
	err = ctrl.Initialize(ctx, mediaID)
	erase()
	if err != nil {
		ctrl.Dispose()
		ctrl.Wait()
		if errors.Is(err, source.ErrNotFound) {
			return fmt.Errorf("movie %s not found", mediaID)
		}
		return err
	}

	snapshot := ctrl.Snapshot()
	if err := p.Set("force-media-title", snapshot.Movie.String()); err != nil {
		log.Warnf("play: set title: %v", err)
	}
	if options.quality != "" && snapshot.Quality != options.quality {
		fmt.Printf("%s quality %s is not available, did you mean %s? Playing %s\n",
			icon.Get(icon.Fail),
			style.Fg(color.Red)(options.quality),
			style.Fg(color.Yellow)(closestLabel(snapshot.Sources, options.quality)),
			style.Fg(color.Purple)(snapshot.Quality),
		)
	}

	if options.noTUI {
		watch(ctx, ctrl, p.Wait())
	} else {
		err = tui.Run(ctrl, &tui.Options{Rates: cfg.PlaybackRates, Done: p.Wait()})
	}

	final := ctrl.Snapshot()
	ctrl.Dispose()
	ctrl.Wait()

	if records != nil {
		records.Describe(mediaID, final.Movie, final.Duration)
	}

	fmt.Printf("%s %s stopped at %s\n",
		icon.Get(icon.Success),
		style.Fg(color.Purple)(final.Movie.String()),
		style.Bold(util.FormatTime(final.Position)),
	)
	return err
}

// watch prints state changes until the player exits, the session closes or ctx ends.
func watch(ctx context.Context, ctrl *session.Controller, done <-chan struct{}) {
	last := session.Idle
	updates := ctrl.Updates()

	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case s, ok := <-updates:
			if !ok {
				return
			}
			if s.State == last {
				continue
			}
			last = s.State

			line := fmt.Sprintf("%s %s %s / %s", stateIcon(s.State), s.State, util.FormatTime(s.Position), util.FormatTime(s.Duration))
			if s.Error != "" {
				line += " " + style.Fg(color.Red)(s.Error)
			}
			fmt.Println(line)
		}
	}
}

func stateIcon(s session.State) string {
	switch s {
	case session.Playing:
		return icon.Get(icon.Play)
	case session.Paused:
		return icon.Get(icon.Pause)
	case session.Ended:
		return icon.Get(icon.Ended)
	case session.Errored:
		return icon.Get(icon.Fail)
	default:
		return icon.Get(icon.Loading)
	}
}

func pickQuality(sources source.Sources, preference []string) (string, error) {
	labels := sources.Labels()
	if len(labels) == 0 {
		return "", source.ErrNoSources
	}

	preferred, _ := sources.Preferred(preference)

	var quality string
	err := survey.AskOne(&survey.Select{
		Message: "Quality",
		Options: labels,
		Default: preferred,
	}, &quality)
	return quality, err
}

// closestLabel returns the available quality nearest to label by edit distance.
func closestLabel(sources source.Sources, label string) string {
	labels := sources.Labels()
	if len(labels) == 0 {
		return ""
	}
	return lo.MinBy(labels, func(a string, b string) bool {
		return levenshtein.Distance(label, a) < levenshtein.Distance(label, b)
	})
}
