// Package cmd implements the command-line interface for kino.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/kinogram/kino/color"
	"github.com/kinogram/kino/constant"
	"github.com/kinogram/kino/icon"
	"github.com/kinogram/kino/key"
	"github.com/kinogram/kino/log"
	"github.com/kinogram/kino/style"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("save-progress", "H", true, "Remember playback positions on this device")
	lo.Must0(viper.BindPFlag(key.HistorySaveLocal, rootCmd.PersistentFlags().Lookup("save-progress")))

	rootCmd.PersistentFlags().String("api", "", "Base URL of the catalogue backend")
	lo.Must0(viper.BindPFlag(key.APIBaseURL, rootCmd.PersistentFlags().Lookup("api")))

	rootCmd.PersistentFlags().Bool("debug", false, "Write debug logs for this run")
}

// setupLogs applies --debug on top of the logs settings before opening the log file.
func setupLogs(cmd *cobra.Command, _ []string) error {
	if lo.Must(cmd.Flags().GetBool("debug")) {
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "debug")
	}
	if err := log.Setup(); err != nil {
		return err
	}

	log.Debugf("cmd: %s %s", cmd.CommandPath(), strings.Join(os.Args[1:], " "))
	return nil
}

var rootCmd = &cobra.Command{
	Use:   constant.Kino,
	Short: "Watch movies from the catalogue in your own media player",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Watch movies from the catalogue in your own media player"),
	PersistentPreRunE: setupLogs,
	SilenceUsage:      true,
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(cmd.Help())
	},
}

// Execute runs the command line. It exits the process with status 1 on error.
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

	if err := rootCmd.Execute(); err != nil {
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
