package cmd

import (
	"github.com/AlecAivazis/survey/v2"
	"github.com/kinogram/kino/auth"
	"github.com/kinogram/kino/color"
	"github.com/kinogram/kino/icon"
	"github.com/kinogram/kino/style"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd, authClearCmd)
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the launch payload used to authenticate with the backend",
}

var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the launch payload in the system keyring",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		var data string
		handleErr(survey.AskOne(&survey.Password{
			Message: "Init data",
			Help:    "The signed launch payload issued by the platform",
		}, &data, survey.WithValidator(survey.Required)))

		handleErr(auth.SetInitData(data))
		cmd.Printf("%s init data stored\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

var authClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Remove the stored launch payload",
	Aliases: []string{"logout"},
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.DeleteInitData())
		cmd.Printf("%s init data removed\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}
