package cmd

import (
	"encoding/json"
	"os"

	"github.com/kinogram/kino/color"
	"github.com/kinogram/kino/config"
	"github.com/kinogram/kino/style"
	"github.com/kinogram/kino/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only show variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only show variables that are not set")
	envCmd.Flags().BoolP("json", "j", false, "Print as json object")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

// envVariables lists every variable kino reads, sorted by name.
func envVariables() []string {
	names := lo.Map(lo.Values(config.Default), func(f config.Field, _ int) string {
		return f.Env()
	})
	names = append(names, where.EnvConfigPath)
	slices.Sort(names)
	return names
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show environment variables kino reads",
	Long:  `Show every environment variable kino reads and the value it currently has in this shell.`,
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		values := make(map[string]*string)
		for _, env := range envVariables() {
			value, present := os.LookupEnv(env)
			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}
			values[env] = lo.Ternary(present, &value, nil)
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(values))
			return
		}

		names := lo.Keys(values)
		slices.Sort(names)
		for _, env := range names {
			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(env))
			cmd.Print("=")

			if value := values[env]; value != nil {
				cmd.Println(style.Fg(color.Green)(*value))
			} else {
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}
	},
}
