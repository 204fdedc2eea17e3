package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/kinogram/kino/color"
	"github.com/kinogram/kino/config"
	"github.com/kinogram/kino/constant"
	"github.com/kinogram/kino/filesystem"
	"github.com/kinogram/kino/icon"
	"github.com/kinogram/kino/style"
	"github.com/kinogram/kino/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func errUnknownKey(key string) error {
	return fmt.Errorf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(key),
		style.Fg(color.Yellow)(config.Closest(key)),
	)
}

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	keys := lo.Keys(config.Default)
	sort.Strings(keys)
	return keys, cobra.ShellCompDirectiveNoFileComp
}

func configFilePath() string {
	return filepath.Join(where.Config(), constant.Kino+".toml")
}

// configKey takes the key from the first argument or the --key flag and checks that it is registered.
func configKey(cmd *cobra.Command, args []string) string {
	k := lo.Must(cmd.Flags().GetString("key"))
	if len(args) > 0 {
		k = args[0]
	}

	if k == "" {
		handleErr(errors.New("key is required as an argument or --key flag"))
	}
	if _, ok := config.Default[k]; !ok {
		handleErr(errUnknownKey(k))
	}
	return k
}

// writeConfig persists the in-memory settings, creating the file on first use.
func writeConfig() {
	err := viper.WriteConfig()
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		err = viper.SafeWriteConfigAs(configFilePath())
	}
	handleErr(err)
}

func printDone(format string, args ...any) {
	fmt.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), fmt.Sprintf(format, args...))
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", nil, "Only show these keys")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print as json")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
	configInfoCmd.SetOut(os.Stdout)

	configCmd.AddCommand(configSetCmd)
	configSetCmd.Flags().StringP("key", "k", "", "Key to set")
	configSetCmd.Flags().StringSliceP("value", "v", nil, "Value to set. Lists take several values")
	_ = configSetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)

	configCmd.AddCommand(configGetCmd)
	configGetCmd.Flags().StringP("key", "k", "", "Key to print")
	_ = configGetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)

	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Overwrite the existing config file")

	configCmd.AddCommand(configDeleteCmd)

	configCmd.AddCommand(configResetCmd)
	configResetCmd.Flags().StringP("key", "k", "", "Key to reset")
	configResetCmd.Flags().BoolP("all", "a", false, "Reset every key")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")
	_ = configResetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change settings",
}

var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe settings with their current and default values",
	Run: func(cmd *cobra.Command, args []string) {
		fields := lo.Values(config.Default)
		if keys := lo.Must(cmd.Flags().GetStringSlice("key")); len(keys) > 0 {
			fields = lo.Map(keys, func(k string, _ int) config.Field {
				field, ok := config.Default[k]
				if !ok {
					handleErr(errUnknownKey(k))
				}
				return field
			})
		}

		sort.Slice(fields, func(i, j int) bool {
			return fields[i].Key < fields[j].Key
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(lo.ToSlicePtr(fields)))
			return
		}

		cmd.Print(strings.Join(lo.Map(fields, func(f config.Field, _ int) string {
			return f.Pretty()
		}), "\n\n"))
		cmd.Println()
	},
}

var configSetCmd = &cobra.Command{
	Use:               "set [key] [value...]",
	Short:             "Change a setting",
	Example:           "  kino config set player.default iina\n  kino config set player.quality_preference 720p 480p",
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		k := configKey(cmd, args)

		value := lo.Must(cmd.Flags().GetStringSlice("value"))
		if len(args) > 1 {
			value = args[1:]
		}
		if len(value) == 0 {
			handleErr(errors.New("value is required as an argument or --value flag"))
		}

		v, err := parseValue(config.Default[k].Value, value)
		handleErr(err)
		handleErr(config.Validate(k, v))

		viper.Set(k, v)
		writeConfig()
		printDone("set %s to %s", style.Fg(color.Purple)(k), style.Fg(color.Yellow)(fmt.Sprint(v)))
	},
}

var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print the current value of a setting",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(viper.Get(configKey(cmd, args)))
	},
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the current settings to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		path := configFilePath()
		if lo.Must(cmd.Flags().GetBool("force")) {
			if err := filesystem.API().Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				handleErr(err)
			}
		}

		handleErr(viper.SafeWriteConfigAs(path))
		printDone("wrote config to %s", path)
	},
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Delete the config file",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(configFilePath()))
		printDone("deleted config")
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
			for k, field := range config.Default {
				viper.Set(k, field.Value)
			}
			writeConfig()
			printDone("reset all settings")
			return
		}

		k := configKey(cmd, nil)
		def := config.Default[k].Value
		viper.Set(k, def)
		writeConfig()
		printDone("reset %s to %s", style.Fg(color.Purple)(k), style.Fg(color.Yellow)(fmt.Sprint(def)))
	},
}

// parseValue converts the command line value to the type of the field's default.
func parseValue(def any, value []string) (any, error) {
	switch def.(type) {
	case string:
		return value[0], nil
	case int:
		parsedInt, err := strconv.ParseInt(value[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer value: %s", value[0])
		}
		return int(parsedInt), nil
	case float64:
		parsedFloat, err := strconv.ParseFloat(value[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number value: %s", value[0])
		}
		return parsedFloat, nil
	case bool:
		parsedBool, err := strconv.ParseBool(value[0])
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value: %s", value[0])
		}
		return parsedBool, nil
	case []string:
		return value, nil
	case []float64:
		floats := make([]float64, 0, len(value))
		for _, v := range value {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number value: %s", v)
			}
			floats = append(floats, f)
		}
		return floats, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", def)
	}
}
