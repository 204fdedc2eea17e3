package cmd

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
	"text/template"

	"github.com/kinogram/kino/color"
	"github.com/kinogram/kino/constant"
	"github.com/kinogram/kino/key"
	"github.com/kinogram/kino/player"
	"github.com/kinogram/kino/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Only print the version")
}

type versionInfo struct {
	App      string
	Version  string
	Revision string
	BuiltAt  string
	BuiltBy  string
	Platform string
	Player   string
	Found    bool
	Backend  string
}

var versionTemplate = lo.Must(template.New("version").Funcs(template.FuncMap{
	"faint":   style.Faint,
	"bold":    style.Bold,
	"magenta": style.Fg(color.Purple),
	"green":   style.Fg(color.Green),
	"red":     style.Fg(color.Red),
	"or": func(s, fallback string) string {
		return lo.Ternary(s == "", fallback, s)
	},
}).Parse(`{{ magenta "▶" }} {{ magenta .App }}

  {{ faint "Version" }}     {{ bold .Version }}
  {{ faint "Commit" }}      {{ bold (or .Revision "unknown") }}
  {{ faint "Built" }}       {{ bold (or .BuiltAt "unknown") }} {{ faint "by" }} {{ bold (or .BuiltBy "unknown") }}
  {{ faint "Platform" }}    {{ bold .Platform }}
  {{ faint "Player" }}      {{ bold .Player }} {{ if .Found }}{{ green "found" }}{{ else }}{{ red "not found" }}{{ end }}
  {{ faint "Backend" }}     {{ bold .Backend }}
`))

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Long:  "Print the version, the build it came from and the player and backend it is configured to use.",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		info := versionInfo{
			App:      constant.Kino,
			Version:  constant.Version,
			Revision: constant.Revision,
			BuiltAt:  strings.TrimSpace(constant.BuiltAt),
			BuiltBy:  constant.BuiltBy,
			Platform: runtime.GOOS + "/" + runtime.GOARCH,
			Player:   viper.GetString(key.Player),
			Backend:  viper.GetString(key.APIBaseURL),
		}

		if p, err := player.New(info.Player, player.Options{}); err == nil {
			info.Player = p.Binary()
			_, err = exec.LookPath(p.Binary())
			info.Found = err == nil
		}

		handleErr(versionTemplate.Execute(cmd.OutOrStdout(), info))
	},
}
