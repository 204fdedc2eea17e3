package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/kinogram/kino/color"
	"github.com/kinogram/kino/constant"
	"github.com/kinogram/kino/key"
	"github.com/kinogram/kino/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field is a registered setting. Value is the default and fixes the type accepted by "config set".
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty renders the field for "config info".
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env is the environment variable overriding the field, such as KINO_PLAYER_DEFAULT.
func (f *Field) Env() string {
	return strings.ToUpper(constant.Kino + "_" + EnvKeyReplacer.Replace(f.Key))
}

func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Env         string `json:"env"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Env:         f.Env(),
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case float64:
		return "float"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []float64:
		return "[]float"
	default:
		return "unknown"
	}
}

var fields = []Field{
	{key.APIBaseURL, constant.DefaultBaseURL, "Base URL of the catalogue backend API"},
	{key.APITimeout, "10s", "Timeout of a single backend request"},
	{key.APIInitData, "", "Launch payload sent as the authentication header.\nLeave empty to use the one stored with \"kino auth set\""},

	{key.Player, "mpv", "Media player to use.\nAvailable options are: mpv, iina"},
	{key.PlayerAutoplay, true, "Start playing as soon as the media is ready"},
	{key.PlayerQualityPreference, []string{"1080p", "720p"}, "Qualities to pick by default, most preferred first.\nThe first available quality is used if none match"},
	{key.PlayerControlsHideDelay, "3s", "Inactivity period after which the controls hide while playing"},
	{key.PlayerReportInterval, 30, "Report progress to the backend every N seconds of playback"},
	{key.PlayerFlushTimeout, "5s", "How long to wait for the final progress report on exit"},
	{key.PlayerDefaultVolume, 1.0, "Initial volume. From 0 to 1"},
	{key.PlayerPlaybackRates, []float64{0.5, 1, 1.25, 1.5, 2}, "Playback rates that can be selected"},

	{key.HistorySaveLocal, true, "Remember playback positions on this device"},
	{key.CacheMetadataTTL, "24h", "How long movie metadata stays cached. Stream links are never cached"},

	{key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)"},
	{key.LogsWrite, false, "Write logs"},
	{key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace"},
	{key.LogsJson, false, "Use json format for logs"},
	{key.CliColored, true, "Enable colored CLI output"},
}

// Default maps every registered key to its field.
var Default = make(map[string]Field, len(fields))

// EnvExposed lists the keys bound to environment variables.
var EnvExposed []string

func init() {
	for _, f := range fields {
		if _, exists := Default[f.Key]; exists {
			panic("duplicate config key: " + f.Key)
		}
		Default[f.Key] = f
		EnvExposed = append(EnvExposed, f.Key)
	}
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ purple .Key }} {{ faint (typename .Value) }}
{{ faint .Description }}
  {{ blue "value" }}    {{ hl (value .Key) }}{{ if ne (print (value .Key)) (print .Value) }} {{ faint "(default" }} {{ hl .Value }}{{ faint ")" }}{{ end }}
  {{ blue "env" }}      {{ cyan .Env }}`))
