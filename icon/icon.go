// Package icon renders the symbols of the CLI and the player overlay in the variant chosen by icons.variant.
package icon

import (
	"github.com/kinogram/kino/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

// Get falls back to plain for an unknown variant.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return d.plain
	}
}

type Icon int

const (
	Fail Icon = iota + 1
	Success
	Progress
	Play
	Pause
	Loading
	Ended
	Volume
	Muted
	Quality
	Fullscreen
)

var icons = map[Icon]*iconDef{
	Fail:       {emoji: "💀", nerd: "\uf00d", plain: "x", kaomoji: "(×_×)", squares: "🟥"},
	Success:    {emoji: "🎉", nerd: "\uf00c", plain: "v", kaomoji: "(ᵔ◡ᵔ)", squares: "🟩"},
	Progress:   {emoji: "⏳", nerd: "\uf254", plain: "~", kaomoji: "(・_・)", squares: "🟨"},
	Play:       {emoji: "▶️", nerd: "\uf04b", plain: ">", kaomoji: "(•̀ᴗ•́)و", squares: "🟦"},
	Pause:      {emoji: "⏸️", nerd: "\uf04c", plain: "||", kaomoji: "(－_－) zzZ", squares: "⬜"},
	Loading:    {emoji: "🔄", nerd: "\uf110", plain: "...", kaomoji: "(´･ω･`)?", squares: "🟨"},
	Ended:      {emoji: "🏁", nerd: "\uf11e", plain: "#", kaomoji: "(￣▽￣)ノ", squares: "⬛"},
	Volume:     {emoji: "🔊", nerd: "\uf028", plain: "vol", kaomoji: "(°ロ°)", squares: "🟪"},
	Muted:      {emoji: "🔇", nerd: "\uf6a9", plain: "mute", kaomoji: "(-_-)", squares: "⬛"},
	Quality:    {emoji: "🎞️", nerd: "\uf03d", plain: "q", kaomoji: "(☞ﾟヮﾟ)☞", squares: "🟫"},
	Fullscreen: {emoji: "🖥️", nerd: "\uf065", plain: "[ ]", kaomoji: "(⌐■_■)", squares: "🔲"},
}

func Get(i Icon) string {
	return icons[i].Get()
}
