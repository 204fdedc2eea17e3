// Package where resolves the directories kino reads and writes.
// Every directory is created on first use.
package where

import (
	"os"
	"path/filepath"

	"github.com/kinogram/kino/constant"
	"github.com/kinogram/kino/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath overrides the config directory.
const EnvConfigPath = "KINO_CONFIG_PATH"

func mkdir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config is the settings directory, os.UserConfigDir()/kino unless KINO_CONFIG_PATH is set.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return mkdir(custom)
	}
	return mkdir(filepath.Join(lo.Must(os.UserConfigDir()), constant.Kino))
}

func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return mkdir(filepath.Join(base, constant.Kino))
}

func Logs() string {
	return mkdir(filepath.Join(Config(), "logs"))
}

// Progress is the file holding locally saved playback positions.
func Progress() string {
	return filepath.Join(Config(), "progress.json")
}

// Metadata holds cached movie metadata. Stream links are never written here.
func Metadata() string {
	return mkdir(filepath.Join(Cache(), "metadata"))
}

// Sockets holds the IPC sockets of running players.
func Sockets() string {
	return mkdir(filepath.Join(os.TempDir(), constant.Kino))
}

// Socket is the IPC socket path for a player instance.
func Socket(name string) string {
	return filepath.Join(Sockets(), name+".sock")
}
