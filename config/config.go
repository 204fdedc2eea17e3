// Package config registers kino's settings with viper and builds the session configuration from them.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kinogram/kino/constant"
	"github.com/kinogram/kino/filesystem"
	"github.com/kinogram/kino/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer maps a key such as player.default onto the PLAYER_DEFAULT part of its variable.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup binds defaults and environment variables and reads kino.toml from the config directory.
// A missing file is not an error.
func Setup() error {
	viper.SetConfigName(constant.Kino)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Kino)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	return nil
}
