// Package auth persists the viewer's launch payload in the system keyring.
package auth

import (
	"errors"
	"strings"

	"github.com/kinogram/kino/key"
	"github.com/kinogram/kino/log"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

const (
	service = "kino"
	user    = "init-data"
)

// ErrEmpty is returned when storing a blank payload.
var ErrEmpty = errors.New("init data is empty")

// SetInitData persists the launch payload to the system keyring.
func SetInitData(data string) error {
	data = strings.TrimSpace(data)
	if data == "" {
		return ErrEmpty
	}
	return keyring.Set(service, user, data)
}

// GetInitData retrieves the launch payload from the system keyring.
func GetInitData() (string, error) {
	return keyring.Get(service, user)
}

// DeleteInitData removes the launch payload from the system keyring. Deleting a missing
// payload is not an error.
func DeleteInitData() error {
	err := keyring.Delete(service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// InitData resolves the payload to authenticate with: the configured value wins over the
// keyring. An empty result means anonymous access.
func InitData() string {
	if data := viper.GetString(key.APIInitData); data != "" {
		return data
	}

	data, err := GetInitData()
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			log.Warnf("auth: read keyring: %v", err)
		}
		return ""
	}
	return data
}
