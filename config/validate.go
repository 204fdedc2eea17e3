package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kinogram/kino/icon"
	"github.com/kinogram/kino/key"
	"github.com/kinogram/kino/player"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Validate checks a parsed value against the constraints of its key.
// Keys without constraints accept any value of the right type.
func Validate(k string, value any) error {
	switch k {
	case key.APIBaseURL:
		u, err := url.Parse(value.(string))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s must be an http(s) url, got %q", k, value)
		}
	case key.APITimeout, key.PlayerControlsHideDelay, key.PlayerFlushTimeout:
		d, err := time.ParseDuration(value.(string))
		if err != nil || d <= 0 {
			return fmt.Errorf("%s must be a positive duration such as 10s, got %q", k, value)
		}
	case key.CacheMetadataTTL:
		d, err := time.ParseDuration(value.(string))
		if err != nil || d < 0 {
			return fmt.Errorf("%s must be a duration, 0 disables the cache, got %q", k, value)
		}
	case key.Player:
		if _, err := player.New(value.(string), player.Options{}); err != nil {
			return err
		}
	case key.PlayerDefaultVolume:
		if v := value.(float64); v < 0 || v > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %v", k, v)
		}
	case key.PlayerReportInterval:
		if n := value.(int); n <= 0 {
			return fmt.Errorf("%s must be positive, got %d", k, n)
		}
	case key.PlayerPlaybackRates:
		rates := value.([]float64)
		if len(rates) == 0 || lo.SomeBy(rates, func(r float64) bool { return r <= 0 }) {
			return fmt.Errorf("%s must be a non-empty list of positive rates", k)
		}
	case key.PlayerQualityPreference:
		if lo.Contains(value.([]string), "") {
			return fmt.Errorf("%s must not contain empty labels", k)
		}
	case key.IconsVariant:
		if !lo.Contains(icon.AvailableVariants(), value.(string)) {
			return fmt.Errorf("unknown icons variant %q, available: %v", value, icon.AvailableVariants())
		}
	case key.LogsLevel:
		if _, err := logrus.ParseLevel(value.(string)); err != nil {
			return err
		}
	}
	return nil
}
