package config

import (
	"time"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/kinogram/kino/key"
	"github.com/kinogram/kino/log"
	"github.com/kinogram/kino/session"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Session builds the playback session configuration from the current settings.
// Values that do not parse fall back to the session defaults.
func Session() session.Config {
	cfg := session.DefaultConfig()

	if prefs := viper.GetStringSlice(key.PlayerQualityPreference); len(prefs) > 0 {
		cfg.QualityPreference = prefs
	}
	if d := duration(key.PlayerControlsHideDelay); d > 0 {
		cfg.HideDelay = d
	}
	if n := viper.GetInt(key.PlayerReportInterval); n > 0 {
		cfg.ReportInterval = n
	}
	if d := duration(key.PlayerFlushTimeout); d > 0 {
		cfg.FlushTimeout = d
	}

	var rates []float64
	if err := viper.UnmarshalKey(key.PlayerPlaybackRates, &rates); err != nil {
		log.Warnf("config: %s: %v", key.PlayerPlaybackRates, err)
	} else if len(rates) > 0 {
		cfg.PlaybackRates = rates
	}

	cfg.Autoplay = viper.GetBool(key.PlayerAutoplay)
	cfg.DefaultVolume = viper.GetFloat64(key.PlayerDefaultVolume)

	return cfg
}

// Duration reads a duration setting such as "10s". Zero means unset or invalid.
func Duration(k string) time.Duration {
	return duration(k)
}

func duration(k string) time.Duration {
	d, err := time.ParseDuration(viper.GetString(k))
	if err != nil {
		log.Warnf("config: %s: %v", k, err)
		return 0
	}
	return d
}

// Closest returns the registered key nearest to k by edit distance.
func Closest(k string) string {
	return lo.MinBy(lo.Keys(Default), func(a string, b string) bool {
		return levenshtein.Distance(k, a) < levenshtein.Distance(k, b)
	})
}
