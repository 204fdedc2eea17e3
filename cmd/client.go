package cmd

import (
	"path/filepath"

	"github.com/kinogram/kino/api"
	"github.com/kinogram/kino/auth"
	"github.com/kinogram/kino/config"
	"github.com/kinogram/kino/internal/cache"
	"github.com/kinogram/kino/key"
	"github.com/kinogram/kino/log"
	"github.com/kinogram/kino/source"
	"github.com/kinogram/kino/where"
	"github.com/spf13/viper"
)

// newClient builds the backend client from the current settings.
func newClient() (*api.Client, error) {
	opts := api.Options{
		BaseURL:  viper.GetString(key.APIBaseURL),
		InitData: auth.InitData(),
		Timeout:  config.Duration(key.APITimeout),
	}

	if ttl := config.Duration(key.CacheMetadataTTL); ttl > 0 {
		movies := cache.New[string, source.Movie](filepath.Join(where.Metadata(), "movies.json"), ttl)
		go func() {
			if n, err := movies.Prune(); err != nil {
				log.Warnf("cache: prune metadata: %v", err)
			} else if n > 0 {
				log.Debugf("cache: pruned %d metadata entries", n)
			}
		}()
		opts.Cache = movies
	}

	return api.New(opts)
}
