package cmd

import (
	"github.com/anisan-cli/anibridge/anilist"
	"github.com/anisan-cli/anibridge/catalog"
	"github.com/anisan-cli/anibridge/config"
	"github.com/anisan-cli/anibridge/internal/cache"
	"github.com/anisan-cli/anibridge/resolve"
)

func newCatalog() *catalog.Client {
	return catalog.New(config.Viper{})
}

func newRouter() *resolve.Router {
	return resolve.New(config.Viper{})
}

func newAggregator() *anilist.Aggregator {
	cfg := config.Viper{}
	return anilist.New(newCatalog(), cache.Default(cfg), cfg)
}
