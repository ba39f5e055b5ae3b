// Package main is the entry point for the anibridge application.
package main

import (
	"github.com/anisan-cli/anibridge/cmd"
	"github.com/anisan-cli/anibridge/config"
	"github.com/anisan-cli/anibridge/internal/cache"
	"github.com/anisan-cli/anibridge/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go cache.Default(config.Viper{}).CollectGarbage()

	cmd.Execute()
}
