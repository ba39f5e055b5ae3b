package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/anisan-cli/anibridge/color"
	"github.com/anisan-cli/anibridge/style"
	"github.com/anisan-cli/anibridge/util"
	"github.com/anisan-cli/anibridge/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// clearTarget defines a filesystem resource eligible for cleanup.
type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	location func() string
}

var clearTargets = []clearTarget{
	{"cache directory", "cache", mo.Some("c"), where.Cache},
	{"listing cache", "listings", mo.Some("l"), where.DataCache},
	{"catalog binds", "binds", mo.Some("b"), where.CatalogBinds},
	{"catalog misses", "misses", mo.Some("m"), where.CatalogMisses},
	{"queries history", "queries", mo.Some("q"), where.Queries},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if target.argShort.IsPresent() {
			clearCmd.Flags().BoolP(target.argLong, target.argShort.MustGet(), false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
}

// clearCmd removes cached application artifacts.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached application artifacts",
	Run: func(cmd *cobra.Command, args []string) {
		var anyCleared bool

		for _, target := range clearTargets {
			if !lo.Must(cmd.Flags().GetBool(target.argLong)) {
				continue
			}

			anyCleared = true
			if err := util.Delete(target.location()); err != nil && !errors.Is(err, fs.ErrNotExist) {
				handleErr(err)
			}
			cmd.Printf("%s %s cleared\n", style.Fg(color.Green)("✔"), util.Capitalize(target.name))
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}
