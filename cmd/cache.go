package cmd

import (
	"github.com/anisan-cli/anibridge/color"
	"github.com/anisan-cli/anibridge/config"
	"github.com/anisan-cli/anibridge/internal/cache"
	"github.com/anisan-cli/anibridge/style"
	"github.com/anisan-cli/anibridge/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd, cacheSizeCmd)
}

// cacheCmd groups the listing cache commands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clear the listing cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached listing",
	Run: func(cmd *cobra.Command, args []string) {
		removed, err := cache.Default(config.Viper{}).Clear()
		handleErr(err)

		cmd.Printf("%s removed %s\n", style.Fg(color.Green)("✔"), util.Quantify(removed, "entry", "entries"))
	},
}

var cacheSizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Report the size of the listing cache",
	Run: func(cmd *cobra.Command, args []string) {
		size, err := cache.Default(config.Viper{}).Size()
		handleErr(err)
		cmd.Println(util.HumanSize(size))
	},
}
