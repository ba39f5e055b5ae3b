package cmd

import (
	"github.com/anisan-cli/anibridge/inline"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(episodesCmd)
	episodesCmd.Flags().StringP("filter", "f", "", "Episode selector: first, last, all, [number], [from]-[to] or @[substring]@")
}

// episodesCmd lists the episodes of a catalog show.
var episodesCmd = &cobra.Command{
	Use:   "episodes [anime id]",
	Short: "List the episodes of a catalog show in playback order",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		episodes := newCatalog().Episodes(cmd.Context(), args[0])

		if description := lo.Must(cmd.Flags().GetString("filter")); description != "" {
			filter, err := inline.ParseEpisodesFilter(description)
			handleErr(err)
			episodes = filter(episodes)
		}

		printJSON(cmd, episodes)
	},
}
