package cmd

import (
	"strings"

	"github.com/anisan-cli/anibridge/query"
	"github.com/anisan-cli/anibridge/source"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntP("limit", "l", 40, "Maximum number of results")
}

// searchCmd searches the catalog by title.
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the catalog by title",
	Args:  cobra.MinimumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		q := strings.Join(args, " ")
		animes := newCatalog().Search(cmd.Context(), q, lo.Must(cmd.Flags().GetInt("limit")))

		_ = query.Remember(q, lo.Map(animes, func(a *source.Anime, _ int) string { return a.Title })...)
		printJSON(cmd, animes)
	},
}
