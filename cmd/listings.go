package cmd

import (
	"github.com/anisan-cli/anibridge/anilist"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(trendingCmd)
	trendingCmd.Flags().IntP("limit", "l", 20, "Maximum number of titles")
	trendingCmd.Flags().StringP("period", "P", "week", "Trending period: day, week, month or all_time")
	_ = trendingCmd.RegisterFlagCompletionFunc("period", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"day", "week", "month", "all_time"}, cobra.ShellCompDirectiveNoFileComp
	})
}

// trendingCmd lists trending titles.
var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "List trending titles cross-referenced with the catalog",
	Run: func(cmd *cobra.Command, args []string) {
		printJSON(cmd, newAggregator().Trending(
			cmd.Context(),
			lo.Must(cmd.Flags().GetInt("limit")),
			lo.Must(cmd.Flags().GetString("period")),
		))
	},
}

func init() {
	rootCmd.AddCommand(seasonalCmd)
	seasonalCmd.Flags().IntP("year", "y", 0, "Season year, the current year when unset")
	seasonalCmd.Flags().StringP("season", "s", "", "WINTER, SPRING, SUMMER or FALL, the current season when unset")
	_ = seasonalCmd.RegisterFlagCompletionFunc("season", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return anilist.Seasons, cobra.ShellCompDirectiveNoFileComp
	})
}

// seasonalCmd lists the titles of one season.
var seasonalCmd = &cobra.Command{
	Use:   "seasonal",
	Short: "List the most popular titles of a season",
	Run: func(cmd *cobra.Command, args []string) {
		printJSON(cmd, newAggregator().Seasonal(
			cmd.Context(),
			lo.Must(cmd.Flags().GetInt("year")),
			lo.Must(cmd.Flags().GetString("season")),
		))
	},
}

func init() {
	rootCmd.AddCommand(topCmd)
	topCmd.Flags().IntP("limit", "l", 50, "Maximum number of titles")
}

// topCmd lists the highest rated titles.
var topCmd = &cobra.Command{
	Use:   "top",
	Short: "List the highest rated titles",
	Run: func(cmd *cobra.Command, args []string) {
		printJSON(cmd, newAggregator().TopRated(cmd.Context(), lo.Must(cmd.Flags().GetInt("limit"))))
	},
}

func init() {
	rootCmd.AddCommand(recentCmd)
	recentCmd.Flags().IntP("limit", "l", 20, "Maximum number of titles")
}

// recentCmd lists currently airing titles.
var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List currently releasing titles with their next episode",
	Run: func(cmd *cobra.Command, args []string) {
		printJSON(cmd, newAggregator().Recent(cmd.Context(), lo.Must(cmd.Flags().GetInt("limit"))))
	},
}
