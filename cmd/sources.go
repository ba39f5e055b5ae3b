package cmd

import (
	"github.com/anisan-cli/anibridge/resolve"
	"github.com/anisan-cli/anibridge/source"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
	sourcesCmd.Flags().BoolP("resolve", "r", false, "Resolve the first playable source instead of listing them")
}

// sourcesCmd lists or resolves the sources of one episode.
var sourcesCmd = &cobra.Command{
	Use:   "sources [anime id] [episode]",
	Short: "List the sources of an episode",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		records := newCatalog().Sources(cmd.Context(), args[0], args[1])

		if !lo.Must(cmd.Flags().GetBool("resolve")) {
			printJSON(cmd, lo.Ternary(records != nil, records, []*source.Record{}))
			return
		}

		printJSON(cmd, resolve.Response(newRouter().ResolveFirst(cmd.Context(), records)))
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

// resolveCmd resolves a single source URL.
var resolveCmd = &cobra.Command{
	Use:   "resolve [url]",
	Short: "Resolve a source URL, obfuscated or not, into a playable URL",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		printJSON(cmd, resolve.Response(newRouter().Resolve(cmd.Context(), args[0])))
	},
}
