package cmd

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/anisan-cli/anibridge/color"
	"github.com/anisan-cli/anibridge/inline"
	"github.com/anisan-cli/anibridge/query"
	"github.com/anisan-cli/anibridge/source"
	"github.com/anisan-cli/anibridge/style"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inlineCmd)

	inlineCmd.Flags().StringP("query", "q", "", "The search query to execute")
	inlineCmd.Flags().StringP("anime", "a", "", "Criteria for selecting an anime from the search results")
	inlineCmd.Flags().StringP("exact", "x", "", "Title compared against results by the exact anime selector")
	inlineCmd.Flags().StringP("episodes", "e", "", "Criteria for selecting episodes of the chosen anime")
	inlineCmd.Flags().IntP("limit", "l", 40, "Maximum number of search results")
	inlineCmd.Flags().BoolP("include-sources", "S", false, "Include the source records of every selected episode")
	inlineCmd.Flags().BoolP("resolve", "r", false, "Resolve a playable URL for every selected episode")
	lo.Must0(inlineCmd.MarkFlagRequired("query"))

	_ = inlineCmd.RegisterFlagCompletionFunc("query", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}

// inlineCmd runs the search to resolve pipeline in one go.
var inlineCmd = &cobra.Command{
	Use:   "inline",
	Short: "Search, select episodes and resolve them in one non-interactive run",
	Long: `Search the catalog and expand the selected titles into episodes, sources and playable URLs.

Anime selectors:
  first - first anime in the list
  last - last anime in the list
  exact - anime whose title equals --exact
  [number] - select anime by index (starting from 0)

Episode selectors:
  first - first episode in the list
  last - last episode in the list
  all - all episodes in the list
  [number] - the episode with that number
  [from]-[to] - episodes numbered from..to
  @[substring]@ - episodes whose identifier contains substring

Without an anime selector every search result is listed.`,
	Run: func(cmd *cobra.Command, args []string) {
		animePicker := mo.None[inline.AnimePicker]()
		if selector := lo.Must(cmd.Flags().GetString("anime")); selector != "" {
			fn, err := inline.ParseAnimePicker(selector, lo.Must(cmd.Flags().GetString("exact")))
			handleErr(err)
			animePicker = mo.Some(fn)
		}

		episodesFilter := mo.None[inline.EpisodesFilter]()
		if selector := lo.Must(cmd.Flags().GetString("episodes")); selector != "" {
			fn, err := inline.ParseEpisodesFilter(selector)
			handleErr(err)
			episodesFilter = mo.Some(fn)
		}

		options := &inline.Options{
			Out:            cmd.OutOrStdout(),
			Pretty:         lo.Must(cmd.Flags().GetBool("pretty")),
			Query:          lo.Must(cmd.Flags().GetString("query")),
			Limit:          lo.Must(cmd.Flags().GetInt("limit")),
			AnimePicker:    animePicker,
			EpisodesFilter: episodesFilter,
			Sources:        lo.Must(cmd.Flags().GetBool("include-sources")),
			Resolve:        lo.Must(cmd.Flags().GetBool("resolve")),
		}

		handleErr(inline.Run(cmd.Context(), newCatalog(), newRouter(), options))
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().StringP("type", "t", "inline", "Document to describe: inline, anime, sources or resolved")
	_ = schemaCmd.RegisterFlagCompletionFunc("type", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return lo.Keys(schemaTargets), cobra.ShellCompDirectiveNoFileComp
	})
}

func errUnknownSchema(name string) error {
	return fmt.Errorf("unknown schema %s, expected one of %v", style.Fg(color.Red)(name), lo.Keys(schemaTargets))
}

var schemaTargets = map[string]any{
	"inline":   &inline.Output{},
	"anime":    []*source.Anime{},
	"sources":  []*source.Record{},
	"resolved": &source.Result{},
}

// schemaCmd generates JSON schemas for the documents printed by the other commands.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate JSON schemas for the command outputs",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "anime", "episode", "output", "record", "result":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		target, ok := schemaTargets[lo.Must(cmd.Flags().GetString("type"))]
		if !ok {
			handleErr(errUnknownSchema(lo.Must(cmd.Flags().GetString("type"))))
		}

		printJSON(cmd, reflector.Reflect(target))
	},
}
